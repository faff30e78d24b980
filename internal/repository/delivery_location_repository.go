package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"storefront/internal/domain"

	"github.com/google/uuid"
)

var (
	ErrDeliveryLocationNotFound      = errors.New("delivery location not found")
	ErrDeliveryLocationAlreadyExists = errors.New("delivery location with this slug already exists")
	ErrDeliveryLocationInUse         = errors.New("delivery location has orders and cannot be deleted")
)

// DeliveryLocationRepository defines the interface for delivery location data access
type DeliveryLocationRepository interface {
	Create(ctx context.Context, loc *domain.DeliveryLocation) error
	Update(ctx context.Context, loc *domain.DeliveryLocation) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.DeliveryLocation, error)
	List(ctx context.Context, activeOnly bool) ([]*domain.DeliveryLocation, error)
}

type deliveryLocationRepository struct {
	db *sql.DB
}

// NewDeliveryLocationRepository creates a new instance of DeliveryLocationRepository
func NewDeliveryLocationRepository(db *sql.DB) DeliveryLocationRepository {
	return &deliveryLocationRepository{db: db}
}

func (r *deliveryLocationRepository) Create(ctx context.Context, loc *domain.DeliveryLocation) error {
	query := `
		INSERT INTO delivery_locations (id, name, slug, city, shipping_price, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.db.ExecContext(
		ctx,
		query,
		loc.ID,
		loc.Name,
		loc.Slug,
		loc.City,
		loc.ShippingPrice,
		loc.IsActive,
		loc.CreatedAt,
		loc.UpdatedAt,
	)

	if err != nil {
		if isUniqueViolation(err) {
			return ErrDeliveryLocationAlreadyExists
		}
		return fmt.Errorf("failed to create delivery location: %w", err)
	}

	return nil
}

func (r *deliveryLocationRepository) Update(ctx context.Context, loc *domain.DeliveryLocation) error {
	query := `
		UPDATE delivery_locations
		SET name = $2, slug = $3, city = $4, shipping_price = $5, is_active = $6
		WHERE id = $1
	`

	result, err := r.db.ExecContext(ctx, query, loc.ID, loc.Name, loc.Slug, loc.City, loc.ShippingPrice, loc.IsActive)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDeliveryLocationAlreadyExists
		}
		return fmt.Errorf("failed to update delivery location: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrDeliveryLocationNotFound
	}

	return nil
}

// Delete removes a delivery location. Deletion is blocked while orders
// reference it.
func (r *deliveryLocationRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM delivery_locations WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return ErrDeliveryLocationInUse
		}
		return fmt.Errorf("failed to delete delivery location: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrDeliveryLocationNotFound
	}

	return nil
}

func (r *deliveryLocationRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.DeliveryLocation, error) {
	query := `
		SELECT id, name, slug, city, shipping_price, is_active, created_at, updated_at
		FROM delivery_locations
		WHERE id = $1
	`

	loc := &domain.DeliveryLocation{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&loc.ID,
		&loc.Name,
		&loc.Slug,
		&loc.City,
		&loc.ShippingPrice,
		&loc.IsActive,
		&loc.CreatedAt,
		&loc.UpdatedAt,
	)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrDeliveryLocationNotFound
		}
		return nil, fmt.Errorf("failed to find delivery location by ID: %w", err)
	}

	return loc, nil
}

func (r *deliveryLocationRepository) List(ctx context.Context, activeOnly bool) ([]*domain.DeliveryLocation, error) {
	query := `
		SELECT id, name, slug, city, shipping_price, is_active, created_at, updated_at
		FROM delivery_locations
	`
	if activeOnly {
		query += ` WHERE is_active = TRUE`
	}
	query += ` ORDER BY name ASC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list delivery locations: %w", err)
	}
	defer rows.Close()

	locations := []*domain.DeliveryLocation{}
	for rows.Next() {
		loc := &domain.DeliveryLocation{}
		err := rows.Scan(
			&loc.ID,
			&loc.Name,
			&loc.Slug,
			&loc.City,
			&loc.ShippingPrice,
			&loc.IsActive,
			&loc.CreatedAt,
			&loc.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan delivery location: %w", err)
		}
		locations = append(locations, loc)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating delivery locations: %w", err)
	}

	return locations, nil
}
