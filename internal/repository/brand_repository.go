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
	ErrBrandNotFound      = errors.New("brand not found")
	ErrBrandAlreadyExists = errors.New("brand with this slug already exists")
	ErrBrandInUse         = errors.New("brand has products and cannot be deleted")
)

// BrandRepository defines the interface for brand data access
type BrandRepository interface {
	Create(ctx context.Context, brand *domain.Brand) error
	Update(ctx context.Context, brand *domain.Brand) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Brand, error)
	FindBySlug(ctx context.Context, slug string) (*domain.Brand, error)
	List(ctx context.Context) ([]*domain.Brand, error)
}

type brandRepository struct {
	db *sql.DB
}

// NewBrandRepository creates a new instance of BrandRepository
func NewBrandRepository(db *sql.DB) BrandRepository {
	return &brandRepository{db: db}
}

func (r *brandRepository) Create(ctx context.Context, brand *domain.Brand) error {
	query := `
		INSERT INTO brands (id, name, slug, description, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.db.ExecContext(
		ctx,
		query,
		brand.ID,
		brand.Name,
		brand.Slug,
		brand.Description,
		brand.CreatedAt,
		brand.UpdatedAt,
	)

	if err != nil {
		if isUniqueViolation(err) {
			return ErrBrandAlreadyExists
		}
		return fmt.Errorf("failed to create brand: %w", err)
	}

	return nil
}

func (r *brandRepository) Update(ctx context.Context, brand *domain.Brand) error {
	query := `
		UPDATE brands
		SET name = $2, slug = $3, description = $4
		WHERE id = $1
	`

	result, err := r.db.ExecContext(ctx, query, brand.ID, brand.Name, brand.Slug, brand.Description)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrBrandAlreadyExists
		}
		return fmt.Errorf("failed to update brand: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrBrandNotFound
	}

	return nil
}

// Delete removes a brand. Deletion is blocked while products reference it.
func (r *brandRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM brands WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return ErrBrandInUse
		}
		return fmt.Errorf("failed to delete brand: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrBrandNotFound
	}

	return nil
}

func (r *brandRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Brand, error) {
	query := `
		SELECT id, name, slug, description, created_at, updated_at
		FROM brands
		WHERE id = $1
	`

	return r.scanOne(r.db.QueryRowContext(ctx, query, id))
}

func (r *brandRepository) FindBySlug(ctx context.Context, slug string) (*domain.Brand, error) {
	query := `
		SELECT id, name, slug, description, created_at, updated_at
		FROM brands
		WHERE slug = $1
	`

	return r.scanOne(r.db.QueryRowContext(ctx, query, slug))
}

func (r *brandRepository) List(ctx context.Context) ([]*domain.Brand, error) {
	query := `
		SELECT id, name, slug, description, created_at, updated_at
		FROM brands
		ORDER BY name ASC
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list brands: %w", err)
	}
	defer rows.Close()

	brands := []*domain.Brand{}
	for rows.Next() {
		brand := &domain.Brand{}
		err := rows.Scan(
			&brand.ID,
			&brand.Name,
			&brand.Slug,
			&brand.Description,
			&brand.CreatedAt,
			&brand.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan brand: %w", err)
		}
		brands = append(brands, brand)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating brands: %w", err)
	}

	return brands, nil
}

func (r *brandRepository) scanOne(row *sql.Row) (*domain.Brand, error) {
	brand := &domain.Brand{}
	err := row.Scan(
		&brand.ID,
		&brand.Name,
		&brand.Slug,
		&brand.Description,
		&brand.CreatedAt,
		&brand.UpdatedAt,
	)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrBrandNotFound
		}
		return nil, fmt.Errorf("failed to find brand: %w", err)
	}

	return brand, nil
}
