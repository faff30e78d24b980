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
	ErrReviewNotFound = errors.New("review not found")
)

// ReviewRepository defines the interface for review data access
type ReviewRepository interface {
	Create(ctx context.Context, review *domain.Review) error
	Update(ctx context.Context, review *domain.Review) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Review, error)
	ListByProduct(ctx context.Context, productID uuid.UUID, page, pageSize int, sortBy string, sortOrder SortOrder) ([]*domain.Review, int, error)
}

type reviewRepository struct {
	db *sql.DB
}

// NewReviewRepository creates a new instance of ReviewRepository
func NewReviewRepository(db *sql.DB) ReviewRepository {
	return &reviewRepository{db: db}
}

// Create inserts a review and refreshes the product's cached rating and
// review count in the same transaction.
func (r *reviewRepository) Create(ctx context.Context, review *domain.Review) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO reviews (id, product_id, user_name, title, comment, rating, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err = tx.ExecContext(
		ctx,
		query,
		review.ID,
		review.ProductID,
		review.UserName,
		review.Title,
		review.Comment,
		review.Rating,
		review.CreatedAt,
	)

	if err != nil {
		if isForeignKeyViolation(err) {
			return ErrProductNotFound
		}
		return fmt.Errorf("failed to create review: %w", err)
	}

	if err := refreshProductRating(ctx, tx, review.ProductID); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit review create: %w", err)
	}

	return nil
}

// Update rewrites a review and refreshes the product aggregate.
func (r *reviewRepository) Update(ctx context.Context, review *domain.Review) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		UPDATE reviews
		SET user_name = $2, title = $3, comment = $4, rating = $5
		WHERE id = $1
	`

	result, err := tx.ExecContext(ctx, query, review.ID, review.UserName, review.Title, review.Comment, review.Rating)
	if err != nil {
		return fmt.Errorf("failed to update review: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrReviewNotFound
	}

	if err := refreshProductRating(ctx, tx, review.ProductID); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit review update: %w", err)
	}

	return nil
}

// Delete removes a review and refreshes the product aggregate.
func (r *reviewRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var productID uuid.UUID
	err = tx.QueryRowContext(ctx, `DELETE FROM reviews WHERE id = $1 RETURNING product_id`, id).Scan(&productID)
	if err != nil {
		if err == sql.ErrNoRows {
			return ErrReviewNotFound
		}
		return fmt.Errorf("failed to delete review: %w", err)
	}

	if err := refreshProductRating(ctx, tx, productID); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit review delete: %w", err)
	}

	return nil
}

// FindByID retrieves a review by ID
func (r *reviewRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Review, error) {
	query := `
		SELECT id, product_id, user_name, title, comment, rating, created_at
		FROM reviews
		WHERE id = $1
	`

	review := &domain.Review{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&review.ID,
		&review.ProductID,
		&review.UserName,
		&review.Title,
		&review.Comment,
		&review.Rating,
		&review.CreatedAt,
	)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrReviewNotFound
		}
		return nil, fmt.Errorf("failed to find review by ID: %w", err)
	}

	return review, nil
}

// ListByProduct retrieves reviews for a product with pagination and sorting.
func (r *reviewRepository) ListByProduct(ctx context.Context, productID uuid.UUID, page, pageSize int, sortBy string, sortOrder SortOrder) ([]*domain.Review, int, error) {
	// Validate sort field to prevent SQL injection
	validSortFields := map[string]string{
		"date":   "created_at",
		"rating": "rating",
		"user":   "user_name",
	}

	column, ok := validSortFields[sortBy]
	if !ok {
		column = "created_at"
	}

	if sortOrder != SortOrderAsc && sortOrder != SortOrderDesc {
		sortOrder = SortOrderDesc
	}

	countQuery := `SELECT COUNT(*) FROM reviews WHERE product_id = $1`
	var total int
	if err := r.db.QueryRowContext(ctx, countQuery, productID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count reviews: %w", err)
	}

	offset := (page - 1) * pageSize

	query := fmt.Sprintf(`
		SELECT id, product_id, user_name, title, comment, rating, created_at
		FROM reviews
		WHERE product_id = $1
		ORDER BY %s %s
		LIMIT $2 OFFSET $3
	`, column, sortOrder)

	rows, err := r.db.QueryContext(ctx, query, productID, pageSize, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list reviews: %w", err)
	}
	defer rows.Close()

	reviews := []*domain.Review{}
	for rows.Next() {
		review := &domain.Review{}
		err := rows.Scan(
			&review.ID,
			&review.ProductID,
			&review.UserName,
			&review.Title,
			&review.Comment,
			&review.Rating,
			&review.CreatedAt,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan review: %w", err)
		}
		reviews = append(reviews, review)
	}

	if err = rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating reviews: %w", err)
	}

	return reviews, total, nil
}

// refreshProductRating recomputes the cached rating and review_count on the
// product row from the current review set.
func refreshProductRating(ctx context.Context, tx *sql.Tx, productID uuid.UUID) error {
	query := `
		UPDATE products
		SET rating = COALESCE((SELECT ROUND(AVG(rating)::numeric, 2) FROM reviews WHERE product_id = $1), 0),
			review_count = (SELECT COUNT(*) FROM reviews WHERE product_id = $1)
		WHERE id = $1
	`

	if _, err := tx.ExecContext(ctx, query, productID); err != nil {
		return fmt.Errorf("failed to refresh product rating: %w", err)
	}

	return nil
}
