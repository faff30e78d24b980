package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"storefront/internal/domain"

	"github.com/google/uuid"
)

var (
	ErrCartNotFound     = errors.New("cart not found")
	ErrCartItemNotFound = errors.New("cart item not found")
)

// CartRepository defines the interface for cart data access
type CartRepository interface {
	FindBySession(ctx context.Context, sessionID string) (*domain.Cart, error)
	AddItem(ctx context.Context, sessionID string, productID uuid.UUID, quantity int) error
	UpdateItemQuantity(ctx context.Context, itemID uuid.UUID, quantity int) error
	RemoveItem(ctx context.Context, itemID uuid.UUID) error
	DeleteBySession(ctx context.Context, sessionID string) error
}

type cartRepository struct {
	db *sql.DB
}

// NewCartRepository creates a new instance of CartRepository
func NewCartRepository(db *sql.DB) CartRepository {
	return &cartRepository{db: db}
}

// FindBySession retrieves the cart and its items for a session. Returns
// ErrCartNotFound when no cart exists yet.
func (r *cartRepository) FindBySession(ctx context.Context, sessionID string) (*domain.Cart, error) {
	query := `
		SELECT id, session_id, created_at, updated_at
		FROM carts
		WHERE session_id = $1
	`

	cart := &domain.Cart{}
	err := r.db.QueryRowContext(ctx, query, sessionID).Scan(
		&cart.ID,
		&cart.SessionID,
		&cart.CreatedAt,
		&cart.UpdatedAt,
	)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrCartNotFound
		}
		return nil, fmt.Errorf("failed to find cart by session: %w", err)
	}

	itemsQuery := `
		SELECT ci.id, ci.cart_id, ci.product_id, ci.quantity,
			p.name, p.price,
			COALESCE((SELECT image_url FROM product_images
				WHERE product_id = p.id ORDER BY is_primary DESC, display_order ASC LIMIT 1), '')
		FROM cart_items ci
		JOIN products p ON p.id = ci.product_id
		WHERE ci.cart_id = $1
		ORDER BY ci.id
	`

	rows, err := r.db.QueryContext(ctx, itemsQuery, cart.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load cart items: %w", err)
	}
	defer rows.Close()

	cart.Items = []domain.CartItem{}
	for rows.Next() {
		item := domain.CartItem{}
		err := rows.Scan(
			&item.ID,
			&item.CartID,
			&item.ProductID,
			&item.Quantity,
			&item.ProductName,
			&item.ProductPrice,
			&item.ProductImage,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan cart item: %w", err)
		}
		cart.Items = append(cart.Items, item)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating cart items: %w", err)
	}

	return cart, nil
}

// AddItem lazily creates the cart for the session and upserts the item in
// one transaction. Adding a product already in the cart increments its
// quantity atomically rather than inserting a second row.
func (r *cartRepository) AddItem(ctx context.Context, sessionID string, productID uuid.UUID, quantity int) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	now := time.Now()

	var cartID uuid.UUID
	err = tx.QueryRowContext(ctx, `
		INSERT INTO carts (id, session_id, created_at, updated_at)
		VALUES ($1, $2, $3, $3)
		ON CONFLICT (session_id) DO UPDATE SET updated_at = EXCLUDED.updated_at
		RETURNING id
	`, uuid.New(), sessionID, now).Scan(&cartID)
	if err != nil {
		return fmt.Errorf("failed to upsert cart: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO cart_items (id, cart_id, product_id, quantity)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (cart_id, product_id)
		DO UPDATE SET quantity = cart_items.quantity + EXCLUDED.quantity
	`, uuid.New(), cartID, productID, quantity)
	if err != nil {
		if isForeignKeyViolation(err) {
			return ErrProductNotFound
		}
		return fmt.Errorf("failed to upsert cart item: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit cart add: %w", err)
	}

	return nil
}

// UpdateItemQuantity sets the quantity of an existing cart item.
func (r *cartRepository) UpdateItemQuantity(ctx context.Context, itemID uuid.UUID, quantity int) error {
	query := `UPDATE cart_items SET quantity = $2 WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, itemID, quantity)
	if err != nil {
		return fmt.Errorf("failed to update cart item: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrCartItemNotFound
	}

	return nil
}

// RemoveItem deletes a cart item by ID.
func (r *cartRepository) RemoveItem(ctx context.Context, itemID uuid.UUID) error {
	query := `DELETE FROM cart_items WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, itemID)
	if err != nil {
		return fmt.Errorf("failed to remove cart item: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrCartItemNotFound
	}

	return nil
}

// DeleteBySession removes the cart and all its items. Missing cart is not
// an error; clearing an absent cart is a no-op.
func (r *cartRepository) DeleteBySession(ctx context.Context, sessionID string) error {
	query := `DELETE FROM carts WHERE session_id = $1`

	if _, err := r.db.ExecContext(ctx, query, sessionID); err != nil {
		return fmt.Errorf("failed to delete cart: %w", err)
	}

	return nil
}
