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
	ErrOrderNotFound     = errors.New("order not found")
	ErrInsufficientStock = errors.New("insufficient stock for product")
	ErrOrderNumberTaken  = errors.New("order number already exists")
)

// OrderRepository defines the interface for order data access
type OrderRepository interface {
	Create(ctx context.Context, order *domain.Order) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Order, error)
	List(ctx context.Context, status *domain.OrderStatus, page, pageSize int) ([]*domain.Order, int, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status domain.OrderStatus) error
	UpdatePaymentStatus(ctx context.Context, id uuid.UUID, status domain.PaymentStatus) error
}

type orderRepository struct {
	db *sql.DB
}

// NewOrderRepository creates a new instance of OrderRepository
func NewOrderRepository(db *sql.DB) OrderRepository {
	return &orderRepository{db: db}
}

const orderColumns = `id, order_number, customer_name, customer_email, customer_phone,
	address_line, city, notes, delivery_location_id, subtotal, shipping_cost,
	total_amount, status, payment_status, payment_method, created_at, updated_at`

// Create persists the order, its items and the stock decrements in a single
// transaction; any failure rolls the whole operation back.
func (r *orderRepository) Create(ctx context.Context, order *domain.Order) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO orders (id, order_number, customer_name, customer_email, customer_phone,
			address_line, city, notes, delivery_location_id, subtotal, shipping_cost,
			total_amount, status, payment_status, payment_method, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
	`

	_, err = tx.ExecContext(
		ctx,
		query,
		order.ID,
		order.OrderNumber,
		order.CustomerName,
		order.CustomerEmail,
		order.CustomerPhone,
		order.AddressLine,
		order.City,
		order.Notes,
		order.DeliveryLocationID,
		order.Subtotal,
		order.ShippingCost,
		order.TotalAmount,
		order.Status,
		order.PaymentStatus,
		order.PaymentMethod,
		order.CreatedAt,
		order.UpdatedAt,
	)

	if err != nil {
		if isUniqueViolation(err) {
			return ErrOrderNumberTaken
		}
		if isForeignKeyViolation(err) {
			return ErrDeliveryLocationNotFound
		}
		return fmt.Errorf("failed to create order: %w", err)
	}

	for i := range order.Items {
		item := &order.Items[i]
		if item.ID == uuid.Nil {
			item.ID = uuid.New()
		}
		item.OrderID = order.ID

		_, err = tx.ExecContext(ctx, `
			INSERT INTO order_items (id, order_id, product_id, product_name, quantity, unit_price)
			VALUES ($1, $2, $3, $4, $5, $6)
		`, item.ID, item.OrderID, item.ProductID, item.ProductName, item.Quantity, item.UnitPrice)
		if err != nil {
			if isForeignKeyViolation(err) {
				return ErrProductNotFound
			}
			return fmt.Errorf("failed to create order item: %w", err)
		}

		// The stock CHECK constraint turns an oversell into a check
		// violation, which rolls the whole order back.
		result, err := tx.ExecContext(ctx, `
			UPDATE products SET stock = stock - $2 WHERE id = $1
		`, item.ProductID, item.Quantity)
		if err != nil {
			if isCheckViolation(err) {
				return ErrInsufficientStock
			}
			return fmt.Errorf("failed to decrement stock: %w", err)
		}

		rowsAffected, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to get rows affected: %w", err)
		}
		if rowsAffected == 0 {
			return ErrProductNotFound
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit order create: %w", err)
	}

	return nil
}

// FindByID retrieves an order with its items.
func (r *orderRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	query := fmt.Sprintf(`SELECT %s FROM orders WHERE id = $1`, orderColumns)

	order := &domain.Order{}
	err := scanOrder(r.db.QueryRowContext(ctx, query, id), order)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to find order by ID: %w", err)
	}

	itemsQuery := `
		SELECT id, order_id, product_id, product_name, quantity, unit_price
		FROM order_items
		WHERE order_id = $1
	`

	rows, err := r.db.QueryContext(ctx, itemsQuery, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load order items: %w", err)
	}
	defer rows.Close()

	order.Items = []domain.OrderItem{}
	for rows.Next() {
		item := domain.OrderItem{}
		err := rows.Scan(&item.ID, &item.OrderID, &item.ProductID, &item.ProductName, &item.Quantity, &item.UnitPrice)
		if err != nil {
			return nil, fmt.Errorf("failed to scan order item: %w", err)
		}
		order.Items = append(order.Items, item)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating order items: %w", err)
	}

	return order, nil
}

// List retrieves orders newest first, optionally filtered by status.
func (r *orderRepository) List(ctx context.Context, status *domain.OrderStatus, page, pageSize int) ([]*domain.Order, int, error) {
	whereClause := ""
	args := []interface{}{}
	argIndex := 1

	if status != nil {
		whereClause = fmt.Sprintf("WHERE status = $%d", argIndex)
		args = append(args, *status)
		argIndex++
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM orders %s", whereClause)
	var total int
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count orders: %w", err)
	}

	offset := (page - 1) * pageSize

	query := fmt.Sprintf(`
		SELECT %s
		FROM orders
		%s
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d
	`, orderColumns, whereClause, argIndex, argIndex+1)

	args = append(args, pageSize, offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list orders: %w", err)
	}
	defer rows.Close()

	orders := []*domain.Order{}
	for rows.Next() {
		order := &domain.Order{}
		if err := scanOrder(rows, order); err != nil {
			return nil, 0, fmt.Errorf("failed to scan order: %w", err)
		}
		orders = append(orders, order)
	}

	if err = rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating orders: %w", err)
	}

	return orders, total, nil
}

// UpdateStatus sets the fulfillment status on an order.
func (r *orderRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.OrderStatus) error {
	return r.updateStatusColumn(ctx, id, "status", string(status))
}

// UpdatePaymentStatus sets the payment status on an order.
func (r *orderRepository) UpdatePaymentStatus(ctx context.Context, id uuid.UUID, status domain.PaymentStatus) error {
	return r.updateStatusColumn(ctx, id, "payment_status", string(status))
}

func (r *orderRepository) updateStatusColumn(ctx context.Context, id uuid.UUID, column, value string) error {
	query := fmt.Sprintf(`UPDATE orders SET %s = $2 WHERE id = $1`, column)

	result, err := r.db.ExecContext(ctx, query, id, value)
	if err != nil {
		return fmt.Errorf("failed to update order %s: %w", column, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrOrderNotFound
	}

	return nil
}

func scanOrder(row rowScanner, order *domain.Order) error {
	return row.Scan(
		&order.ID,
		&order.OrderNumber,
		&order.CustomerName,
		&order.CustomerEmail,
		&order.CustomerPhone,
		&order.AddressLine,
		&order.City,
		&order.Notes,
		&order.DeliveryLocationID,
		&order.Subtotal,
		&order.ShippingCost,
		&order.TotalAmount,
		&order.Status,
		&order.PaymentStatus,
		&order.PaymentMethod,
		&order.CreatedAt,
		&order.UpdatedAt,
	)
}
