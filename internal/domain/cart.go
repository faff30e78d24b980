package domain

import (
	"time"

	"github.com/google/uuid"
)

// Cart aggregates pending purchase lines for one client session.
// SessionID is an opaque client-supplied token; one cart exists per session.
type Cart struct {
	ID        uuid.UUID `json:"id" db:"id"`
	SessionID string    `json:"session_id" db:"session_id"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`

	Items []CartItem `json:"items"`
}

// CartItem is one product line in a cart. The (cart, product) pair is
// unique; adding the same product again increments the quantity.
type CartItem struct {
	ID        uuid.UUID `json:"id" db:"id"`
	CartID    uuid.UUID `json:"cart_id" db:"cart_id"`
	ProductID uuid.UUID `json:"product_id" db:"product_id"`
	Quantity  int       `json:"quantity" db:"quantity"`

	// Denormalized product fields loaded alongside the item.
	ProductName  string  `json:"product_name" db:"product_name"`
	ProductPrice float64 `json:"product_price" db:"product_price"`
	ProductImage string  `json:"product_image" db:"product_image"`
}

// Subtotal returns the sum of item price times quantity.
func (c *Cart) Subtotal() float64 {
	var total float64
	for _, item := range c.Items {
		total += item.ProductPrice * float64(item.Quantity)
	}
	return total
}
