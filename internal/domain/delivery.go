package domain

import (
	"time"

	"github.com/google/uuid"
)

// DeliveryLocation is a named shipping zone with a fixed shipping price.
type DeliveryLocation struct {
	ID            uuid.UUID `json:"id" db:"id"`
	Name          string    `json:"name" db:"name"`
	Slug          string    `json:"slug" db:"slug"`
	City          string    `json:"city" db:"city"`
	ShippingPrice float64   `json:"shipping_price" db:"shipping_price"`
	IsActive      bool      `json:"is_active" db:"is_active"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time `json:"updated_at" db:"updated_at"`
}
