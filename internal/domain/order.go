package domain

import (
	"time"

	"github.com/google/uuid"
)

// OrderStatus is the fulfillment state of an order.
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

// ValidOrderStatus reports whether s is one of the allowed order statuses.
func ValidOrderStatus(s OrderStatus) bool {
	switch s {
	case OrderStatusPending, OrderStatusProcessing, OrderStatusShipped,
		OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

// PaymentStatus tracks payment independently of fulfillment.
type PaymentStatus string

const (
	PaymentStatusPending  PaymentStatus = "pending"
	PaymentStatusPaid     PaymentStatus = "paid"
	PaymentStatusFailed   PaymentStatus = "failed"
	PaymentStatusRefunded PaymentStatus = "refunded"
)

// ValidPaymentStatus reports whether s is one of the allowed payment statuses.
func ValidPaymentStatus(s PaymentStatus) bool {
	switch s {
	case PaymentStatusPending, PaymentStatusPaid, PaymentStatusFailed,
		PaymentStatusRefunded:
		return true
	}
	return false
}

// Order is the immutable record of a completed checkout. TotalAmount is
// computed once at creation from the item snapshots plus shipping.
type Order struct {
	ID                 uuid.UUID     `json:"id" db:"id"`
	OrderNumber        string        `json:"order_number" db:"order_number"`
	CustomerName       string        `json:"customer_name" db:"customer_name"`
	CustomerEmail      string        `json:"customer_email" db:"customer_email"`
	CustomerPhone      string        `json:"customer_phone" db:"customer_phone"`
	AddressLine        string        `json:"address_line" db:"address_line"`
	City               string        `json:"city" db:"city"`
	Notes              string        `json:"notes" db:"notes"`
	DeliveryLocationID uuid.UUID     `json:"delivery_location_id" db:"delivery_location_id"`
	Subtotal           float64       `json:"subtotal" db:"subtotal"`
	ShippingCost       float64       `json:"shipping_cost" db:"shipping_cost"`
	TotalAmount        float64       `json:"total_amount" db:"total_amount"`
	Status             OrderStatus   `json:"status" db:"status"`
	PaymentStatus      PaymentStatus `json:"payment_status" db:"payment_status"`
	PaymentMethod      string        `json:"payment_method" db:"payment_method"`
	CreatedAt          time.Time     `json:"created_at" db:"created_at"`
	UpdatedAt          time.Time     `json:"updated_at" db:"updated_at"`

	Items []OrderItem `json:"items"`
}

// OrderItem is one line of an order. UnitPrice and ProductName are
// point-in-time copies taken at checkout, never re-read from the catalog.
type OrderItem struct {
	ID          uuid.UUID `json:"id" db:"id"`
	OrderID     uuid.UUID `json:"order_id" db:"order_id"`
	ProductID   uuid.UUID `json:"product_id" db:"product_id"`
	ProductName string    `json:"product_name" db:"product_name"`
	Quantity    int       `json:"quantity" db:"quantity"`
	UnitPrice   float64   `json:"unit_price" db:"unit_price"`
}
