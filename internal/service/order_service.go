package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"storefront/internal/domain"
	"storefront/internal/repository"

	"github.com/google/uuid"
)

var (
	ErrEmptyOrder               = errors.New("order must contain at least one item")
	ErrInvalidOrderStatus       = errors.New("invalid order status")
	ErrInvalidPaymentStatus     = errors.New("invalid payment status")
	ErrDeliveryLocationInactive = errors.New("delivery location is not active")
)

// OrderLine is one requested line at checkout.
type OrderLine struct {
	ProductID uuid.UUID
	Quantity  int
}

// CreateOrderInput carries the checkout fields.
type CreateOrderInput struct {
	CustomerName       string
	CustomerEmail      string
	CustomerPhone      string
	AddressLine        string
	City               string
	Notes              string
	PaymentMethod      string
	DeliveryLocationID uuid.UUID
	Lines              []OrderLine
}

// OrderPage is one page of the order listing.
type OrderPage struct {
	Orders  []*domain.Order
	Page    int
	PerPage int
	Total   int
}

// OrderService exposes checkout and order management operations.
type OrderService interface {
	Create(ctx context.Context, input CreateOrderInput) (*domain.Order, error)
	Get(ctx context.Context, id uuid.UUID) (*domain.Order, error)
	List(ctx context.Context, status *domain.OrderStatus, page, perPage int) (*OrderPage, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status domain.OrderStatus) (*domain.Order, error)
	UpdatePaymentStatus(ctx context.Context, id uuid.UUID, status domain.PaymentStatus) (*domain.Order, error)
}

type orderService struct {
	orderRepo    repository.OrderRepository
	productRepo  repository.ProductRepository
	deliveryRepo repository.DeliveryLocationRepository
}

// NewOrderService creates a new instance of OrderService
func NewOrderService(
	orderRepo repository.OrderRepository,
	productRepo repository.ProductRepository,
	deliveryRepo repository.DeliveryLocationRepository,
) OrderService {
	return &orderService{
		orderRepo:    orderRepo,
		productRepo:  productRepo,
		deliveryRepo: deliveryRepo,
	}
}

// Create resolves the delivery location and products, snapshots prices,
// computes the total and persists everything atomically. The repository
// rolls the whole order back on any failure, including an oversell.
func (s *orderService) Create(ctx context.Context, input CreateOrderInput) (*domain.Order, error) {
	if len(input.Lines) == 0 {
		return nil, ErrEmptyOrder
	}

	location, err := s.deliveryRepo.FindByID(ctx, input.DeliveryLocationID)
	if err != nil {
		return nil, err
	}
	if !location.IsActive {
		return nil, ErrDeliveryLocationInactive
	}

	items := make([]domain.OrderItem, 0, len(input.Lines))
	var subtotal float64

	for _, line := range input.Lines {
		if line.Quantity <= 0 {
			return nil, ErrInvalidQuantity
		}

		product, err := s.productRepo.FindByID(ctx, line.ProductID)
		if err != nil {
			return nil, err
		}
		if product.Stock < line.Quantity {
			return nil, repository.ErrInsufficientStock
		}

		items = append(items, domain.OrderItem{
			ID:          uuid.New(),
			ProductID:   product.ID,
			ProductName: product.Name,
			Quantity:    line.Quantity,
			UnitPrice:   product.Price,
		})
		subtotal += product.Price * float64(line.Quantity)
	}

	now := time.Now()
	order := &domain.Order{
		ID:                 uuid.New(),
		OrderNumber:        generateOrderNumber(now),
		CustomerName:       input.CustomerName,
		CustomerEmail:      input.CustomerEmail,
		CustomerPhone:      input.CustomerPhone,
		AddressLine:        input.AddressLine,
		City:               input.City,
		Notes:              input.Notes,
		DeliveryLocationID: location.ID,
		Subtotal:           subtotal,
		ShippingCost:       location.ShippingPrice,
		TotalAmount:        subtotal + location.ShippingPrice,
		Status:             domain.OrderStatusPending,
		PaymentStatus:      domain.PaymentStatusPending,
		PaymentMethod:      input.PaymentMethod,
		CreatedAt:          now,
		UpdatedAt:          now,
		Items:              items,
	}

	// The random suffix can collide with an existing order number; retry
	// with a fresh one before giving up.
	for attempt := 0; ; attempt++ {
		err := s.orderRepo.Create(ctx, order)
		if err == nil {
			return order, nil
		}
		if !errors.Is(err, repository.ErrOrderNumberTaken) || attempt >= 2 {
			return nil, err
		}
		order.OrderNumber = generateOrderNumber(now)
	}
}

func (s *orderService) Get(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	return s.orderRepo.FindByID(ctx, id)
}

func (s *orderService) List(ctx context.Context, status *domain.OrderStatus, page, perPage int) (*OrderPage, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > 100 {
		perPage = 20
	}

	if status != nil && !domain.ValidOrderStatus(*status) {
		return nil, ErrInvalidOrderStatus
	}

	orders, total, err := s.orderRepo.List(ctx, status, page, perPage)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}

	return &OrderPage{
		Orders:  orders,
		Page:    page,
		PerPage: perPage,
		Total:   total,
	}, nil
}

// UpdateStatus sets the fulfillment status. The allowed values form a flat
// set; transition ordering is intentionally not enforced.
func (s *orderService) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.OrderStatus) (*domain.Order, error) {
	if !domain.ValidOrderStatus(status) {
		return nil, ErrInvalidOrderStatus
	}

	if err := s.orderRepo.UpdateStatus(ctx, id, status); err != nil {
		return nil, err
	}

	return s.orderRepo.FindByID(ctx, id)
}

func (s *orderService) UpdatePaymentStatus(ctx context.Context, id uuid.UUID, status domain.PaymentStatus) (*domain.Order, error) {
	if !domain.ValidPaymentStatus(status) {
		return nil, ErrInvalidPaymentStatus
	}

	if err := s.orderRepo.UpdatePaymentStatus(ctx, id, status); err != nil {
		return nil, err
	}

	return s.orderRepo.FindByID(ctx, id)
}

// generateOrderNumber builds an order number like ORD-20250131-4F7A2C.
func generateOrderNumber(now time.Time) string {
	const hexDigits = "0123456789ABCDEF"
	suffix := make([]byte, 6)
	for i := range suffix {
		suffix[i] = hexDigits[rand.Intn(len(hexDigits))]
	}
	return fmt.Sprintf("ORD-%s-%s", now.Format("20060102"), suffix)
}
