package transport

import (
	"errors"
	"net/http"
	"strconv"

	"storefront/internal/domain"
	"storefront/internal/middleware"
	"storefront/internal/repository"
	"storefront/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// OrderLineRequest is one requested line in a checkout payload
type OrderLineRequest struct {
	ProductID uuid.UUID `json:"product_id" validate:"required"`
	Quantity  int       `json:"quantity" validate:"required,gt=0"`
}

// CreateOrderRequest represents the checkout payload
type CreateOrderRequest struct {
	CustomerName       string             `json:"customer_name" validate:"required,min=2,max=100"`
	CustomerEmail      string             `json:"customer_email" validate:"required,email"`
	CustomerPhone      string             `json:"customer_phone" validate:"required,min=5,max=30"`
	AddressLine        string             `json:"address_line" validate:"required,max=255"`
	City               string             `json:"city" validate:"required,max=100"`
	Notes              string             `json:"notes" validate:"max=1000"`
	PaymentMethod      string             `json:"payment_method" validate:"required,max=50"`
	DeliveryLocationID uuid.UUID          `json:"delivery_location_id" validate:"required"`
	Items              []OrderLineRequest `json:"items" validate:"required,min=1,dive"`
}

// UpdateOrderStatusRequest represents a fulfillment status change
type UpdateOrderStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// UpdatePaymentStatusRequest represents a payment status change
type UpdatePaymentStatusRequest struct {
	PaymentStatus string `json:"payment_status" validate:"required"`
}

// OrderListResponse is a paginated order listing
type OrderListResponse struct {
	Orders     []*domain.Order `json:"orders"`
	Pagination PaginationMeta  `json:"pagination"`
}

// OrderHandler handles HTTP requests for order operations
type OrderHandler struct {
	orderService service.OrderService
	logger       *zap.Logger
}

// NewOrderHandler creates a new OrderHandler
func NewOrderHandler(orderService service.OrderService, logger *zap.Logger) *OrderHandler {
	return &OrderHandler{
		orderService: orderService,
		logger:       logger,
	}
}

// RegisterRoutes registers order routes. Listing and status updates are
// admin operations; checkout and order lookup are public.
func (h *OrderHandler) RegisterRoutes(r chi.Router, adminOnly func(http.Handler) http.Handler) {
	r.Route("/api/orders", func(r chi.Router) {
		r.Post("/", h.Create)
		r.Get("/{orderID}", h.Get)

		r.Group(func(r chi.Router) {
			r.Use(adminOnly)
			r.Get("/", h.List)
			r.Put("/{orderID}/status", h.UpdateStatus)
			r.Put("/{orderID}/payment-status", h.UpdatePaymentStatus)
		})
	})
}

// Create places a new order
func (h *OrderHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateOrderRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	lines := make([]service.OrderLine, 0, len(req.Items))
	for _, item := range req.Items {
		lines = append(lines, service.OrderLine{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
		})
	}

	order, err := h.orderService.Create(r.Context(), service.CreateOrderInput{
		CustomerName:       req.CustomerName,
		CustomerEmail:      req.CustomerEmail,
		CustomerPhone:      req.CustomerPhone,
		AddressLine:        req.AddressLine,
		City:               req.City,
		Notes:              req.Notes,
		PaymentMethod:      req.PaymentMethod,
		DeliveryLocationID: req.DeliveryLocationID,
		Lines:              lines,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmptyOrder):
			middleware.RespondWithError(w, http.StatusBadRequest, "order must contain at least one item")
		case errors.Is(err, service.ErrInvalidQuantity):
			middleware.RespondWithError(w, http.StatusBadRequest, "quantity must be greater than zero")
		case errors.Is(err, service.ErrDeliveryLocationInactive):
			middleware.RespondWithError(w, http.StatusBadRequest, "delivery location is not active")
		case errors.Is(err, repository.ErrDeliveryLocationNotFound):
			middleware.RespondWithError(w, http.StatusBadRequest, "delivery location not found")
		case errors.Is(err, repository.ErrProductNotFound):
			middleware.RespondWithError(w, http.StatusBadRequest, "product not found")
		case errors.Is(err, repository.ErrInsufficientStock):
			middleware.RespondWithError(w, http.StatusConflict, "insufficient stock")
		default:
			h.logger.Error("Failed to create order", zap.Error(err))
			middleware.RespondWithError(w, http.StatusInternalServerError, "failed to create order")
		}
		return
	}

	h.logger.Info("Order created",
		zap.String("order_id", order.ID.String()),
		zap.String("order_number", order.OrderNumber),
		zap.Float64("total", order.TotalAmount))

	middleware.RespondWithJSON(w, http.StatusCreated, order)
}

// Get returns a single order with its items
func (h *OrderHandler) Get(w http.ResponseWriter, r *http.Request) {
	orderID, ok := urlParamUUID(w, r, "orderID")
	if !ok {
		return
	}

	order, err := h.orderService.Get(r.Context(), orderID)
	if err != nil {
		if errors.Is(err, repository.ErrOrderNotFound) {
			middleware.RespondWithError(w, http.StatusNotFound, "order not found")
			return
		}
		h.logger.Error("Failed to get order", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to get order")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, order)
}

// List returns a paginated order listing, optionally filtered by status
func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	perPage, _ := strconv.Atoi(r.URL.Query().Get("per_page"))

	var status *domain.OrderStatus
	if raw := r.URL.Query().Get("status"); raw != "" {
		s := domain.OrderStatus(raw)
		status = &s
	}

	result, err := h.orderService.List(r.Context(), status, page, perPage)
	if err != nil {
		if errors.Is(err, service.ErrInvalidOrderStatus) {
			middleware.RespondWithError(w, http.StatusBadRequest, "invalid order status")
			return
		}
		h.logger.Error("Failed to list orders", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to list orders")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, OrderListResponse{
		Orders:     result.Orders,
		Pagination: newPaginationMeta(result.Page, result.PerPage, result.Total),
	})
}

// UpdateStatus changes an order's fulfillment status
func (h *OrderHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	orderID, ok := urlParamUUID(w, r, "orderID")
	if !ok {
		return
	}

	var req UpdateOrderStatusRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	order, err := h.orderService.UpdateStatus(r.Context(), orderID, domain.OrderStatus(req.Status))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidOrderStatus):
			middleware.RespondWithError(w, http.StatusBadRequest, "invalid order status")
		case errors.Is(err, repository.ErrOrderNotFound):
			middleware.RespondWithError(w, http.StatusNotFound, "order not found")
		default:
			h.logger.Error("Failed to update order status", zap.Error(err))
			middleware.RespondWithError(w, http.StatusInternalServerError, "failed to update order status")
		}
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, order)
}

// UpdatePaymentStatus changes an order's payment status
func (h *OrderHandler) UpdatePaymentStatus(w http.ResponseWriter, r *http.Request) {
	orderID, ok := urlParamUUID(w, r, "orderID")
	if !ok {
		return
	}

	var req UpdatePaymentStatusRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	order, err := h.orderService.UpdatePaymentStatus(r.Context(), orderID, domain.PaymentStatus(req.PaymentStatus))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidPaymentStatus):
			middleware.RespondWithError(w, http.StatusBadRequest, "invalid payment status")
		case errors.Is(err, repository.ErrOrderNotFound):
			middleware.RespondWithError(w, http.StatusNotFound, "order not found")
		default:
			h.logger.Error("Failed to update payment status", zap.Error(err))
			middleware.RespondWithError(w, http.StatusInternalServerError, "failed to update payment status")
		}
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, order)
}
