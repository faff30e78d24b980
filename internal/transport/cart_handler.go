package transport

import (
	"errors"
	"net/http"

	"storefront/internal/domain"
	"storefront/internal/middleware"
	"storefront/internal/repository"
	"storefront/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// AddCartItemRequest represents the add-to-cart payload
type AddCartItemRequest struct {
	SessionID string    `json:"session_id" validate:"required"`
	ProductID uuid.UUID `json:"product_id" validate:"required"`
	Quantity  int       `json:"quantity" validate:"required,gt=0"`
}

// UpdateCartItemRequest represents the quantity-update payload
type UpdateCartItemRequest struct {
	Quantity int `json:"quantity" validate:"required,gt=0"`
}

// CartResponse is the cart representation returned to clients
type CartResponse struct {
	SessionID string            `json:"session_id"`
	Items     []domain.CartItem `json:"items"`
	Subtotal  float64           `json:"subtotal"`
}

// CartHandler handles HTTP requests for cart operations
type CartHandler struct {
	cartService service.CartService
	logger      *zap.Logger
}

// NewCartHandler creates a new CartHandler
func NewCartHandler(cartService service.CartService, logger *zap.Logger) *CartHandler {
	return &CartHandler{
		cartService: cartService,
		logger:      logger,
	}
}

// RegisterRoutes registers cart routes
func (h *CartHandler) RegisterRoutes(r chi.Router) {
	r.Route("/api/cart", func(r chi.Router) {
		r.Get("/", h.Get)
		r.Delete("/", h.Clear)
		r.Post("/items", h.AddItem)
		r.Put("/items/{itemID}", h.UpdateItem)
		r.Delete("/items/{itemID}", h.RemoveItem)
	})
}

// Get returns the cart for a session; a session without a cart gets an
// empty cart, not a 404.
func (h *CartHandler) Get(w http.ResponseWriter, r *http.Request) {
	sessionID := r.URL.Query().Get("session_id")

	cart, err := h.cartService.GetCart(r.Context(), sessionID)
	if err != nil {
		if errors.Is(err, service.ErrEmptySessionID) {
			middleware.RespondWithError(w, http.StatusBadRequest, "session_id is required")
			return
		}
		h.logger.Error("Failed to get cart", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to get cart")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, toCartResponse(cart))
}

// AddItem adds a product to the session's cart, incrementing the quantity
// if the product is already present.
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	var req AddCartItemRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	cart, err := h.cartService.AddItem(r.Context(), req.SessionID, req.ProductID, req.Quantity)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrProductNotFound):
			middleware.RespondWithError(w, http.StatusNotFound, "product not found")
		case errors.Is(err, service.ErrInvalidQuantity):
			middleware.RespondWithError(w, http.StatusBadRequest, "quantity must be greater than zero")
		default:
			h.logger.Error("Failed to add cart item", zap.Error(err))
			middleware.RespondWithError(w, http.StatusInternalServerError, "failed to add cart item")
		}
		return
	}

	middleware.RespondWithJSON(w, http.StatusCreated, toCartResponse(cart))
}

// UpdateItem sets a cart item's quantity
func (h *CartHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	itemID, ok := urlParamUUID(w, r, "itemID")
	if !ok {
		return
	}

	var req UpdateCartItemRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.cartService.UpdateItemQuantity(r.Context(), itemID, req.Quantity); err != nil {
		switch {
		case errors.Is(err, repository.ErrCartItemNotFound):
			middleware.RespondWithError(w, http.StatusNotFound, "cart item not found")
		case errors.Is(err, service.ErrInvalidQuantity):
			middleware.RespondWithError(w, http.StatusBadRequest, "quantity must be greater than zero")
		default:
			h.logger.Error("Failed to update cart item", zap.Error(err))
			middleware.RespondWithError(w, http.StatusInternalServerError, "failed to update cart item")
		}
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "cart item updated"})
}

// RemoveItem deletes a cart item
func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	itemID, ok := urlParamUUID(w, r, "itemID")
	if !ok {
		return
	}

	if err := h.cartService.RemoveItem(r.Context(), itemID); err != nil {
		if errors.Is(err, repository.ErrCartItemNotFound) {
			middleware.RespondWithError(w, http.StatusNotFound, "cart item not found")
			return
		}
		h.logger.Error("Failed to remove cart item", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to remove cart item")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "cart item removed"})
}

// Clear deletes the session's cart; clearing an absent cart succeeds.
func (h *CartHandler) Clear(w http.ResponseWriter, r *http.Request) {
	sessionID := r.URL.Query().Get("session_id")

	if err := h.cartService.ClearCart(r.Context(), sessionID); err != nil {
		if errors.Is(err, service.ErrEmptySessionID) {
			middleware.RespondWithError(w, http.StatusBadRequest, "session_id is required")
			return
		}
		h.logger.Error("Failed to clear cart", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to clear cart")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "cart cleared"})
}

func toCartResponse(cart *domain.Cart) CartResponse {
	items := cart.Items
	if items == nil {
		items = []domain.CartItem{}
	}
	return CartResponse{
		SessionID: cart.SessionID,
		Items:     items,
		Subtotal:  cart.Subtotal(),
	}
}
