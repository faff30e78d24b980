package transport

import (
	"errors"
	"net/http"
	"strconv"

	"storefront/internal/middleware"
	"storefront/internal/repository"
	"storefront/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// DeliveryLocationRequest represents a delivery location payload
type DeliveryLocationRequest struct {
	Name          string  `json:"name" validate:"required,min=2,max=100"`
	Slug          string  `json:"slug" validate:"omitempty,max=100"`
	City          string  `json:"city" validate:"required,max=100"`
	ShippingPrice float64 `json:"shipping_price" validate:"gte=0"`
	IsActive      bool    `json:"is_active"`
}

// DeliveryHandler handles HTTP requests for delivery location operations
type DeliveryHandler struct {
	deliveryService service.DeliveryService
	logger          *zap.Logger
}

// NewDeliveryHandler creates a new DeliveryHandler
func NewDeliveryHandler(deliveryService service.DeliveryService, logger *zap.Logger) *DeliveryHandler {
	return &DeliveryHandler{
		deliveryService: deliveryService,
		logger:          logger,
	}
}

// RegisterRoutes registers delivery location routes
func (h *DeliveryHandler) RegisterRoutes(r chi.Router, adminOnly func(http.Handler) http.Handler) {
	r.Route("/api/delivery-locations", func(r chi.Router) {
		r.Get("/", h.List)
		r.Get("/{locationID}", h.Get)

		r.Group(func(r chi.Router) {
			r.Use(adminOnly)
			r.Post("/", h.Create)
			r.Put("/{locationID}", h.Update)
			r.Delete("/{locationID}", h.Delete)
		})
	})
}

// List returns delivery locations. By default only active locations are
// returned; admins pass include_inactive=true to see everything.
func (h *DeliveryHandler) List(w http.ResponseWriter, r *http.Request) {
	includeInactive, _ := strconv.ParseBool(r.URL.Query().Get("include_inactive"))

	locations, err := h.deliveryService.List(r.Context(), !includeInactive)
	if err != nil {
		h.logger.Error("Failed to list delivery locations", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to list delivery locations")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, locations)
}

// Get returns a single delivery location
func (h *DeliveryHandler) Get(w http.ResponseWriter, r *http.Request) {
	locationID, ok := urlParamUUID(w, r, "locationID")
	if !ok {
		return
	}

	location, err := h.deliveryService.Get(r.Context(), locationID)
	if err != nil {
		if errors.Is(err, repository.ErrDeliveryLocationNotFound) {
			middleware.RespondWithError(w, http.StatusNotFound, "delivery location not found")
			return
		}
		h.logger.Error("Failed to get delivery location", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to get delivery location")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, location)
}

// Create adds a new delivery location
func (h *DeliveryHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req DeliveryLocationRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	location, err := h.deliveryService.Create(r.Context(), service.DeliveryLocationInput{
		Name:          req.Name,
		Slug:          req.Slug,
		City:          req.City,
		ShippingPrice: req.ShippingPrice,
		IsActive:      req.IsActive,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidShippingPrice):
			middleware.RespondWithError(w, http.StatusBadRequest, "shipping price must not be negative")
		case errors.Is(err, repository.ErrDeliveryLocationAlreadyExists):
			middleware.RespondWithError(w, http.StatusConflict, "delivery location with this slug already exists")
		default:
			h.logger.Error("Failed to create delivery location", zap.Error(err))
			middleware.RespondWithError(w, http.StatusInternalServerError, "failed to create delivery location")
		}
		return
	}

	h.logger.Info("Delivery location created", zap.String("location_id", location.ID.String()))
	middleware.RespondWithJSON(w, http.StatusCreated, location)
}

// Update modifies an existing delivery location
func (h *DeliveryHandler) Update(w http.ResponseWriter, r *http.Request) {
	locationID, ok := urlParamUUID(w, r, "locationID")
	if !ok {
		return
	}

	var req DeliveryLocationRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	location, err := h.deliveryService.Update(r.Context(), locationID, service.DeliveryLocationInput{
		Name:          req.Name,
		Slug:          req.Slug,
		City:          req.City,
		ShippingPrice: req.ShippingPrice,
		IsActive:      req.IsActive,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidShippingPrice):
			middleware.RespondWithError(w, http.StatusBadRequest, "shipping price must not be negative")
		case errors.Is(err, repository.ErrDeliveryLocationNotFound):
			middleware.RespondWithError(w, http.StatusNotFound, "delivery location not found")
		case errors.Is(err, repository.ErrDeliveryLocationAlreadyExists):
			middleware.RespondWithError(w, http.StatusConflict, "delivery location with this slug already exists")
		default:
			h.logger.Error("Failed to update delivery location", zap.Error(err))
			middleware.RespondWithError(w, http.StatusInternalServerError, "failed to update delivery location")
		}
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, location)
}

// Delete removes a delivery location
func (h *DeliveryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	locationID, ok := urlParamUUID(w, r, "locationID")
	if !ok {
		return
	}

	if err := h.deliveryService.Delete(r.Context(), locationID); err != nil {
		switch {
		case errors.Is(err, repository.ErrDeliveryLocationNotFound):
			middleware.RespondWithError(w, http.StatusNotFound, "delivery location not found")
		case errors.Is(err, repository.ErrDeliveryLocationInUse):
			middleware.RespondWithError(w, http.StatusConflict, "delivery location has orders and cannot be deleted")
		default:
			h.logger.Error("Failed to delete delivery location", zap.Error(err))
			middleware.RespondWithError(w, http.StatusInternalServerError, "failed to delete delivery location")
		}
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "delivery location deleted"})
}
