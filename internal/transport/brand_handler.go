package transport

import (
	"errors"
	"net/http"

	"storefront/internal/middleware"
	"storefront/internal/repository"
	"storefront/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// BrandRequest represents the create/update payload for a brand
type BrandRequest struct {
	Name        string `json:"name" validate:"required"`
	Slug        string `json:"slug"`
	Description string `json:"description"`
}

// BrandHandler handles HTTP requests for brand operations
type BrandHandler struct {
	catalogService service.CatalogService
	logger         *zap.Logger
}

// NewBrandHandler creates a new BrandHandler
func NewBrandHandler(catalogService service.CatalogService, logger *zap.Logger) *BrandHandler {
	return &BrandHandler{
		catalogService: catalogService,
		logger:         logger,
	}
}

// RegisterRoutes registers brand routes. Write routes require an admin token.
func (h *BrandHandler) RegisterRoutes(r chi.Router, adminOnly func(http.Handler) http.Handler) {
	r.Route("/api/brands", func(r chi.Router) {
		r.Get("/", h.List)
		r.Get("/{id}", h.Get)

		r.Group(func(r chi.Router) {
			r.Use(adminOnly)
			r.Post("/", h.Create)
			r.Put("/{id}", h.Update)
			r.Delete("/{id}", h.Delete)
		})
	})
}

func (h *BrandHandler) List(w http.ResponseWriter, r *http.Request) {
	brands, err := h.catalogService.ListBrands(r.Context())
	if err != nil {
		h.logger.Error("Failed to list brands", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to list brands")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, brands)
}

func (h *BrandHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := urlParamUUID(w, r, "id")
	if !ok {
		return
	}

	brand, err := h.catalogService.GetBrand(r.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrBrandNotFound) {
			middleware.RespondWithError(w, http.StatusNotFound, "brand not found")
			return
		}
		h.logger.Error("Failed to get brand", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to get brand")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, brand)
}

func (h *BrandHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req BrandRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	brand, err := h.catalogService.CreateBrand(r.Context(), req.Name, req.Slug, req.Description)
	if err != nil {
		if errors.Is(err, repository.ErrBrandAlreadyExists) {
			middleware.RespondWithError(w, http.StatusConflict, "brand with this slug already exists")
			return
		}
		h.logger.Error("Failed to create brand", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to create brand")
		return
	}

	h.logger.Info("Brand created", zap.String("brand_id", brand.ID.String()))
	middleware.RespondWithJSON(w, http.StatusCreated, brand)
}

func (h *BrandHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := urlParamUUID(w, r, "id")
	if !ok {
		return
	}

	var req BrandRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	brand, err := h.catalogService.UpdateBrand(r.Context(), id, req.Name, req.Slug, req.Description)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrBrandNotFound):
			middleware.RespondWithError(w, http.StatusNotFound, "brand not found")
		case errors.Is(err, repository.ErrBrandAlreadyExists):
			middleware.RespondWithError(w, http.StatusConflict, "brand with this slug already exists")
		default:
			h.logger.Error("Failed to update brand", zap.Error(err))
			middleware.RespondWithError(w, http.StatusInternalServerError, "failed to update brand")
		}
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, brand)
}

func (h *BrandHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := urlParamUUID(w, r, "id")
	if !ok {
		return
	}

	if err := h.catalogService.DeleteBrand(r.Context(), id); err != nil {
		switch {
		case errors.Is(err, repository.ErrBrandNotFound):
			middleware.RespondWithError(w, http.StatusNotFound, "brand not found")
		case errors.Is(err, repository.ErrBrandInUse):
			middleware.RespondWithError(w, http.StatusConflict, "brand has products and cannot be deleted")
		default:
			h.logger.Error("Failed to delete brand", zap.Error(err))
			middleware.RespondWithError(w, http.StatusInternalServerError, "failed to delete brand")
		}
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "brand deleted"})
}
