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

// CategoryRequest represents the create/update payload for a category
type CategoryRequest struct {
	Name        string `json:"name" validate:"required"`
	Slug        string `json:"slug"`
	Description string `json:"description"`
}

// CategoryHandler handles HTTP requests for category operations
type CategoryHandler struct {
	catalogService service.CatalogService
	logger         *zap.Logger
}

// NewCategoryHandler creates a new CategoryHandler
func NewCategoryHandler(catalogService service.CatalogService, logger *zap.Logger) *CategoryHandler {
	return &CategoryHandler{
		catalogService: catalogService,
		logger:         logger,
	}
}

// RegisterRoutes registers category routes. Write routes require an admin
// token.
func (h *CategoryHandler) RegisterRoutes(r chi.Router, adminOnly func(http.Handler) http.Handler) {
	r.Route("/api/categories", func(r chi.Router) {
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

// List returns all categories
func (h *CategoryHandler) List(w http.ResponseWriter, r *http.Request) {
	categories, err := h.catalogService.ListCategories(r.Context())
	if err != nil {
		h.logger.Error("Failed to list categories", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to list categories")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, categories)
}

// Get returns a single category by ID
func (h *CategoryHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := urlParamUUID(w, r, "id")
	if !ok {
		return
	}

	category, err := h.catalogService.GetCategory(r.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrCategoryNotFound) {
			middleware.RespondWithError(w, http.StatusNotFound, "category not found")
			return
		}
		h.logger.Error("Failed to get category", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to get category")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, category)
}

// Create creates a new category
func (h *CategoryHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CategoryRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	category, err := h.catalogService.CreateCategory(r.Context(), req.Name, req.Slug, req.Description)
	if err != nil {
		if errors.Is(err, repository.ErrCategoryAlreadyExists) {
			middleware.RespondWithError(w, http.StatusConflict, "category with this slug already exists")
			return
		}
		h.logger.Error("Failed to create category", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to create category")
		return
	}

	h.logger.Info("Category created", zap.String("category_id", category.ID.String()))
	middleware.RespondWithJSON(w, http.StatusCreated, category)
}

// Update updates an existing category
func (h *CategoryHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := urlParamUUID(w, r, "id")
	if !ok {
		return
	}

	var req CategoryRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	category, err := h.catalogService.UpdateCategory(r.Context(), id, req.Name, req.Slug, req.Description)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrCategoryNotFound):
			middleware.RespondWithError(w, http.StatusNotFound, "category not found")
		case errors.Is(err, repository.ErrCategoryAlreadyExists):
			middleware.RespondWithError(w, http.StatusConflict, "category with this slug already exists")
		default:
			h.logger.Error("Failed to update category", zap.Error(err))
			middleware.RespondWithError(w, http.StatusInternalServerError, "failed to update category")
		}
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, category)
}

// Delete removes a category unless products still reference it
func (h *CategoryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := urlParamUUID(w, r, "id")
	if !ok {
		return
	}

	if err := h.catalogService.DeleteCategory(r.Context(), id); err != nil {
		switch {
		case errors.Is(err, repository.ErrCategoryNotFound):
			middleware.RespondWithError(w, http.StatusNotFound, "category not found")
		case errors.Is(err, repository.ErrCategoryInUse):
			middleware.RespondWithError(w, http.StatusConflict, "category has products and cannot be deleted")
		default:
			h.logger.Error("Failed to delete category", zap.Error(err))
			middleware.RespondWithError(w, http.StatusInternalServerError, "failed to delete category")
		}
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "category deleted"})
}
