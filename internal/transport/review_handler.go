package transport

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"storefront/internal/domain"
	"storefront/internal/middleware"
	"storefront/internal/repository"
	"storefront/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// ReviewRequest represents the create/update payload for a review
type ReviewRequest struct {
	UserName string `json:"user_name" validate:"required"`
	Title    string `json:"title"`
	Comment  string `json:"comment"`
	Rating   int    `json:"rating" validate:"required,gte=1,lte=5"`
}

// ReviewListResponse is a page of a product's reviews
type ReviewListResponse struct {
	Reviews    []*domain.Review `json:"reviews"`
	Pagination PaginationMeta   `json:"pagination"`
}

// ReviewHandler handles HTTP requests for review operations
type ReviewHandler struct {
	reviewService service.ReviewService
	logger        *zap.Logger
}

// NewReviewHandler creates a new ReviewHandler
func NewReviewHandler(reviewService service.ReviewService, logger *zap.Logger) *ReviewHandler {
	return &ReviewHandler{
		reviewService: reviewService,
		logger:        logger,
	}
}

// RegisterRoutes registers review routes nested under a product.
func (h *ReviewHandler) RegisterRoutes(r chi.Router) {
	r.Route("/api/products/{productID}/reviews", func(r chi.Router) {
		r.Get("/", h.List)
		r.Post("/", h.Create)
		r.Put("/{reviewID}", h.Update)
		r.Delete("/{reviewID}", h.Delete)
	})
}

// List returns a product's reviews sorted by date, rating or user.
func (h *ReviewHandler) List(w http.ResponseWriter, r *http.Request) {
	productID, ok := urlParamUUID(w, r, "productID")
	if !ok {
		return
	}

	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))
	perPage, _ := strconv.Atoi(q.Get("per_page"))

	sortOrder := repository.SortOrderDesc
	if strings.EqualFold(q.Get("order"), "asc") {
		sortOrder = repository.SortOrderAsc
	}

	result, err := h.reviewService.ListByProduct(r.Context(), productID, page, perPage, q.Get("sort"), sortOrder)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			middleware.RespondWithError(w, http.StatusNotFound, "product not found")
			return
		}
		h.logger.Error("Failed to list reviews", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to list reviews")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, ReviewListResponse{
		Reviews:    result.Reviews,
		Pagination: newPaginationMeta(result.Page, result.PerPage, result.Total),
	})
}

// Create adds a review to a product
func (h *ReviewHandler) Create(w http.ResponseWriter, r *http.Request) {
	productID, ok := urlParamUUID(w, r, "productID")
	if !ok {
		return
	}

	var req ReviewRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	review, err := h.reviewService.Create(r.Context(), productID, req.UserName, req.Title, req.Comment, req.Rating)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrProductNotFound):
			middleware.RespondWithError(w, http.StatusNotFound, "product not found")
		case errors.Is(err, service.ErrInvalidRating):
			middleware.RespondWithError(w, http.StatusBadRequest, "rating must be between 1 and 5")
		default:
			h.logger.Error("Failed to create review", zap.Error(err))
			middleware.RespondWithError(w, http.StatusInternalServerError, "failed to create review")
		}
		return
	}

	middleware.RespondWithJSON(w, http.StatusCreated, review)
}

// Update rewrites an existing review
func (h *ReviewHandler) Update(w http.ResponseWriter, r *http.Request) {
	reviewID, ok := urlParamUUID(w, r, "reviewID")
	if !ok {
		return
	}

	var req ReviewRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	review, err := h.reviewService.Update(r.Context(), reviewID, req.UserName, req.Title, req.Comment, req.Rating)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrReviewNotFound):
			middleware.RespondWithError(w, http.StatusNotFound, "review not found")
		case errors.Is(err, service.ErrInvalidRating):
			middleware.RespondWithError(w, http.StatusBadRequest, "rating must be between 1 and 5")
		default:
			h.logger.Error("Failed to update review", zap.Error(err))
			middleware.RespondWithError(w, http.StatusInternalServerError, "failed to update review")
		}
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, review)
}

// Delete removes a review
func (h *ReviewHandler) Delete(w http.ResponseWriter, r *http.Request) {
	reviewID, ok := urlParamUUID(w, r, "reviewID")
	if !ok {
		return
	}

	if err := h.reviewService.Delete(r.Context(), reviewID); err != nil {
		if errors.Is(err, repository.ErrReviewNotFound) {
			middleware.RespondWithError(w, http.StatusNotFound, "review not found")
			return
		}
		h.logger.Error("Failed to delete review", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to delete review")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "review deleted"})
}
