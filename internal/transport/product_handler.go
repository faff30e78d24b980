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

// ProductImageRequest is one image in a product payload
type ProductImageRequest struct {
	ImageURL  string `json:"image_url" validate:"required"`
	IsPrimary bool   `json:"is_primary"`
}

// ProductSpecificationRequest is one specification in a product payload
type ProductSpecificationRequest struct {
	Name  string `json:"name" validate:"required"`
	Value string `json:"value" validate:"required"`
}

// ProductRequest represents the create/update payload for a product
type ProductRequest struct {
	Name           string                        `json:"name" validate:"required"`
	Slug           string                        `json:"slug"`
	Description    string                        `json:"description"`
	Price          float64                       `json:"price" validate:"gte=0"`
	OriginalPrice  float64                       `json:"original_price" validate:"gte=0"`
	SKU            string                        `json:"sku"`
	Stock          int                           `json:"stock" validate:"gte=0"`
	IsNew          bool                          `json:"is_new"`
	IsSale         bool                          `json:"is_sale"`
	IsFeatured     bool                          `json:"is_featured"`
	CategoryID     uuid.UUID                     `json:"category_id" validate:"required"`
	BrandID        uuid.UUID                     `json:"brand_id" validate:"required"`
	Images         []ProductImageRequest         `json:"images" validate:"dive"`
	Specifications []ProductSpecificationRequest `json:"specifications" validate:"dive"`
	Features       []string                      `json:"features"`
}

// ProductListResponse is a filtered page of products
type ProductListResponse struct {
	Products   []*domain.Product `json:"products"`
	Pagination PaginationMeta    `json:"pagination"`
}

// ProductHandler handles HTTP requests for product operations
type ProductHandler struct {
	catalogService service.CatalogService
	logger         *zap.Logger
}

// NewProductHandler creates a new ProductHandler
func NewProductHandler(catalogService service.CatalogService, logger *zap.Logger) *ProductHandler {
	return &ProductHandler{
		catalogService: catalogService,
		logger:         logger,
	}
}

// RegisterRoutes registers product routes. Write routes require an admin
// token.
func (h *ProductHandler) RegisterRoutes(r chi.Router, adminOnly func(http.Handler) http.Handler) {
	r.Route("/api/products", func(r chi.Router) {
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

// List returns products matching the query-string filters with pagination
// metadata.
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	filter := repository.ProductFilter{
		CategorySlug: q.Get("category"),
		BrandSlug:    q.Get("brand"),
		Search:       q.Get("search"),
	}

	if v := q.Get("min_price"); v != "" {
		price, err := strconv.ParseFloat(v, 64)
		if err != nil {
			middleware.RespondWithError(w, http.StatusBadRequest, "invalid min_price")
			return
		}
		filter.MinPrice = &price
	}
	if v := q.Get("max_price"); v != "" {
		price, err := strconv.ParseFloat(v, 64)
		if err != nil {
			middleware.RespondWithError(w, http.StatusBadRequest, "invalid max_price")
			return
		}
		filter.MaxPrice = &price
	}
	for param, target := range map[string]**bool{
		"is_featured": &filter.IsFeatured,
		"is_new":      &filter.IsNew,
		"is_sale":     &filter.IsSale,
	} {
		if v := q.Get(param); v != "" {
			flag, err := strconv.ParseBool(v)
			if err != nil {
				middleware.RespondWithError(w, http.StatusBadRequest, "invalid "+param)
				return
			}
			*target = &flag
		}
	}

	page, _ := strconv.Atoi(q.Get("page"))
	perPage, _ := strconv.Atoi(q.Get("per_page"))

	result, err := h.catalogService.ListProducts(r.Context(), filter, page, perPage)
	if err != nil {
		h.logger.Error("Failed to list products", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to list products")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, ProductListResponse{
		Products:   result.Products,
		Pagination: newPaginationMeta(result.Page, result.PerPage, result.Total),
	})
}

// Get returns a single product with images, specifications and features
func (h *ProductHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := urlParamUUID(w, r, "id")
	if !ok {
		return
	}

	product, err := h.catalogService.GetProduct(r.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			middleware.RespondWithError(w, http.StatusNotFound, "product not found")
			return
		}
		h.logger.Error("Failed to get product", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to get product")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, product)
}

// Create creates a new product
func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req ProductRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	product, err := h.catalogService.CreateProduct(r.Context(), h.toInput(req))
	if err != nil {
		h.respondProductWriteError(w, err, "create")
		return
	}

	h.logger.Info("Product created", zap.String("product_id", product.ID.String()))
	middleware.RespondWithJSON(w, http.StatusCreated, product)
}

// Update updates an existing product, replacing its child collections
func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := urlParamUUID(w, r, "id")
	if !ok {
		return
	}

	var req ProductRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	product, err := h.catalogService.UpdateProduct(r.Context(), id, h.toInput(req))
	if err != nil {
		h.respondProductWriteError(w, err, "update")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, product)
}

// Delete removes a product
func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := urlParamUUID(w, r, "id")
	if !ok {
		return
	}

	if err := h.catalogService.DeleteProduct(r.Context(), id); err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			middleware.RespondWithError(w, http.StatusNotFound, "product not found")
			return
		}
		h.logger.Error("Failed to delete product", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to delete product")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "product deleted"})
}

func (h *ProductHandler) toInput(req ProductRequest) service.ProductInput {
	input := service.ProductInput{
		Name:          req.Name,
		Slug:          req.Slug,
		Description:   req.Description,
		Price:         req.Price,
		OriginalPrice: req.OriginalPrice,
		SKU:           req.SKU,
		Stock:         req.Stock,
		IsNew:         req.IsNew,
		IsSale:        req.IsSale,
		IsFeatured:    req.IsFeatured,
		CategoryID:    req.CategoryID,
		BrandID:       req.BrandID,
	}

	// Nil stays nil: a collection absent from the payload must not be
	// mistaken for a request to clear it.
	if req.Images != nil {
		input.Images = make([]domain.ProductImage, 0, len(req.Images))
		for _, img := range req.Images {
			input.Images = append(input.Images, domain.ProductImage{
				ImageURL:  img.ImageURL,
				IsPrimary: img.IsPrimary,
			})
		}
	}
	if req.Specifications != nil {
		input.Specifications = make([]domain.ProductSpecification, 0, len(req.Specifications))
		for _, spec := range req.Specifications {
			input.Specifications = append(input.Specifications, domain.ProductSpecification{
				Name:  spec.Name,
				Value: spec.Value,
			})
		}
	}
	if req.Features != nil {
		input.Features = make([]domain.ProductFeature, 0, len(req.Features))
		for _, feat := range req.Features {
			input.Features = append(input.Features, domain.ProductFeature{Feature: feat})
		}
	}

	return input
}

func (h *ProductHandler) respondProductWriteError(w http.ResponseWriter, err error, op string) {
	switch {
	case errors.Is(err, repository.ErrProductNotFound):
		middleware.RespondWithError(w, http.StatusNotFound, "product not found")
	case errors.Is(err, repository.ErrCategoryNotFound):
		middleware.RespondWithError(w, http.StatusBadRequest, "category not found")
	case errors.Is(err, repository.ErrBrandNotFound):
		middleware.RespondWithError(w, http.StatusBadRequest, "brand not found")
	case errors.Is(err, repository.ErrProductAlreadyExists):
		middleware.RespondWithError(w, http.StatusConflict, "product with this slug already exists")
	case errors.Is(err, service.ErrInvalidPrice), errors.Is(err, service.ErrInvalidStock):
		middleware.RespondWithError(w, http.StatusBadRequest, err.Error())
	default:
		h.logger.Error("Failed to "+op+" product", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to "+op+" product")
	}
}
