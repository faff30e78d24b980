package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"storefront/internal/domain"
	"storefront/internal/repository"

	"github.com/google/uuid"
)

var (
	ErrInvalidPrice = errors.New("price must not be negative")
	ErrInvalidStock = errors.New("stock must not be negative")
)

// ProductInput carries the writable fields of a product.
type ProductInput struct {
	Name           string
	Slug           string
	Description    string
	Price          float64
	OriginalPrice  float64
	SKU            string
	Stock          int
	IsNew          bool
	IsSale         bool
	IsFeatured     bool
	CategoryID     uuid.UUID
	BrandID        uuid.UUID
	Images         []domain.ProductImage
	Specifications []domain.ProductSpecification
	Features       []domain.ProductFeature
}

// ProductPage is one page of a filtered product listing.
type ProductPage struct {
	Products []*domain.Product
	Page     int
	PerPage  int
	Total    int
}

// CatalogService exposes category, brand and product operations.
type CatalogService interface {
	ListCategories(ctx context.Context) ([]*domain.Category, error)
	GetCategory(ctx context.Context, id uuid.UUID) (*domain.Category, error)
	CreateCategory(ctx context.Context, name, slug, description string) (*domain.Category, error)
	UpdateCategory(ctx context.Context, id uuid.UUID, name, slug, description string) (*domain.Category, error)
	DeleteCategory(ctx context.Context, id uuid.UUID) error

	ListBrands(ctx context.Context) ([]*domain.Brand, error)
	GetBrand(ctx context.Context, id uuid.UUID) (*domain.Brand, error)
	CreateBrand(ctx context.Context, name, slug, description string) (*domain.Brand, error)
	UpdateBrand(ctx context.Context, id uuid.UUID, name, slug, description string) (*domain.Brand, error)
	DeleteBrand(ctx context.Context, id uuid.UUID) error

	ListProducts(ctx context.Context, filter repository.ProductFilter, page, perPage int) (*ProductPage, error)
	GetProduct(ctx context.Context, id uuid.UUID) (*domain.Product, error)
	CreateProduct(ctx context.Context, input ProductInput) (*domain.Product, error)
	UpdateProduct(ctx context.Context, id uuid.UUID, input ProductInput) (*domain.Product, error)
	DeleteProduct(ctx context.Context, id uuid.UUID) error
}

type catalogService struct {
	categoryRepo repository.CategoryRepository
	brandRepo    repository.BrandRepository
	productRepo  repository.ProductRepository
}

// NewCatalogService creates a new instance of CatalogService
func NewCatalogService(
	categoryRepo repository.CategoryRepository,
	brandRepo repository.BrandRepository,
	productRepo repository.ProductRepository,
) CatalogService {
	return &catalogService{
		categoryRepo: categoryRepo,
		brandRepo:    brandRepo,
		productRepo:  productRepo,
	}
}

func (s *catalogService) ListCategories(ctx context.Context) ([]*domain.Category, error) {
	categories, err := s.categoryRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	return categories, nil
}

func (s *catalogService) GetCategory(ctx context.Context, id uuid.UUID) (*domain.Category, error) {
	return s.categoryRepo.FindByID(ctx, id)
}

func (s *catalogService) CreateCategory(ctx context.Context, name, slug, description string) (*domain.Category, error) {
	category := &domain.Category{
		ID:          uuid.New(),
		Name:        name,
		Slug:        normalizeSlug(slug, name),
		Description: description,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}

	if err := s.categoryRepo.Create(ctx, category); err != nil {
		return nil, err
	}

	return category, nil
}

func (s *catalogService) UpdateCategory(ctx context.Context, id uuid.UUID, name, slug, description string) (*domain.Category, error) {
	category := &domain.Category{
		ID:          id,
		Name:        name,
		Slug:        normalizeSlug(slug, name),
		Description: description,
	}

	if err := s.categoryRepo.Update(ctx, category); err != nil {
		return nil, err
	}

	return s.categoryRepo.FindByID(ctx, id)
}

func (s *catalogService) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	return s.categoryRepo.Delete(ctx, id)
}

func (s *catalogService) ListBrands(ctx context.Context) ([]*domain.Brand, error) {
	brands, err := s.brandRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list brands: %w", err)
	}
	return brands, nil
}

func (s *catalogService) GetBrand(ctx context.Context, id uuid.UUID) (*domain.Brand, error) {
	return s.brandRepo.FindByID(ctx, id)
}

func (s *catalogService) CreateBrand(ctx context.Context, name, slug, description string) (*domain.Brand, error) {
	brand := &domain.Brand{
		ID:          uuid.New(),
		Name:        name,
		Slug:        normalizeSlug(slug, name),
		Description: description,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}

	if err := s.brandRepo.Create(ctx, brand); err != nil {
		return nil, err
	}

	return brand, nil
}

func (s *catalogService) UpdateBrand(ctx context.Context, id uuid.UUID, name, slug, description string) (*domain.Brand, error) {
	brand := &domain.Brand{
		ID:          id,
		Name:        name,
		Slug:        normalizeSlug(slug, name),
		Description: description,
	}

	if err := s.brandRepo.Update(ctx, brand); err != nil {
		return nil, err
	}

	return s.brandRepo.FindByID(ctx, id)
}

func (s *catalogService) DeleteBrand(ctx context.Context, id uuid.UUID) error {
	return s.brandRepo.Delete(ctx, id)
}

func (s *catalogService) ListProducts(ctx context.Context, filter repository.ProductFilter, page, perPage int) (*ProductPage, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > 100 {
		perPage = 20
	}

	products, total, err := s.productRepo.List(ctx, filter, page, perPage)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}

	return &ProductPage{
		Products: products,
		Page:     page,
		PerPage:  perPage,
		Total:    total,
	}, nil
}

func (s *catalogService) GetProduct(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	return s.productRepo.FindByID(ctx, id)
}

func (s *catalogService) CreateProduct(ctx context.Context, input ProductInput) (*domain.Product, error) {
	if err := s.validateProductInput(ctx, input); err != nil {
		return nil, err
	}

	product := &domain.Product{
		ID:             uuid.New(),
		Name:           input.Name,
		Slug:           normalizeSlug(input.Slug, input.Name),
		Description:    input.Description,
		Price:          input.Price,
		OriginalPrice:  input.OriginalPrice,
		SKU:            input.SKU,
		Stock:          input.Stock,
		IsNew:          input.IsNew,
		IsSale:         input.IsSale,
		IsFeatured:     input.IsFeatured,
		CategoryID:     input.CategoryID,
		BrandID:        input.BrandID,
		CreatedAt:      time.Now(),
		UpdatedAt:      time.Now(),
		Images:         input.Images,
		Specifications: input.Specifications,
		Features:       input.Features,
	}

	if err := s.productRepo.Create(ctx, product); err != nil {
		return nil, err
	}

	return s.productRepo.FindByID(ctx, product.ID)
}

func (s *catalogService) UpdateProduct(ctx context.Context, id uuid.UUID, input ProductInput) (*domain.Product, error) {
	if err := s.validateProductInput(ctx, input); err != nil {
		return nil, err
	}

	product := &domain.Product{
		ID:             id,
		Name:           input.Name,
		Slug:           normalizeSlug(input.Slug, input.Name),
		Description:    input.Description,
		Price:          input.Price,
		OriginalPrice:  input.OriginalPrice,
		SKU:            input.SKU,
		Stock:          input.Stock,
		IsNew:          input.IsNew,
		IsSale:         input.IsSale,
		IsFeatured:     input.IsFeatured,
		CategoryID:     input.CategoryID,
		BrandID:        input.BrandID,
		Images:         input.Images,
		Specifications: input.Specifications,
		Features:       input.Features,
	}

	if err := s.productRepo.Update(ctx, product); err != nil {
		return nil, err
	}

	return s.productRepo.FindByID(ctx, id)
}

func (s *catalogService) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	return s.productRepo.Delete(ctx, id)
}

func (s *catalogService) validateProductInput(ctx context.Context, input ProductInput) error {
	if input.Price < 0 {
		return ErrInvalidPrice
	}
	if input.Stock < 0 {
		return ErrInvalidStock
	}

	if _, err := s.categoryRepo.FindByID(ctx, input.CategoryID); err != nil {
		return err
	}
	if _, err := s.brandRepo.FindByID(ctx, input.BrandID); err != nil {
		return err
	}

	return nil
}

var slugCleaner = regexp.MustCompile(`[^a-z0-9]+`)

// normalizeSlug lowercases and strips the given slug, deriving one from the
// name when none was supplied.
func normalizeSlug(slug, name string) string {
	src := slug
	if strings.TrimSpace(src) == "" {
		src = name
	}
	out := slugCleaner.ReplaceAllString(strings.ToLower(src), "-")
	return strings.Trim(out, "-")
}
