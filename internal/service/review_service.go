package service

import (
	"context"
	"errors"
	"time"

	"storefront/internal/domain"
	"storefront/internal/repository"

	"github.com/google/uuid"
)

var (
	ErrInvalidRating = errors.New("rating must be between 1 and 5")
)

// ReviewPage is one page of a product's reviews.
type ReviewPage struct {
	Reviews []*domain.Review
	Page    int
	PerPage int
	Total   int
}

// ReviewService exposes review operations for a product.
type ReviewService interface {
	ListByProduct(ctx context.Context, productID uuid.UUID, page, perPage int, sortBy string, sortOrder repository.SortOrder) (*ReviewPage, error)
	Create(ctx context.Context, productID uuid.UUID, userName, title, comment string, rating int) (*domain.Review, error)
	Update(ctx context.Context, id uuid.UUID, userName, title, comment string, rating int) (*domain.Review, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type reviewService struct {
	reviewRepo  repository.ReviewRepository
	productRepo repository.ProductRepository
}

// NewReviewService creates a new instance of ReviewService
func NewReviewService(reviewRepo repository.ReviewRepository, productRepo repository.ProductRepository) ReviewService {
	return &reviewService{
		reviewRepo:  reviewRepo,
		productRepo: productRepo,
	}
}

func (s *reviewService) ListByProduct(ctx context.Context, productID uuid.UUID, page, perPage int, sortBy string, sortOrder repository.SortOrder) (*ReviewPage, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > 100 {
		perPage = 20
	}

	if _, err := s.productRepo.FindByID(ctx, productID); err != nil {
		return nil, err
	}

	reviews, total, err := s.reviewRepo.ListByProduct(ctx, productID, page, perPage, sortBy, sortOrder)
	if err != nil {
		return nil, err
	}

	return &ReviewPage{
		Reviews: reviews,
		Page:    page,
		PerPage: perPage,
		Total:   total,
	}, nil
}

func (s *reviewService) Create(ctx context.Context, productID uuid.UUID, userName, title, comment string, rating int) (*domain.Review, error) {
	if rating < 1 || rating > 5 {
		return nil, ErrInvalidRating
	}

	if _, err := s.productRepo.FindByID(ctx, productID); err != nil {
		return nil, err
	}

	review := &domain.Review{
		ID:        uuid.New(),
		ProductID: productID,
		UserName:  userName,
		Title:     title,
		Comment:   comment,
		Rating:    rating,
		CreatedAt: time.Now(),
	}

	if err := s.reviewRepo.Create(ctx, review); err != nil {
		return nil, err
	}

	return review, nil
}

func (s *reviewService) Update(ctx context.Context, id uuid.UUID, userName, title, comment string, rating int) (*domain.Review, error) {
	if rating < 1 || rating > 5 {
		return nil, ErrInvalidRating
	}

	existing, err := s.reviewRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	review := &domain.Review{
		ID:        existing.ID,
		ProductID: existing.ProductID,
		UserName:  userName,
		Title:     title,
		Comment:   comment,
		Rating:    rating,
		CreatedAt: existing.CreatedAt,
	}

	if err := s.reviewRepo.Update(ctx, review); err != nil {
		return nil, err
	}

	return review, nil
}

func (s *reviewService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.reviewRepo.Delete(ctx, id)
}
