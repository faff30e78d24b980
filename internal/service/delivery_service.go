package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"storefront/internal/domain"
	"storefront/internal/repository"

	"github.com/google/uuid"
)

var ErrInvalidShippingPrice = errors.New("shipping price must not be negative")

// DeliveryLocationInput carries the writable fields of a delivery location.
type DeliveryLocationInput struct {
	Name          string
	Slug          string
	City          string
	ShippingPrice float64
	IsActive      bool
}

// DeliveryService exposes delivery location operations.
type DeliveryService interface {
	List(ctx context.Context, activeOnly bool) ([]*domain.DeliveryLocation, error)
	Get(ctx context.Context, id uuid.UUID) (*domain.DeliveryLocation, error)
	Create(ctx context.Context, input DeliveryLocationInput) (*domain.DeliveryLocation, error)
	Update(ctx context.Context, id uuid.UUID, input DeliveryLocationInput) (*domain.DeliveryLocation, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type deliveryService struct {
	deliveryRepo repository.DeliveryLocationRepository
}

// NewDeliveryService creates a new instance of DeliveryService
func NewDeliveryService(deliveryRepo repository.DeliveryLocationRepository) DeliveryService {
	return &deliveryService{deliveryRepo: deliveryRepo}
}

func (s *deliveryService) List(ctx context.Context, activeOnly bool) ([]*domain.DeliveryLocation, error) {
	locations, err := s.deliveryRepo.List(ctx, activeOnly)
	if err != nil {
		return nil, fmt.Errorf("failed to list delivery locations: %w", err)
	}
	return locations, nil
}

func (s *deliveryService) Get(ctx context.Context, id uuid.UUID) (*domain.DeliveryLocation, error) {
	return s.deliveryRepo.FindByID(ctx, id)
}

func (s *deliveryService) Create(ctx context.Context, input DeliveryLocationInput) (*domain.DeliveryLocation, error) {
	if input.ShippingPrice < 0 {
		return nil, ErrInvalidShippingPrice
	}

	loc := &domain.DeliveryLocation{
		ID:            uuid.New(),
		Name:          input.Name,
		Slug:          normalizeSlug(input.Slug, input.Name),
		City:          input.City,
		ShippingPrice: input.ShippingPrice,
		IsActive:      input.IsActive,
		CreatedAt:     time.Now(),
		UpdatedAt:     time.Now(),
	}

	if err := s.deliveryRepo.Create(ctx, loc); err != nil {
		return nil, err
	}

	return loc, nil
}

func (s *deliveryService) Update(ctx context.Context, id uuid.UUID, input DeliveryLocationInput) (*domain.DeliveryLocation, error) {
	if input.ShippingPrice < 0 {
		return nil, ErrInvalidShippingPrice
	}

	loc := &domain.DeliveryLocation{
		ID:            id,
		Name:          input.Name,
		Slug:          normalizeSlug(input.Slug, input.Name),
		City:          input.City,
		ShippingPrice: input.ShippingPrice,
		IsActive:      input.IsActive,
	}

	if err := s.deliveryRepo.Update(ctx, loc); err != nil {
		return nil, err
	}

	return s.deliveryRepo.FindByID(ctx, id)
}

func (s *deliveryService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.deliveryRepo.Delete(ctx, id)
}
