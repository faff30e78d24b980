package service

import (
	"context"
	"errors"
	"fmt"

	"storefront/internal/domain"
	"storefront/internal/repository"

	"github.com/google/uuid"
)

var (
	ErrInvalidQuantity = errors.New("quantity must be greater than zero")
	ErrEmptySessionID  = errors.New("session_id is required")
)

// CartService exposes cart operations keyed by an opaque session token.
type CartService interface {
	GetCart(ctx context.Context, sessionID string) (*domain.Cart, error)
	AddItem(ctx context.Context, sessionID string, productID uuid.UUID, quantity int) (*domain.Cart, error)
	UpdateItemQuantity(ctx context.Context, itemID uuid.UUID, quantity int) error
	RemoveItem(ctx context.Context, itemID uuid.UUID) error
	ClearCart(ctx context.Context, sessionID string) error
}

type cartService struct {
	cartRepo    repository.CartRepository
	productRepo repository.ProductRepository
}

// NewCartService creates a new instance of CartService
func NewCartService(cartRepo repository.CartRepository, productRepo repository.ProductRepository) CartService {
	return &cartService{
		cartRepo:    cartRepo,
		productRepo: productRepo,
	}
}

// GetCart returns the cart for a session. A session with no cart yet gets an
// empty cart representation, not an error.
func (s *cartService) GetCart(ctx context.Context, sessionID string) (*domain.Cart, error) {
	if sessionID == "" {
		return nil, ErrEmptySessionID
	}

	cart, err := s.cartRepo.FindBySession(ctx, sessionID)
	if err != nil {
		if err == repository.ErrCartNotFound {
			return &domain.Cart{SessionID: sessionID, Items: []domain.CartItem{}}, nil
		}
		return nil, fmt.Errorf("failed to get cart: %w", err)
	}

	return cart, nil
}

// AddItem validates the product and upserts the line, then returns the
// refreshed cart.
func (s *cartService) AddItem(ctx context.Context, sessionID string, productID uuid.UUID, quantity int) (*domain.Cart, error) {
	if sessionID == "" {
		return nil, ErrEmptySessionID
	}
	if quantity <= 0 {
		return nil, ErrInvalidQuantity
	}

	if _, err := s.productRepo.FindByID(ctx, productID); err != nil {
		return nil, err
	}

	if err := s.cartRepo.AddItem(ctx, sessionID, productID, quantity); err != nil {
		return nil, err
	}

	return s.cartRepo.FindBySession(ctx, sessionID)
}

func (s *cartService) UpdateItemQuantity(ctx context.Context, itemID uuid.UUID, quantity int) error {
	if quantity <= 0 {
		return ErrInvalidQuantity
	}

	return s.cartRepo.UpdateItemQuantity(ctx, itemID, quantity)
}

func (s *cartService) RemoveItem(ctx context.Context, itemID uuid.UUID) error {
	return s.cartRepo.RemoveItem(ctx, itemID)
}

// ClearCart deletes the session's cart. Clearing a session with no cart is
// a no-op.
func (s *cartService) ClearCart(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return ErrEmptySessionID
	}

	return s.cartRepo.DeleteBySession(ctx, sessionID)
}
