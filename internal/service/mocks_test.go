package service

import (
	"context"
	"time"

	"storefront/internal/domain"
	"storefront/internal/repository"

	"github.com/google/uuid"
)

// In-memory repositories for testing

type mockProductRepository struct {
	products map[uuid.UUID]*domain.Product
}

func newMockProductRepository() *mockProductRepository {
	return &mockProductRepository{products: make(map[uuid.UUID]*domain.Product)}
}

func (m *mockProductRepository) Create(ctx context.Context, product *domain.Product) error {
	m.products[product.ID] = product
	return nil
}

func (m *mockProductRepository) Update(ctx context.Context, product *domain.Product) error {
	existing, exists := m.products[product.ID]
	if !exists {
		return repository.ErrProductNotFound
	}
	// Mirrors the SQL repository: nil child slices keep the stored
	// collections, non-nil slices replace them.
	if product.Images == nil {
		product.Images = existing.Images
	}
	if product.Specifications == nil {
		product.Specifications = existing.Specifications
	}
	if product.Features == nil {
		product.Features = existing.Features
	}
	m.products[product.ID] = product
	return nil
}

func (m *mockProductRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if _, exists := m.products[id]; !exists {
		return repository.ErrProductNotFound
	}
	delete(m.products, id)
	return nil
}

func (m *mockProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	product, exists := m.products[id]
	if !exists {
		return nil, repository.ErrProductNotFound
	}
	return product, nil
}

func (m *mockProductRepository) List(ctx context.Context, filter repository.ProductFilter, page, pageSize int) ([]*domain.Product, int, error) {
	products := make([]*domain.Product, 0, len(m.products))
	for _, p := range m.products {
		products = append(products, p)
	}
	return products, len(products), nil
}

type mockCategoryRepository struct {
	categories map[uuid.UUID]*domain.Category
}

func newMockCategoryRepository() *mockCategoryRepository {
	return &mockCategoryRepository{categories: make(map[uuid.UUID]*domain.Category)}
}

func (m *mockCategoryRepository) Create(ctx context.Context, category *domain.Category) error {
	for _, c := range m.categories {
		if c.Slug == category.Slug {
			return repository.ErrCategoryAlreadyExists
		}
	}
	m.categories[category.ID] = category
	return nil
}

func (m *mockCategoryRepository) Update(ctx context.Context, category *domain.Category) error {
	if _, exists := m.categories[category.ID]; !exists {
		return repository.ErrCategoryNotFound
	}
	m.categories[category.ID] = category
	return nil
}

func (m *mockCategoryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if _, exists := m.categories[id]; !exists {
		return repository.ErrCategoryNotFound
	}
	delete(m.categories, id)
	return nil
}

func (m *mockCategoryRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Category, error) {
	category, exists := m.categories[id]
	if !exists {
		return nil, repository.ErrCategoryNotFound
	}
	return category, nil
}

func (m *mockCategoryRepository) FindBySlug(ctx context.Context, slug string) (*domain.Category, error) {
	for _, c := range m.categories {
		if c.Slug == slug {
			return c, nil
		}
	}
	return nil, repository.ErrCategoryNotFound
}

func (m *mockCategoryRepository) List(ctx context.Context) ([]*domain.Category, error) {
	categories := make([]*domain.Category, 0, len(m.categories))
	for _, c := range m.categories {
		categories = append(categories, c)
	}
	return categories, nil
}

type mockBrandRepository struct {
	brands map[uuid.UUID]*domain.Brand
}

func newMockBrandRepository() *mockBrandRepository {
	return &mockBrandRepository{brands: make(map[uuid.UUID]*domain.Brand)}
}

func (m *mockBrandRepository) Create(ctx context.Context, brand *domain.Brand) error {
	for _, b := range m.brands {
		if b.Slug == brand.Slug {
			return repository.ErrBrandAlreadyExists
		}
	}
	m.brands[brand.ID] = brand
	return nil
}

func (m *mockBrandRepository) Update(ctx context.Context, brand *domain.Brand) error {
	if _, exists := m.brands[brand.ID]; !exists {
		return repository.ErrBrandNotFound
	}
	m.brands[brand.ID] = brand
	return nil
}

func (m *mockBrandRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if _, exists := m.brands[id]; !exists {
		return repository.ErrBrandNotFound
	}
	delete(m.brands, id)
	return nil
}

func (m *mockBrandRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Brand, error) {
	brand, exists := m.brands[id]
	if !exists {
		return nil, repository.ErrBrandNotFound
	}
	return brand, nil
}

func (m *mockBrandRepository) FindBySlug(ctx context.Context, slug string) (*domain.Brand, error) {
	for _, b := range m.brands {
		if b.Slug == slug {
			return b, nil
		}
	}
	return nil, repository.ErrBrandNotFound
}

func (m *mockBrandRepository) List(ctx context.Context) ([]*domain.Brand, error) {
	brands := make([]*domain.Brand, 0, len(m.brands))
	for _, b := range m.brands {
		brands = append(brands, b)
	}
	return brands, nil
}

// mockCartRepository mirrors the upsert semantics of the SQL implementation:
// one cart per session, one line per product, duplicate adds increment.
type mockCartRepository struct {
	carts    map[string]*domain.Cart
	products *mockProductRepository
}

func newMockCartRepository(products *mockProductRepository) *mockCartRepository {
	return &mockCartRepository{
		carts:    make(map[string]*domain.Cart),
		products: products,
	}
}

func (m *mockCartRepository) FindBySession(ctx context.Context, sessionID string) (*domain.Cart, error) {
	cart, exists := m.carts[sessionID]
	if !exists {
		return nil, repository.ErrCartNotFound
	}
	return cart, nil
}

func (m *mockCartRepository) AddItem(ctx context.Context, sessionID string, productID uuid.UUID, quantity int) error {
	product, exists := m.products.products[productID]
	if !exists {
		return repository.ErrProductNotFound
	}

	cart, exists := m.carts[sessionID]
	if !exists {
		cart = &domain.Cart{ID: uuid.New(), SessionID: sessionID}
		m.carts[sessionID] = cart
	}

	for i := range cart.Items {
		if cart.Items[i].ProductID == productID {
			cart.Items[i].Quantity += quantity
			return nil
		}
	}

	cart.Items = append(cart.Items, domain.CartItem{
		ID:           uuid.New(),
		CartID:       cart.ID,
		ProductID:    productID,
		Quantity:     quantity,
		ProductName:  product.Name,
		ProductPrice: product.Price,
	})
	return nil
}

func (m *mockCartRepository) UpdateItemQuantity(ctx context.Context, itemID uuid.UUID, quantity int) error {
	for _, cart := range m.carts {
		for i := range cart.Items {
			if cart.Items[i].ID == itemID {
				cart.Items[i].Quantity = quantity
				return nil
			}
		}
	}
	return repository.ErrCartItemNotFound
}

func (m *mockCartRepository) RemoveItem(ctx context.Context, itemID uuid.UUID) error {
	for _, cart := range m.carts {
		for i := range cart.Items {
			if cart.Items[i].ID == itemID {
				cart.Items = append(cart.Items[:i], cart.Items[i+1:]...)
				return nil
			}
		}
	}
	return repository.ErrCartItemNotFound
}

func (m *mockCartRepository) DeleteBySession(ctx context.Context, sessionID string) error {
	delete(m.carts, sessionID)
	return nil
}

type mockDeliveryLocationRepository struct {
	locations map[uuid.UUID]*domain.DeliveryLocation
}

func newMockDeliveryLocationRepository() *mockDeliveryLocationRepository {
	return &mockDeliveryLocationRepository{locations: make(map[uuid.UUID]*domain.DeliveryLocation)}
}

func (m *mockDeliveryLocationRepository) Create(ctx context.Context, loc *domain.DeliveryLocation) error {
	for _, l := range m.locations {
		if l.Slug == loc.Slug {
			return repository.ErrDeliveryLocationAlreadyExists
		}
	}
	m.locations[loc.ID] = loc
	return nil
}

func (m *mockDeliveryLocationRepository) Update(ctx context.Context, loc *domain.DeliveryLocation) error {
	if _, exists := m.locations[loc.ID]; !exists {
		return repository.ErrDeliveryLocationNotFound
	}
	m.locations[loc.ID] = loc
	return nil
}

func (m *mockDeliveryLocationRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if _, exists := m.locations[id]; !exists {
		return repository.ErrDeliveryLocationNotFound
	}
	delete(m.locations, id)
	return nil
}

func (m *mockDeliveryLocationRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.DeliveryLocation, error) {
	loc, exists := m.locations[id]
	if !exists {
		return nil, repository.ErrDeliveryLocationNotFound
	}
	return loc, nil
}

func (m *mockDeliveryLocationRepository) List(ctx context.Context, activeOnly bool) ([]*domain.DeliveryLocation, error) {
	locations := []*domain.DeliveryLocation{}
	for _, l := range m.locations {
		if activeOnly && !l.IsActive {
			continue
		}
		locations = append(locations, l)
	}
	return locations, nil
}

// mockOrderRepository decrements stock on create the way the SQL
// implementation does inside its transaction.
type mockOrderRepository struct {
	orders   map[uuid.UUID]*domain.Order
	products *mockProductRepository

	// Pending Create calls that fail with ErrOrderNumberTaken before
	// touching any state, like the unique constraint would.
	numberCollisions int
}

func newMockOrderRepository(products *mockProductRepository) *mockOrderRepository {
	return &mockOrderRepository{
		orders:   make(map[uuid.UUID]*domain.Order),
		products: products,
	}
}

func (m *mockOrderRepository) Create(ctx context.Context, order *domain.Order) error {
	if m.numberCollisions > 0 {
		m.numberCollisions--
		return repository.ErrOrderNumberTaken
	}
	for _, item := range order.Items {
		product, exists := m.products.products[item.ProductID]
		if !exists {
			return repository.ErrProductNotFound
		}
		if product.Stock < item.Quantity {
			return repository.ErrInsufficientStock
		}
	}
	for _, item := range order.Items {
		m.products.products[item.ProductID].Stock -= item.Quantity
	}
	m.orders[order.ID] = order
	return nil
}

func (m *mockOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	order, exists := m.orders[id]
	if !exists {
		return nil, repository.ErrOrderNotFound
	}
	return order, nil
}

func (m *mockOrderRepository) List(ctx context.Context, status *domain.OrderStatus, page, pageSize int) ([]*domain.Order, int, error) {
	orders := []*domain.Order{}
	for _, o := range m.orders {
		if status != nil && o.Status != *status {
			continue
		}
		orders = append(orders, o)
	}
	return orders, len(orders), nil
}

func (m *mockOrderRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.OrderStatus) error {
	order, exists := m.orders[id]
	if !exists {
		return repository.ErrOrderNotFound
	}
	order.Status = status
	return nil
}

func (m *mockOrderRepository) UpdatePaymentStatus(ctx context.Context, id uuid.UUID, status domain.PaymentStatus) error {
	order, exists := m.orders[id]
	if !exists {
		return repository.ErrOrderNotFound
	}
	order.PaymentStatus = status
	return nil
}

type mockReviewRepository struct {
	reviews map[uuid.UUID]*domain.Review
}

func newMockReviewRepository() *mockReviewRepository {
	return &mockReviewRepository{reviews: make(map[uuid.UUID]*domain.Review)}
}

func (m *mockReviewRepository) Create(ctx context.Context, review *domain.Review) error {
	m.reviews[review.ID] = review
	return nil
}

func (m *mockReviewRepository) Update(ctx context.Context, review *domain.Review) error {
	if _, exists := m.reviews[review.ID]; !exists {
		return repository.ErrReviewNotFound
	}
	m.reviews[review.ID] = review
	return nil
}

func (m *mockReviewRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if _, exists := m.reviews[id]; !exists {
		return repository.ErrReviewNotFound
	}
	delete(m.reviews, id)
	return nil
}

func (m *mockReviewRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Review, error) {
	review, exists := m.reviews[id]
	if !exists {
		return nil, repository.ErrReviewNotFound
	}
	return review, nil
}

func (m *mockReviewRepository) ListByProduct(ctx context.Context, productID uuid.UUID, page, pageSize int, sortBy string, sortOrder repository.SortOrder) ([]*domain.Review, int, error) {
	reviews := []*domain.Review{}
	for _, r := range m.reviews {
		if r.ProductID == productID {
			reviews = append(reviews, r)
		}
	}
	return reviews, len(reviews), nil
}

type mockAdminRepository struct {
	admins map[string]*domain.AdminUser
}

func newMockAdminRepository() *mockAdminRepository {
	return &mockAdminRepository{admins: make(map[string]*domain.AdminUser)}
}

func (m *mockAdminRepository) FindByUsername(ctx context.Context, username string) (*domain.AdminUser, error) {
	admin, exists := m.admins[username]
	if !exists {
		return nil, repository.ErrAdminNotFound
	}
	copied := *admin
	return &copied, nil
}

func (m *mockAdminRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.AdminUser, error) {
	for _, admin := range m.admins {
		if admin.ID == id {
			copied := *admin
			return &copied, nil
		}
	}
	return nil, repository.ErrAdminNotFound
}

func (m *mockAdminRepository) RecordLoginSuccess(ctx context.Context, id uuid.UUID, at time.Time) error {
	for _, admin := range m.admins {
		if admin.ID == id {
			admin.FailedLoginAttempts = 0
			admin.LockedUntil = nil
			admin.LastLogin = &at
			return nil
		}
	}
	return repository.ErrAdminNotFound
}

func (m *mockAdminRepository) RecordLoginFailure(ctx context.Context, id uuid.UUID, attempts int, lockedUntil *time.Time, at time.Time) error {
	for _, admin := range m.admins {
		if admin.ID == id {
			admin.FailedLoginAttempts = attempts
			admin.LockedUntil = lockedUntil
			admin.LastFailedAttempt = &at
			return nil
		}
	}
	return repository.ErrAdminNotFound
}

func (m *mockAdminRepository) UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	for _, admin := range m.admins {
		if admin.ID == id {
			admin.PasswordHash = passwordHash
			admin.FailedLoginAttempts = 0
			admin.LockedUntil = nil
			return nil
		}
	}
	return repository.ErrAdminNotFound
}
