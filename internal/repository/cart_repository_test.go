package repository

import (
	"context"
	"database/sql"
	"log"
	"testing"
	"time"

	"storefront/internal/domain"

	"github.com/google/uuid"
	"github.com/pressly/goose/v3"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	_ "github.com/jackc/pgx/v5/stdlib"
)

var testDB *sql.DB

func setupTestDB() (func(context.Context, ...testcontainers.TerminateOption) error, error) {
	var (
		dbName = "testdb"
		dbPwd  = "password"
		dbUser = "user"
	)

	dbContainer, err := postgres.Run(
		context.Background(),
		"postgres:15",
		postgres.WithDatabase(dbName),
		postgres.WithUsername(dbUser),
		postgres.WithPassword(dbPwd),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(5*time.Second)),
	)
	if err != nil {
		return nil, err
	}

	dbHost, err := dbContainer.Host(context.Background())
	if err != nil {
		return dbContainer.Terminate, err
	}

	dbPort, err := dbContainer.MappedPort(context.Background(), "5432/tcp")
	if err != nil {
		return dbContainer.Terminate, err
	}

	connStr := "postgres://" + dbUser + ":" + dbPwd + "@" + dbHost + ":" + dbPort.Port() + "/" + dbName + "?sslmode=disable"
	testDB, err = sql.Open("pgx", connStr)
	if err != nil {
		return dbContainer.Terminate, err
	}

	// Apply the real schema so constraint behavior matches production.
	if err := goose.SetDialect("postgres"); err != nil {
		return dbContainer.Terminate, err
	}
	if err := goose.Up(testDB, "../../migrations"); err != nil {
		return dbContainer.Terminate, err
	}

	return dbContainer.Terminate, nil
}

func TestMain(m *testing.M) {
	teardown, err := setupTestDB()
	if err != nil {
		log.Fatalf("could not start postgres container: %v", err)
	}

	m.Run()

	if teardown != nil {
		if err := teardown(context.Background()); err != nil {
			log.Fatalf("could not teardown postgres container: %v", err)
		}
	}
}

func seedCatalogProduct(t *testing.T, price float64, stock int) *domain.Product {
	t.Helper()
	ctx := context.Background()

	categoryRepo := NewCategoryRepository(testDB)
	brandRepo := NewBrandRepository(testDB)
	productRepo := NewProductRepository(testDB)

	category := &domain.Category{
		ID: uuid.New(), Name: "Cat " + uuid.NewString(), Slug: "cat-" + uuid.NewString(),
		CreatedAt: time.Now(), UpdatedAt: time.Now(),
	}
	if err := categoryRepo.Create(ctx, category); err != nil {
		t.Fatalf("failed to seed category: %v", err)
	}

	brand := &domain.Brand{
		ID: uuid.New(), Name: "Brand " + uuid.NewString(), Slug: "brand-" + uuid.NewString(),
		CreatedAt: time.Now(), UpdatedAt: time.Now(),
	}
	if err := brandRepo.Create(ctx, brand); err != nil {
		t.Fatalf("failed to seed brand: %v", err)
	}

	product := &domain.Product{
		ID: uuid.New(), Name: "Widget", Slug: "widget-" + uuid.NewString(),
		Price: price, Stock: stock, CategoryID: category.ID, BrandID: brand.ID,
		CreatedAt: time.Now(), UpdatedAt: time.Now(),
	}
	if err := productRepo.Create(ctx, product); err != nil {
		t.Fatalf("failed to seed product: %v", err)
	}

	return product
}

func TestProductRepository_Update_OmittedChildrenSurvive(t *testing.T) {
	productRepo := NewProductRepository(testDB)
	product := seedCatalogProduct(t, 10, 5)
	ctx := context.Background()

	product.Images = []domain.ProductImage{{ImageURL: "https://cdn.example.com/a.jpg", IsPrimary: true}}
	product.Specifications = []domain.ProductSpecification{{Name: "Weight", Value: "1.2kg"}}
	product.Features = []domain.ProductFeature{{Feature: "Backlit keyboard"}}
	if err := productRepo.Update(ctx, product); err != nil {
		t.Fatalf("failed to attach children: %v", err)
	}

	// Price-only update: nil child slices must leave the stored
	// collections alone.
	stored, err := productRepo.FindByID(ctx, product.ID)
	if err != nil {
		t.Fatalf("find failed: %v", err)
	}
	stored.Price = 12
	stored.Images = nil
	stored.Specifications = nil
	stored.Features = nil
	if err := productRepo.Update(ctx, stored); err != nil {
		t.Fatalf("update failed: %v", err)
	}

	stored, err = productRepo.FindByID(ctx, product.ID)
	if err != nil {
		t.Fatalf("find failed: %v", err)
	}
	if stored.Price != 12 {
		t.Fatalf("expected price 12, got %f", stored.Price)
	}
	if len(stored.Images) != 1 || len(stored.Specifications) != 1 || len(stored.Features) != 1 {
		t.Fatalf("expected children untouched, got %d images, %d specs, %d features",
			len(stored.Images), len(stored.Specifications), len(stored.Features))
	}

	// An explicitly empty slice clears just that collection.
	stored.Images = []domain.ProductImage{}
	stored.Specifications = nil
	stored.Features = nil
	if err := productRepo.Update(ctx, stored); err != nil {
		t.Fatalf("update failed: %v", err)
	}

	stored, err = productRepo.FindByID(ctx, product.ID)
	if err != nil {
		t.Fatalf("find failed: %v", err)
	}
	if len(stored.Images) != 0 {
		t.Fatalf("expected images cleared, got %d", len(stored.Images))
	}
	if len(stored.Specifications) != 1 || len(stored.Features) != 1 {
		t.Fatalf("expected other collections untouched, got %d specs, %d features",
			len(stored.Specifications), len(stored.Features))
	}
}

func TestCartRepository_AddItem_UpsertIncrementsQuantity(t *testing.T) {
	repo := NewCartRepository(testDB)
	product := seedCatalogProduct(t, 19.99, 50)
	ctx := context.Background()
	sessionID := "it-" + uuid.NewString()

	if err := repo.AddItem(ctx, sessionID, product.ID, 2); err != nil {
		t.Fatalf("first add failed: %v", err)
	}
	if err := repo.AddItem(ctx, sessionID, product.ID, 3); err != nil {
		t.Fatalf("second add failed: %v", err)
	}

	cart, err := repo.FindBySession(ctx, sessionID)
	if err != nil {
		t.Fatalf("find failed: %v", err)
	}
	if len(cart.Items) != 1 {
		t.Fatalf("expected one merged line, got %d", len(cart.Items))
	}
	if cart.Items[0].Quantity != 5 {
		t.Fatalf("expected quantity 5, got %d", cart.Items[0].Quantity)
	}
	if cart.Items[0].ProductPrice != 19.99 {
		t.Fatalf("expected denormalized price 19.99, got %f", cart.Items[0].ProductPrice)
	}
}

func TestCartRepository_AddItem_UnknownProduct(t *testing.T) {
	repo := NewCartRepository(testDB)
	ctx := context.Background()

	err := repo.AddItem(ctx, "it-"+uuid.NewString(), uuid.New(), 1)
	if err != ErrProductNotFound {
		t.Fatalf("expected ErrProductNotFound, got %v", err)
	}
}

func TestCartRepository_DeleteBySession_CascadesItems(t *testing.T) {
	repo := NewCartRepository(testDB)
	product := seedCatalogProduct(t, 5, 50)
	ctx := context.Background()
	sessionID := "it-" + uuid.NewString()

	if err := repo.AddItem(ctx, sessionID, product.ID, 1); err != nil {
		t.Fatalf("add failed: %v", err)
	}
	if err := repo.DeleteBySession(ctx, sessionID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if _, err := repo.FindBySession(ctx, sessionID); err != ErrCartNotFound {
		t.Fatalf("expected ErrCartNotFound, got %v", err)
	}

	// Deleting again is a no-op, not an error.
	if err := repo.DeleteBySession(ctx, sessionID); err != nil {
		t.Fatalf("second delete should be a no-op, got %v", err)
	}
}

func newTestOrder(product *domain.Product, quantity int) *domain.Order {
	now := time.Now()
	return &domain.Order{
		ID:            uuid.New(),
		OrderNumber:   "ORD-TEST-" + uuid.NewString()[:6],
		CustomerName:  "Jane Doe",
		CustomerEmail: "jane@example.com",
		AddressLine:   "1 Main St",
		Subtotal:      product.Price * float64(quantity),
		ShippingCost:  0,
		TotalAmount:   product.Price * float64(quantity),
		Status:        domain.OrderStatusPending,
		PaymentStatus: domain.PaymentStatusPending,
		CreatedAt:     now,
		UpdatedAt:     now,
		Items: []domain.OrderItem{{
			ID:          uuid.New(),
			ProductID:   product.ID,
			ProductName: product.Name,
			Quantity:    quantity,
			UnitPrice:   product.Price,
		}},
	}
}

func seedDeliveryLocation(t *testing.T) *domain.DeliveryLocation {
	t.Helper()

	loc := &domain.DeliveryLocation{
		ID: uuid.New(), Name: "Zone " + uuid.NewString(), Slug: "zone-" + uuid.NewString(),
		City: "Springfield", ShippingPrice: 0, IsActive: true,
		CreatedAt: time.Now(), UpdatedAt: time.Now(),
	}
	if err := NewDeliveryLocationRepository(testDB).Create(context.Background(), loc); err != nil {
		t.Fatalf("failed to seed delivery location: %v", err)
	}
	return loc
}

func TestOrderRepository_Create_DecrementsStock(t *testing.T) {
	orderRepo := NewOrderRepository(testDB)
	productRepo := NewProductRepository(testDB)
	product := seedCatalogProduct(t, 10, 8)
	loc := seedDeliveryLocation(t)
	ctx := context.Background()

	order := newTestOrder(product, 3)
	order.DeliveryLocationID = loc.ID

	if err := orderRepo.Create(ctx, order); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	stored, err := productRepo.FindByID(ctx, product.ID)
	if err != nil {
		t.Fatalf("find product failed: %v", err)
	}
	if stored.Stock != 5 {
		t.Fatalf("expected stock 5 after order, got %d", stored.Stock)
	}
}

func TestOrderRepository_Create_OversellRollsBack(t *testing.T) {
	orderRepo := NewOrderRepository(testDB)
	productRepo := NewProductRepository(testDB)
	product := seedCatalogProduct(t, 10, 2)
	loc := seedDeliveryLocation(t)
	ctx := context.Background()

	order := newTestOrder(product, 3)
	order.DeliveryLocationID = loc.ID

	if err := orderRepo.Create(ctx, order); err != ErrInsufficientStock {
		t.Fatalf("expected ErrInsufficientStock, got %v", err)
	}

	// Nothing from the failed order may survive.
	if _, err := orderRepo.FindByID(ctx, order.ID); err != ErrOrderNotFound {
		t.Fatalf("expected order rolled back, got %v", err)
	}
	stored, err := productRepo.FindByID(ctx, product.ID)
	if err != nil {
		t.Fatalf("find product failed: %v", err)
	}
	if stored.Stock != 2 {
		t.Fatalf("expected stock untouched at 2, got %d", stored.Stock)
	}
}

func TestCategoryRepository_Delete_BlockedWhileInUse(t *testing.T) {
	categoryRepo := NewCategoryRepository(testDB)
	product := seedCatalogProduct(t, 10, 5)
	ctx := context.Background()

	if err := categoryRepo.Delete(ctx, product.CategoryID); err != ErrCategoryInUse {
		t.Fatalf("expected ErrCategoryInUse, got %v", err)
	}
}

func TestReviewRepository_Create_RefreshesProductRating(t *testing.T) {
	reviewRepo := NewReviewRepository(testDB)
	productRepo := NewProductRepository(testDB)
	product := seedCatalogProduct(t, 10, 5)
	ctx := context.Background()

	for _, rating := range []int{5, 3} {
		review := &domain.Review{
			ID:        uuid.New(),
			ProductID: product.ID,
			UserName:  "alice",
			Title:     "Title",
			Comment:   "Comment",
			Rating:    rating,
			CreatedAt: time.Now(),
		}
		if err := reviewRepo.Create(ctx, review); err != nil {
			t.Fatalf("create review failed: %v", err)
		}
	}

	stored, err := productRepo.FindByID(ctx, product.ID)
	if err != nil {
		t.Fatalf("find product failed: %v", err)
	}
	if stored.ReviewCount != 2 {
		t.Fatalf("expected review count 2, got %d", stored.ReviewCount)
	}
	if stored.Rating != 4 {
		t.Fatalf("expected aggregate rating 4, got %f", stored.Rating)
	}
}
