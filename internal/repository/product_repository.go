package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"storefront/internal/domain"

	"github.com/google/uuid"
)

var (
	ErrProductNotFound      = errors.New("product not found")
	ErrProductAlreadyExists = errors.New("product with this slug already exists")
)

// ProductFilter holds the optional filters for product listing.
type ProductFilter struct {
	CategorySlug string
	BrandSlug    string
	MinPrice     *float64
	MaxPrice     *float64
	IsFeatured   *bool
	IsNew        *bool
	IsSale       *bool
	Search       string
}

// ProductRepository defines the interface for product data access
type ProductRepository interface {
	Create(ctx context.Context, product *domain.Product) error
	Update(ctx context.Context, product *domain.Product) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Product, error)
	List(ctx context.Context, filter ProductFilter, page, pageSize int) ([]*domain.Product, int, error)
}

type productRepository struct {
	db *sql.DB
}

// NewProductRepository creates a new instance of ProductRepository
func NewProductRepository(db *sql.DB) ProductRepository {
	return &productRepository{db: db}
}

const productColumns = `id, name, slug, description, price, original_price, sku, stock,
	is_new, is_sale, is_featured, rating, review_count, category_id, brand_id,
	created_at, updated_at`

// Create inserts a product together with its images, specifications and
// features in a single transaction.
func (r *productRepository) Create(ctx context.Context, product *domain.Product) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO products (id, name, slug, description, price, original_price, sku, stock,
			is_new, is_sale, is_featured, rating, review_count, category_id, brand_id,
			created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
	`

	_, err = tx.ExecContext(
		ctx,
		query,
		product.ID,
		product.Name,
		product.Slug,
		product.Description,
		product.Price,
		product.OriginalPrice,
		product.SKU,
		product.Stock,
		product.IsNew,
		product.IsSale,
		product.IsFeatured,
		product.Rating,
		product.ReviewCount,
		product.CategoryID,
		product.BrandID,
		product.CreatedAt,
		product.UpdatedAt,
	)

	if err != nil {
		if isUniqueViolation(err) {
			return ErrProductAlreadyExists
		}
		return fmt.Errorf("failed to create product: %w", err)
	}

	if err := r.insertChildren(ctx, tx, product); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit product create: %w", err)
	}

	return nil
}

// Update rewrites the product row and replaces its child collections
// wholesale when they are present.
func (r *productRepository) Update(ctx context.Context, product *domain.Product) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		UPDATE products
		SET name = $2, slug = $3, description = $4, price = $5, original_price = $6,
			sku = $7, stock = $8, is_new = $9, is_sale = $10, is_featured = $11,
			category_id = $12, brand_id = $13
		WHERE id = $1
	`

	result, err := tx.ExecContext(
		ctx,
		query,
		product.ID,
		product.Name,
		product.Slug,
		product.Description,
		product.Price,
		product.OriginalPrice,
		product.SKU,
		product.Stock,
		product.IsNew,
		product.IsSale,
		product.IsFeatured,
		product.CategoryID,
		product.BrandID,
	)

	if err != nil {
		if isUniqueViolation(err) {
			return ErrProductAlreadyExists
		}
		return fmt.Errorf("failed to update product: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrProductNotFound
	}

	// A nil slice means the collection was not part of the update; only
	// provided collections are replaced, an empty non-nil slice clears one.
	if product.Images != nil {
		if _, err := tx.ExecContext(ctx, `DELETE FROM product_images WHERE product_id = $1`, product.ID); err != nil {
			return fmt.Errorf("failed to clear product_images: %w", err)
		}
		if err := r.insertImages(ctx, tx, product); err != nil {
			return err
		}
	}
	if product.Specifications != nil {
		if _, err := tx.ExecContext(ctx, `DELETE FROM product_specifications WHERE product_id = $1`, product.ID); err != nil {
			return fmt.Errorf("failed to clear product_specifications: %w", err)
		}
		if err := r.insertSpecifications(ctx, tx, product); err != nil {
			return err
		}
	}
	if product.Features != nil {
		if _, err := tx.ExecContext(ctx, `DELETE FROM product_features WHERE product_id = $1`, product.ID); err != nil {
			return fmt.Errorf("failed to clear product_features: %w", err)
		}
		if err := r.insertFeatures(ctx, tx, product); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit product update: %w", err)
	}

	return nil
}

func (r *productRepository) insertChildren(ctx context.Context, tx *sql.Tx, product *domain.Product) error {
	if err := r.insertImages(ctx, tx, product); err != nil {
		return err
	}
	if err := r.insertSpecifications(ctx, tx, product); err != nil {
		return err
	}
	return r.insertFeatures(ctx, tx, product)
}

func (r *productRepository) insertImages(ctx context.Context, tx *sql.Tx, product *domain.Product) error {
	for i, img := range product.Images {
		if img.ID == uuid.Nil {
			img.ID = uuid.New()
		}
		_, err := tx.ExecContext(ctx,
			`INSERT INTO product_images (id, product_id, image_url, is_primary, display_order)
			 VALUES ($1, $2, $3, $4, $5)`,
			img.ID, product.ID, img.ImageURL, img.IsPrimary, i,
		)
		if err != nil {
			return fmt.Errorf("failed to insert product image: %w", err)
		}
	}
	return nil
}

func (r *productRepository) insertSpecifications(ctx context.Context, tx *sql.Tx, product *domain.Product) error {
	for i, spec := range product.Specifications {
		if spec.ID == uuid.Nil {
			spec.ID = uuid.New()
		}
		_, err := tx.ExecContext(ctx,
			`INSERT INTO product_specifications (id, product_id, name, value, display_order)
			 VALUES ($1, $2, $3, $4, $5)`,
			spec.ID, product.ID, spec.Name, spec.Value, i,
		)
		if err != nil {
			return fmt.Errorf("failed to insert product specification: %w", err)
		}
	}
	return nil
}

func (r *productRepository) insertFeatures(ctx context.Context, tx *sql.Tx, product *domain.Product) error {
	for i, feat := range product.Features {
		if feat.ID == uuid.Nil {
			feat.ID = uuid.New()
		}
		_, err := tx.ExecContext(ctx,
			`INSERT INTO product_features (id, product_id, feature, display_order)
			 VALUES ($1, $2, $3, $4)`,
			feat.ID, product.ID, feat.Feature, i,
		)
		if err != nil {
			return fmt.Errorf("failed to insert product feature: %w", err)
		}
	}

	return nil
}

// Delete removes a product from the database using parameterized queries
func (r *productRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM products WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrProductNotFound
	}

	return nil
}

// FindByID retrieves a product with its images, specifications and features.
func (r *productRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	query := fmt.Sprintf(`SELECT %s FROM products WHERE id = $1`, productColumns)

	product := &domain.Product{}
	err := scanProduct(r.db.QueryRowContext(ctx, query, id), product)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to find product by ID: %w", err)
	}

	if err := r.loadChildren(ctx, product); err != nil {
		return nil, err
	}

	return product, nil
}

func (r *productRepository) loadChildren(ctx context.Context, product *domain.Product) error {
	imgRows, err := r.db.QueryContext(ctx,
		`SELECT id, product_id, image_url, is_primary, display_order
		 FROM product_images WHERE product_id = $1 ORDER BY display_order ASC`,
		product.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to load product images: %w", err)
	}
	defer imgRows.Close()

	for imgRows.Next() {
		img := domain.ProductImage{}
		if err := imgRows.Scan(&img.ID, &img.ProductID, &img.ImageURL, &img.IsPrimary, &img.DisplayOrder); err != nil {
			return fmt.Errorf("failed to scan product image: %w", err)
		}
		product.Images = append(product.Images, img)
	}
	if err := imgRows.Err(); err != nil {
		return fmt.Errorf("error iterating product images: %w", err)
	}

	specRows, err := r.db.QueryContext(ctx,
		`SELECT id, product_id, name, value, display_order
		 FROM product_specifications WHERE product_id = $1 ORDER BY display_order ASC`,
		product.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to load product specifications: %w", err)
	}
	defer specRows.Close()

	for specRows.Next() {
		spec := domain.ProductSpecification{}
		if err := specRows.Scan(&spec.ID, &spec.ProductID, &spec.Name, &spec.Value, &spec.DisplayOrder); err != nil {
			return fmt.Errorf("failed to scan product specification: %w", err)
		}
		product.Specifications = append(product.Specifications, spec)
	}
	if err := specRows.Err(); err != nil {
		return fmt.Errorf("error iterating product specifications: %w", err)
	}

	featRows, err := r.db.QueryContext(ctx,
		`SELECT id, product_id, feature, display_order
		 FROM product_features WHERE product_id = $1 ORDER BY display_order ASC`,
		product.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to load product features: %w", err)
	}
	defer featRows.Close()

	for featRows.Next() {
		feat := domain.ProductFeature{}
		if err := featRows.Scan(&feat.ID, &feat.ProductID, &feat.Feature, &feat.DisplayOrder); err != nil {
			return fmt.Errorf("failed to scan product feature: %w", err)
		}
		product.Features = append(product.Features, feat)
	}
	if err := featRows.Err(); err != nil {
		return fmt.Errorf("error iterating product features: %w", err)
	}

	return nil
}

// List retrieves products matching the filter with pagination. The total
// count reflects the filter, not the page.
func (r *productRepository) List(ctx context.Context, filter ProductFilter, page, pageSize int) ([]*domain.Product, int, error) {
	conditions := []string{}
	args := []interface{}{}
	argIndex := 1

	addCondition := func(cond string, value interface{}) {
		conditions = append(conditions, fmt.Sprintf(cond, argIndex))
		args = append(args, value)
		argIndex++
	}

	if filter.CategorySlug != "" {
		addCondition("p.category_id = (SELECT id FROM categories WHERE slug = $%d)", filter.CategorySlug)
	}
	if filter.BrandSlug != "" {
		addCondition("p.brand_id = (SELECT id FROM brands WHERE slug = $%d)", filter.BrandSlug)
	}
	if filter.MinPrice != nil {
		addCondition("p.price >= $%d", *filter.MinPrice)
	}
	if filter.MaxPrice != nil {
		addCondition("p.price <= $%d", *filter.MaxPrice)
	}
	if filter.IsFeatured != nil {
		addCondition("p.is_featured = $%d", *filter.IsFeatured)
	}
	if filter.IsNew != nil {
		addCondition("p.is_new = $%d", *filter.IsNew)
	}
	if filter.IsSale != nil {
		addCondition("p.is_sale = $%d", *filter.IsSale)
	}
	if strings.TrimSpace(filter.Search) != "" {
		addCondition("p.name ILIKE $%d", "%"+strings.TrimSpace(filter.Search)+"%")
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = "WHERE " + strings.Join(conditions, " AND ")
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM products p %s", whereClause)
	var total int
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count products: %w", err)
	}

	offset := (page - 1) * pageSize

	query := fmt.Sprintf(`
		SELECT %s
		FROM products p
		%s
		ORDER BY p.created_at DESC
		LIMIT $%d OFFSET $%d
	`, productColumns, whereClause, argIndex, argIndex+1)

	args = append(args, pageSize, offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list products: %w", err)
	}
	defer rows.Close()

	products := []*domain.Product{}
	for rows.Next() {
		product := &domain.Product{}
		if err := scanProduct(rows, product); err != nil {
			return nil, 0, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, product)
	}

	if err = rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating products: %w", err)
	}

	return products, total, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanProduct(row rowScanner, product *domain.Product) error {
	return row.Scan(
		&product.ID,
		&product.Name,
		&product.Slug,
		&product.Description,
		&product.Price,
		&product.OriginalPrice,
		&product.SKU,
		&product.Stock,
		&product.IsNew,
		&product.IsSale,
		&product.IsFeatured,
		&product.Rating,
		&product.ReviewCount,
		&product.CategoryID,
		&product.BrandID,
		&product.CreatedAt,
		&product.UpdatedAt,
	)
}
