package domain

import (
	"time"

	"github.com/google/uuid"
)

// Category groups products and is addressable by a URL-safe slug.
type Category struct {
	ID          uuid.UUID `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	Slug        string    `json:"slug" db:"slug"`
	Description string    `json:"description" db:"description"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

// Brand is a product manufacturer, addressable by a URL-safe slug.
type Brand struct {
	ID          uuid.UUID `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	Slug        string    `json:"slug" db:"slug"`
	Description string    `json:"description" db:"description"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

// Product represents a catalog product.
type Product struct {
	ID            uuid.UUID `json:"id" db:"id"`
	Name          string    `json:"name" db:"name"`
	Slug          string    `json:"slug" db:"slug"`
	Description   string    `json:"description" db:"description"`
	Price         float64   `json:"price" db:"price"`
	OriginalPrice float64   `json:"original_price" db:"original_price"`
	SKU           string    `json:"sku" db:"sku"`
	Stock         int       `json:"stock" db:"stock"`
	IsNew         bool      `json:"is_new" db:"is_new"`
	IsSale        bool      `json:"is_sale" db:"is_sale"`
	IsFeatured    bool      `json:"is_featured" db:"is_featured"`
	Rating        float64   `json:"rating" db:"rating"`
	ReviewCount   int       `json:"review_count" db:"review_count"`
	CategoryID    uuid.UUID `json:"category_id" db:"category_id"`
	BrandID       uuid.UUID `json:"brand_id" db:"brand_id"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time `json:"updated_at" db:"updated_at"`

	// Loaded with the product on reads, replaced wholesale on writes.
	Images         []ProductImage         `json:"images,omitempty"`
	Specifications []ProductSpecification `json:"specifications,omitempty"`
	Features       []ProductFeature       `json:"features,omitempty"`
}

// ProductImage is one image attached to a product.
type ProductImage struct {
	ID           uuid.UUID `json:"id" db:"id"`
	ProductID    uuid.UUID `json:"product_id" db:"product_id"`
	ImageURL     string    `json:"image_url" db:"image_url"`
	IsPrimary    bool      `json:"is_primary" db:"is_primary"`
	DisplayOrder int       `json:"display_order" db:"display_order"`
}

// ProductSpecification is a name/value pair such as "Weight: 1.2kg".
type ProductSpecification struct {
	ID           uuid.UUID `json:"id" db:"id"`
	ProductID    uuid.UUID `json:"product_id" db:"product_id"`
	Name         string    `json:"name" db:"name"`
	Value        string    `json:"value" db:"value"`
	DisplayOrder int       `json:"display_order" db:"display_order"`
}

// ProductFeature is a single bullet-point feature line.
type ProductFeature struct {
	ID           uuid.UUID `json:"id" db:"id"`
	ProductID    uuid.UUID `json:"product_id" db:"product_id"`
	Feature      string    `json:"feature" db:"feature"`
	DisplayOrder int       `json:"display_order" db:"display_order"`
}
