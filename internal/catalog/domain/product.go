package domain

import "context"

// Rating is the remote catalog's review aggregate
type Rating struct {
	Rate  float64 `json:"rate"`
	Count int     `json:"count"`
}

// Product is the raw catalog entity, read-only from this service's
// perspective
type Product struct {
	ID          int     `json:"id"`
	Title       string  `json:"title"`
	Price       float64 `json:"price"`
	Description string  `json:"description"`
	Category    string  `json:"category"`
	Image       string  `json:"image"`
	Rating      Rating  `json:"rating"`
}

// Enrichment holds the derived display fields attached to a product.
// Stock, discount and availability are mock values; they are stable
// only within a session-length cache window.
type Enrichment struct {
	SKU                string   `json:"sku"`
	Tags               []string `json:"tags"`
	Brand              string   `json:"brand"`
	Stock              int      `json:"stock"`
	DiscountPercentage int      `json:"discount_percentage"`
	InStock            bool     `json:"in_stock"`
}

// EnhancedProduct is a catalog product plus derived display fields
type EnhancedProduct struct {
	Product
	Enrichment
}

// ProductFilters describes how a catalog listing is filtered, sorted,
// and paginated. Nil pointer fields mean "not constrained".
// Pointer fields distinguish "unset" from zero values.
type ProductFilters struct {
	Search    string
	Category  string // comma-separated, loosely matched
	MinPrice  *float64
	MaxPrice  *float64
	MinRating *float64
	InStock   *bool
	SortBy    string
	Order     string // "asc" (default) or "desc"
	Limit     int
	Offset    int
}

// ProductsResponse is a filtered, sorted, paginated product page
type ProductsResponse struct {
	Products []EnhancedProduct `json:"products"`
	Total    int               `json:"total"`
	Limit    int               `json:"limit"`
	Offset   int               `json:"offset"`
}

// PriceStatistics summarizes the catalog's price distribution
type PriceStatistics struct {
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	Avg    float64 `json:"avg"`
	Median float64 `json:"median"`
}

// RatingStatistics summarizes the catalog's rating distribution
type RatingStatistics struct {
	Min          float64        `json:"min"`
	Max          float64        `json:"max"`
	Avg          float64        `json:"avg"`
	Distribution map[string]int `json:"distribution"`
}

// Suggestions groups search suggestions by kind
type Suggestions struct {
	Products   []string `json:"products"`
	Categories []string `json:"categories"`
	Brands     []string `json:"brands"`
	Tags       []string `json:"tags"`
}

// CreateProductInput is the payload for the create passthrough
type CreateProductInput struct {
	Title       string  `json:"title"`
	Price       float64 `json:"price"`
	Description string  `json:"description"`
	Category    string  `json:"category"`
	Image       string  `json:"image"`
}

// UpdateProductInput is the payload for the update passthrough.
// Nil fields are omitted from the upstream request.
type UpdateProductInput struct {
	Title       *string  `json:"title,omitempty"`
	Price       *float64 `json:"price,omitempty"`
	Description *string  `json:"description,omitempty"`
	Category    *string  `json:"category,omitempty"`
	Image       *string  `json:"image,omitempty"`
}

// Gateway is the remote catalog API. It offers no server-side
// filtering; all querying happens locally on the fetched list.
type Gateway interface {
	FetchProducts(ctx context.Context) ([]Product, error)
	FetchProduct(ctx context.Context, id int) (*Product, error)
	FetchProductsByCategory(ctx context.Context, category string) ([]Product, error)
	FetchCategories(ctx context.Context) ([]string, error)
	CreateProduct(ctx context.Context, input CreateProductInput) (*Product, error)
	UpdateProduct(ctx context.Context, id int, input UpdateProductInput) (*Product, error)
	DeleteProduct(ctx context.Context, id int) (*Product, error)
}

// EnrichmentCache pins derived fields per product id so repeated
// queries within a session see stable mock data
type EnrichmentCache interface {
	Get(ctx context.Context, productID int) (*Enrichment, error)
	Put(ctx context.Context, productID int, enrichment Enrichment) error
}
