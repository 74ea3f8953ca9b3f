package domain

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"sync"

	"github.com/shopnow/storefront/pkg/logger"
)

var brandList = []string{
	"Nike", "Adidas", "Apple", "Samsung", "Sony",
	"Microsoft", "Dell", "HP", "Levi's", "Zara",
}

var commonTags = []string{"new", "sale", "popular", "trending", "best", "featured"}

const maxTags = 5

// Enricher attaches derived display fields to raw catalog products.
// SKU, tags and brand are deterministic; stock, discount and
// availability come from the injected random source, with an optional
// cache keeping them stable per product for a session window.
type Enricher struct {
	mu    sync.Mutex
	rng   *rand.Rand
	cache EnrichmentCache // nil disables caching
}

// NewEnricher creates an enricher with a seedable random source
func NewEnricher(rng *rand.Rand, cache EnrichmentCache) *Enricher {
	return &Enricher{rng: rng, cache: cache}
}

// Enrich derives display fields for every product
func (e *Enricher) Enrich(ctx context.Context, products []Product) []EnhancedProduct {
	enhanced := make([]EnhancedProduct, len(products))
	for i, product := range products {
		enhanced[i] = EnhancedProduct{
			Product:    product,
			Enrichment: e.enrichOne(ctx, product),
		}
	}
	return enhanced
}

// EnrichOne derives display fields for a single product
func (e *Enricher) EnrichOne(ctx context.Context, product Product) EnhancedProduct {
	return EnhancedProduct{
		Product:    product,
		Enrichment: e.enrichOne(ctx, product),
	}
}

func (e *Enricher) enrichOne(ctx context.Context, product Product) Enrichment {
	if e.cache != nil {
		if cached, err := e.cache.Get(ctx, product.ID); err != nil {
			logger.Debug(ctx).Err(err).Int("product_id", product.ID).Msg("Enrichment cache read failed")
		} else if cached != nil {
			return *cached
		}
	}

	e.mu.Lock()
	enrichment := Enrichment{
		SKU:                fmt.Sprintf("SKU-%03d", product.ID),
		Tags:               e.generateTags(product.Category, product.Title),
		Brand:              extractBrand(product.Title),
		Stock:              e.rng.Intn(100) + 10,
		DiscountPercentage: e.randomDiscount(),
		InStock:            e.rng.Float64() > 0.1,
	}
	e.mu.Unlock()

	if e.cache != nil {
		if err := e.cache.Put(ctx, product.ID, enrichment); err != nil {
			logger.Debug(ctx).Err(err).Int("product_id", product.ID).Msg("Enrichment cache write failed")
		}
	}

	return enrichment
}

// randomDiscount gives roughly 30% of products a 10-49% discount
func (e *Enricher) randomDiscount() int {
	if e.rng.Float64() > 0.7 {
		return e.rng.Intn(40) + 10
	}
	return 0
}

// generateTags builds tags from the category and salient title words,
// occasionally adding one common merchandising tag
func (e *Enricher) generateTags(category, title string) []string {
	tags := []string{strings.ToLower(category)}

	for _, word := range strings.Fields(strings.ToLower(title)) {
		if len(word) > 3 && !contains(tags, word) && !contains(commonTags, word) {
			tags = append(tags, word)
		}
	}

	if e.rng.Float64() > 0.5 {
		tag := commonTags[e.rng.Intn(len(commonTags))]
		if !contains(tags, tag) {
			tags = append(tags, tag)
		}
	}

	if len(tags) > maxTags {
		tags = tags[:maxTags]
	}
	return tags
}

func extractBrand(title string) string {
	lowered := strings.ToLower(title)
	for _, brand := range brandList {
		if strings.Contains(lowered, strings.ToLower(brand)) {
			return brand
		}
	}
	return "Generic"
}

func contains(list []string, value string) bool {
	for _, v := range list {
		if v == value {
			return true
		}
	}
	return false
}
