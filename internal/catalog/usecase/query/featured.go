package query

import (
	"context"
	"fmt"
	"sort"

	"github.com/shopnow/storefront/internal/catalog/domain"
)

const defaultHighlightLimit = 5

// FeaturedHandler surfaces top-rated and discounted products for the
// storefront's highlight rails
type FeaturedHandler struct {
	gateway  domain.Gateway
	enricher *domain.Enricher
}

// NewFeaturedHandler creates a new featured products handler
func NewFeaturedHandler(gateway domain.Gateway, enricher *domain.Enricher) *FeaturedHandler {
	return &FeaturedHandler{gateway: gateway, enricher: enricher}
}

// Featured returns the top-rated products
func (h *FeaturedHandler) Featured(ctx context.Context, limit int) ([]domain.EnhancedProduct, error) {
	enhanced, err := h.fetch(ctx)
	if err != nil {
		return nil, err
	}

	sort.SliceStable(enhanced, func(i, j int) bool {
		return enhanced[i].Rating.Rate > enhanced[j].Rating.Rate
	})

	return truncate(enhanced, limit), nil
}

// Discounted returns products carrying a discount, highest first
func (h *FeaturedHandler) Discounted(ctx context.Context, limit int) ([]domain.EnhancedProduct, error) {
	enhanced, err := h.fetch(ctx)
	if err != nil {
		return nil, err
	}

	discounted := make([]domain.EnhancedProduct, 0, len(enhanced))
	for _, p := range enhanced {
		if p.DiscountPercentage > 0 {
			discounted = append(discounted, p)
		}
	}

	sort.SliceStable(discounted, func(i, j int) bool {
		return discounted[i].DiscountPercentage > discounted[j].DiscountPercentage
	})

	return truncate(discounted, limit), nil
}

func (h *FeaturedHandler) fetch(ctx context.Context) ([]domain.EnhancedProduct, error) {
	products, err := h.gateway.FetchProducts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch products: %w", err)
	}
	return h.enricher.Enrich(ctx, products), nil
}

func truncate(products []domain.EnhancedProduct, limit int) []domain.EnhancedProduct {
	if limit <= 0 {
		limit = defaultHighlightLimit
	}
	if len(products) > limit {
		return products[:limit]
	}
	return products
}
