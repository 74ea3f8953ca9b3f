package query

import (
	"context"
	"fmt"

	"github.com/shopnow/storefront/internal/catalog/domain"
)

// GetProductHandler fetches and enriches a single product
type GetProductHandler struct {
	gateway  domain.Gateway
	enricher *domain.Enricher
}

// NewGetProductHandler creates a new get product handler
func NewGetProductHandler(gateway domain.Gateway, enricher *domain.Enricher) *GetProductHandler {
	return &GetProductHandler{gateway: gateway, enricher: enricher}
}

// Handle executes the single-product query
func (h *GetProductHandler) Handle(ctx context.Context, id int) (*domain.EnhancedProduct, error) {
	product, err := h.gateway.FetchProduct(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch product %d: %w", id, err)
	}

	enhanced := h.enricher.EnrichOne(ctx, *product)
	return &enhanced, nil
}

// HandleMany fetches and enriches several products by id
func (h *GetProductHandler) HandleMany(ctx context.Context, ids []int) ([]domain.EnhancedProduct, error) {
	products := make([]domain.EnhancedProduct, 0, len(ids))
	for _, id := range ids {
		product, err := h.Handle(ctx, id)
		if err != nil {
			return nil, err
		}
		products = append(products, *product)
	}
	return products, nil
}

// HandleByCategory fetches and enriches a category's products
func (h *GetProductHandler) HandleByCategory(ctx context.Context, category string) ([]domain.EnhancedProduct, error) {
	products, err := h.gateway.FetchProductsByCategory(ctx, category)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch products for category %q: %w", category, err)
	}
	return h.enricher.Enrich(ctx, products), nil
}
