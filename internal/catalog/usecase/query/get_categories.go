package query

import (
	"context"
	"fmt"

	"github.com/shopnow/storefront/internal/catalog/domain"
)

// GetCategoriesHandler lists the catalog's categories
type GetCategoriesHandler struct {
	gateway domain.Gateway
}

// NewGetCategoriesHandler creates a new categories handler
func NewGetCategoriesHandler(gateway domain.Gateway) *GetCategoriesHandler {
	return &GetCategoriesHandler{gateway: gateway}
}

// Handle executes the category listing query
func (h *GetCategoriesHandler) Handle(ctx context.Context) ([]string, error) {
	categories, err := h.gateway.FetchCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch categories: %w", err)
	}
	return categories, nil
}
