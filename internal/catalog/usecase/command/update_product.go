package command

import (
	"context"
	"fmt"

	"github.com/shopnow/storefront/internal/catalog/domain"
)

// UpdateProductHandler passes product updates through to the remote catalog
type UpdateProductHandler struct {
	gateway domain.Gateway
}

// NewUpdateProductHandler creates a new update product handler
func NewUpdateProductHandler(gateway domain.Gateway) *UpdateProductHandler {
	return &UpdateProductHandler{gateway: gateway}
}

// Handle executes the update passthrough
func (h *UpdateProductHandler) Handle(ctx context.Context, id int, input domain.UpdateProductInput) (*domain.Product, error) {
	if id <= 0 {
		return nil, fmt.Errorf("invalid product id")
	}
	if input.Price != nil && *input.Price < 0 {
		return nil, fmt.Errorf("price cannot be negative")
	}

	product, err := h.gateway.UpdateProduct(ctx, id, input)
	if err != nil {
		return nil, fmt.Errorf("failed to update product %d: %w", id, err)
	}
	return product, nil
}
