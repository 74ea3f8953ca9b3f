package command

import (
	"context"
	"fmt"

	"github.com/shopnow/storefront/internal/catalog/domain"
)

// CreateProductHandler passes product creation through to the remote
// catalog after basic validation
type CreateProductHandler struct {
	gateway domain.Gateway
}

// NewCreateProductHandler creates a new create product handler
func NewCreateProductHandler(gateway domain.Gateway) *CreateProductHandler {
	return &CreateProductHandler{gateway: gateway}
}

// Handle executes the create passthrough
func (h *CreateProductHandler) Handle(ctx context.Context, input domain.CreateProductInput) (*domain.Product, error) {
	if input.Title == "" {
		return nil, fmt.Errorf("product title is required")
	}
	if input.Price < 0 {
		return nil, fmt.Errorf("price cannot be negative")
	}

	product, err := h.gateway.CreateProduct(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}
	return product, nil
}
