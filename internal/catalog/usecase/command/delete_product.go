package command

import (
	"context"
	"fmt"

	"github.com/shopnow/storefront/internal/catalog/domain"
)

// DeleteProductHandler passes product deletion through to the remote catalog
type DeleteProductHandler struct {
	gateway domain.Gateway
}

// NewDeleteProductHandler creates a new delete product handler
func NewDeleteProductHandler(gateway domain.Gateway) *DeleteProductHandler {
	return &DeleteProductHandler{gateway: gateway}
}

// Handle executes the delete passthrough and returns the deleted product
func (h *DeleteProductHandler) Handle(ctx context.Context, id int) (*domain.Product, error) {
	if id <= 0 {
		return nil, fmt.Errorf("invalid product id")
	}

	product, err := h.gateway.DeleteProduct(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to delete product %d: %w", id, err)
	}
	return product, nil
}
