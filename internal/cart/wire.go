//go:build wireinject
// +build wireinject

package cart

import (
	"github.com/google/wire"

	"github.com/shopnow/storefront/internal/cart/delivery/http"
	"github.com/shopnow/storefront/internal/cart/domain"
	"github.com/shopnow/storefront/internal/events"
	"github.com/shopnow/storefront/pkg/auth"
)

// ProvideManager provides the per-session cart store manager
func ProvideManager(repo domain.CartRepository, rules domain.RuleRepository) *Manager {
	return NewManager(repo, rules)
}

var ManagerSet = wire.NewSet(
	ProvideManager,
)

// InitializeHTTPHandler initializes the cart HTTP handler with all dependencies
func InitializeHTTPHandler(
	repo domain.CartRepository,
	rules domain.RuleRepository,
	tokens *auth.TokenManager,
	publisher *events.Publisher,
) (*http.CartHandler, error) {
	wire.Build(
		ManagerSet,
		http.NewCartHandler,
	)
	return nil, nil
}
