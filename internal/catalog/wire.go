//go:build wireinject
// +build wireinject

package catalog

import (
	"math/rand"

	"github.com/google/wire"

	"github.com/shopnow/storefront/internal/catalog/client"
	"github.com/shopnow/storefront/internal/catalog/delivery/http"
	"github.com/shopnow/storefront/internal/catalog/domain"
	"github.com/shopnow/storefront/internal/catalog/usecase/command"
	"github.com/shopnow/storefront/internal/catalog/usecase/query"
)

// ProvideGateway provides the upstream product gateway
func ProvideGateway(baseURL BaseURL) domain.Gateway {
	return client.NewFakeStoreClient(string(baseURL))
}

// ProvideEnricher provides the product enricher backed by the session cache
func ProvideEnricher(rng *rand.Rand, cache domain.EnrichmentCache) *domain.Enricher {
	return domain.NewEnricher(rng, cache)
}

// Command Handlers Providers
func ProvideCreateProductHandler(gateway domain.Gateway) *command.CreateProductHandler {
	return command.NewCreateProductHandler(gateway)
}

func ProvideUpdateProductHandler(gateway domain.Gateway) *command.UpdateProductHandler {
	return command.NewUpdateProductHandler(gateway)
}

func ProvideDeleteProductHandler(gateway domain.Gateway) *command.DeleteProductHandler {
	return command.NewDeleteProductHandler(gateway)
}

// Query Handlers Providers
func ProvideListProductsHandler(gateway domain.Gateway, enricher *domain.Enricher) *query.ListProductsHandler {
	return query.NewListProductsHandler(gateway, enricher)
}

func ProvideGetProductHandler(gateway domain.Gateway, enricher *domain.Enricher) *query.GetProductHandler {
	return query.NewGetProductHandler(gateway, enricher)
}

func ProvideGetCategoriesHandler(gateway domain.Gateway) *query.GetCategoriesHandler {
	return query.NewGetCategoriesHandler(gateway)
}

func ProvideGetStatsHandler(gateway domain.Gateway) *query.GetStatsHandler {
	return query.NewGetStatsHandler(gateway)
}

func ProvideGetSuggestionsHandler(gateway domain.Gateway, enricher *domain.Enricher) *query.GetSuggestionsHandler {
	return query.NewGetSuggestionsHandler(gateway, enricher)
}

func ProvideFeaturedHandler(gateway domain.Gateway, enricher *domain.Enricher) *query.FeaturedHandler {
	return query.NewFeaturedHandler(gateway, enricher)
}

// Wire sets
var GatewaySet = wire.NewSet(
	ProvideGateway,
	ProvideEnricher,
)

var CommandHandlerSet = wire.NewSet(
	ProvideCreateProductHandler,
	ProvideUpdateProductHandler,
	ProvideDeleteProductHandler,
)

var QueryHandlerSet = wire.NewSet(
	ProvideListProductsHandler,
	ProvideGetProductHandler,
	ProvideGetCategoriesHandler,
	ProvideGetStatsHandler,
	ProvideGetSuggestionsHandler,
	ProvideFeaturedHandler,
)

var AllHandlersSet = wire.NewSet(
	GatewaySet,
	CommandHandlerSet,
	QueryHandlerSet,
)

// InitializeHTTPHandler initializes the catalog HTTP handler with all dependencies
func InitializeHTTPHandler(baseURL BaseURL, rng *rand.Rand, cache domain.EnrichmentCache) (*http.CatalogHandler, error) {
	wire.Build(
		AllHandlersSet,
		http.NewCatalogHandlerWithDI,
	)
	return nil, nil
}
