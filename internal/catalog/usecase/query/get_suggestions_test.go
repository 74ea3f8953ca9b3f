package query_test

import (
	"context"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/shopnow/storefront/internal/catalog/domain"
	"github.com/shopnow/storefront/internal/catalog/usecase/query"
)

func TestSuggestions_GroupsByKind(t *testing.T) {
	gateway := new(MockGateway)
	gateway.On("FetchProducts", mock.Anything).Return(catalogFixture(), nil)
	gateway.On("FetchCategories", mock.Anything).Return([]string{"electronics", "jewelery", "men's clothing", "women's clothing"}, nil)

	enricher := domain.NewEnricher(rand.New(rand.NewSource(42)), nil)
	handler := query.NewGetSuggestionsHandler(gateway, enricher)

	suggestions, err := handler.Handle(context.Background(), "samsung")

	require.NoError(t, err)
	require.Equal(t, []string{"Samsung Monitor"}, suggestions.Products)
	require.Empty(t, suggestions.Categories)
	require.Equal(t, []string{"Samsung"}, suggestions.Brands)
	require.Equal(t, []string{"samsung"}, suggestions.Tags)
}

func TestSuggestions_CategoryPrefix(t *testing.T) {
	gateway := new(MockGateway)
	gateway.On("FetchProducts", mock.Anything).Return(catalogFixture(), nil)
	gateway.On("FetchCategories", mock.Anything).Return([]string{"electronics", "jewelery", "men's clothing", "women's clothing"}, nil)

	enricher := domain.NewEnricher(rand.New(rand.NewSource(42)), nil)
	handler := query.NewGetSuggestionsHandler(gateway, enricher)

	suggestions, err := handler.Handle(context.Background(), "clothing")

	require.NoError(t, err)
	require.Equal(t, []string{"men's clothing", "women's clothing"}, suggestions.Categories)
}

func TestSuggestions_CapsEachGroupAtFive(t *testing.T) {
	var products []domain.Product
	for i := 1; i <= 10; i++ {
		products = append(products, domain.Product{
			ID:       i,
			Title:    "Widget Deluxe",
			Category: "gadgets",
		})
	}

	gateway := new(MockGateway)
	gateway.On("FetchProducts", mock.Anything).Return(products, nil)
	gateway.On("FetchCategories", mock.Anything).Return([]string{"gadgets"}, nil)

	enricher := domain.NewEnricher(rand.New(rand.NewSource(1)), nil)
	handler := query.NewGetSuggestionsHandler(gateway, enricher)

	suggestions, err := handler.Handle(context.Background(), "widget")

	require.NoError(t, err)
	require.Len(t, suggestions.Products, 5)
}
