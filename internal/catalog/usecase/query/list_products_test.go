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

type MockGateway struct {
	mock.Mock
}

func (m *MockGateway) FetchProducts(ctx context.Context) ([]domain.Product, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Product), args.Error(1)
}

func (m *MockGateway) FetchProduct(ctx context.Context, id int) (*domain.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Product), args.Error(1)
}

func (m *MockGateway) FetchProductsByCategory(ctx context.Context, category string) ([]domain.Product, error) {
	args := m.Called(ctx, category)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Product), args.Error(1)
}

func (m *MockGateway) FetchCategories(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockGateway) CreateProduct(ctx context.Context, input domain.CreateProductInput) (*domain.Product, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Product), args.Error(1)
}

func (m *MockGateway) UpdateProduct(ctx context.Context, id int, input domain.UpdateProductInput) (*domain.Product, error) {
	args := m.Called(ctx, id, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Product), args.Error(1)
}

func (m *MockGateway) DeleteProduct(ctx context.Context, id int) (*domain.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Product), args.Error(1)
}

func catalogFixture() []domain.Product {
	return []domain.Product{
		{ID: 1, Title: "Apple MacBook Sleeve", Price: 29.99, Category: "electronics", Description: "Padded laptop sleeve", Rating: domain.Rating{Rate: 4.5, Count: 120}},
		{ID: 2, Title: "Gold Plated Ring", Price: 168.0, Category: "jewelery", Description: "Elegant ring", Rating: domain.Rating{Rate: 3.9, Count: 70}},
		{ID: 3, Title: "Samsung Monitor", Price: 599.0, Category: "electronics", Description: "Curved gaming monitor", Rating: domain.Rating{Rate: 4.8, Count: 340}},
		{ID: 4, Title: "Cotton T-Shirt", Price: 15.99, Category: "men's clothing", Description: "Slim fit casual shirt", Rating: domain.Rating{Rate: 2.1, Count: 430}},
		{ID: 5, Title: "Rain Jacket", Price: 39.99, Category: "women's clothing", Description: "Lightweight windbreaker", Rating: domain.Rating{Rate: 3.6, Count: 235}},
	}
}

func newListHandler(t *testing.T) (*query.ListProductsHandler, *MockGateway) {
	t.Helper()
	gateway := new(MockGateway)
	gateway.On("FetchProducts", mock.Anything).Return(catalogFixture(), nil)

	enricher := domain.NewEnricher(rand.New(rand.NewSource(42)), nil)
	return query.NewListProductsHandler(gateway, enricher), gateway
}

func TestListProducts_NoFiltersReturnsAll(t *testing.T) {
	handler, _ := newListHandler(t)

	page, err := handler.Handle(context.Background(), domain.ProductFilters{})

	require.NoError(t, err)
	require.Equal(t, 5, page.Total)
	require.Len(t, page.Products, 5)
}

func TestListProducts_CategoryLooseMatch(t *testing.T) {
	handler, _ := newListHandler(t)

	// Comma-separated tokens, matched loosely against drifting names
	page, err := handler.Handle(context.Background(), domain.ProductFilters{Category: "electronics, jewelery"})

	require.NoError(t, err)
	require.Equal(t, 3, page.Total)

	// A token contained in the product category still matches
	page, err = handler.Handle(context.Background(), domain.ProductFilters{Category: "clothing"})
	require.NoError(t, err)
	require.Equal(t, 2, page.Total)
}

func TestListProducts_PriceRange(t *testing.T) {
	handler, _ := newListHandler(t)

	minPrice := 20.0
	maxPrice := 200.0
	page, err := handler.Handle(context.Background(), domain.ProductFilters{MinPrice: &minPrice, MaxPrice: &maxPrice})

	require.NoError(t, err)
	require.Equal(t, 3, page.Total)
	for _, p := range page.Products {
		require.GreaterOrEqual(t, p.Price, minPrice)
		require.LessOrEqual(t, p.Price, maxPrice)
	}
}

func TestListProducts_MinRating(t *testing.T) {
	handler, _ := newListHandler(t)

	minRating := 4.0
	page, err := handler.Handle(context.Background(), domain.ProductFilters{MinRating: &minRating})

	require.NoError(t, err)
	require.Equal(t, 2, page.Total)
}

func TestListProducts_SearchMatchesAcrossFields(t *testing.T) {
	handler, _ := newListHandler(t)

	// Substring of a title
	page, err := handler.Handle(context.Background(), domain.ProductFilters{Search: "macbook"})
	require.NoError(t, err)
	require.Equal(t, 1, page.Total)

	// Category text is searchable too
	page, err = handler.Handle(context.Background(), domain.ProductFilters{Search: "jewelery"})
	require.NoError(t, err)
	require.Equal(t, 1, page.Total)

	// Multi-word query: all words must appear in one field
	page, err = handler.Handle(context.Background(), domain.ProductFilters{Search: "gaming curved"})
	require.NoError(t, err)
	require.Equal(t, 1, page.Total)
	require.Equal(t, 3, page.Products[0].ID)

	page, err = handler.Handle(context.Background(), domain.ProductFilters{Search: "gaming cotton"})
	require.NoError(t, err)
	require.Zero(t, page.Total)
}

func TestListProducts_SortByPrice(t *testing.T) {
	handler, _ := newListHandler(t)

	page, err := handler.Handle(context.Background(), domain.ProductFilters{SortBy: "price"})
	require.NoError(t, err)
	for i := 1; i < len(page.Products); i++ {
		require.LessOrEqual(t, page.Products[i-1].Price, page.Products[i].Price)
	}

	page, err = handler.Handle(context.Background(), domain.ProductFilters{SortBy: "price", Order: "desc"})
	require.NoError(t, err)
	for i := 1; i < len(page.Products); i++ {
		require.GreaterOrEqual(t, page.Products[i-1].Price, page.Products[i].Price)
	}
}

func TestListProducts_DiscountAlwaysSortsDescending(t *testing.T) {
	handler, _ := newListHandler(t)

	// Requesting ascending order makes no difference for discount
	page, err := handler.Handle(context.Background(), domain.ProductFilters{SortBy: "discount", Order: "asc"})
	require.NoError(t, err)
	for i := 1; i < len(page.Products); i++ {
		require.GreaterOrEqual(t, page.Products[i-1].DiscountPercentage, page.Products[i].DiscountPercentage)
	}
}

func TestListProducts_NewestAlwaysSortsDescending(t *testing.T) {
	handler, _ := newListHandler(t)

	page, err := handler.Handle(context.Background(), domain.ProductFilters{SortBy: "newest", Order: "asc"})
	require.NoError(t, err)
	for i := 1; i < len(page.Products); i++ {
		require.Greater(t, page.Products[i-1].ID, page.Products[i].ID)
	}
}

func TestListProducts_Pagination(t *testing.T) {
	handler, _ := newListHandler(t)

	page, err := handler.Handle(context.Background(), domain.ProductFilters{SortBy: "newest", Limit: 2, Offset: 2})

	require.NoError(t, err)
	require.Equal(t, 5, page.Total)
	require.Len(t, page.Products, 2)
	require.Equal(t, 3, page.Products[0].ID)

	// Offset past the end yields an empty page, not an error
	page, err = handler.Handle(context.Background(), domain.ProductFilters{Offset: 100})
	require.NoError(t, err)
	require.Empty(t, page.Products)
	require.Equal(t, 5, page.Total)
}

func TestListProducts_UpstreamErrorPropagates(t *testing.T) {
	gateway := new(MockGateway)
	gateway.On("FetchProducts", mock.Anything).Return(nil, context.DeadlineExceeded)

	enricher := domain.NewEnricher(rand.New(rand.NewSource(1)), nil)
	handler := query.NewListProductsHandler(gateway, enricher)

	_, err := handler.Handle(context.Background(), domain.ProductFilters{})
	require.Error(t, err)
}
