package client

import (
	"context"
	"fmt"
	"time"

	"github.com/shopnow/storefront/internal/catalog/domain"
	"github.com/shopnow/storefront/pkg/httpclient"
	"github.com/shopnow/storefront/pkg/logger"
)

// DefaultBaseURL is the public demo catalog API
const DefaultBaseURL = "https://fakestoreapi.com"

// defaultTimeout bounds every catalog call
const defaultTimeout = 15 * time.Second

// FakeStoreClient implements domain.Gateway against the fakestore REST API
type FakeStoreClient struct {
	api *httpclient.Client
}

// NewFakeStoreClient creates a catalog client. An empty baseURL uses
// the public demo API.
func NewFakeStoreClient(baseURL string) *FakeStoreClient {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	api := httpclient.New(httpclient.Config{
		BaseURL: baseURL,
		Timeout: defaultTimeout,
		Headers: map[string]string{"Accept": "application/json"},
	})

	logger.Logger.Info().
		Str("base_url", baseURL).
		Msg("Catalog client initialized")

	return &FakeStoreClient{api: api}
}

// FetchProducts fetches the full unfiltered product list
func (c *FakeStoreClient) FetchProducts(ctx context.Context) ([]domain.Product, error) {
	var products []domain.Product
	if err := c.api.Get(ctx, "/products", &products, nil); err != nil {
		return nil, err
	}
	return products, nil
}

// FetchProduct fetches a single product by id
func (c *FakeStoreClient) FetchProduct(ctx context.Context, id int) (*domain.Product, error) {
	var product domain.Product
	if err := c.api.Get(ctx, fmt.Sprintf("/products/%d", id), &product, nil); err != nil {
		return nil, err
	}
	return &product, nil
}

// FetchProductsByCategory fetches one category's products
func (c *FakeStoreClient) FetchProductsByCategory(ctx context.Context, category string) ([]domain.Product, error) {
	var products []domain.Product
	if err := c.api.Get(ctx, "/products/category/"+category, &products, nil); err != nil {
		return nil, err
	}
	return products, nil
}

// FetchCategories fetches the category list
func (c *FakeStoreClient) FetchCategories(ctx context.Context) ([]string, error) {
	var categories []string
	if err := c.api.Get(ctx, "/products/categories", &categories, nil); err != nil {
		return nil, err
	}
	return categories, nil
}

// CreateProduct creates a product upstream
func (c *FakeStoreClient) CreateProduct(ctx context.Context, input domain.CreateProductInput) (*domain.Product, error) {
	var product domain.Product
	if err := c.api.Post(ctx, "/products", input, &product, nil); err != nil {
		return nil, err
	}
	return &product, nil
}

// UpdateProduct updates a product upstream
func (c *FakeStoreClient) UpdateProduct(ctx context.Context, id int, input domain.UpdateProductInput) (*domain.Product, error) {
	var product domain.Product
	if err := c.api.Put(ctx, fmt.Sprintf("/products/%d", id), input, &product, nil); err != nil {
		return nil, err
	}
	return &product, nil
}

// DeleteProduct deletes a product upstream and returns the removed entity
func (c *FakeStoreClient) DeleteProduct(ctx context.Context, id int) (*domain.Product, error) {
	var product domain.Product
	if err := c.api.Delete(ctx, fmt.Sprintf("/products/%d", id), &product, nil); err != nil {
		return nil, err
	}
	return &product, nil
}
