package query

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/shopnow/storefront/internal/catalog/domain"
)

// ListProductsHandler answers the catalog's main query: fetch the full
// remote list, enrich it, then filter, sort and paginate locally since
// the upstream API has no server-side search.
type ListProductsHandler struct {
	gateway  domain.Gateway
	enricher *domain.Enricher
	collator *collate.Collator
}

// NewListProductsHandler creates a new list products handler
func NewListProductsHandler(gateway domain.Gateway, enricher *domain.Enricher) *ListProductsHandler {
	return &ListProductsHandler{
		gateway:  gateway,
		enricher: enricher,
		collator: collate.New(language.English),
	}
}

// Handle executes the product listing query. Exactly one upstream fetch
// per call; retries belong to the edge cache layer.
func (h *ListProductsHandler) Handle(ctx context.Context, filters domain.ProductFilters) (*domain.ProductsResponse, error) {
	products, err := h.gateway.FetchProducts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch products: %w", err)
	}

	enhanced := h.enricher.Enrich(ctx, products)
	filtered := applyFilters(enhanced, filters)
	h.applySorting(filtered, filters.SortBy, filters.Order)

	total := len(filtered)

	offset := filters.Offset
	if offset < 0 {
		offset = 0
	}
	if offset > total {
		offset = total
	}

	limit := filters.Limit
	if limit <= 0 {
		limit = total
	}

	end := offset + limit
	if end > total {
		end = total
	}

	return &domain.ProductsResponse{
		Products: filtered[offset:end],
		Total:    total,
		Limit:    limit,
		Offset:   offset,
	}, nil
}

// applyFilters keeps products matching every set filter, checked in
// order: category, price range, rating, search, stock
func applyFilters(products []domain.EnhancedProduct, filters domain.ProductFilters) []domain.EnhancedProduct {
	filtered := make([]domain.EnhancedProduct, 0, len(products))

	for _, product := range products {
		if filters.Category != "" && !matchesCategory(product.Category, filters.Category) {
			continue
		}
		if filters.MinPrice != nil && product.Price < *filters.MinPrice {
			continue
		}
		if filters.MaxPrice != nil && product.Price > *filters.MaxPrice {
			continue
		}
		if filters.MinRating != nil && product.Rating.Rate < *filters.MinRating {
			continue
		}
		if filters.Search != "" && !matchesSearch(product, filters.Search) {
			continue
		}
		if filters.InStock != nil && product.InStock != *filters.InStock {
			continue
		}
		filtered = append(filtered, product)
	}

	return filtered
}

// matchesCategory accepts comma-separated filter tokens; a product
// matches when its category equals, contains, or is contained by any
// token. The loose match is deliberate: upstream category names are
// inconsistent ("jewelery" vs "jewelry" style drift).
func matchesCategory(productCategory, filterCategory string) bool {
	productCat := strings.ToLower(strings.TrimSpace(productCategory))

	for _, token := range strings.Split(filterCategory, ",") {
		cat := strings.ToLower(strings.TrimSpace(token))
		if cat == "" {
			continue
		}
		if cat == productCat || strings.Contains(productCat, cat) || strings.Contains(cat, productCat) {
			return true
		}
	}
	return false
}

// searchField pairs a searchable value with its relevance weight.
// Weights document intended ranking; matching itself is boolean.
type searchField struct {
	value  string
	weight int
}

// matchesSearch checks the query against all searchable fields:
// exact match, substring, or every word present for multi-word queries
func matchesSearch(product domain.EnhancedProduct, searchQuery string) bool {
	query := strings.ToLower(strings.TrimSpace(searchQuery))
	if query == "" {
		return true
	}

	fields := []searchField{
		{strings.ToLower(product.Title), 3},
		{strings.ToLower(product.Description), 2},
		{strings.ToLower(product.Category), 2},
		{strings.ToLower(product.SKU), 1},
		{strings.ToLower(product.Brand), 2},
		{strings.ToLower(strings.Join(product.Tags, " ")), 1},
	}

	for _, field := range fields {
		if field.value == "" {
			continue
		}
		if field.value == query || strings.Contains(field.value, query) {
			return true
		}
		if strings.Contains(query, " ") && containsAllWords(field.value, query) {
			return true
		}
	}
	return false
}

func containsAllWords(value, query string) bool {
	for _, word := range strings.Fields(query) {
		if !strings.Contains(value, word) {
			return false
		}
	}
	return true
}

// applySorting orders products in place. Discount and newest always
// sort descending regardless of the requested order; an unrecognized
// key leaves the slice untouched.
func (h *ListProductsHandler) applySorting(products []domain.EnhancedProduct, sortBy, order string) {
	if sortBy == "" {
		return
	}

	dir := 1.0
	if order == "desc" {
		dir = -1.0
	}

	switch sortBy {
	case "price":
		sort.SliceStable(products, func(i, j int) bool {
			return (products[i].Price-products[j].Price)*dir < 0
		})
	case "rating":
		sort.SliceStable(products, func(i, j int) bool {
			return (products[i].Rating.Rate-products[j].Rating.Rate)*dir < 0
		})
	case "title":
		sort.SliceStable(products, func(i, j int) bool {
			cmp := h.collator.CompareString(products[i].Title, products[j].Title)
			return float64(cmp)*dir < 0
		})
	case "popularity":
		sort.SliceStable(products, func(i, j int) bool {
			return float64(products[i].Rating.Count-products[j].Rating.Count)*dir < 0
		})
	case "discount":
		sort.SliceStable(products, func(i, j int) bool {
			return products[i].DiscountPercentage > products[j].DiscountPercentage
		})
	case "newest":
		sort.SliceStable(products, func(i, j int) bool {
			return products[i].ID > products[j].ID
		})
	}
}
