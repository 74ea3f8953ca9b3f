package query

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopnow/storefront/internal/catalog/domain"
)

const maxSuggestions = 5

// GetSuggestionsHandler produces typeahead suggestions for the search box
type GetSuggestionsHandler struct {
	gateway  domain.Gateway
	enricher *domain.Enricher
}

// NewGetSuggestionsHandler creates a new suggestions handler
func NewGetSuggestionsHandler(gateway domain.Gateway, enricher *domain.Enricher) *GetSuggestionsHandler {
	return &GetSuggestionsHandler{gateway: gateway, enricher: enricher}
}

// Handle returns up to five matching product titles, categories, brands
// and tags for a partial query
func (h *GetSuggestionsHandler) Handle(ctx context.Context, query string) (*domain.Suggestions, error) {
	products, err := h.gateway.FetchProducts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch products: %w", err)
	}
	categories, err := h.gateway.FetchCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch categories: %w", err)
	}

	enhanced := h.enricher.Enrich(ctx, products)
	q := strings.ToLower(strings.TrimSpace(query))

	suggestions := &domain.Suggestions{
		Products:   []string{},
		Categories: []string{},
		Brands:     []string{},
		Tags:       []string{},
	}

	for _, p := range enhanced {
		if len(suggestions.Products) >= maxSuggestions {
			break
		}
		if strings.Contains(strings.ToLower(p.Title), q) ||
			strings.Contains(strings.ToLower(p.Description), q) {
			suggestions.Products = append(suggestions.Products, p.Title)
		}
	}

	for _, c := range categories {
		if len(suggestions.Categories) >= maxSuggestions {
			break
		}
		if strings.Contains(strings.ToLower(c), q) {
			suggestions.Categories = append(suggestions.Categories, c)
		}
	}

	seenBrands := map[string]bool{}
	for _, p := range enhanced {
		if len(suggestions.Brands) >= maxSuggestions {
			break
		}
		if seenBrands[p.Brand] {
			continue
		}
		seenBrands[p.Brand] = true
		if strings.Contains(strings.ToLower(p.Brand), q) {
			suggestions.Brands = append(suggestions.Brands, p.Brand)
		}
	}

	seenTags := map[string]bool{}
	for _, p := range enhanced {
		for _, tag := range p.Tags {
			if len(suggestions.Tags) >= maxSuggestions {
				break
			}
			if seenTags[tag] {
				continue
			}
			seenTags[tag] = true
			if strings.Contains(tag, q) {
				suggestions.Tags = append(suggestions.Tags, tag)
			}
		}
	}

	return suggestions, nil
}
