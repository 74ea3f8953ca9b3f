package query

import (
	"context"
	"fmt"
	"sort"

	"github.com/shopnow/storefront/internal/catalog/domain"
)

// GetStatsHandler computes price and rating statistics over the catalog,
// typically used to bound the UI's filter controls
type GetStatsHandler struct {
	gateway domain.Gateway
}

// NewGetStatsHandler creates a new stats handler
func NewGetStatsHandler(gateway domain.Gateway) *GetStatsHandler {
	return &GetStatsHandler{gateway: gateway}
}

// PriceStatistics computes min/max/avg/median over all product prices
func (h *GetStatsHandler) PriceStatistics(ctx context.Context) (*domain.PriceStatistics, error) {
	products, err := h.gateway.FetchProducts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch products: %w", err)
	}
	if len(products) == 0 {
		return &domain.PriceStatistics{}, nil
	}

	prices := make([]float64, len(products))
	var sum float64
	for i, p := range products {
		prices[i] = p.Price
		sum += p.Price
	}
	sort.Float64s(prices)

	middle := len(prices) / 2
	median := prices[middle]
	if len(prices)%2 == 0 {
		median = (prices[middle-1] + prices[middle]) / 2
	}

	return &domain.PriceStatistics{
		Min:    prices[0],
		Max:    prices[len(prices)-1],
		Avg:    sum / float64(len(prices)),
		Median: median,
	}, nil
}

// RatingStatistics computes min/max/avg and a bucketed distribution
func (h *GetStatsHandler) RatingStatistics(ctx context.Context) (*domain.RatingStatistics, error) {
	products, err := h.gateway.FetchProducts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch products: %w", err)
	}

	stats := &domain.RatingStatistics{
		Distribution: map[string]int{"1-2": 0, "2-3": 0, "3-4": 0, "4-5": 0},
	}
	if len(products) == 0 {
		return stats, nil
	}

	stats.Min = products[0].Rating.Rate
	stats.Max = products[0].Rating.Rate

	var sum float64
	for _, p := range products {
		rate := p.Rating.Rate
		sum += rate
		if rate < stats.Min {
			stats.Min = rate
		}
		if rate > stats.Max {
			stats.Max = rate
		}

		switch {
		case rate >= 4:
			stats.Distribution["4-5"]++
		case rate >= 3:
			stats.Distribution["3-4"]++
		case rate >= 2:
			stats.Distribution["2-3"]++
		default:
			stats.Distribution["1-2"]++
		}
	}
	stats.Avg = sum / float64(len(products))

	return stats, nil
}
