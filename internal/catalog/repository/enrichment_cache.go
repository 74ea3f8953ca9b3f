package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/shopnow/storefront/internal/catalog/domain"
)

const enrichmentKeyPrefix = "shopnow:enrich:v1:"

// RedisEnrichmentCache pins a product's mock enrichment for a session
// window so repeated queries return stable stock/discount values
type RedisEnrichmentCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisEnrichmentCache creates the cache. A non-positive ttl keeps
// enrichment for 30 minutes.
func NewRedisEnrichmentCache(client *redis.Client, ttl time.Duration) *RedisEnrichmentCache {
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	return &RedisEnrichmentCache{client: client, ttl: ttl}
}

func enrichmentKey(productID int) string {
	return fmt.Sprintf("%s%d", enrichmentKeyPrefix, productID)
}

// Get returns the cached enrichment, or nil on a miss
func (c *RedisEnrichmentCache) Get(ctx context.Context, productID int) (*domain.Enrichment, error) {
	payload, err := c.client.Get(ctx, enrichmentKey(productID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read enrichment cache: %w", err)
	}

	var enrichment domain.Enrichment
	if err := json.Unmarshal(payload, &enrichment); err != nil {
		// Unreadable entries count as misses and get overwritten
		return nil, nil
	}
	return &enrichment, nil
}

// Put stores the enrichment with the cache TTL
func (c *RedisEnrichmentCache) Put(ctx context.Context, productID int, enrichment domain.Enrichment) error {
	payload, err := json.Marshal(enrichment)
	if err != nil {
		return fmt.Errorf("failed to encode enrichment: %w", err)
	}
	if err := c.client.Set(ctx, enrichmentKey(productID), payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to write enrichment cache: %w", err)
	}
	return nil
}
