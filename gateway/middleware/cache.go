package middleware

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"

	"github.com/shopnow/storefront/pkg/debounce"
	"github.com/shopnow/storefront/pkg/logger"
)

// CacheInvalidator coalesces bursts of write-driven invalidations into a
// single Redis scan per quiet window. A sequence of catalog mutations
// flushes the response cache once, after the last write settles.
type CacheInvalidator struct {
	debouncer *debounce.Debouncer
}

// NewCacheInvalidator creates an invalidator over the shared Redis client
func NewCacheInvalidator(redisClient *redis.Client, window time.Duration) *CacheInvalidator {
	return newCacheInvalidator(window, func(pattern string) {
		if err := InvalidateCache(redisClient, pattern); err != nil {
			logger.Logger.Warn().
				Err(err).
				Str("pattern", pattern).
				Msg("Cache invalidation failed")
		}
	})
}

func newCacheInvalidator(window time.Duration, commit func(string)) *CacheInvalidator {
	return &CacheInvalidator{debouncer: debounce.New(window, commit)}
}

// Invalidate schedules a debounced flush of keys matching the pattern
func (i *CacheInvalidator) Invalidate(pattern string) {
	i.debouncer.Trigger(pattern)
}

// Stop drops any pending flush
func (i *CacheInvalidator) Stop() {
	i.debouncer.Stop()
}

// CacheConfig holds response cache configuration
type CacheConfig struct {
	DefaultTTL      time.Duration
	CacheableStatus []int
	SkipPrefixes    []string
}

// DefaultCacheConfig caches catalog reads for five minutes. Cart
// responses are per-session and never cached.
func DefaultCacheConfig() CacheConfig {
	return CacheConfig{
		DefaultTTL:      5 * time.Minute,
		CacheableStatus: []int{200, 203, 300, 301, 404},
		SkipPrefixes:    []string{"/api/cart"},
	}
}

// CacheMiddleware implements GET response caching with Redis. Mutating
// requests outside the skip prefixes schedule a debounced cache flush.
func CacheMiddleware(redisClient *redis.Client, config CacheConfig, invalidator *CacheInvalidator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if redisClient == nil {
			return c.Next()
		}

		for _, prefix := range config.SkipPrefixes {
			if strings.HasPrefix(c.Path(), prefix) {
				return c.Next()
			}
		}

		switch c.Method() {
		case fiber.MethodGet:
		case fiber.MethodPost, fiber.MethodPut, fiber.MethodPatch, fiber.MethodDelete:
			err := c.Next()
			if invalidator != nil && c.Response().StatusCode() < fiber.StatusBadRequest {
				invalidator.Invalidate("cache:*")
			}
			return err
		default:
			return c.Next()
		}

		cacheKey := generateCacheKey(c)

		ctx := context.Background()
		cachedResponse, err := redisClient.Get(ctx, cacheKey).Bytes()
		if err == nil && len(cachedResponse) > 0 {
			logger.Logger.Debug().
				Str("path", c.Path()).
				Str("cache_key", cacheKey).
				Msg("Cache hit")

			c.Set("X-Cache", "HIT")
			c.Set("Content-Type", "application/json")
			return c.Send(cachedResponse)
		}

		err = c.Next()

		statusCode := c.Response().StatusCode()
		if isStatusCacheable(statusCode, config.CacheableStatus) {
			responseBody := c.Response().Body()

			if setErr := redisClient.Set(ctx, cacheKey, responseBody, config.DefaultTTL).Err(); setErr != nil {
				logger.Logger.Warn().
					Err(setErr).
					Str("cache_key", cacheKey).
					Msg("Failed to cache response")
			}

			c.Set("X-Cache", "MISS")
		}

		return err
	}
}

// generateCacheKey hashes method, path and query into a cache key
func generateCacheKey(c *fiber.Ctx) string {
	keyComponents := fmt.Sprintf("%s:%s:%s",
		c.Method(),
		c.Path(),
		string(c.Request().URI().QueryString()),
	)

	hash := sha256.Sum256([]byte(keyComponents))
	return fmt.Sprintf("cache:%s", hex.EncodeToString(hash[:]))
}

func isStatusCacheable(status int, cacheableStatus []int) bool {
	for _, s := range cacheableStatus {
		if s == status {
			return true
		}
	}
	return false
}

// InvalidateCache deletes cached responses matching a pattern; called
// after catalog mutations pass through the gateway
func InvalidateCache(redisClient *redis.Client, pattern string) error {
	ctx := context.Background()

	iter := redisClient.Scan(ctx, 0, pattern, 0).Iterator()

	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return err
	}

	if len(keys) > 0 {
		if err := redisClient.Del(ctx, keys...).Err(); err != nil {
			return err
		}

		logger.Logger.Info().
			Int("count", len(keys)).
			Str("pattern", pattern).
			Msg("Cache invalidated")
	}

	return nil
}
