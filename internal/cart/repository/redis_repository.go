package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/shopnow/storefront/internal/cart/domain"
)

// snapshotKeyPrefix versions the snapshot layout; bump it when the
// CartState shape changes incompatibly
const snapshotKeyPrefix = "shopnow:cart:v2:"

// RedisCartRepository stores each session's cart as a single JSON blob
type RedisCartRepository struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisCartRepository creates a Redis-backed cart repository.
// A non-positive ttl keeps snapshots for 30 days.
func NewRedisCartRepository(client *redis.Client, ttl time.Duration) *RedisCartRepository {
	if ttl <= 0 {
		ttl = 30 * 24 * time.Hour
	}
	return &RedisCartRepository{client: client, ttl: ttl}
}

func snapshotKey(sessionID string) string {
	return snapshotKeyPrefix + sessionID
}

// Load reads a session's snapshot. A missing key maps to ErrCartNotFound;
// an unreadable payload is surfaced so the caller can discard it.
func (r *RedisCartRepository) Load(ctx context.Context, sessionID string) (*domain.CartState, error) {
	payload, err := r.client.Get(ctx, snapshotKey(sessionID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, domain.ErrCartNotFound
		}
		return nil, fmt.Errorf("failed to load cart snapshot: %w", err)
	}

	var state domain.CartState
	if err := json.Unmarshal(payload, &state); err != nil {
		return nil, fmt.Errorf("corrupted cart snapshot: %w", err)
	}
	if state.Items == nil {
		return nil, fmt.Errorf("corrupted cart snapshot: missing items")
	}

	return &state, nil
}

// Save writes the full snapshot, refreshing its TTL
func (r *RedisCartRepository) Save(ctx context.Context, sessionID string, state domain.CartState) error {
	payload, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("failed to encode cart snapshot: %w", err)
	}

	if err := r.client.Set(ctx, snapshotKey(sessionID), payload, r.ttl).Err(); err != nil {
		return fmt.Errorf("failed to save cart snapshot: %w", err)
	}
	return nil
}

// Delete removes a session's snapshot
func (r *RedisCartRepository) Delete(ctx context.Context, sessionID string) error {
	if err := r.client.Del(ctx, snapshotKey(sessionID)).Err(); err != nil {
		return fmt.Errorf("failed to delete cart snapshot: %w", err)
	}
	return nil
}
