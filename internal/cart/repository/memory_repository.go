package repository

import (
	"context"
	"sync"

	"github.com/shopnow/storefront/internal/cart/domain"
)

// MemoryCartRepository keeps cart snapshots in process memory. Used when
// no external snapshot store is configured; snapshots do not survive a
// restart.
type MemoryCartRepository struct {
	mu        sync.RWMutex
	snapshots map[string]domain.CartState
}

func NewMemoryCartRepository() *MemoryCartRepository {
	return &MemoryCartRepository{snapshots: make(map[string]domain.CartState)}
}

func (r *MemoryCartRepository) Load(ctx context.Context, sessionID string) (*domain.CartState, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	state, ok := r.snapshots[sessionID]
	if !ok {
		return nil, domain.ErrCartNotFound
	}
	copied := state
	copied.Items = append([]domain.CartItem(nil), state.Items...)
	return &copied, nil
}

func (r *MemoryCartRepository) Save(ctx context.Context, sessionID string, state domain.CartState) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	copied := state
	copied.Items = append([]domain.CartItem(nil), state.Items...)
	r.snapshots[sessionID] = copied
	return nil
}

func (r *MemoryCartRepository) Delete(ctx context.Context, sessionID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.snapshots, sessionID)
	return nil
}
