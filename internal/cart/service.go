package cart

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/shopnow/storefront/internal/cart/domain"
	"github.com/shopnow/storefront/pkg/logger"
)

// Store owns one session's cart for its lifetime. All mutations go
// through the reducer under a single lock, every mutating dispatch is
// followed by a totals recalculation, and the result is persisted
// best-effort: a failing snapshot write never blocks the cart.
type Store struct {
	sessionID string
	repo      domain.CartRepository
	rules     domain.RuleRepository // nil means the built-in table

	mu    sync.Mutex
	state domain.CartState
}

func newStore(ctx context.Context, sessionID string, repo domain.CartRepository, rules domain.RuleRepository) *Store {
	s := &Store{
		sessionID: sessionID,
		repo:      repo,
		rules:     rules,
		state:     domain.InitialState(),
	}
	s.load(ctx)
	return s
}

// load restores the persisted snapshot once, at construction. A missing
// snapshot starts empty; a corrupted one is discarded and the cart starts
// empty rather than failing the session.
func (s *Store) load(ctx context.Context) {
	saved, err := s.repo.Load(ctx, s.sessionID)
	if err != nil {
		if !errors.Is(err, domain.ErrCartNotFound) {
			logger.Warn(ctx).
				Err(err).
				Str("session_id", s.sessionID).
				Msg("Discarding unreadable cart snapshot")
			if delErr := s.repo.Delete(ctx, s.sessionID); delErr != nil {
				logger.Warn(ctx).Err(delErr).Str("session_id", s.sessionID).Msg("Failed to remove cart snapshot")
			}
		}
		return
	}

	restored := domain.InitialState()
	restored.Items = saved.Items
	if restored.Items == nil {
		restored.Items = []domain.CartItem{}
	}
	restored.Discount = saved.Discount
	restored.Shipping = saved.Shipping

	s.state = domain.Reduce(restored, domain.Action{Type: domain.ActionRecalculateTotals})
}

// dispatch applies a mutation, recalculates totals, and persists
func (s *Store) dispatch(ctx context.Context, action domain.Action) domain.CartState {
	s.state = domain.Reduce(s.state, action)
	s.state = domain.Reduce(s.state, domain.Action{Type: domain.ActionRecalculateTotals})
	s.persist(ctx)
	return s.state
}

func (s *Store) persist(ctx context.Context) {
	if err := s.repo.Save(ctx, s.sessionID, s.state); err != nil {
		logger.Error(ctx).
			Err(err).
			Str("session_id", s.sessionID).
			Msg("Failed to persist cart snapshot")
	}
}

// State returns a copy of the current cart state
func (s *Store) State() domain.CartState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot()
}

func (s *Store) snapshot() domain.CartState {
	state := s.state
	state.Items = make([]domain.CartItem, len(s.state.Items))
	copy(state.Items, s.state.Items)
	return state
}

// Add puts a product into the cart, merging with an existing line for
// the same product. A zero quantity defaults to one.
func (s *Store) Add(ctx context.Context, item domain.CartItem) domain.CartState {
	s.mu.Lock()
	defer s.mu.Unlock()

	if item.Quantity <= 0 {
		item.Quantity = 1
	}
	item.Selected = false

	return s.dispatch(ctx, domain.Action{Type: domain.ActionAddItem, Item: item})
}

// Remove drops the line for a product
func (s *Store) Remove(ctx context.Context, productID int) domain.CartState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dispatch(ctx, domain.Action{Type: domain.ActionRemoveItem, ProductID: productID})
}

// UpdateQuantity sets a line's quantity, clamped to its valid range
func (s *Store) UpdateQuantity(ctx context.Context, productID, quantity int) domain.CartState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dispatch(ctx, domain.Action{Type: domain.ActionUpdateQuantity, ProductID: productID, Quantity: quantity})
}

// Increment raises a line's quantity by one, a no-op at the cap
func (s *Store) Increment(ctx context.Context, productID int) domain.CartState {
	s.mu.Lock()
	defer s.mu.Unlock()

	item := s.state.FindItem(productID)
	if item == nil {
		return s.snapshot()
	}
	return s.dispatch(ctx, domain.Action{Type: domain.ActionUpdateQuantity, ProductID: productID, Quantity: item.Quantity + 1})
}

// Decrement lowers a line's quantity by one, a no-op at one
func (s *Store) Decrement(ctx context.Context, productID int) domain.CartState {
	s.mu.Lock()
	defer s.mu.Unlock()

	item := s.state.FindItem(productID)
	if item == nil || item.Quantity <= 1 {
		return s.snapshot()
	}
	return s.dispatch(ctx, domain.Action{Type: domain.ActionUpdateQuantity, ProductID: productID, Quantity: item.Quantity - 1})
}

// Clear resets the cart to its initial empty state
func (s *Store) Clear(ctx context.Context) domain.CartState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dispatch(ctx, domain.Action{Type: domain.ActionClearCart})
}

// ToggleSelect flips a line's selection flag
func (s *Store) ToggleSelect(ctx context.Context, productID int) domain.CartState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dispatch(ctx, domain.Action{Type: domain.ActionToggleSelectItem, ProductID: productID})
}

// SelectAll marks every line selected
func (s *Store) SelectAll(ctx context.Context) domain.CartState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dispatch(ctx, domain.Action{Type: domain.ActionSelectAll})
}

// UnselectAll clears every line's selection flag
func (s *Store) UnselectAll(ctx context.Context) domain.CartState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dispatch(ctx, domain.Action{Type: domain.ActionUnselectAll})
}

// RemoveSelected drops all selected lines
func (s *Store) RemoveSelected(ctx context.Context) domain.CartState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dispatch(ctx, domain.Action{Type: domain.ActionRemoveSelected})
}

// ApplyDiscount evaluates a coupon code against the current subtotal.
// Only one discount is active at a time; a newly applied code replaces
// the previous discount and shipping override.
func (s *Store) ApplyDiscount(ctx context.Context, code string) domain.DiscountResult {
	s.mu.Lock()
	defer s.mu.Unlock()

	result := domain.EvaluateDiscount(s.discountRules(ctx), code, s.state.Subtotal(), s.state.Shipping, time.Now())
	if !result.Success {
		return result
	}

	s.dispatch(ctx, domain.Action{
		Type:     domain.ActionApplyDiscount,
		Discount: result.Discount,
		Shipping: result.Shipping,
	})
	return result
}

func (s *Store) discountRules(ctx context.Context) []domain.DiscountRule {
	if s.rules == nil {
		return domain.DefaultDiscountRules()
	}
	rules, err := s.rules.FindAll(ctx)
	if err != nil || len(rules) == 0 {
		if err != nil {
			logger.Warn(ctx).Err(err).Msg("Falling back to built-in discount rules")
		}
		return domain.DefaultDiscountRules()
	}
	return rules
}

// GetQuantity returns the quantity in the cart for a product, zero if absent
func (s *Store) GetQuantity(productID int) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	if item := s.state.FindItem(productID); item != nil {
		return item.Quantity
	}
	return 0
}

// IsInCart reports whether a product has a line in the cart
func (s *Store) IsInCart(productID int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.FindItem(productID) != nil
}

// Manager hands out one Store per session, loading the persisted
// snapshot exactly once per session lifetime
type Manager struct {
	repo  domain.CartRepository
	rules domain.RuleRepository

	mu     sync.Mutex
	stores map[string]*Store
}

// NewManager creates a cart manager. rules may be nil to use the
// built-in discount table.
func NewManager(repo domain.CartRepository, rules domain.RuleRepository) *Manager {
	return &Manager{
		repo:   repo,
		rules:  rules,
		stores: make(map[string]*Store),
	}
}

// Get returns the store owning the session's cart, creating and
// loading it on first access
func (m *Manager) Get(ctx context.Context, sessionID string) *Store {
	m.mu.Lock()
	defer m.mu.Unlock()

	if store, ok := m.stores[sessionID]; ok {
		return store
	}

	store := newStore(ctx, sessionID, m.repo, m.rules)
	m.stores[sessionID] = store
	return store
}

// Evict drops a session's in-memory store, forcing a reload on next access
func (m *Manager) Evict(sessionID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.stores, sessionID)
}
