package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/shopnow/storefront/internal/cart/domain"
)

// PostgresCartRepository persists cart snapshots in a single table,
// one JSON payload per session. Used when carts must outlive Redis.
type PostgresCartRepository struct {
	db *sql.DB
}

// NewPostgresCartRepository creates a PostgreSQL cart repository
func NewPostgresCartRepository(db *sql.DB) *PostgresCartRepository {
	return &PostgresCartRepository{db: db}
}

// EnsureSchema creates the snapshot table if it does not exist
func (r *PostgresCartRepository) EnsureSchema(ctx context.Context) error {
	query := `
		CREATE TABLE IF NOT EXISTS cart_snapshots (
			session_id TEXT PRIMARY KEY,
			payload    JSONB NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL
		)
	`
	if _, err := r.db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("failed to create cart_snapshots table: %w", err)
	}
	return nil
}

// Load reads a session's snapshot
func (r *PostgresCartRepository) Load(ctx context.Context, sessionID string) (*domain.CartState, error) {
	var payload []byte
	query := `SELECT payload FROM cart_snapshots WHERE session_id = $1`

	err := r.db.QueryRowContext(ctx, query, sessionID).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrCartNotFound
	}
	if err != nil {
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

// Save upserts the full snapshot
func (r *PostgresCartRepository) Save(ctx context.Context, sessionID string, state domain.CartState) error {
	payload, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("failed to encode cart snapshot: %w", err)
	}

	query := `
		INSERT INTO cart_snapshots (session_id, payload, updated_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (session_id)
		DO UPDATE SET payload = EXCLUDED.payload, updated_at = EXCLUDED.updated_at
	`
	if _, err := r.db.ExecContext(ctx, query, sessionID, payload, time.Now()); err != nil {
		return fmt.Errorf("failed to save cart snapshot: %w", err)
	}
	return nil
}

// Delete removes a session's snapshot
func (r *PostgresCartRepository) Delete(ctx context.Context, sessionID string) error {
	query := `DELETE FROM cart_snapshots WHERE session_id = $1`
	if _, err := r.db.ExecContext(ctx, query, sessionID); err != nil {
		return fmt.Errorf("failed to delete cart snapshot: %w", err)
	}
	return nil
}
