package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dashideliverycorporation/dashi/internal/domain/cart"
)

const (
	saveCartSQL = `INSERT INTO carts (owner_id, snapshot, updated_at) VALUES ($1, $2, $3)
		ON CONFLICT (owner_id) DO UPDATE SET snapshot = EXCLUDED.snapshot, updated_at = EXCLUDED.updated_at`

	loadCartSQL = `SELECT snapshot FROM carts WHERE owner_id = $1`

	deleteCartSQL = `DELETE FROM carts WHERE owner_id = $1`
)

var _ cart.Storage = (*CartStorage)(nil)

// CartStorage persists cart snapshots as one JSONB row per owner.
type CartStorage struct {
	pool *pgxpool.Pool
	now  func() time.Time
}

// NewCartStorage returns a CartStorage that uses the given pool.
func NewCartStorage(pool *pgxpool.Pool) *CartStorage {
	return &CartStorage{pool: pool, now: time.Now}
}

// Load returns the owner's saved cart, or cart.ErrNotFound when none exists.
func (s *CartStorage) Load(ctx context.Context, owner string) (cart.State, error) {
	var snapshot []byte
	err := s.pool.QueryRow(ctx, loadCartSQL, owner).Scan(&snapshot)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return cart.State{}, cart.ErrNotFound
		}
		return cart.State{}, fmt.Errorf("loading cart for %q: %w", owner, err)
	}

	var state cart.State
	if err := json.Unmarshal(snapshot, &state); err != nil {
		return cart.State{}, fmt.Errorf("unmarshaling cart for %q: %w", owner, err)
	}
	return state, nil
}

// Save upserts the owner's cart snapshot.
func (s *CartStorage) Save(ctx context.Context, owner string, state cart.State) error {
	snapshot, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("marshaling cart for %q: %w", owner, err)
	}
	if _, err := s.pool.Exec(ctx, saveCartSQL, owner, snapshot, s.now()); err != nil {
		return fmt.Errorf("saving cart for %q: %w", owner, err)
	}
	return nil
}

// Delete removes the owner's saved cart. Deleting an absent cart is not an
// error.
func (s *CartStorage) Delete(ctx context.Context, owner string) error {
	if _, err := s.pool.Exec(ctx, deleteCartSQL, owner); err != nil {
		return fmt.Errorf("deleting cart for %q: %w", owner, err)
	}
	return nil
}
