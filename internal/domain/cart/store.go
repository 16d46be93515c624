package cart

import (
	"context"
	"sync"

	"go.uber.org/zap"
)

// Store is the single source of truth for one owner's in-progress order.
// Every mutation recomputes the subtotal and persists the new snapshot
// best-effort: storage failures are logged and never roll back the
// in-memory change.
type Store struct {
	owner   string
	storage Storage
	lg      *zap.Logger

	mu    sync.Mutex
	state State
}

// NewStore creates a Store for owner, hydrated from storage when a persisted
// snapshot exists. A missing or unreadable snapshot yields an empty cart;
// read failures are logged, not returned.
func NewStore(ctx context.Context, owner string, storage Storage, lg *zap.Logger) *Store {
	s := &Store{
		owner:   owner,
		storage: storage,
		lg:      lg,
		state:   Empty(),
	}

	loaded, err := storage.Load(ctx, owner)
	switch {
	case err == nil:
		loaded.recalc()
		s.state = loaded
	case err != ErrNotFound:
		lg.Warn("cart restore failed, starting empty",
			zap.String("owner", owner), zap.Error(err))
	}
	return s
}

// State returns a copy of the current cart snapshot.
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.clone()
}

// AddItem merges item into the cart bound to the given restaurant. When the
// cart is empty it binds to that restaurant; when it is bound elsewhere the
// add is rejected with a DifferentRestaurantError and nothing changes.
// Adding an item already present increments its quantity.
func (s *Store) AddItem(ctx context.Context, restaurantID, restaurantName string, item Item) (State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.state.IsEmpty() && s.state.RestaurantID != restaurantID {
		return s.state.clone(), &DifferentRestaurantError{
			Current:   s.state.RestaurantName,
			Requested: restaurantName,
		}
	}

	s.state.RestaurantID = restaurantID
	s.state.RestaurantName = restaurantName
	s.merge(item)
	s.state.recalc()
	s.persist(ctx)
	return s.state.clone(), nil
}

// AddItemReplacing discards the existing cart and starts a fresh one for the
// given restaurant containing only item. This is the confirmed resolution of
// a DifferentRestaurantError.
func (s *Store) AddItemReplacing(ctx context.Context, restaurantID, restaurantName string, item Item) State {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state = Empty()
	s.state.RestaurantID = restaurantID
	s.state.RestaurantName = restaurantName
	s.merge(item)
	s.state.recalc()
	s.persist(ctx)
	return s.state.clone()
}

// DecreaseItem decrements the quantity of the matching line, removing it when
// the quantity would drop to zero. Decreasing an absent item is a no-op.
func (s *Store) DecreaseItem(ctx context.Context, itemID string) State {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.state.Items {
		if s.state.Items[i].ID != itemID {
			continue
		}
		s.state.Items[i].Quantity--
		if s.state.Items[i].Quantity < 1 {
			s.deleteLine(i)
		}
		s.state.recalc()
		s.persist(ctx)
		break
	}
	return s.state.clone()
}

// RemoveItem deletes the matching line outright. Removing the last line
// resets the whole cart, including the restaurant binding.
func (s *Store) RemoveItem(ctx context.Context, itemID string) State {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.state.Items {
		if s.state.Items[i].ID != itemID {
			continue
		}
		s.deleteLine(i)
		s.state.recalc()
		s.persist(ctx)
		break
	}
	return s.state.clone()
}

// Clear unconditionally resets the cart to the empty state and drops the
// persisted snapshot.
func (s *Store) Clear(ctx context.Context) State {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state = Empty()
	if err := s.storage.Delete(ctx, s.owner); err != nil {
		s.lg.Warn("cart delete failed",
			zap.String("owner", s.owner), zap.Error(err))
	}
	return s.state.clone()
}

// merge increments an existing line or appends a new one at the given
// quantity (minimum 1). Caller holds s.mu.
func (s *Store) merge(item Item) {
	if item.Quantity < 1 {
		item.Quantity = 1
	}
	for i := range s.state.Items {
		if s.state.Items[i].ID == item.ID {
			s.state.Items[i].Quantity += item.Quantity
			return
		}
	}
	s.state.Items = append(s.state.Items, item)
}

// deleteLine removes the line at index i, resetting the restaurant binding
// when it was the last one. Caller holds s.mu.
func (s *Store) deleteLine(i int) {
	s.state.Items = append(s.state.Items[:i], s.state.Items[i+1:]...)
	if len(s.state.Items) == 0 {
		s.state = Empty()
	}
}

// persist writes the current snapshot. Failures are logged only; the
// in-memory mutation has already taken effect. Caller holds s.mu.
func (s *Store) persist(ctx context.Context) {
	if err := s.storage.Save(ctx, s.owner, s.state); err != nil {
		s.lg.Warn("cart save failed",
			zap.String("owner", s.owner), zap.Error(err))
	}
}
