// Package cart implements the in-progress order a customer assembles before
// checkout. A cart is bound to at most one restaurant at a time; its subtotal
// is always derived from the line items, never stored independently.
package cart

import (
	"context"
	"fmt"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// ErrNotFound is returned by Storage when no snapshot exists for an owner.
var ErrNotFound = errors.New("cart not found")

// DifferentRestaurantError rejects an add against a cart already bound to
// another restaurant. The caller must confirm the switch explicitly via
// Store.AddItemReplacing before the existing cart is discarded.
type DifferentRestaurantError struct {
	Current   string
	Requested string
}

func (e *DifferentRestaurantError) Error() string {
	return fmt.Sprintf("cart is bound to restaurant %q, cannot add items from %q", e.Current, e.Requested)
}

// Item is one distinct menu item and its quantity within the cart.
type Item struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	ImageURL string          `json:"imageUrl,omitempty"`
	Quantity int             `json:"quantity"`
}

// State is the full cart snapshot. Items is empty exactly when RestaurantID
// is empty; Subtotal always equals the sum of price times quantity over Items.
type State struct {
	RestaurantID   string          `json:"restaurantId"`
	RestaurantName string          `json:"restaurantName"`
	Items          []Item          `json:"items"`
	Subtotal       decimal.Decimal `json:"subtotal"`
}

// Empty returns the canonical empty cart state.
func Empty() State {
	return State{Items: []Item{}, Subtotal: decimal.Zero}
}

// IsEmpty reports whether the cart holds no items.
func (s State) IsEmpty() bool {
	return len(s.Items) == 0
}

// recalc rederives the subtotal from the line items, rounded to cents.
func (s *State) recalc() {
	subtotal := decimal.Zero
	for _, it := range s.Items {
		subtotal = subtotal.Add(it.Price.Mul(decimal.NewFromInt(int64(it.Quantity))))
	}
	s.Subtotal = subtotal.Round(2)
}

// clone returns a deep copy so callers can never alias the store's state.
func (s State) clone() State {
	out := s
	out.Items = make([]Item, len(s.Items))
	copy(out.Items, s.Items)
	return out
}

// Storage persists one serialized cart snapshot per owner. Implementations
// must treat Load on an unknown owner as ErrNotFound, not an empty state.
type Storage interface {
	Load(ctx context.Context, owner string) (State, error)
	Save(ctx context.Context, owner string, state State) error
	Delete(ctx context.Context, owner string) error
}
