package order

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/dashideliverycorporation/dashi/internal/domain/restaurant"
)

// Sentinel errors for order validation.
var (
	ErrEmptyItems = fmt.Errorf("items required")
	ErrNotFound   = fmt.Errorf("order not found")
)

// MenuItemNotFoundError indicates a requested menu item does not exist or
// does not belong to the order's restaurant.
type MenuItemNotFoundError struct {
	MenuItemID string
}

func (e *MenuItemNotFoundError) Error() string {
	return fmt.Sprintf("menu item %s not found", e.MenuItemID)
}

// InvalidQuantityError indicates a line item has a non-positive quantity.
type InvalidQuantityError struct {
	MenuItemID string
}

func (e *InvalidQuantityError) Error() string {
	return fmt.Sprintf("quantity must be greater than 0 for menu item %s", e.MenuItemID)
}

// TotalMismatchError indicates the client-supplied total disagrees with the
// server-side price calculation. The order is rejected rather than silently
// repriced.
type TotalMismatchError struct {
	Expected decimal.Decimal
	Got      decimal.Decimal
}

func (e *TotalMismatchError) Error() string {
	return fmt.Sprintf("order total %s does not match expected %s", e.Got, e.Expected)
}

// ItemRequest is one requested line of a new order.
type ItemRequest struct {
	MenuItemID string
	Quantity   int
}

// PlaceOrderRequest holds the input for placing an order.
type PlaceOrderRequest struct {
	CustomerID    string
	RestaurantID  string
	Items         []ItemRequest
	Delivery      Delivery
	PaymentMethod string
	// Total is the client's view of the order total, including the delivery
	// fee. When non-zero it must match the server-side calculation.
	Total decimal.Decimal
}

// Service encapsulates order placement and lifecycle business logic. All
// prices come from the menu catalog at placement time, never the client.
type Service struct {
	restaurants restaurant.Repository
	orders      Repository
	deliveryFee decimal.Decimal
	now         func() time.Time
}

// NewService creates an order Service. deliveryFee is the flat fee added to
// every order's subtotal.
func NewService(restaurants restaurant.Repository, orders Repository, deliveryFee decimal.Decimal) *Service {
	return &Service{
		restaurants: restaurants,
		orders:      orders,
		deliveryFee: deliveryFee,
		now:         time.Now,
	}
}

// PlaceOrder validates the requested items against the restaurant's menu,
// recomputes pricing server-side, persists the order, and returns it with
// its generated order number.
func (s *Service) PlaceOrder(ctx context.Context, req PlaceOrderRequest) (*Order, error) {
	if len(req.Items) == 0 {
		return nil, ErrEmptyItems
	}

	// Validate quantities and collect menu item IDs.
	ids := make([]string, len(req.Items))
	for i, item := range req.Items {
		if item.Quantity <= 0 {
			return nil, &InvalidQuantityError{MenuItemID: item.MenuItemID}
		}
		ids[i] = item.MenuItemID
	}

	rest, err := s.restaurants.GetByID(ctx, req.RestaurantID)
	if err != nil {
		return nil, fmt.Errorf("get restaurant %s: %w", req.RestaurantID, err)
	}

	// Batch fetch all menu items in a single query.
	fetched, err := s.restaurants.GetMenuItems(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("get menu items: %w", err)
	}

	itemMap := make(map[string]restaurant.MenuItem, len(fetched))
	for _, mi := range fetched {
		itemMap[mi.ID] = mi
	}

	// Verify every requested item exists, belongs to this restaurant, and is
	// currently available; freeze prices while we are at it.
	lines := make([]Item, len(req.Items))
	subtotal := decimal.Zero
	for i, item := range req.Items {
		mi, ok := itemMap[item.MenuItemID]
		if !ok || mi.RestaurantID != req.RestaurantID || !mi.Available {
			return nil, &MenuItemNotFoundError{MenuItemID: item.MenuItemID}
		}
		lines[i] = Item{
			MenuItemID: mi.ID,
			Name:       mi.Name,
			Price:      mi.Price,
			Quantity:   item.Quantity,
		}
		subtotal = subtotal.Add(mi.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}

	subtotal = subtotal.Round(2)
	total := subtotal.Add(s.deliveryFee).Round(2)

	if !req.Total.IsZero() && !req.Total.Equal(total) {
		return nil, &TotalMismatchError{Expected: total, Got: req.Total}
	}

	o := &Order{
		ID:             uuid.New().String(),
		Number:         newOrderNumber(),
		RestaurantID:   rest.ID,
		RestaurantName: rest.Name,
		CustomerID:     req.CustomerID,
		Items:          lines,
		Subtotal:       subtotal,
		DeliveryFee:    s.deliveryFee,
		Total:          total,
		Status:         StatusPlaced,
		Delivery:       req.Delivery,
		PaymentMethod:  req.PaymentMethod,
		CreatedAt:      s.now().UTC(),
	}
	if err := s.orders.Create(ctx, o); err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}

	return o, nil
}

// UpdateStatus moves an order along its lifecycle, rejecting transitions the
// state machine does not allow.
func (s *Service) UpdateStatus(ctx context.Context, orderID string, to Status) error {
	if !to.Valid() {
		return fmt.Errorf("unknown order status %q", to)
	}

	o, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return fmt.Errorf("get order %s: %w", orderID, err)
	}

	if !CanTransition(o.Status, to) {
		return &InvalidTransitionError{From: o.Status, To: to}
	}

	if err := s.orders.UpdateStatus(ctx, orderID, to); err != nil {
		return fmt.Errorf("update order %s status: %w", orderID, err)
	}
	return nil
}

// newOrderNumber generates a short human-readable order number.
func newOrderNumber() string {
	id := uuid.New().String()
	return "DSH-" + strings.ToUpper(id[:8])
}
