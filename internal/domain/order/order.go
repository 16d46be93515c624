// Package order implements order placement and the order lifecycle.
package order

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/dashideliverycorporation/dashi/internal/domain/listing"
)

// Status is the lifecycle state of an order.
type Status string

const (
	StatusPlaced     Status = "placed"
	StatusPreparing  Status = "preparing"
	StatusDelivering Status = "delivering"
	StatusDelivered  Status = "delivered"
	StatusCancelled  Status = "cancelled"
)

// transitions lists the allowed status moves. Delivered and cancelled are
// terminal.
var transitions = map[Status][]Status{
	StatusPlaced:     {StatusPreparing, StatusCancelled},
	StatusPreparing:  {StatusDelivering, StatusCancelled},
	StatusDelivering: {StatusDelivered},
}

// CanTransition reports whether an order may move from one status to another.
func CanTransition(from, to Status) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Valid reports whether s is a known status value.
func (s Status) Valid() bool {
	switch s {
	case StatusPlaced, StatusPreparing, StatusDelivering, StatusDelivered, StatusCancelled:
		return true
	}
	return false
}

// Item is one priced line of an order. Unlike a cart line, the price is
// frozen at placement time.
type Item struct {
	MenuItemID string          `json:"menuItemId"`
	Name       string          `json:"name"`
	Price      decimal.Decimal `json:"price"`
	Quantity   int             `json:"quantity"`
}

// Delivery holds where and how the order is delivered.
type Delivery struct {
	Address      string `json:"address"`
	Phone        string `json:"phone"`
	Instructions string `json:"instructions,omitempty"`
}

// Order is a placed customer order.
type Order struct {
	ID             string          `json:"id"`
	Number         string          `json:"orderNumber"`
	RestaurantID   string          `json:"restaurantId"`
	RestaurantName string          `json:"restaurantName"`
	CustomerID     string          `json:"customerId"`
	Items          []Item          `json:"items"`
	Subtotal       decimal.Decimal `json:"subtotal"`
	DeliveryFee    decimal.Decimal `json:"deliveryFee"`
	Total          decimal.Decimal `json:"total"`
	Status         Status          `json:"status"`
	Delivery       Delivery        `json:"delivery"`
	PaymentMethod  string          `json:"paymentMethod"`
	CreatedAt      time.Time       `json:"createdAt"`
}

// Repository defines persistence operations for orders.
type Repository interface {
	Create(ctx context.Context, o *Order) error
	GetByNumber(ctx context.Context, number string) (*Order, error)
	GetByID(ctx context.Context, id string) (*Order, error)
	List(ctx context.Context, q listing.Query) (listing.Page[Order], error)
	ListByCustomer(ctx context.Context, customerID string, q listing.Query) (listing.Page[Order], error)
	ListByRestaurant(ctx context.Context, restaurantID string, q listing.Query) (listing.Page[Order], error)
	UpdateStatus(ctx context.Context, id string, status Status) error
}

// InvalidTransitionError indicates a status move the lifecycle forbids.
type InvalidTransitionError struct {
	From Status
	To   Status
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("cannot move order from %s to %s", e.From, e.To)
}
