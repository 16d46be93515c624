// Package restaurant holds the restaurant catalog: the tenants of the
// marketplace, their menus, and the operator-facing dashboard numbers.
package restaurant

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

var (
	// ErrNotFound is returned when a requested restaurant does not exist.
	ErrNotFound = errors.New("restaurant not found")
	// ErrMenuItemNotFound is returned when a requested menu item does not exist.
	ErrMenuItemNotFound = errors.New("menu item not found")
)

// Restaurant is one tenant on the platform.
type Restaurant struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	ImageURL    string `json:"imageUrl,omitempty"`
}

// MenuItem is a dish offered by a restaurant.
type MenuItem struct {
	ID           string          `json:"id"`
	RestaurantID string          `json:"restaurantId"`
	Name         string          `json:"name"`
	Description  string          `json:"description,omitempty"`
	Price        decimal.Decimal `json:"price"`
	Category     string          `json:"category,omitempty"`
	ImageURL     string          `json:"imageUrl,omitempty"`
	Available    bool            `json:"available"`
}

// DashboardStats are the headline numbers on a restaurant operator's
// dashboard.
type DashboardStats struct {
	MenuItems    int             `json:"menuItems"`
	ActiveOrders int             `json:"activeOrders"`
	TodaysOrders int             `json:"todaysOrders"`
	Customers    int             `json:"customers"`
	MonthlySales decimal.Decimal `json:"monthlySales"`
}

// Repository defines read operations over restaurants and their menus.
type Repository interface {
	List(ctx context.Context) ([]Restaurant, error)
	GetByID(ctx context.Context, id string) (*Restaurant, error)
	ListMenu(ctx context.Context, restaurantID string) ([]MenuItem, error)
	GetMenuItem(ctx context.Context, id string) (*MenuItem, error)
	GetMenuItems(ctx context.Context, ids []string) ([]MenuItem, error)
	DashboardStats(ctx context.Context, restaurantID string) (*DashboardStats, error)
}
