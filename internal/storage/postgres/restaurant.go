package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dashideliverycorporation/dashi/internal/domain/order"
	"github.com/dashideliverycorporation/dashi/internal/domain/restaurant"
)

const (
	listRestaurantsSQL = `SELECT id, name, description, image_url
		FROM restaurants ORDER BY name`

	getRestaurantSQL = `SELECT id, name, description, image_url
		FROM restaurants WHERE id = $1`

	listMenuSQL = `SELECT id, restaurant_id, name, description, price, category, image_url, available
		FROM menu_items WHERE restaurant_id = $1 ORDER BY category, name`

	getMenuItemSQL = `SELECT id, restaurant_id, name, description, price, category, image_url, available
		FROM menu_items WHERE id = $1`

	getMenuItemsSQL = `SELECT id, restaurant_id, name, description, price, category, image_url, available
		FROM menu_items WHERE id = ANY($1)`

	dashboardStatsSQL = `SELECT
		(SELECT COUNT(*) FROM menu_items WHERE restaurant_id = $1),
		(SELECT COUNT(*) FROM orders WHERE restaurant_id = $1 AND status IN ($2, $3, $4)),
		(SELECT COUNT(*) FROM orders WHERE restaurant_id = $1 AND created_at >= $5),
		(SELECT COUNT(DISTINCT customer_id) FROM orders WHERE restaurant_id = $1),
		(SELECT COALESCE(SUM(total), 0) FROM orders WHERE restaurant_id = $1 AND status = $6 AND created_at >= $7)`
)

var _ restaurant.Repository = (*RestaurantRepository)(nil)

// RestaurantRepository implements restaurant.Repository backed by PostgreSQL.
type RestaurantRepository struct {
	pool *pgxpool.Pool
	now  func() time.Time
}

// NewRestaurantRepository returns a RestaurantRepository that uses the given pool.
func NewRestaurantRepository(pool *pgxpool.Pool) *RestaurantRepository {
	return &RestaurantRepository{pool: pool, now: time.Now}
}

// List returns all restaurants ordered by name.
func (r *RestaurantRepository) List(ctx context.Context) ([]restaurant.Restaurant, error) {
	rows, err := r.pool.Query(ctx, listRestaurantsSQL)
	if err != nil {
		return nil, fmt.Errorf("listing restaurants: %w", err)
	}
	return pgx.CollectRows(rows, scanRestaurant)
}

// GetByID returns a single restaurant by its identifier.
func (r *RestaurantRepository) GetByID(ctx context.Context, id string) (*restaurant.Restaurant, error) {
	rows, err := r.pool.Query(ctx, getRestaurantSQL, id)
	if err != nil {
		return nil, fmt.Errorf("getting restaurant %q: %w", id, err)
	}

	rest, err := pgx.CollectExactlyOneRow(rows, scanRestaurant)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, restaurant.ErrNotFound
		}
		return nil, fmt.Errorf("getting restaurant %q: %w", id, err)
	}
	return &rest, nil
}

// ListMenu returns a restaurant's full menu grouped by category.
func (r *RestaurantRepository) ListMenu(ctx context.Context, restaurantID string) ([]restaurant.MenuItem, error) {
	rows, err := r.pool.Query(ctx, listMenuSQL, restaurantID)
	if err != nil {
		return nil, fmt.Errorf("listing menu for %q: %w", restaurantID, err)
	}
	return pgx.CollectRows(rows, scanMenuItem)
}

// GetMenuItem returns a single menu item by its identifier.
func (r *RestaurantRepository) GetMenuItem(ctx context.Context, id string) (*restaurant.MenuItem, error) {
	rows, err := r.pool.Query(ctx, getMenuItemSQL, id)
	if err != nil {
		return nil, fmt.Errorf("getting menu item %q: %w", id, err)
	}

	mi, err := pgx.CollectExactlyOneRow(rows, scanMenuItem)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, restaurant.ErrMenuItemNotFound
		}
		return nil, fmt.Errorf("getting menu item %q: %w", id, err)
	}
	return &mi, nil
}

// GetMenuItems returns menu items matching any of the given IDs.
func (r *RestaurantRepository) GetMenuItems(ctx context.Context, ids []string) ([]restaurant.MenuItem, error) {
	rows, err := r.pool.Query(ctx, getMenuItemsSQL, ids)
	if err != nil {
		return nil, fmt.Errorf("getting menu items by ids: %w", err)
	}
	return pgx.CollectRows(rows, scanMenuItem)
}

// DashboardStats aggregates the operator dashboard numbers in one round trip.
func (r *RestaurantRepository) DashboardStats(ctx context.Context, restaurantID string) (*restaurant.DashboardStats, error) {
	now := r.now()
	y, m, d := now.Date()
	startOfDay := time.Date(y, m, d, 0, 0, 0, 0, now.Location())
	startOfMonth := now.AddDate(0, -1, 0)

	var stats restaurant.DashboardStats
	err := r.pool.QueryRow(ctx, dashboardStatsSQL,
		restaurantID,
		order.StatusPlaced, order.StatusPreparing, order.StatusDelivering,
		startOfDay,
		order.StatusDelivered,
		startOfMonth,
	).Scan(
		&stats.MenuItems,
		&stats.ActiveOrders,
		&stats.TodaysOrders,
		&stats.Customers,
		&stats.MonthlySales,
	)
	if err != nil {
		return nil, fmt.Errorf("dashboard stats for %q: %w", restaurantID, err)
	}
	return &stats, nil
}

func scanRestaurant(row pgx.CollectableRow) (restaurant.Restaurant, error) {
	var rest restaurant.Restaurant
	err := row.Scan(&rest.ID, &rest.Name, &rest.Description, &rest.ImageURL)
	return rest, err
}

func scanMenuItem(row pgx.CollectableRow) (restaurant.MenuItem, error) {
	var mi restaurant.MenuItem
	err := row.Scan(
		&mi.ID, &mi.RestaurantID, &mi.Name, &mi.Description,
		&mi.Price, &mi.Category, &mi.ImageURL, &mi.Available,
	)
	return mi, err
}
