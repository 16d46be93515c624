package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dashideliverycorporation/dashi/internal/domain/listing"
	"github.com/dashideliverycorporation/dashi/internal/domain/order"
	"github.com/dashideliverycorporation/dashi/internal/domain/sales"
)

// Sales figures are derived from delivered orders only. Orders still in
// flight or cancelled never count toward revenue.
const (
	saleColumns = `id, number, restaurant_id, restaurant_name, total, created_at`

	salesTotalsSQL = `SELECT COALESCE(SUM(total), 0), COUNT(*), COUNT(DISTINCT restaurant_id)
		FROM orders WHERE %s`

	restaurantTotalsSQL = `SELECT COALESCE(SUM(total), 0), COUNT(*)
		FROM orders WHERE %s`
)

var saleSortColumns = map[string]string{
	"orderNumber": "number",
	"restaurant":  "restaurant_name",
	"total":       "total",
	"createdAt":   "created_at",
}

var _ sales.Repository = (*SalesRepository)(nil)

// SalesRepository reads sales figures from the orders table.
type SalesRepository struct {
	pool *pgxpool.Pool
	now  func() time.Time
}

// NewSalesRepository returns a SalesRepository that uses the given pool.
func NewSalesRepository(pool *pgxpool.Pool) *SalesRepository {
	return &SalesRepository{pool: pool, now: time.Now}
}

// saleScope builds the WHERE clause shared by all sales queries: delivered
// orders, optionally restricted to a restaurant, a period, and a
// restaurant-name search.
func (r *SalesRepository) saleScope(restaurantID string, period sales.Period, search string) (string, []any) {
	where := "status = $1"
	args := []any{order.StatusDelivered}

	appendCond := func(cond string, arg any) {
		args = append(args, arg)
		where += fmt.Sprintf(" AND %s $%d", cond, len(args))
	}

	if restaurantID != "" {
		appendCond("restaurant_id =", restaurantID)
	}
	if start, ok := period.Start(r.now()); ok {
		appendCond("created_at >=", start)
	}
	if search != "" {
		appendCond("restaurant_name ILIKE", "%"+search+"%")
	}
	return where, args
}

// ListSales returns one page of delivered orders, filtered by the query's
// period and restaurant-name search.
func (r *SalesRepository) ListSales(ctx context.Context, q listing.Query) (listing.Page[sales.Sale], error) {
	period, err := sales.ParsePeriod(q.Filter("period"))
	if err != nil {
		return listing.Page[sales.Sale]{}, err
	}
	where, args := r.saleScope("", period, q.Filter("restaurant"))
	return r.listSales(ctx, where, args, q)
}

// RestaurantSales returns one page of a single restaurant's delivered orders.
func (r *SalesRepository) RestaurantSales(ctx context.Context, restaurantID string, q listing.Query) (listing.Page[sales.Sale], error) {
	period, err := sales.ParsePeriod(q.Filter("period"))
	if err != nil {
		return listing.Page[sales.Sale]{}, err
	}
	where, args := r.saleScope(restaurantID, period, "")
	return r.listSales(ctx, where, args, q)
}

func (r *SalesRepository) listSales(ctx context.Context, where string, args []any, q listing.Query) (listing.Page[sales.Sale], error) {
	var total int
	if err := r.pool.QueryRow(ctx, "SELECT COUNT(*) FROM orders WHERE "+where, args...).Scan(&total); err != nil {
		return listing.Page[sales.Sale]{}, fmt.Errorf("counting sales: %w", err)
	}

	sql := fmt.Sprintf("SELECT %s FROM orders WHERE %s ORDER BY %s LIMIT %d OFFSET %d",
		saleColumns, where,
		q.OrderBy(saleSortColumns, "created_at DESC, id"),
		q.PageSize, q.Offset(),
	)
	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return listing.Page[sales.Sale]{}, fmt.Errorf("listing sales: %w", err)
	}

	collected, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (sales.Sale, error) {
		var s sales.Sale
		err := row.Scan(&s.OrderID, &s.OrderNumber, &s.RestaurantID, &s.RestaurantName, &s.Total, &s.CreatedAt)
		return s, err
	})
	if err != nil {
		return listing.Page[sales.Sale]{}, fmt.Errorf("listing sales: %w", err)
	}
	return listing.Page[sales.Sale]{
		Rows:       collected,
		Pagination: listing.NewPagination(q, total),
	}, nil
}

// SummaryTotals aggregates delivered orders across all restaurants for the
// period.
func (r *SalesRepository) SummaryTotals(ctx context.Context, period sales.Period) (*sales.Totals, error) {
	where, args := r.saleScope("", period, "")

	var t sales.Totals
	err := r.pool.QueryRow(ctx, fmt.Sprintf(salesTotalsSQL, where), args...).
		Scan(&t.TotalSales, &t.TotalOrders, &t.RestaurantCount)
	if err != nil {
		return nil, fmt.Errorf("summarizing sales: %w", err)
	}
	return &t, nil
}

// RestaurantTotals aggregates a single restaurant's delivered orders for the
// period.
func (r *SalesRepository) RestaurantTotals(ctx context.Context, restaurantID string, period sales.Period) (*sales.Totals, error) {
	where, args := r.saleScope(restaurantID, period, "")

	t := sales.Totals{RestaurantCount: 1}
	err := r.pool.QueryRow(ctx, fmt.Sprintf(restaurantTotalsSQL, where), args...).
		Scan(&t.TotalSales, &t.TotalOrders)
	if err != nil {
		return nil, fmt.Errorf("summarizing restaurant sales: %w", err)
	}
	return &t, nil
}
