package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dashideliverycorporation/dashi/internal/domain/listing"
	"github.com/dashideliverycorporation/dashi/internal/domain/order"
)

const (
	createOrderSQL = `INSERT INTO orders (id, number, restaurant_id, restaurant_name, customer_id,
		items, subtotal, delivery_fee, total, status,
		delivery_address, delivery_phone, delivery_instructions, payment_method, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`

	orderColumns = `id, number, restaurant_id, restaurant_name, customer_id,
		items, subtotal, delivery_fee, total, status,
		delivery_address, delivery_phone, delivery_instructions, payment_method, created_at`

	updateOrderStatusSQL = `UPDATE orders SET status = $2 WHERE id = $1`
)

// orderSortColumns is the allowlist mapping client sort fields to columns.
var orderSortColumns = map[string]string{
	"orderNumber": "number",
	"restaurant":  "restaurant_name",
	"total":       "total",
	"status":      "status",
	"createdAt":   "created_at",
}

var _ order.Repository = (*OrderRepository)(nil)

// OrderRepository implements order.Repository backed by PostgreSQL. Line
// items are serialized to JSON for storage in the JSONB column.
type OrderRepository struct {
	pool *pgxpool.Pool
}

// NewOrderRepository returns an OrderRepository that uses the given pool.
func NewOrderRepository(pool *pgxpool.Pool) *OrderRepository {
	return &OrderRepository{pool: pool}
}

// Create persists a new order.
func (r *OrderRepository) Create(ctx context.Context, o *order.Order) error {
	itemsJSON, err := json.Marshal(o.Items)
	if err != nil {
		return fmt.Errorf("marshaling order items: %w", err)
	}

	_, err = r.pool.Exec(ctx, createOrderSQL,
		o.ID, o.Number, o.RestaurantID, o.RestaurantName, o.CustomerID,
		itemsJSON, o.Subtotal, o.DeliveryFee, o.Total, o.Status,
		o.Delivery.Address, o.Delivery.Phone, o.Delivery.Instructions, o.PaymentMethod, o.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("creating order %q: %w", o.Number, err)
	}
	return nil
}

// GetByNumber returns a single order by its human-readable number.
func (r *OrderRepository) GetByNumber(ctx context.Context, number string) (*order.Order, error) {
	return r.getOne(ctx, "number = $1", number)
}

// GetByID returns a single order by its identifier.
func (r *OrderRepository) GetByID(ctx context.Context, id string) (*order.Order, error) {
	return r.getOne(ctx, "id = $1", id)
}

func (r *OrderRepository) getOne(ctx context.Context, where string, arg any) (*order.Order, error) {
	rows, err := r.pool.Query(ctx, "SELECT "+orderColumns+" FROM orders WHERE "+where, arg)
	if err != nil {
		return nil, fmt.Errorf("getting order: %w", err)
	}

	o, err := pgx.CollectExactlyOneRow(rows, scanOrder)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, order.ErrNotFound
		}
		return nil, fmt.Errorf("getting order: %w", err)
	}
	return &o, nil
}

// List returns one page of all orders, filtered by the query's status and
// restaurant filters.
func (r *OrderRepository) List(ctx context.Context, q listing.Query) (listing.Page[order.Order], error) {
	return r.list(ctx, q, "", nil)
}

// ListByCustomer returns one page of a customer's own orders.
func (r *OrderRepository) ListByCustomer(ctx context.Context, customerID string, q listing.Query) (listing.Page[order.Order], error) {
	return r.list(ctx, q, "customer_id", customerID)
}

// ListByRestaurant returns one page of a restaurant's orders.
func (r *OrderRepository) ListByRestaurant(ctx context.Context, restaurantID string, q listing.Query) (listing.Page[order.Order], error) {
	return r.list(ctx, q, "restaurant_id", restaurantID)
}

func (r *OrderRepository) list(ctx context.Context, q listing.Query, scopeColumn string, scopeValue any) (listing.Page[order.Order], error) {
	where := "TRUE"
	args := []any{}

	appendCond := func(cond string, arg any) {
		args = append(args, arg)
		where += fmt.Sprintf(" AND %s $%d", cond, len(args))
	}

	if scopeColumn != "" {
		appendCond(scopeColumn+" =", scopeValue)
	}
	if status := q.Filter("status"); status != "" {
		appendCond("status =", status)
	}
	if name := q.Filter("restaurant"); name != "" {
		appendCond("restaurant_name ILIKE", "%"+name+"%")
	}

	var total int
	if err := r.pool.QueryRow(ctx, "SELECT COUNT(*) FROM orders WHERE "+where, args...).Scan(&total); err != nil {
		return listing.Page[order.Order]{}, fmt.Errorf("counting orders: %w", err)
	}

	sql := fmt.Sprintf("SELECT %s FROM orders WHERE %s ORDER BY %s LIMIT %d OFFSET %d",
		orderColumns, where,
		q.OrderBy(orderSortColumns, "created_at DESC, id"),
		q.PageSize, q.Offset(),
	)
	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return listing.Page[order.Order]{}, fmt.Errorf("listing orders: %w", err)
	}

	collected, err := pgx.CollectRows(rows, scanOrder)
	if err != nil {
		return listing.Page[order.Order]{}, fmt.Errorf("listing orders: %w", err)
	}
	return listing.Page[order.Order]{
		Rows:       collected,
		Pagination: listing.NewPagination(q, total),
	}, nil
}

// UpdateStatus moves an order to the given status.
func (r *OrderRepository) UpdateStatus(ctx context.Context, id string, status order.Status) error {
	tag, err := r.pool.Exec(ctx, updateOrderStatusSQL, id, status)
	if err != nil {
		return fmt.Errorf("updating order %q status: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return order.ErrNotFound
	}
	return nil
}

func scanOrder(row pgx.CollectableRow) (order.Order, error) {
	var (
		o         order.Order
		itemsJSON []byte
	)
	err := row.Scan(
		&o.ID, &o.Number, &o.RestaurantID, &o.RestaurantName, &o.CustomerID,
		&itemsJSON, &o.Subtotal, &o.DeliveryFee, &o.Total, &o.Status,
		&o.Delivery.Address, &o.Delivery.Phone, &o.Delivery.Instructions, &o.PaymentMethod, &o.CreatedAt,
	)
	if err != nil {
		return o, err
	}
	if err := json.Unmarshal(itemsJSON, &o.Items); err != nil {
		return o, fmt.Errorf("unmarshaling order items: %w", err)
	}
	return o, nil
}
