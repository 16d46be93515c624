package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/dashideliverycorporation/dashi/internal/domain/cart"
	"github.com/dashideliverycorporation/dashi/internal/domain/listing"
	"github.com/dashideliverycorporation/dashi/internal/domain/order"
	"github.com/dashideliverycorporation/dashi/internal/domain/restaurant"
	"github.com/dashideliverycorporation/dashi/internal/domain/sales"
	"github.com/dashideliverycorporation/dashi/internal/domain/user"
)

// mockRestaurantRepo serves a fixed two-restaurant catalog.
type mockRestaurantRepo struct {
	restaurants map[string]*restaurant.Restaurant
	menuItems   map[string]*restaurant.MenuItem
}

func newMockRestaurantRepo() *mockRestaurantRepo {
	return &mockRestaurantRepo{
		restaurants: map[string]*restaurant.Restaurant{
			"r1": {ID: "r1", Name: "Sushi Bar"},
			"r2": {ID: "r2", Name: "Pizza Palace"},
		},
		menuItems: map[string]*restaurant.MenuItem{
			"m1": {ID: "m1", RestaurantID: "r1", Name: "Salmon Nigiri", Price: decimal.RequireFromString("12.50"), Available: true},
			"m2": {ID: "m2", RestaurantID: "r1", Name: "Miso Soup", Price: decimal.RequireFromString("3.00"), Available: true},
			"m3": {ID: "m3", RestaurantID: "r2", Name: "Margherita", Price: decimal.RequireFromString("9.00"), Available: true},
		},
	}
}

func (m *mockRestaurantRepo) List(_ context.Context) ([]restaurant.Restaurant, error) {
	out := make([]restaurant.Restaurant, 0, len(m.restaurants))
	for _, r := range m.restaurants {
		out = append(out, *r)
	}
	return out, nil
}

func (m *mockRestaurantRepo) GetByID(_ context.Context, id string) (*restaurant.Restaurant, error) {
	if r, ok := m.restaurants[id]; ok {
		return r, nil
	}
	return nil, restaurant.ErrNotFound
}

func (m *mockRestaurantRepo) ListMenu(_ context.Context, restaurantID string) ([]restaurant.MenuItem, error) {
	var out []restaurant.MenuItem
	for _, item := range m.menuItems {
		if item.RestaurantID == restaurantID {
			out = append(out, *item)
		}
	}
	return out, nil
}

func (m *mockRestaurantRepo) GetMenuItem(_ context.Context, id string) (*restaurant.MenuItem, error) {
	if item, ok := m.menuItems[id]; ok {
		return item, nil
	}
	return nil, restaurant.ErrMenuItemNotFound
}

func (m *mockRestaurantRepo) GetMenuItems(_ context.Context, ids []string) ([]restaurant.MenuItem, error) {
	var out []restaurant.MenuItem
	for _, id := range ids {
		if item, ok := m.menuItems[id]; ok {
			out = append(out, *item)
		}
	}
	return out, nil
}

func (m *mockRestaurantRepo) DashboardStats(_ context.Context, _ string) (*restaurant.DashboardStats, error) {
	return &restaurant.DashboardStats{MenuItems: 2, MonthlySales: decimal.RequireFromString("150.00")}, nil
}

// mockOrderRepo keeps orders in insertion order.
type mockOrderRepo struct {
	orders []*order.Order
}

func (m *mockOrderRepo) Create(_ context.Context, o *order.Order) error {
	m.orders = append(m.orders, o)
	return nil
}

func (m *mockOrderRepo) GetByNumber(_ context.Context, number string) (*order.Order, error) {
	for _, o := range m.orders {
		if o.Number == number {
			return o, nil
		}
	}
	return nil, order.ErrNotFound
}

func (m *mockOrderRepo) GetByID(_ context.Context, id string) (*order.Order, error) {
	for _, o := range m.orders {
		if o.ID == id {
			return o, nil
		}
	}
	return nil, order.ErrNotFound
}

func (m *mockOrderRepo) List(_ context.Context, q listing.Query) (listing.Page[order.Order], error) {
	rows := make([]order.Order, 0, len(m.orders))
	for _, o := range m.orders {
		rows = append(rows, *o)
	}
	return listing.Page[order.Order]{Rows: rows, Pagination: listing.NewPagination(q, len(rows))}, nil
}

func (m *mockOrderRepo) ListByCustomer(_ context.Context, customerID string, q listing.Query) (listing.Page[order.Order], error) {
	var rows []order.Order
	for _, o := range m.orders {
		if o.CustomerID == customerID {
			rows = append(rows, *o)
		}
	}
	return listing.Page[order.Order]{Rows: rows, Pagination: listing.NewPagination(q, len(rows))}, nil
}

func (m *mockOrderRepo) ListByRestaurant(_ context.Context, restaurantID string, q listing.Query) (listing.Page[order.Order], error) {
	var rows []order.Order
	for _, o := range m.orders {
		if o.RestaurantID == restaurantID {
			rows = append(rows, *o)
		}
	}
	return listing.Page[order.Order]{Rows: rows, Pagination: listing.NewPagination(q, len(rows))}, nil
}

func (m *mockOrderRepo) UpdateStatus(_ context.Context, id string, status order.Status) error {
	for _, o := range m.orders {
		if o.ID == id {
			o.Status = status
			return nil
		}
	}
	return order.ErrNotFound
}

// mockSalesRepo returns canned figures.
type mockSalesRepo struct{}

func (m *mockSalesRepo) ListSales(_ context.Context, q listing.Query) (listing.Page[sales.Sale], error) {
	if _, err := sales.ParsePeriod(q.Filter("period")); err != nil {
		return listing.Page[sales.Sale]{}, err
	}
	rows := []sales.Sale{
		{OrderID: "o1", OrderNumber: "DSH-AAAA1111", RestaurantID: "r1", RestaurantName: "Sushi Bar", Total: decimal.RequireFromString("50.00")},
	}
	return listing.Page[sales.Sale]{Rows: rows, Pagination: listing.NewPagination(q, 1)}, nil
}

func (m *mockSalesRepo) SummaryTotals(_ context.Context, _ sales.Period) (*sales.Totals, error) {
	return &sales.Totals{TotalSales: decimal.RequireFromString("200.00"), TotalOrders: 4, RestaurantCount: 2}, nil
}

func (m *mockSalesRepo) RestaurantSales(_ context.Context, restaurantID string, q listing.Query) (listing.Page[sales.Sale], error) {
	rows := []sales.Sale{
		{OrderID: "o1", OrderNumber: "DSH-AAAA1111", RestaurantID: restaurantID, Total: decimal.RequireFromString("50.00")},
	}
	return listing.Page[sales.Sale]{Rows: rows, Pagination: listing.NewPagination(q, 1)}, nil
}

func (m *mockSalesRepo) RestaurantTotals(_ context.Context, _ string, _ sales.Period) (*sales.Totals, error) {
	return &sales.Totals{TotalSales: decimal.RequireFromString("50.00"), TotalOrders: 1, RestaurantCount: 1}, nil
}

// mockUserRepo is an in-memory user store pre-seeded with one account per
// role.
type mockUserRepo struct {
	users map[string]*user.User
}

func newMockUserRepo(t *testing.T) *mockUserRepo {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	require.NoError(t, err)

	return &mockUserRepo{users: map[string]*user.User{
		"u-customer": {ID: "u-customer", Name: "Ada", Email: "ada@example.com", PasswordHash: string(hash), Role: user.RoleCustomer},
		"u-admin":    {ID: "u-admin", Name: "Root", Email: "root@example.com", PasswordHash: string(hash), Role: user.RoleAdmin},
		"u-rest":     {ID: "u-rest", Name: "Chef", Email: "chef@example.com", PasswordHash: string(hash), Role: user.RoleRestaurant, RestaurantID: "r1"},
	}}
}

func (m *mockUserRepo) Create(_ context.Context, u *user.User) error {
	for _, existing := range m.users {
		if existing.Email == u.Email {
			return user.ErrEmailTaken
		}
	}
	m.users[u.ID] = u
	return nil
}

func (m *mockUserRepo) GetByID(_ context.Context, id string) (*user.User, error) {
	if u, ok := m.users[id]; ok {
		return u, nil
	}
	return nil, user.ErrNotFound
}

func (m *mockUserRepo) GetByEmail(_ context.Context, email string) (*user.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, user.ErrNotFound
}

func (m *mockUserRepo) List(_ context.Context, q listing.Query) (listing.Page[user.User], error) {
	rows := make([]user.User, 0, len(m.users))
	for _, u := range m.users {
		rows = append(rows, *u)
	}
	return listing.Page[user.User]{Rows: rows, Pagination: listing.NewPagination(q, len(rows))}, nil
}

// memoryCartStorage implements cart.Storage in memory.
type memoryCartStorage struct {
	snapshots map[string]cart.State
}

func (m *memoryCartStorage) Load(_ context.Context, owner string) (cart.State, error) {
	if state, ok := m.snapshots[owner]; ok {
		return state, nil
	}
	return cart.State{}, cart.ErrNotFound
}

func (m *memoryCartStorage) Save(_ context.Context, owner string, state cart.State) error {
	m.snapshots[owner] = state
	return nil
}

func (m *memoryCartStorage) Delete(_ context.Context, owner string) error {
	delete(m.snapshots, owner)
	return nil
}

type testEnv struct {
	handler  http.Handler
	security *Security
	users    *mockUserRepo
	orders   *mockOrderRepo
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	restaurants := newMockRestaurantRepo()
	orders := &mockOrderRepo{}
	users := newMockUserRepo(t)
	security := NewSecurity([]byte("test-secret"), time.Hour)

	h := NewHandler(
		restaurants,
		order.NewService(restaurants, orders, decimal.RequireFromString("2.00")),
		orders,
		sales.NewService(&mockSalesRepo{}),
		user.NewService(users),
		cart.NewManager(&memoryCartStorage{snapshots: make(map[string]cart.State)}, zap.NewNop()),
		security,
	)
	return &testEnv{handler: h.Routes(), security: security, users: users, orders: orders}
}

func (e *testEnv) token(t *testing.T, userID string) string {
	t.Helper()
	token, err := e.security.IssueToken(e.users.users[userID])
	require.NoError(t, err)
	return token
}

func (e *testEnv) request(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	e.handler.ServeHTTP(w, req)
	return w
}

func decodeBody[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(w.Body).Decode(&v))
	return v
}

func TestListRestaurants(t *testing.T) {
	env := newTestEnv(t)

	w := env.request(t, http.MethodGet, "/api/restaurants", "", nil)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decodeBody[[]restaurant.Restaurant](t, w), 2)
}

func TestRestaurantMenu_NotFound(t *testing.T) {
	env := newTestEnv(t)

	w := env.request(t, http.MethodGet, "/api/restaurants/nope/menu", "", nil)

	require.Equal(t, http.StatusNotFound, w.Code)
	body := decodeBody[errorResponse](t, w)
	assert.Equal(t, http.StatusNotFound, body.Code)
}

func TestLogin_IssuesUsableToken(t *testing.T) {
	env := newTestEnv(t)

	w := env.request(t, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email":    "ada@example.com",
		"password": "password123",
	})
	require.Equal(t, http.StatusOK, w.Code)

	body := decodeBody[loginResponse](t, w)
	require.NotEmpty(t, body.Token)
	assert.Equal(t, "u-customer", body.User.ID)

	me := env.request(t, http.MethodGet, "/api/users/me", body.Token, nil)
	require.Equal(t, http.StatusOK, me.Code)
	assert.Equal(t, "ada@example.com", decodeBody[user.User](t, me).Email)
}

func TestLogin_WrongPassword(t *testing.T) {
	env := newTestEnv(t)

	w := env.request(t, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email":    "ada@example.com",
		"password": "wrong",
	})

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRoleGuards(t *testing.T) {
	env := newTestEnv(t)
	customer := env.token(t, "u-customer")
	admin := env.token(t, "u-admin")

	// No token at all.
	assert.Equal(t, http.StatusUnauthorized, env.request(t, http.MethodGet, "/api/orders", "", nil).Code)

	// Wrong role.
	assert.Equal(t, http.StatusForbidden, env.request(t, http.MethodGet, "/api/orders", customer, nil).Code)
	assert.Equal(t, http.StatusForbidden, env.request(t, http.MethodGet, "/api/sales/summary", customer, nil).Code)
	assert.Equal(t, http.StatusForbidden, env.request(t, http.MethodGet, "/api/restaurant/dashboard", admin, nil).Code)

	// Right role.
	assert.Equal(t, http.StatusOK, env.request(t, http.MethodGet, "/api/orders", admin, nil).Code)
}

func TestListOrders_PaginationAndLinks(t *testing.T) {
	env := newTestEnv(t)
	admin := env.token(t, "u-admin")
	for i := 0; i < 15; i++ {
		env.orders.orders = append(env.orders.orders, &order.Order{
			ID:     fmt.Sprintf("o-%02d", i),
			Number: fmt.Sprintf("DSH-%08d", i),
		})
	}

	w := env.request(t, http.MethodGet, "/api/orders?page=2&size=5", admin, nil)
	require.Equal(t, http.StatusOK, w.Code)

	page := decodeBody[listing.Page[order.Order]](t, w)
	assert.Equal(t, 2, page.Pagination.Page)
	assert.Equal(t, 3, page.Pagination.TotalPages)
	assert.True(t, page.Pagination.HasNext)
	assert.True(t, page.Pagination.HasPrev)

	links := w.Header().Values("Link")
	assert.Contains(t, links, `</api/orders?size=5>; rel="prev"`)
	assert.Contains(t, links, `</api/orders?page=3&size=5>; rel="next"`)

	// A request past the end reports the last page, never beyond it.
	w = env.request(t, http.MethodGet, "/api/orders?page=9", admin, nil)
	require.Equal(t, http.StatusOK, w.Code)
	last := decodeBody[listing.Page[order.Order]](t, w)
	assert.Equal(t, 2, last.Pagination.Page)
	assert.Equal(t, 2, last.Pagination.TotalPages)
	assert.False(t, last.Pagination.HasNext)
	assert.True(t, last.Pagination.HasPrev)
}

func TestCart_AddAndConflict(t *testing.T) {
	env := newTestEnv(t)
	token := env.token(t, "u-customer")

	// Add from the first restaurant.
	w := env.request(t, http.MethodPost, "/api/cart/items", token, map[string]any{
		"menuItemId": "m1",
		"quantity":   2,
	})
	require.Equal(t, http.StatusOK, w.Code)
	state := decodeBody[cart.State](t, w)
	assert.Equal(t, "r1", state.RestaurantID)
	require.Len(t, state.Items, 1)
	assert.True(t, state.Subtotal.Equal(decimal.RequireFromString("25.00")), "got %s", state.Subtotal)

	// An item from another restaurant is rejected with both names.
	w = env.request(t, http.MethodPost, "/api/cart/items", token, map[string]any{
		"menuItemId": "m3",
	})
	require.Equal(t, http.StatusConflict, w.Code)
	conflict := decodeBody[cartConflictResponse](t, w)
	assert.Equal(t, "Sushi Bar", conflict.CurrentRestaurant)
	assert.Equal(t, "Pizza Palace", conflict.NewRestaurant)

	// Confirming with replace=true swaps the cart.
	w = env.request(t, http.MethodPost, "/api/cart/items", token, map[string]any{
		"menuItemId": "m3",
		"replace":    true,
	})
	require.Equal(t, http.StatusOK, w.Code)
	state = decodeBody[cart.State](t, w)
	assert.Equal(t, "r2", state.RestaurantID)
	require.Len(t, state.Items, 1)
	assert.Equal(t, "m3", state.Items[0].ID)
}

func TestCart_GuestHeader(t *testing.T) {
	env := newTestEnv(t)

	req := httptest.NewRequest(http.MethodGet, "/api/cart", nil)
	req.Header.Set("X-Guest-ID", "device-42")
	w := httptest.NewRecorder()
	env.handler.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, decodeBody[cart.State](t, w).Items)

	// Without any identity the cart is unreachable.
	w2 := httptest.NewRecorder()
	env.handler.ServeHTTP(w2, httptest.NewRequest(http.MethodGet, "/api/cart", nil))
	assert.Equal(t, http.StatusUnauthorized, w2.Code)
}

func TestCart_DecreaseAndRemove(t *testing.T) {
	env := newTestEnv(t)
	token := env.token(t, "u-customer")

	env.request(t, http.MethodPost, "/api/cart/items", token, map[string]any{"menuItemId": "m1", "quantity": 2})
	env.request(t, http.MethodPost, "/api/cart/items", token, map[string]any{"menuItemId": "m2"})

	w := env.request(t, http.MethodPost, "/api/cart/items/m1/decrease", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	state := decodeBody[cart.State](t, w)
	require.Len(t, state.Items, 2)
	assert.Equal(t, 1, state.Items[0].Quantity)

	w = env.request(t, http.MethodDelete, "/api/cart/items/m1", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	state = decodeBody[cart.State](t, w)
	require.Len(t, state.Items, 1)
	assert.Equal(t, "m2", state.Items[0].ID)

	w = env.request(t, http.MethodDelete, "/api/cart", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	state = decodeBody[cart.State](t, w)
	assert.Empty(t, state.Items)
	assert.Empty(t, state.RestaurantID)
}

func TestPlaceOrder(t *testing.T) {
	env := newTestEnv(t)
	token := env.token(t, "u-customer")

	w := env.request(t, http.MethodPost, "/api/orders", token, map[string]any{
		"restaurantId": "r1",
		"items": []map[string]any{
			{"menuItemId": "m1", "quantity": 2},
			{"menuItemId": "m2", "quantity": 1},
		},
		"delivery": map[string]string{
			"address": "12 Meadow Lane",
			"phone":   "+1-555-0142",
		},
		"paymentMethod": "cash",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	placed := decodeBody[order.Order](t, w)
	assert.Regexp(t, `^DSH-[0-9A-F]{8}$`, placed.Number)
	assert.Equal(t, "u-customer", placed.CustomerID)
	// 2 x 12.50 + 3.00 + 2.00 delivery.
	assert.True(t, placed.Total.Equal(decimal.RequireFromString("30.00")), "got %s", placed.Total)

	mine := env.request(t, http.MethodGet, "/api/orders/mine", token, nil)
	require.Equal(t, http.StatusOK, mine.Code)
	page := decodeBody[listing.Page[order.Order]](t, mine)
	require.Len(t, page.Rows, 1)
	assert.Equal(t, placed.Number, page.Rows[0].Number)
}

func TestPlaceOrder_ValidationErrors(t *testing.T) {
	env := newTestEnv(t)
	token := env.token(t, "u-customer")

	// Missing delivery details.
	w := env.request(t, http.MethodPost, "/api/orders", token, map[string]any{
		"restaurantId": "r1",
		"items":        []map[string]any{{"menuItemId": "m1", "quantity": 1}},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Item from another restaurant.
	w = env.request(t, http.MethodPost, "/api/orders", token, map[string]any{
		"restaurantId": "r1",
		"items":        []map[string]any{{"menuItemId": "m3", "quantity": 1}},
		"delivery":     map[string]string{"address": "a", "phone": "p"},
	})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestUpdateOrderStatus_RestaurantScope(t *testing.T) {
	env := newTestEnv(t)
	customer := env.token(t, "u-customer")
	restToken := env.token(t, "u-rest")

	w := env.request(t, http.MethodPost, "/api/orders", customer, map[string]any{
		"restaurantId": "r1",
		"items":        []map[string]any{{"menuItemId": "m1", "quantity": 1}},
		"delivery":     map[string]string{"address": "a", "phone": "p"},
	})
	require.Equal(t, http.StatusCreated, w.Code)
	placed := decodeBody[order.Order](t, w)

	// The fulfilling restaurant may advance the status.
	w = env.request(t, http.MethodPatch, "/api/orders/"+placed.ID+"/status", restToken, map[string]string{
		"status": "preparing",
	})
	require.Equal(t, http.StatusOK, w.Code)

	// Skipping ahead in the lifecycle is rejected.
	w = env.request(t, http.MethodPatch, "/api/orders/"+placed.ID+"/status", restToken, map[string]string{
		"status": "delivered",
	})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	// Customers cannot touch the status at all.
	w = env.request(t, http.MethodPatch, "/api/orders/"+placed.ID+"/status", customer, map[string]string{
		"status": "delivering",
	})
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestSalesSummary(t *testing.T) {
	env := newTestEnv(t)
	admin := env.token(t, "u-admin")

	w := env.request(t, http.MethodGet, "/api/sales/summary?period=month", admin, nil)
	require.Equal(t, http.StatusOK, w.Code)

	summary := decodeBody[sales.Summary](t, w)
	assert.True(t, summary.Commission.Equal(decimal.RequireFromString("20.00")), "got %s", summary.Commission)
	assert.Equal(t, 4, summary.TotalOrders)

	w = env.request(t, http.MethodGet, "/api/sales/summary?period=decade", admin, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRestaurantSales(t *testing.T) {
	env := newTestEnv(t)
	restToken := env.token(t, "u-rest")

	w := env.request(t, http.MethodGet, "/api/restaurant/sales?period=week", restToken, nil)
	require.Equal(t, http.StatusOK, w.Code)

	body := decodeBody[restaurantSalesResponse](t, w)
	require.NotNil(t, body.Summary)
	// 50.00 sales, 10% commission, 45.00 payout.
	assert.True(t, body.Summary.NetPayout.Equal(decimal.RequireFromString("45.00")), "got %s", body.Summary.NetPayout)
	require.Len(t, body.Orders, 1)
	assert.True(t, body.Orders[0].Commission.Equal(decimal.RequireFromString("5.00")))
}

func TestCreateRestaurantUser(t *testing.T) {
	env := newTestEnv(t)
	admin := env.token(t, "u-admin")

	w := env.request(t, http.MethodPost, "/api/users/restaurant", admin, map[string]string{
		"name":         "New Operator",
		"email":        "operator@example.com",
		"password":     "longenough",
		"restaurantId": "r2",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	created := decodeBody[user.User](t, w)
	assert.Equal(t, user.RoleRestaurant, created.Role)
	assert.Equal(t, "r2", created.RestaurantID)

	// Unknown restaurant is rejected before the account exists.
	w = env.request(t, http.MethodPost, "/api/users/restaurant", admin, map[string]string{
		"name":         "Ghost",
		"email":        "ghost@example.com",
		"password":     "longenough",
		"restaurantId": "r404",
	})
	assert.Equal(t, http.StatusNotFound, w.Code)

	// Duplicate email conflicts.
	w = env.request(t, http.MethodPost, "/api/users/restaurant", admin, map[string]string{
		"name":         "Duplicate",
		"email":        "operator@example.com",
		"password":     "longenough",
		"restaurantId": "r2",
	})
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestExpiredToken(t *testing.T) {
	env := newTestEnv(t)

	expired := NewSecurity([]byte("test-secret"), -time.Hour)
	token, err := expired.IssueToken(env.users.users["u-customer"])
	require.NoError(t, err)

	w := env.request(t, http.MethodGet, "/api/users/me", token, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
