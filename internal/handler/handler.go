// Package handler exposes the marketplace API as JSON over HTTP. Business
// logic lives in the domain packages; handlers parse, delegate, and map
// domain errors to status codes.
package handler

import (
	"net/http"

	"github.com/dashideliverycorporation/dashi/internal/domain/cart"
	"github.com/dashideliverycorporation/dashi/internal/domain/order"
	"github.com/dashideliverycorporation/dashi/internal/domain/restaurant"
	"github.com/dashideliverycorporation/dashi/internal/domain/sales"
	"github.com/dashideliverycorporation/dashi/internal/domain/user"
)

// Handler holds the domain dependencies behind the HTTP surface.
type Handler struct {
	restaurants restaurant.Repository
	orders      *order.Service
	orderRepo   order.Repository
	sales       *sales.Service
	users       *user.Service
	carts       *cart.Manager
	security    *Security
}

// NewHandler constructs a Handler with the required domain dependencies.
func NewHandler(
	restaurants restaurant.Repository,
	orders *order.Service,
	orderRepo order.Repository,
	salesService *sales.Service,
	users *user.Service,
	carts *cart.Manager,
	security *Security,
) *Handler {
	return &Handler{
		restaurants: restaurants,
		orders:      orders,
		orderRepo:   orderRepo,
		sales:       salesService,
		users:       users,
		carts:       carts,
		security:    security,
	}
}

// Routes mounts every API endpoint on a fresh mux.
func (h *Handler) Routes() *http.ServeMux {
	mux := http.NewServeMux()

	// Public catalog.
	mux.HandleFunc("GET /api/restaurants", h.listRestaurants)
	mux.HandleFunc("GET /api/restaurants/{id}/menu", h.restaurantMenu)

	// Restaurant back office.
	mux.HandleFunc("GET /api/restaurant/dashboard", h.requireRole(user.RoleRestaurant, h.restaurantDashboard))
	mux.HandleFunc("GET /api/restaurant/sales", h.requireRole(user.RoleRestaurant, h.restaurantSales))
	mux.HandleFunc("GET /api/restaurant/orders", h.requireRole(user.RoleRestaurant, h.restaurantOrders))

	// Cart. Owner is the authenticated user or a guest ID header.
	mux.HandleFunc("GET /api/cart", h.withCartOwner(h.getCart))
	mux.HandleFunc("POST /api/cart/items", h.withCartOwner(h.addCartItem))
	mux.HandleFunc("POST /api/cart/items/{id}/decrease", h.withCartOwner(h.decreaseCartItem))
	mux.HandleFunc("DELETE /api/cart/items/{id}", h.withCartOwner(h.removeCartItem))
	mux.HandleFunc("DELETE /api/cart", h.withCartOwner(h.clearCart))

	// Orders.
	mux.HandleFunc("POST /api/orders", h.authenticate(h.placeOrder))
	mux.HandleFunc("GET /api/orders", h.requireRole(user.RoleAdmin, h.listOrders))
	mux.HandleFunc("GET /api/orders/mine", h.authenticate(h.myOrders))
	mux.HandleFunc("GET /api/orders/{number}", h.authenticate(h.getOrder))
	mux.HandleFunc("PATCH /api/orders/{id}/status", h.authenticate(h.updateOrderStatus))

	// Platform reporting.
	mux.HandleFunc("GET /api/sales", h.requireRole(user.RoleAdmin, h.platformSales))
	mux.HandleFunc("GET /api/sales/summary", h.requireRole(user.RoleAdmin, h.salesSummary))

	// Accounts.
	mux.HandleFunc("POST /api/auth/login", h.login)
	mux.HandleFunc("GET /api/users/me", h.authenticate(h.currentUser))
	mux.HandleFunc("GET /api/users", h.requireRole(user.RoleAdmin, h.listUsers))
	mux.HandleFunc("POST /api/users/restaurant", h.requireRole(user.RoleAdmin, h.createRestaurantUser))

	return mux
}
