package handler

import (
	"net/http"

	"github.com/dashideliverycorporation/dashi/internal/domain/listing"
	"github.com/dashideliverycorporation/dashi/internal/domain/sales"
)

func (h *Handler) listRestaurants(w http.ResponseWriter, r *http.Request) {
	restaurants, err := h.restaurants.List(r.Context())
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, restaurants)
}

func (h *Handler) restaurantMenu(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := r.PathValue("id")

	rest, err := h.restaurants.GetByID(ctx, id)
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	menu, err := h.restaurants.ListMenu(ctx, id)
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"restaurant": rest,
		"menu":       menu,
	})
}

// restaurantDashboard serves stats for the tenant bound to the caller's
// account.
func (h *Handler) restaurantDashboard(w http.ResponseWriter, r *http.Request) {
	claims := ClaimsFromContext(r.Context())
	if claims.RestaurantID == "" {
		respondError(w, http.StatusForbidden, "account is not bound to a restaurant")
		return
	}

	stats, err := h.restaurants.DashboardStats(r.Context(), claims.RestaurantID)
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, stats)
}

type restaurantSalesResponse struct {
	Orders     []sales.Sale             `json:"orders"`
	Summary    *sales.RestaurantSummary `json:"summary"`
	Pagination listing.Pagination       `json:"pagination"`
}

func (h *Handler) restaurantSales(w http.ResponseWriter, r *http.Request) {
	claims := ClaimsFromContext(r.Context())
	if claims.RestaurantID == "" {
		respondError(w, http.StatusForbidden, "account is not bound to a restaurant")
		return
	}

	q := listing.ParseQuery(r.URL.Query())
	page, summary, err := h.sales.GetRestaurantSales(r.Context(), claims.RestaurantID, q)
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	pageLinks(w, r, q, page.Pagination)
	respondJSON(w, http.StatusOK, restaurantSalesResponse{
		Orders:     page.Rows,
		Summary:    summary,
		Pagination: page.Pagination,
	})
}

func (h *Handler) restaurantOrders(w http.ResponseWriter, r *http.Request) {
	claims := ClaimsFromContext(r.Context())
	if claims.RestaurantID == "" {
		respondError(w, http.StatusForbidden, "account is not bound to a restaurant")
		return
	}

	q := listing.ParseQuery(r.URL.Query())
	page, err := h.orderRepo.ListByRestaurant(r.Context(), claims.RestaurantID, q)
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	pageLinks(w, r, q, page.Pagination)
	respondJSON(w, http.StatusOK, page)
}
