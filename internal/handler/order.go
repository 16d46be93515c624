package handler

import (
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/dashideliverycorporation/dashi/internal/domain/listing"
	"github.com/dashideliverycorporation/dashi/internal/domain/order"
	"github.com/dashideliverycorporation/dashi/internal/domain/user"
)

type placeOrderRequest struct {
	RestaurantID string `json:"restaurantId"`
	Items        []struct {
		MenuItemID string `json:"menuItemId"`
		Quantity   int    `json:"quantity"`
	} `json:"items"`
	Delivery struct {
		Address      string `json:"address"`
		Phone        string `json:"phone"`
		Instructions string `json:"instructions"`
	} `json:"delivery"`
	PaymentMethod string          `json:"paymentMethod"`
	Total         decimal.Decimal `json:"total"`
}

func (h *Handler) placeOrder(w http.ResponseWriter, r *http.Request) {
	var req placeOrderRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Delivery.Address == "" || req.Delivery.Phone == "" {
		respondError(w, http.StatusBadRequest, "delivery address and phone required")
		return
	}

	items := make([]order.ItemRequest, len(req.Items))
	for i, item := range req.Items {
		items[i] = order.ItemRequest{
			MenuItemID: item.MenuItemID,
			Quantity:   item.Quantity,
		}
	}

	placed, err := h.orders.PlaceOrder(r.Context(), order.PlaceOrderRequest{
		CustomerID:   ClaimsFromContext(r.Context()).UserID,
		RestaurantID: req.RestaurantID,
		Items:        items,
		Delivery: order.Delivery{
			Address:      req.Delivery.Address,
			Phone:        req.Delivery.Phone,
			Instructions: req.Delivery.Instructions,
		},
		PaymentMethod: req.PaymentMethod,
		Total:         req.Total,
	})
	if err != nil {
		respondDomainError(w, r, err)
		return
	}

	// The cart served its purpose once the order exists.
	h.carts.For(r.Context(), placed.CustomerID).Clear(r.Context())

	respondJSON(w, http.StatusCreated, placed)
}

func (h *Handler) listOrders(w http.ResponseWriter, r *http.Request) {
	q := listing.ParseQuery(r.URL.Query())
	page, err := h.orderRepo.List(r.Context(), q)
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	pageLinks(w, r, q, page.Pagination)
	respondJSON(w, http.StatusOK, page)
}

func (h *Handler) myOrders(w http.ResponseWriter, r *http.Request) {
	claims := ClaimsFromContext(r.Context())
	q := listing.ParseQuery(r.URL.Query())
	page, err := h.orderRepo.ListByCustomer(r.Context(), claims.UserID, q)
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	pageLinks(w, r, q, page.Pagination)
	respondJSON(w, http.StatusOK, page)
}

func (h *Handler) getOrder(w http.ResponseWriter, r *http.Request) {
	o, err := h.orderRepo.GetByNumber(r.Context(), r.PathValue("number"))
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	if !h.mayViewOrder(ClaimsFromContext(r.Context()), o) {
		respondError(w, http.StatusForbidden, "forbidden")
		return
	}
	respondJSON(w, http.StatusOK, o)
}

// mayViewOrder limits order visibility to the customer who placed it, the
// restaurant fulfilling it, and admins.
func (h *Handler) mayViewOrder(claims *Claims, o *order.Order) bool {
	switch claims.Role {
	case user.RoleAdmin:
		return true
	case user.RoleRestaurant:
		return claims.RestaurantID == o.RestaurantID
	default:
		return claims.UserID == o.CustomerID
	}
}

type updateOrderStatusRequest struct {
	Status order.Status `json:"status"`
}

func (h *Handler) updateOrderStatus(w http.ResponseWriter, r *http.Request) {
	claims := ClaimsFromContext(r.Context())
	if claims.Role != user.RoleAdmin && claims.Role != user.RoleRestaurant {
		respondError(w, http.StatusForbidden, "forbidden")
		return
	}

	var req updateOrderStatusRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	id := r.PathValue("id")
	if claims.Role == user.RoleRestaurant {
		o, err := h.orderRepo.GetByID(r.Context(), id)
		if err != nil {
			respondDomainError(w, r, err)
			return
		}
		if o.RestaurantID != claims.RestaurantID {
			respondError(w, http.StatusForbidden, "forbidden")
			return
		}
	}

	if err := h.orders.UpdateStatus(r.Context(), id, req.Status); err != nil {
		respondDomainError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"status": req.Status})
}
