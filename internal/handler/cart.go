package handler

import (
	"net/http"

	"github.com/dashideliverycorporation/dashi/internal/domain/cart"
)

// withCartOwner resolves the cart owner for a request: the authenticated
// user when a bearer token is present, otherwise the X-Guest-ID header so
// anonymous visitors can build a cart before logging in.
func (h *Handler) withCartOwner(next func(w http.ResponseWriter, r *http.Request, owner string)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if claims, err := h.bearerClaims(r); err == nil {
			next(w, r, claims.UserID)
			return
		}
		if guest := r.Header.Get("X-Guest-ID"); guest != "" {
			next(w, r, "guest:"+guest)
			return
		}
		respondError(w, http.StatusUnauthorized, "cart requires a login or X-Guest-ID header")
	}
}

func (h *Handler) getCart(w http.ResponseWriter, r *http.Request, owner string) {
	store := h.carts.For(r.Context(), owner)
	respondJSON(w, http.StatusOK, store.State())
}

type addCartItemRequest struct {
	MenuItemID string `json:"menuItemId"`
	Quantity   int    `json:"quantity"`
	// Replace confirms discarding a cart bound to another restaurant.
	Replace bool `json:"replace"`
}

func (h *Handler) addCartItem(w http.ResponseWriter, r *http.Request, owner string) {
	var req addCartItemRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.MenuItemID == "" {
		respondError(w, http.StatusBadRequest, "menuItemId required")
		return
	}
	qty := req.Quantity
	if qty == 0 {
		qty = 1
	}
	if qty < 0 {
		respondError(w, http.StatusBadRequest, "quantity must be greater than 0")
		return
	}

	ctx := r.Context()

	// Price and name come from the catalog, never from the client.
	menuItem, err := h.restaurants.GetMenuItem(ctx, req.MenuItemID)
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	rest, err := h.restaurants.GetByID(ctx, menuItem.RestaurantID)
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	item := cart.Item{
		ID:       menuItem.ID,
		Name:     menuItem.Name,
		Price:    menuItem.Price,
		ImageURL: menuItem.ImageURL,
		Quantity: qty,
	}

	store := h.carts.For(ctx, owner)
	if req.Replace {
		respondJSON(w, http.StatusOK, store.AddItemReplacing(ctx, rest.ID, rest.Name, item))
		return
	}
	state, err := store.AddItem(ctx, rest.ID, rest.Name, item)
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, state)
}

func (h *Handler) decreaseCartItem(w http.ResponseWriter, r *http.Request, owner string) {
	store := h.carts.For(r.Context(), owner)
	respondJSON(w, http.StatusOK, store.DecreaseItem(r.Context(), r.PathValue("id")))
}

func (h *Handler) removeCartItem(w http.ResponseWriter, r *http.Request, owner string) {
	store := h.carts.For(r.Context(), owner)
	respondJSON(w, http.StatusOK, store.RemoveItem(r.Context(), r.PathValue("id")))
}

func (h *Handler) clearCart(w http.ResponseWriter, r *http.Request, owner string) {
	store := h.carts.For(r.Context(), owner)
	respondJSON(w, http.StatusOK, store.Clear(r.Context()))
}
