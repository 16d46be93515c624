package handler

import (
	"net/http"

	"github.com/dashideliverycorporation/dashi/internal/domain/listing"
	"github.com/dashideliverycorporation/dashi/internal/domain/user"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string     `json:"token"`
	User  *user.User `json:"user"`
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	u, err := h.users.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	token, err := h.security.IssueToken(u)
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, loginResponse{Token: token, User: u})
}

func (h *Handler) currentUser(w http.ResponseWriter, r *http.Request) {
	claims := ClaimsFromContext(r.Context())
	u, err := h.users.GetByID(r.Context(), claims.UserID)
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, u)
}

func (h *Handler) listUsers(w http.ResponseWriter, r *http.Request) {
	q := listing.ParseQuery(r.URL.Query())
	page, err := h.users.List(r.Context(), q)
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	pageLinks(w, r, q, page.Pagination)
	respondJSON(w, http.StatusOK, page)
}

type createRestaurantUserRequest struct {
	Name         string `json:"name"`
	Email        string `json:"email"`
	Password     string `json:"password"`
	PhoneNumber  string `json:"phoneNumber"`
	RestaurantID string `json:"restaurantId"`
}

func (h *Handler) createRestaurantUser(w http.ResponseWriter, r *http.Request) {
	var req createRestaurantUserRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	// The bound restaurant must exist before the account is created. An
	// empty ID falls through to the service's field validation.
	if req.RestaurantID != "" {
		if _, err := h.restaurants.GetByID(r.Context(), req.RestaurantID); err != nil {
			respondDomainError(w, r, err)
			return
		}
	}

	u, err := h.users.CreateRestaurantUser(r.Context(), user.CreateRestaurantUserRequest{
		Name:         req.Name,
		Email:        req.Email,
		Password:     req.Password,
		PhoneNumber:  req.PhoneNumber,
		RestaurantID: req.RestaurantID,
	})
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, u)
}
