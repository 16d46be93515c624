package handler

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"

	"github.com/dashideliverycorporation/dashi/internal/domain/cart"
	"github.com/dashideliverycorporation/dashi/internal/domain/listing"
	"github.com/dashideliverycorporation/dashi/internal/domain/order"
	"github.com/dashideliverycorporation/dashi/internal/domain/restaurant"
	"github.com/dashideliverycorporation/dashi/internal/domain/sales"
	"github.com/dashideliverycorporation/dashi/internal/domain/user"
)

// errorResponse is the JSON body of every non-2xx response.
type errorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func respondJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func respondError(w http.ResponseWriter, code int, message string) {
	respondJSON(w, code, errorResponse{Code: code, Message: message})
}

// decodeJSON parses the request body into v. The body is limited to 1 MiB
// and unknown fields are rejected.
func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(nil, r.Body, 1<<20))
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

// pageLinks advertises the neighboring pages of a listing as RFC 5988 Link
// headers. The URLs come from the query's own canonical encoding, so a
// client can follow them without rebuilding the query string.
func pageLinks(w http.ResponseWriter, r *http.Request, q listing.Query, p listing.Pagination) {
	link := func(page int, rel string) {
		next := q
		next.Page = page
		target := r.URL.Path
		if enc := next.Values().Encode(); enc != "" {
			target += "?" + enc
		}
		w.Header().Add("Link", fmt.Sprintf("<%s>; rel=%q", target, rel))
	}
	if p.HasPrev {
		link(p.Page-1, "prev")
	}
	if p.HasNext {
		link(p.Page+1, "next")
	}
}

// cartConflictResponse is the 409 body for a cross-restaurant add. The client
// retries with replace=true after the user confirms.
type cartConflictResponse struct {
	Code              int    `json:"code"`
	Message           string `json:"message"`
	CurrentRestaurant string `json:"currentRestaurant"`
	NewRestaurant     string `json:"newRestaurant"`
}

// respondDomainError maps known domain errors to HTTP responses. Anything
// unrecognized is logged and becomes a 500.
func respondDomainError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		validationErr *user.ValidationError
		quantityErr   *order.InvalidQuantityError
		itemErr       *order.MenuItemNotFoundError
		totalErr      *order.TotalMismatchError
		transitionErr *order.InvalidTransitionError
		conflictErr   *cart.DifferentRestaurantError
	)
	switch {
	case errors.Is(err, order.ErrEmptyItems),
		errors.Is(err, sales.ErrUnknownPeriod),
		errors.As(err, &validationErr),
		errors.As(err, &quantityErr):
		respondError(w, http.StatusBadRequest, err.Error())

	case errors.Is(err, user.ErrInvalidCredentials):
		respondError(w, http.StatusUnauthorized, err.Error())

	case errors.Is(err, restaurant.ErrNotFound),
		errors.Is(err, restaurant.ErrMenuItemNotFound),
		errors.Is(err, order.ErrNotFound),
		errors.Is(err, user.ErrNotFound),
		errors.Is(err, cart.ErrNotFound):
		respondError(w, http.StatusNotFound, err.Error())

	case errors.As(err, &conflictErr):
		respondJSON(w, http.StatusConflict, cartConflictResponse{
			Code:              http.StatusConflict,
			Message:           conflictErr.Error(),
			CurrentRestaurant: conflictErr.Current,
			NewRestaurant:     conflictErr.Requested,
		})

	case errors.Is(err, user.ErrEmailTaken):
		respondError(w, http.StatusConflict, err.Error())

	case errors.As(err, &itemErr),
		errors.As(err, &totalErr),
		errors.As(err, &transitionErr):
		respondError(w, http.StatusUnprocessableEntity, err.Error())

	default:
		zctx.From(r.Context()).Error("request failed", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "internal server error")
	}
}
