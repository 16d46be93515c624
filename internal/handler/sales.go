package handler

import (
	"net/http"

	"github.com/dashideliverycorporation/dashi/internal/domain/listing"
	"github.com/dashideliverycorporation/dashi/internal/domain/sales"
)

func (h *Handler) platformSales(w http.ResponseWriter, r *http.Request) {
	q := listing.ParseQuery(r.URL.Query())
	page, err := h.sales.GetSales(r.Context(), q)
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	pageLinks(w, r, q, page.Pagination)
	respondJSON(w, http.StatusOK, page)
}

func (h *Handler) salesSummary(w http.ResponseWriter, r *http.Request) {
	period, err := sales.ParsePeriod(r.URL.Query().Get("period"))
	if err != nil {
		respondDomainError(w, r, err)
		return
	}

	summary, err := h.sales.GetSummary(r.Context(), period)
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, summary)
}
