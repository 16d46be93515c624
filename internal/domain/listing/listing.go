// Package listing implements the shared paged, sorted, filtered collection
// contract used by every table-style read endpoint (orders, users, sales).
// A Query round-trips through URL query parameters so a view is shareable
// and restorable from its link alone.
package listing

import (
	"net/url"
	"sort"
	"strconv"
)

// SortOrder is the direction of a sorted listing.
type SortOrder string

const (
	Asc  SortOrder = "asc"
	Desc SortOrder = "desc"
)

// Defaults applied by Normalize and omitted by Values.
const (
	DefaultPage     = 1
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// Query holds the client-controlled state of one listing: which page to
// fetch, how to sort it, and the active filters.
type Query struct {
	Page     int
	PageSize int
	Sort     string
	Order    SortOrder
	Filters  map[string]string
}

// NewQuery returns a Query at the default first page with no sort or filters.
func NewQuery() Query {
	return Query{Page: DefaultPage, PageSize: DefaultPageSize, Order: Asc}
}

// reserved query parameter names; everything else in the URL is a filter.
var reserved = map[string]bool{
	"page":  true,
	"size":  true,
	"sort":  true,
	"order": true,
}

// ParseQuery builds a Query from URL parameters. Unknown parameters become
// filters, so view-specific extras (status, restaurant, period) need no
// special handling. The result is already normalized.
func ParseQuery(values url.Values) Query {
	q := NewQuery()

	if v := values.Get("page"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			q.Page = n
		}
	}
	if v := values.Get("size"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			q.PageSize = n
		}
	}
	q.Sort = values.Get("sort")
	if v := SortOrder(values.Get("order")); v == Asc || v == Desc {
		q.Order = v
	}

	for key := range values {
		if reserved[key] {
			continue
		}
		if v := values.Get(key); v != "" {
			if q.Filters == nil {
				q.Filters = make(map[string]string)
			}
			q.Filters[key] = v
		}
	}

	q.Normalize()
	return q
}

// Normalize clamps the query into its valid range: page at least 1 and page
// size within [1, MaxPageSize]. A zero or negative page means page 1.
func (q *Query) Normalize() {
	if q.Page < 1 {
		q.Page = DefaultPage
	}
	if q.PageSize < 1 {
		q.PageSize = DefaultPageSize
	}
	if q.PageSize > MaxPageSize {
		q.PageSize = MaxPageSize
	}
	if q.Order != Desc {
		q.Order = Asc
	}
}

// Values encodes the query back into URL parameters, omitting parameters at
// their default value so shared links stay short.
func (q Query) Values() url.Values {
	values := url.Values{}
	if q.Page != DefaultPage {
		values.Set("page", strconv.Itoa(q.Page))
	}
	if q.PageSize != DefaultPageSize {
		values.Set("size", strconv.Itoa(q.PageSize))
	}
	if q.Sort != "" {
		values.Set("sort", q.Sort)
		if q.Order != Asc {
			values.Set("order", string(q.Order))
		}
	}

	keys := make([]string, 0, len(q.Filters))
	for k := range q.Filters {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if v := q.Filters[k]; v != "" {
			values.Set(k, v)
		}
	}
	return values
}

// WithSort returns the query sorted by field. Re-sorting by the active field
// toggles the direction; sorting by a new field starts ascending. Either way
// the page resets to 1 and filters are kept.
func (q Query) WithSort(field string) Query {
	next := q
	if next.Sort == field {
		if next.Order == Asc {
			next.Order = Desc
		} else {
			next.Order = Asc
		}
	} else {
		next.Sort = field
		next.Order = Asc
	}
	next.Page = DefaultPage
	return next
}

// WithFilter returns the query with the named filter set (or removed when the
// value is empty) and the page reset to 1.
func (q Query) WithFilter(key, value string) Query {
	next := q
	next.Filters = make(map[string]string, len(q.Filters)+1)
	for k, v := range q.Filters {
		next.Filters[k] = v
	}
	if value == "" {
		delete(next.Filters, key)
	} else {
		next.Filters[key] = value
	}
	next.Page = DefaultPage
	return next
}

// Filter returns the named filter value, or "" when unset.
func (q Query) Filter(key string) string {
	return q.Filters[key]
}

// Offset returns the row offset for SQL LIMIT/OFFSET pagination.
func (q Query) Offset() int {
	return (q.Page - 1) * q.PageSize
}

// OrderBy returns the SQL ORDER BY clause for the query, using fallback when
// the requested sort field is not in the allowed set. Column names come from
// the allowlist, never from the client, so the clause is safe to interpolate.
func (q Query) OrderBy(allowed map[string]string, fallback string) string {
	column, ok := allowed[q.Sort]
	if !ok {
		column = fallback
	}
	if q.Order == Desc {
		return column + " DESC"
	}
	return column + " ASC"
}

// Pagination describes one page of results relative to the full collection.
// HasNext and HasPrev ship in the payload so clients never re-derive them.
type Pagination struct {
	Total      int  `json:"total"`
	Page       int  `json:"page"`
	PageSize   int  `json:"pageSize"`
	TotalPages int  `json:"totalPages"`
	HasNext    bool `json:"hasNext"`
	HasPrev    bool `json:"hasPrev"`
}

// NewPagination computes page metadata for a collection of total rows viewed
// through q. An empty collection has a single (empty) page, and a requested
// page past the end reports the last page, so Page never exceeds TotalPages.
func NewPagination(q Query, total int) Pagination {
	if total < 0 {
		total = 0
	}
	pages := (total + q.PageSize - 1) / q.PageSize
	if pages < 1 {
		pages = 1
	}
	page := q.Page
	if page > pages {
		page = pages
	}
	if page < 1 {
		page = 1
	}
	return Pagination{
		Total:      total,
		Page:       page,
		PageSize:   q.PageSize,
		TotalPages: pages,
		HasNext:    page < pages,
		HasPrev:    page > 1,
	}
}

// Page is one page of rows plus its pagination metadata, as returned by every
// listing endpoint.
type Page[T any] struct {
	Rows       []T        `json:"rows"`
	Pagination Pagination `json:"pagination"`
}
