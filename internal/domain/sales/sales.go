// Package sales implements platform-wide and per-restaurant sales reporting.
// A sale is a delivered order; the platform's commission is a flat cut of
// completed sales, computed for reporting only and never stored.
package sales

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"github.com/dashideliverycorporation/dashi/internal/domain/listing"
)

// CommissionRate is the platform's flat cut of completed sales.
var CommissionRate = decimal.RequireFromString("0.10")

// Period selects the reporting window for sales queries.
type Period string

const (
	PeriodToday Period = "today"
	PeriodWeek  Period = "week"
	PeriodMonth Period = "month"
	PeriodAll   Period = "all"
)

// ErrUnknownPeriod is returned for period values outside the known set.
var ErrUnknownPeriod = errors.New("unknown reporting period")

// ParsePeriod maps a query parameter to a Period. An empty value means all
// time.
func ParsePeriod(s string) (Period, error) {
	switch Period(s) {
	case PeriodToday, PeriodWeek, PeriodMonth, PeriodAll:
		return Period(s), nil
	case "":
		return PeriodAll, nil
	}
	return "", ErrUnknownPeriod
}

// Start returns the inclusive lower bound of the period relative to now, and
// whether a bound applies at all.
func (p Period) Start(now time.Time) (time.Time, bool) {
	switch p {
	case PeriodToday:
		y, m, d := now.Date()
		return time.Date(y, m, d, 0, 0, 0, 0, now.Location()), true
	case PeriodWeek:
		return now.AddDate(0, 0, -7), true
	case PeriodMonth:
		return now.AddDate(0, -1, 0), true
	}
	return time.Time{}, false
}

// Sale is one completed order as it appears in sales reports.
type Sale struct {
	OrderID        string          `json:"orderId"`
	OrderNumber    string          `json:"orderNumber"`
	RestaurantID   string          `json:"restaurantId"`
	RestaurantName string          `json:"restaurantName"`
	Total          decimal.Decimal `json:"total"`
	Commission     decimal.Decimal `json:"commission"`
	CreatedAt      time.Time       `json:"createdAt"`
}

// Totals are the raw aggregates a repository reports for a window.
type Totals struct {
	TotalSales      decimal.Decimal
	TotalOrders     int
	RestaurantCount int
}

// Summary is the platform-wide reporting response.
type Summary struct {
	TotalSales      decimal.Decimal `json:"totalSales"`
	TotalOrders     int             `json:"totalOrders"`
	Commission      decimal.Decimal `json:"commission"`
	RestaurantCount int             `json:"restaurantCount"`
}

// RestaurantSummary is the per-restaurant reporting response. Commission is
// what the platform keeps; the restaurant's payout is sales minus commission.
type RestaurantSummary struct {
	TotalSales  decimal.Decimal `json:"totalSales"`
	TotalOrders int             `json:"totalOrders"`
	Commission  decimal.Decimal `json:"commission"`
	NetPayout   decimal.Decimal `json:"netPayout"`
}

// Repository defines read operations over completed sales. List filters
// (restaurant name, period) travel inside the listing query.
type Repository interface {
	ListSales(ctx context.Context, q listing.Query) (listing.Page[Sale], error)
	SummaryTotals(ctx context.Context, period Period) (*Totals, error)
	RestaurantSales(ctx context.Context, restaurantID string, q listing.Query) (listing.Page[Sale], error)
	RestaurantTotals(ctx context.Context, restaurantID string, period Period) (*Totals, error)
}
