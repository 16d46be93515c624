package sales

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"github.com/dashideliverycorporation/dashi/internal/domain/listing"
)

// Service computes commission on top of the repository's raw sales data.
type Service struct {
	repo Repository
}

// NewService creates a sales Service backed by the given repository.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// GetSales returns one page of platform-wide sales with per-row commission
// filled in.
func (s *Service) GetSales(ctx context.Context, q listing.Query) (listing.Page[Sale], error) {
	if _, err := ParsePeriod(q.Filter("period")); err != nil {
		return listing.Page[Sale]{}, err
	}

	page, err := s.repo.ListSales(ctx, q)
	if err != nil {
		return listing.Page[Sale]{}, errors.Wrap(err, "list sales")
	}
	for i := range page.Rows {
		page.Rows[i].Commission = commission(page.Rows[i].Total)
	}
	return page, nil
}

// GetSummary returns the platform-wide totals for the period, including the
// aggregate commission.
func (s *Service) GetSummary(ctx context.Context, period Period) (*Summary, error) {
	totals, err := s.repo.SummaryTotals(ctx, period)
	if err != nil {
		return nil, errors.Wrap(err, "summary totals")
	}
	return &Summary{
		TotalSales:      totals.TotalSales,
		TotalOrders:     totals.TotalOrders,
		Commission:      commission(totals.TotalSales),
		RestaurantCount: totals.RestaurantCount,
	}, nil
}

// GetRestaurantSales returns one page of a restaurant's completed sales plus
// its summary for the queried period.
func (s *Service) GetRestaurantSales(ctx context.Context, restaurantID string, q listing.Query) (listing.Page[Sale], *RestaurantSummary, error) {
	period, err := ParsePeriod(q.Filter("period"))
	if err != nil {
		return listing.Page[Sale]{}, nil, err
	}

	page, err := s.repo.RestaurantSales(ctx, restaurantID, q)
	if err != nil {
		return listing.Page[Sale]{}, nil, errors.Wrap(err, "restaurant sales")
	}
	for i := range page.Rows {
		page.Rows[i].Commission = commission(page.Rows[i].Total)
	}

	totals, err := s.repo.RestaurantTotals(ctx, restaurantID, period)
	if err != nil {
		return listing.Page[Sale]{}, nil, errors.Wrap(err, "restaurant totals")
	}

	fee := commission(totals.TotalSales)
	summary := &RestaurantSummary{
		TotalSales:  totals.TotalSales,
		TotalOrders: totals.TotalOrders,
		Commission:  fee,
		NetPayout:   totals.TotalSales.Sub(fee),
	}
	return page, summary, nil
}

// commission is the platform's flat cut of an amount, rounded to cents.
func commission(amount decimal.Decimal) decimal.Decimal {
	return amount.Mul(CommissionRate).Round(2)
}
