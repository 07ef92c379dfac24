package queries

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"storefront/internal/pkg/errs"
)

var ErrInvalidReportRange = errs.New("invalid report range")

// KPIReport aggregates storewide sales figures over a date range.
// Cancelled orders are excluded from every figure.
type KPIReport struct {
	OrderCount      int64           `json:"order_count"`
	GrossRevenue    decimal.Decimal `json:"gross_revenue"`
	TotalDiscount   decimal.Decimal `json:"total_discount"`
	AverageOrder    decimal.Decimal `json:"average_order"`
	CouponOrderRate decimal.Decimal `json:"coupon_order_rate"`
}

type RevenuePoint struct {
	Day     time.Time       `json:"day"`
	Orders  int64           `json:"orders"`
	Revenue decimal.Decimal `json:"revenue"`
}

type TopProduct struct {
	ProductID   uuid.UUID       `json:"product_id"`
	ProductName string          `json:"product_name"`
	UnitsSold   int64           `json:"units_sold"`
	Revenue     decimal.Decimal `json:"revenue"`
}

type ReportRange struct {
	From time.Time
	To   time.Time
}

func (r ReportRange) Validate() error {
	if r.From.IsZero() || r.To.IsZero() || !r.To.After(r.From) {
		return ErrInvalidReportRange
	}
	return nil
}

type ReportQueries interface {
	KPIs(ctx context.Context, rng ReportRange) (*KPIReport, error)
	RevenueByDay(ctx context.Context, rng ReportRange) ([]*RevenuePoint, error)
	TopProducts(ctx context.Context, rng ReportRange, limit int) ([]*TopProduct, error)
}

type ReportReadStore interface {
	AggregateKPIs(ctx context.Context, from, to time.Time) (*KPIReport, error)
	RevenueByDay(ctx context.Context, from, to time.Time) ([]*RevenuePoint, error)
	TopProducts(ctx context.Context, from, to time.Time, limit int32) ([]*TopProduct, error)
}

type reportQueriesImpl struct {
	readStore ReportReadStore
}

func NewReportQueries(readStore ReportReadStore) ReportQueries {
	return &reportQueriesImpl{readStore: readStore}
}

func (q *reportQueriesImpl) KPIs(ctx context.Context, rng ReportRange) (*KPIReport, error) {
	if err := rng.Validate(); err != nil {
		return nil, err
	}
	return q.readStore.AggregateKPIs(ctx, rng.From, rng.To)
}

func (q *reportQueriesImpl) RevenueByDay(ctx context.Context, rng ReportRange) ([]*RevenuePoint, error) {
	if err := rng.Validate(); err != nil {
		return nil, err
	}
	return q.readStore.RevenueByDay(ctx, rng.From, rng.To)
}

func (q *reportQueriesImpl) TopProducts(ctx context.Context, rng ReportRange, limit int) ([]*TopProduct, error) {
	if err := rng.Validate(); err != nil {
		return nil, err
	}
	return q.readStore.TopProducts(ctx, rng.From, rng.To, int32(ValidateLimit(limit)))
}
