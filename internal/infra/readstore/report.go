package readstore

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"storefront/internal/infra"
	"storefront/internal/infra/db"
	"storefront/internal/usecase/queries"
)

const (
	aggregateKPIsSQL = `SELECT COUNT(*),
			COALESCE(SUM(total), 0),
			COALESCE(SUM(product_discount + shipping_discount), 0),
			COUNT(*) FILTER (WHERE coupon_id IS NOT NULL)
		FROM orders
		WHERE status <> 'cancelled' AND created_at >= $1 AND created_at < $2`

	revenueByDaySQL = `SELECT date_trunc('day', created_at) AS day,
			COUNT(*),
			COALESCE(SUM(total), 0)
		FROM orders
		WHERE status <> 'cancelled' AND created_at >= $1 AND created_at < $2
		GROUP BY day
		ORDER BY day`

	topProductsSQL = `SELECT l.product_id, l.product_name,
			SUM(l.quantity)::bigint,
			COALESCE(SUM(l.unit_price * l.quantity), 0)
		FROM order_lines l
		JOIN orders o ON o.id = l.order_id
		WHERE o.status <> 'cancelled' AND o.created_at >= $1 AND o.created_at < $2
		GROUP BY l.product_id, l.product_name
		ORDER BY SUM(l.quantity) DESC, l.product_name
		LIMIT $3`
)

type ReportReadStore struct {
	db db.DBTX
}

func NewReportReadStore(db db.DBTX) *ReportReadStore {
	return &ReportReadStore{db: db}
}

func (r *ReportReadStore) AggregateKPIs(ctx context.Context, from, to time.Time) (*queries.KPIReport, error) {
	var (
		report       queries.KPIReport
		couponOrders int64
	)
	err := r.db.QueryRow(ctx, aggregateKPIsSQL, from, to).Scan(
		&report.OrderCount, &report.GrossRevenue, &report.TotalDiscount, &couponOrders,
	)
	if err != nil {
		return nil, infra.WrapRepoErr("aggregating KPIs", err)
	}

	report.AverageOrder = decimal.Zero
	report.CouponOrderRate = decimal.Zero
	if report.OrderCount > 0 {
		count := decimal.NewFromInt(report.OrderCount)
		report.AverageOrder = report.GrossRevenue.DivRound(count, 2)
		report.CouponOrderRate = decimal.NewFromInt(couponOrders).DivRound(count, 4)
	}
	return &report, nil
}

func (r *ReportReadStore) RevenueByDay(ctx context.Context, from, to time.Time) ([]*queries.RevenuePoint, error) {
	rows, err := r.db.Query(ctx, revenueByDaySQL, from, to)
	if err != nil {
		return nil, infra.WrapRepoErr("aggregating revenue by day", err)
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (*queries.RevenuePoint, error) {
		var p queries.RevenuePoint
		err := row.Scan(&p.Day, &p.Orders, &p.Revenue)
		return &p, err
	})
}

func (r *ReportReadStore) TopProducts(ctx context.Context, from, to time.Time, limit int32) ([]*queries.TopProduct, error) {
	rows, err := r.db.Query(ctx, topProductsSQL, from, to, limit)
	if err != nil {
		return nil, infra.WrapRepoErr("aggregating top products", err)
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (*queries.TopProduct, error) {
		var p queries.TopProduct
		err := row.Scan(&p.ProductID, &p.ProductName, &p.UnitsSold, &p.Revenue)
		return &p, err
	})
}
