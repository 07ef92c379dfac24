package readstore

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"storefront/internal/infra"
	"storefront/internal/infra/db"
	"storefront/internal/usecase/queries"
)

const (
	findOrderByIDSQL = `SELECT o.id, o.user_id, u.email, o.coupon_code, o.subtotal, o.product_discount,
			o.shipping_discount, o.shipping_fee, o.total, o.status, o.created_at, o.updated_at
		FROM orders o
		JOIN users u ON u.id = o.user_id
		WHERE o.id = $1`

	findOrderLinesSQL = `SELECT product_id, product_name, quantity, unit_price
		FROM order_lines WHERE order_id = $1 ORDER BY position`

	findOrdersByUserSQL = `SELECT id, total, status, coupon_code, created_at
		FROM orders
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2`

	findOrdersByUserAfterSQL = `SELECT id, total, status, coupon_code, created_at
		FROM orders
		WHERE user_id = $1 AND (created_at, id) < ($2, $3)
		ORDER BY created_at DESC, id DESC
		LIMIT $4`

	countOrdersByUserSQL = `SELECT COUNT(*) FROM orders WHERE user_id = $1 AND status <> 'cancelled'`
)

type OrderReadStore struct {
	db db.DBTX
}

func NewOrderReadStore(db db.DBTX) *OrderReadStore {
	return &OrderReadStore{db: db}
}

func (r *OrderReadStore) FindByID(ctx context.Context, id uuid.UUID) (*queries.OrderView, error) {
	var (
		view       queries.OrderView
		couponCode string
	)
	err := r.db.QueryRow(ctx, findOrderByIDSQL, id).Scan(
		&view.ID, &view.UserID, &view.UserEmail, &couponCode,
		&view.Subtotal, &view.ProductDiscount, &view.ShippingDiscount, &view.ShippingFee, &view.Total,
		&view.Status, &view.CreatedAt, &view.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, infra.WrapRepoErr("order not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("finding order", err)
	}
	if couponCode != "" {
		view.CouponCode = &couponCode
	}

	rows, err := r.db.Query(ctx, findOrderLinesSQL, id)
	if err != nil {
		return nil, infra.WrapRepoErr("listing order lines", err)
	}

	lines, err := pgx.CollectRows(rows, scanOrderLineView)
	if err != nil {
		return nil, infra.WrapRepoErr("listing order lines", err)
	}
	view.Lines = lines

	return &view, nil
}

func (r *OrderReadStore) FindByUserKeyset(ctx context.Context, userID uuid.UUID, after *time.Time, afterID *uuid.UUID, limit int32) ([]*queries.OrderListItem, error) {
	var (
		rows pgx.Rows
		err  error
	)
	if after != nil && afterID != nil {
		rows, err = r.db.Query(ctx, findOrdersByUserAfterSQL, userID, *after, *afterID, limit)
	} else {
		rows, err = r.db.Query(ctx, findOrdersByUserSQL, userID, limit)
	}
	if err != nil {
		return nil, infra.WrapRepoErr("listing orders", err)
	}
	return pgx.CollectRows(rows, scanOrderListItem)
}

func (r *OrderReadStore) CountByUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.QueryRow(ctx, countOrdersByUserSQL, userID).Scan(&count); err != nil {
		return 0, infra.WrapRepoErr("counting orders", err)
	}
	return count, nil
}

func scanOrderLineView(row pgx.CollectableRow) (queries.OrderLineView, error) {
	var v queries.OrderLineView
	if err := row.Scan(&v.ProductID, &v.ProductName, &v.Quantity, &v.UnitPrice); err != nil {
		return v, err
	}
	v.LineTotal = v.UnitPrice.Mul(decimal.NewFromInt(int64(v.Quantity)))
	return v, nil
}

func scanOrderListItem(row pgx.CollectableRow) (*queries.OrderListItem, error) {
	var (
		v          queries.OrderListItem
		couponCode string
	)
	if err := row.Scan(&v.ID, &v.Total, &v.Status, &couponCode, &v.CreatedAt); err != nil {
		return nil, err
	}
	if couponCode != "" {
		v.CouponCode = &couponCode
	}
	return &v, nil
}
