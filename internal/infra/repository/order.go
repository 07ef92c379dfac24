package repository

import (
	"context"

	"github.com/google/uuid"

	"storefront/internal/domain/order"
	"storefront/internal/infra/db"
	"storefront/internal/usecase/shared"
)

const (
	createOrderSQL = `INSERT INTO orders
		(id, user_id, coupon_id, coupon_code, subtotal, product_discount, shipping_discount, shipping_fee, total, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id`

	insertOrderLineSQL = `INSERT INTO order_lines (order_id, product_id, product_name, quantity, unit_price, position)
		VALUES ($1, $2, $3, $4, $5, $6)`

	updateOrderStatusSQL = `UPDATE orders SET status = $2, updated_at = now() WHERE id = $1`
)

var _ shared.OrderRepository = (*OrderRepository)(nil)

type OrderRepository struct{}

func NewOrderRepository() *OrderRepository {
	return &OrderRepository{}
}

func (r *OrderRepository) Create(ctx context.Context, tx db.DBTX, o *order.Order) (uuid.UUID, error) {
	var id uuid.UUID
	err := tx.QueryRow(ctx, createOrderSQL,
		o.ID(), o.UserID(), o.CouponID(), o.CouponCode(),
		o.Subtotal(), o.ProductDiscount(), o.ShippingDiscount(), o.ShippingFee(), o.Total(),
		o.Status().String(),
	).Scan(&id)
	if err != nil {
		return uuid.Nil, wrapWriteErr("creating order", err)
	}

	for pos, line := range o.Lines() {
		_, err := tx.Exec(ctx, insertOrderLineSQL,
			id, line.ProductID, line.ProductName, line.Quantity, line.UnitPrice, pos,
		)
		if err != nil {
			return uuid.Nil, wrapWriteErr("inserting order line", err)
		}
	}

	return id, nil
}

func (r *OrderRepository) UpdateStatus(ctx context.Context, tx db.DBTX, orderID uuid.UUID, status order.Status) error {
	tag, err := tx.Exec(ctx, updateOrderStatusSQL, orderID, status.String())
	if err != nil {
		return wrapWriteErr("updating order status", err)
	}
	if tag.RowsAffected() == 0 {
		return wrapNotFound("order not found")
	}
	return nil
}
