package readstore

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"storefront/internal/infra"
	"storefront/internal/infra/db"
	"storefront/internal/usecase/queries"
)

const (
	findCartByUserSQL = `SELECT id, user_id, updated_at FROM carts WHERE user_id = $1`

	findCartItemsSQL = `SELECT ci.product_id, p.name, ci.quantity, ci.unit_price
		FROM cart_items ci
		JOIN products p ON p.id = ci.product_id
		WHERE ci.cart_id = $1
		ORDER BY p.name`
)

type CartReadStore struct {
	db db.DBTX
}

func NewCartReadStore(db db.DBTX) *CartReadStore {
	return &CartReadStore{db: db}
}

func (r *CartReadStore) FindByUser(ctx context.Context, userID uuid.UUID) (*queries.CartView, error) {
	var view queries.CartView
	err := r.db.QueryRow(ctx, findCartByUserSQL, userID).Scan(&view.ID, &view.UserID, &view.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, infra.WrapRepoErr("cart not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("finding cart", err)
	}

	rows, err := r.db.Query(ctx, findCartItemsSQL, view.ID)
	if err != nil {
		return nil, infra.WrapRepoErr("listing cart items", err)
	}

	items, err := pgx.CollectRows(rows, scanCartItemView)
	if err != nil {
		return nil, infra.WrapRepoErr("listing cart items", err)
	}

	view.Items = items
	view.Subtotal = decimal.Zero
	for _, item := range items {
		view.Subtotal = view.Subtotal.Add(item.LineTotal)
	}
	return &view, nil
}

func scanCartItemView(row pgx.CollectableRow) (queries.CartItemView, error) {
	var v queries.CartItemView
	if err := row.Scan(&v.ProductID, &v.ProductName, &v.Quantity, &v.UnitPrice); err != nil {
		return v, err
	}
	v.LineTotal = v.UnitPrice.Mul(decimal.NewFromInt(int64(v.Quantity)))
	return v, nil
}
