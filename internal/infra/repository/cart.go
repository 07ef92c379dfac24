package repository

import (
	"context"

	"github.com/google/uuid"

	"storefront/internal/domain/cart"
	"storefront/internal/infra/db"
	"storefront/internal/usecase/shared"
)

const (
	upsertCartSQL = `INSERT INTO carts (id, user_id)
		VALUES ($1, $2)
		ON CONFLICT (user_id) DO UPDATE SET updated_at = now()
		RETURNING id`

	deleteCartItemsSQL = `DELETE FROM cart_items WHERE cart_id = $1`

	insertCartItemSQL = `INSERT INTO cart_items (cart_id, product_id, quantity, unit_price)
		VALUES ($1, $2, $3, $4)`
)

var _ shared.CartRepository = (*CartRepository)(nil)

type CartRepository struct{}

func NewCartRepository() *CartRepository {
	return &CartRepository{}
}

// Save replaces the cart's full item set. Carts are small, so delete-and-insert
// keeps the write path simple and the row state canonical.
func (r *CartRepository) Save(ctx context.Context, tx db.DBTX, c *cart.Cart) error {
	var cartID uuid.UUID
	if err := tx.QueryRow(ctx, upsertCartSQL, c.ID(), c.UserID()).Scan(&cartID); err != nil {
		return wrapWriteErr("saving cart", err)
	}

	if _, err := tx.Exec(ctx, deleteCartItemsSQL, cartID); err != nil {
		return wrapWriteErr("clearing cart items", err)
	}

	for _, item := range c.Items() {
		if _, err := tx.Exec(ctx, insertCartItemSQL, cartID, item.ProductID, item.Quantity, item.UnitPrice); err != nil {
			return wrapWriteErr("inserting cart item", err)
		}
	}

	return nil
}

func (r *CartRepository) Clear(ctx context.Context, tx db.DBTX, cartID uuid.UUID) error {
	if _, err := tx.Exec(ctx, deleteCartItemsSQL, cartID); err != nil {
		return wrapWriteErr("clearing cart", err)
	}
	return nil
}
