package commands

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"storefront/internal/domain/cart"
	"storefront/internal/infra"
	"storefront/internal/pkg/errs"
	"storefront/internal/usecase/shared"
)

var (
	ErrProductNotFound  = errs.New("product not found")
	ErrProductInactive  = errs.New("product inactive")
	ErrCartNotFound     = errs.New("cart not found")
	ErrCartItemNotFound = errs.New("cart item not found")
)

type CartCommands interface {
	AddItem(ctx context.Context, userID, productID uuid.UUID, quantity int) error
	UpdateItemQuantity(ctx context.Context, userID, productID uuid.UUID, quantity int) error
	RemoveItem(ctx context.Context, userID, productID uuid.UUID) error
	ClearCart(ctx context.Context, userID uuid.UUID) error
}

type cartCommandsImpl struct {
	uow shared.UnitOfWork
}

func NewCartCommands(uow shared.UnitOfWork) CartCommands {
	return &cartCommandsImpl{uow: uow}
}

// AddItem snapshots the current product price into the cart line; later price
// changes do not affect lines already in the cart.
func (c *cartCommandsImpl) AddItem(ctx context.Context, userID, productID uuid.UUID, quantity int) error {
	return c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		productSnap, err := tx.Reads().ProductByID(ctx, productID)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return ErrProductNotFound
			}
			return err
		}
		if !productSnap.Active {
			return ErrProductInactive
		}

		entity, err := c.loadOrCreateCart(ctx, tx, userID)
		if err != nil {
			return err
		}

		if err := entity.AddItem(productID, quantity, productSnap.Price); err != nil {
			return errs.Mark(err, ErrDomainValidation)
		}

		return tx.Carts().Save(ctx, tx.DB(), entity)
	})
}

func (c *cartCommandsImpl) UpdateItemQuantity(ctx context.Context, userID, productID uuid.UUID, quantity int) error {
	return c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		entity, err := c.loadCart(ctx, tx, userID)
		if err != nil {
			return err
		}

		if err := entity.UpdateQuantity(productID, quantity); err != nil {
			if errors.Is(err, cart.ErrItemNotFound) {
				return ErrCartItemNotFound
			}
			return errs.Mark(err, ErrDomainValidation)
		}

		return tx.Carts().Save(ctx, tx.DB(), entity)
	})
}

func (c *cartCommandsImpl) RemoveItem(ctx context.Context, userID, productID uuid.UUID) error {
	return c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		entity, err := c.loadCart(ctx, tx, userID)
		if err != nil {
			return err
		}

		if err := entity.RemoveItem(productID); err != nil {
			return ErrCartItemNotFound
		}

		return tx.Carts().Save(ctx, tx.DB(), entity)
	})
}

func (c *cartCommandsImpl) ClearCart(ctx context.Context, userID uuid.UUID) error {
	return c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		entity, err := c.loadCart(ctx, tx, userID)
		if err != nil {
			return err
		}
		return tx.Carts().Clear(ctx, tx.DB(), entity.ID())
	})
}

func (c *cartCommandsImpl) loadCart(ctx context.Context, tx shared.Tx, userID uuid.UUID) (*cart.Cart, error) {
	snap, err := tx.Reads().CartByUser(ctx, userID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrCartNotFound
		}
		return nil, err
	}
	return snap.ToDomain(), nil
}

func (c *cartCommandsImpl) loadOrCreateCart(ctx context.Context, tx shared.Tx, userID uuid.UUID) (*cart.Cart, error) {
	snap, err := tx.Reads().CartByUser(ctx, userID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return cart.NewCart(uuid.New(), userID, nil), nil
		}
		return nil, err
	}
	return snap.ToDomain(), nil
}
