package commands

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"storefront/internal/domain/product"
	"storefront/internal/infra"
	"storefront/internal/pkg/errs"
	"storefront/internal/usecase/shared"
)

type UpsertProductRequest struct {
	Name        string
	Description string
	Price       decimal.Decimal
	ImageURL    string
	Category    string
	Active      bool
}

type CreateProductResult struct {
	ProductID uuid.UUID
}

type ProductCommands interface {
	CreateProduct(ctx context.Context, req UpsertProductRequest) (*CreateProductResult, error)
	UpdateProduct(ctx context.Context, productID uuid.UUID, req UpsertProductRequest) error
	SetActive(ctx context.Context, productID uuid.UUID, active bool) error
}

type productCommandsImpl struct {
	uow shared.UnitOfWork
}

func NewProductCommands(uow shared.UnitOfWork) ProductCommands {
	return &productCommandsImpl{uow: uow}
}

func (p *productCommandsImpl) CreateProduct(ctx context.Context, req UpsertProductRequest) (*CreateProductResult, error) {
	entity, err := product.NewProduct(uuid.New(), req.Name, req.Description, req.Price, req.ImageURL, req.Category, req.Active)
	if err != nil {
		return nil, errs.Mark(err, ErrDomainValidation)
	}

	var createdID uuid.UUID
	err = p.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		id, createErr := tx.Products().Create(ctx, tx.DB(), entity)
		if createErr != nil {
			return createErr
		}
		createdID = id
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &CreateProductResult{ProductID: createdID}, nil
}

func (p *productCommandsImpl) UpdateProduct(ctx context.Context, productID uuid.UUID, req UpsertProductRequest) error {
	entity, err := product.NewProduct(productID, req.Name, req.Description, req.Price, req.ImageURL, req.Category, req.Active)
	if err != nil {
		return errs.Mark(err, ErrDomainValidation)
	}

	return p.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		if _, readErr := tx.Reads().ProductByID(ctx, productID); readErr != nil {
			if infra.IsKind(readErr, infra.KindNotFound) {
				return ErrProductNotFound
			}
			return readErr
		}
		return tx.Products().Update(ctx, tx.DB(), entity)
	})
}

func (p *productCommandsImpl) SetActive(ctx context.Context, productID uuid.UUID, active bool) error {
	return p.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		snap, err := tx.Reads().ProductByID(ctx, productID)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return ErrProductNotFound
			}
			return err
		}
		if snap.Active == active {
			return nil
		}
		return tx.Products().SetActive(ctx, tx.DB(), productID, active)
	})
}
