package repository

import (
	"context"

	"github.com/google/uuid"

	"storefront/internal/domain/product"
	"storefront/internal/infra/db"
	"storefront/internal/usecase/shared"
)

const (
	createProductSQL = `INSERT INTO products (id, name, description, price, image_url, category, active)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id`

	updateProductSQL = `UPDATE products
		SET name = $2, description = $3, price = $4, image_url = $5, category = $6, active = $7, updated_at = now()
		WHERE id = $1`

	setProductActiveSQL = `UPDATE products SET active = $2, updated_at = now() WHERE id = $1`
)

var _ shared.ProductRepository = (*ProductRepository)(nil)

type ProductRepository struct{}

func NewProductRepository() *ProductRepository {
	return &ProductRepository{}
}

func (r *ProductRepository) Create(ctx context.Context, tx db.DBTX, p *product.Product) (uuid.UUID, error) {
	var id uuid.UUID
	err := tx.QueryRow(ctx, createProductSQL,
		p.ID(), p.Name(), p.Description(), p.Price(), p.ImageURL(), p.Category(), p.IsActive(),
	).Scan(&id)
	if err != nil {
		return uuid.Nil, wrapWriteErr("creating product", err)
	}
	return id, nil
}

func (r *ProductRepository) Update(ctx context.Context, tx db.DBTX, p *product.Product) error {
	tag, err := tx.Exec(ctx, updateProductSQL,
		p.ID(), p.Name(), p.Description(), p.Price(), p.ImageURL(), p.Category(), p.IsActive(),
	)
	if err != nil {
		return wrapWriteErr("updating product", err)
	}
	if tag.RowsAffected() == 0 {
		return wrapNotFound("product not found")
	}
	return nil
}

func (r *ProductRepository) SetActive(ctx context.Context, tx db.DBTX, productID uuid.UUID, active bool) error {
	tag, err := tx.Exec(ctx, setProductActiveSQL, productID, active)
	if err != nil {
		return wrapWriteErr("setting product active flag", err)
	}
	if tag.RowsAffected() == 0 {
		return wrapNotFound("product not found")
	}
	return nil
}
