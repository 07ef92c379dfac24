package readstore

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"storefront/internal/infra"
	"storefront/internal/infra/db"
	"storefront/internal/usecase/queries"
)

const (
	productColumns = `id, name, description, price, image_url, category, active, created_at, updated_at`

	findProductByIDSQL = `SELECT ` + productColumns + ` FROM products WHERE id = $1`
)

type ProductReadStore struct {
	db db.DBTX
}

func NewProductReadStore(db db.DBTX) *ProductReadStore {
	return &ProductReadStore{db: db}
}

func (r *ProductReadStore) FindByID(ctx context.Context, id uuid.UUID) (*queries.ProductView, error) {
	rows, err := r.db.Query(ctx, findProductByIDSQL, id)
	if err != nil {
		return nil, infra.WrapRepoErr("finding product by ID", err)
	}

	view, err := pgx.CollectExactlyOneRow(rows, scanProductView)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, infra.WrapRepoErr("product not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("finding product by ID", err)
	}
	return view, nil
}

func (r *ProductReadStore) FindActive(ctx context.Context, filter queries.ProductFilter, limit int32) ([]*queries.ProductView, error) {
	var (
		sb   strings.Builder
		args []any
	)
	sb.WriteString(`SELECT ` + productColumns + ` FROM products WHERE active = TRUE`)

	if filter.Category != "" {
		args = append(args, filter.Category)
		fmt.Fprintf(&sb, " AND category = $%d", len(args))
	}
	if filter.MinPrice != nil {
		args = append(args, *filter.MinPrice)
		fmt.Fprintf(&sb, " AND price >= $%d", len(args))
	}
	if filter.MaxPrice != nil {
		args = append(args, *filter.MaxPrice)
		fmt.Fprintf(&sb, " AND price <= $%d", len(args))
	}

	args = append(args, limit)
	fmt.Fprintf(&sb, " ORDER BY name, id LIMIT $%d", len(args))

	rows, err := r.db.Query(ctx, sb.String(), args...)
	if err != nil {
		return nil, infra.WrapRepoErr("listing products", err)
	}
	return pgx.CollectRows(rows, scanProductView)
}

func scanProductView(row pgx.CollectableRow) (*queries.ProductView, error) {
	var v queries.ProductView
	err := row.Scan(
		&v.ID, &v.Name, &v.Description, &v.Price, &v.ImageURL, &v.Category,
		&v.Active, &v.CreatedAt, &v.UpdatedAt,
	)
	return &v, err
}
