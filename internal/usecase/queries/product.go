package queries

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"storefront/internal/infra"
	"storefront/internal/pkg/errs"
)

var ErrProductNotFound = errs.New("product not found")

type ProductView struct {
	ID          uuid.UUID       `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	ImageURL    string          `json:"image_url"`
	Category    string          `json:"category"`
	Active      bool            `json:"active"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// ProductFilter narrows catalog listings. Zero values mean "no filter".
type ProductFilter struct {
	Category string
	MinPrice *decimal.Decimal
	MaxPrice *decimal.Decimal
}

type ProductQueries interface {
	GetByID(ctx context.Context, id uuid.UUID) (*ProductView, error)
	List(ctx context.Context, filter ProductFilter, limit int) ([]*ProductView, error)
}

type ProductReadStore interface {
	FindByID(ctx context.Context, id uuid.UUID) (*ProductView, error)
	FindActive(ctx context.Context, filter ProductFilter, limit int32) ([]*ProductView, error)
}

type productQueriesImpl struct {
	readStore ProductReadStore
}

func NewProductQueries(readStore ProductReadStore) ProductQueries {
	return &productQueriesImpl{readStore: readStore}
}

func (q *productQueriesImpl) GetByID(ctx context.Context, id uuid.UUID) (*ProductView, error) {
	view, err := q.readStore.FindByID(ctx, id)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	return view, nil
}

func (q *productQueriesImpl) List(ctx context.Context, filter ProductFilter, limit int) ([]*ProductView, error) {
	limit = ValidateLimit(limit)
	return q.readStore.FindActive(ctx, filter, int32(limit))
}
