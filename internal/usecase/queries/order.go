package queries

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"storefront/internal/domain/user"
	"storefront/internal/infra"
	"storefront/internal/pkg/errs"
)

var (
	ErrOrderNotFound     = errs.New("order not found")
	ErrOrderAccessDenied = errs.New("order access denied")
)

type OrderLineView struct {
	ProductID   uuid.UUID       `json:"product_id"`
	ProductName string          `json:"product_name"`
	Quantity    int32           `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	LineTotal   decimal.Decimal `json:"line_total"`
}

type OrderView struct {
	ID               uuid.UUID       `json:"id"`
	UserID           uuid.UUID       `json:"user_id"`
	UserEmail        string          `json:"user_email"`
	Lines            []OrderLineView `json:"lines"`
	CouponCode       *string         `json:"coupon_code,omitempty"`
	Subtotal         decimal.Decimal `json:"subtotal"`
	ProductDiscount  decimal.Decimal `json:"product_discount"`
	ShippingDiscount decimal.Decimal `json:"shipping_discount"`
	ShippingFee      decimal.Decimal `json:"shipping_fee"`
	Total            decimal.Decimal `json:"total"`
	Status           string          `json:"status"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
}

type OrderListItem struct {
	ID         uuid.UUID       `json:"id"`
	Total      decimal.Decimal `json:"total"`
	Status     string          `json:"status"`
	CouponCode *string         `json:"coupon_code,omitempty"`
	CreatedAt  time.Time       `json:"created_at"`
}

type OrderQueries interface {
	GetByID(ctx context.Context, actorID uuid.UUID, actorRole user.Role, id uuid.UUID) (*OrderView, error)
	// GetByIDSystem bypasses the ownership check for internal replay paths.
	GetByIDSystem(ctx context.Context, id uuid.UUID) (*OrderView, error)
	ListByUser(ctx context.Context, userID uuid.UUID, after *Cursor, limit int) ([]*OrderListItem, *Cursor, error)
}

type OrderReadStore interface {
	FindByID(ctx context.Context, id uuid.UUID) (*OrderView, error)
	FindByUserKeyset(ctx context.Context, userID uuid.UUID, after *time.Time, afterID *uuid.UUID, limit int32) ([]*OrderListItem, error)
}

type orderQueriesImpl struct {
	readStore OrderReadStore
}

func NewOrderQueries(readStore OrderReadStore) OrderQueries {
	return &orderQueriesImpl{readStore: readStore}
}

func (q *orderQueriesImpl) GetByID(ctx context.Context, actorID uuid.UUID, actorRole user.Role, id uuid.UUID) (*OrderView, error) {
	view, err := q.GetByIDSystem(ctx, id)
	if err != nil {
		return nil, err
	}

	if view.UserID != actorID && actorRole != user.RoleAdmin {
		return nil, ErrOrderAccessDenied
	}

	return view, nil
}

func (q *orderQueriesImpl) GetByIDSystem(ctx context.Context, id uuid.UUID) (*OrderView, error) {
	view, err := q.readStore.FindByID(ctx, id)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	return view, nil
}

func (q *orderQueriesImpl) ListByUser(ctx context.Context, userID uuid.UUID, after *Cursor, limit int) ([]*OrderListItem, *Cursor, error) {
	limit = ValidateLimit(limit)

	var afterTime *time.Time
	var afterID *uuid.UUID
	if after != nil && after.After != "" {
		t, id, err := DecodeAfterCursor(after.After)
		if err != nil {
			return nil, nil, errs.Wrap(err, "invalid pagination cursor")
		}
		afterTime = &t
		afterID = &id
	}

	// Fetch one extra row to know whether another page exists.
	rows, err := q.readStore.FindByUserKeyset(ctx, userID, afterTime, afterID, int32(limit)+1)
	if err != nil {
		return nil, nil, err
	}

	var next *Cursor
	if len(rows) > limit {
		rows = rows[:limit]
		last := rows[len(rows)-1]
		next = &Cursor{After: EncodeAfterCursor(last.CreatedAt, last.ID)}
	}

	return rows, next, nil
}
