package queries

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"storefront/internal/domain/coupon"
	"storefront/internal/infra"
	"storefront/internal/pkg/errs"
)

var (
	ErrCouponNotFound  = errs.New("coupon not found")
	ErrCouponNotUsable = errs.New("coupon not usable")
)

type DiscountRuleView struct {
	Name      string          `json:"name"`
	Value     decimal.Decimal `json:"value"`
	FlatRate  bool            `json:"flat_rate"`
	AppliesTo []uuid.UUID     `json:"applies_to,omitempty"`
}

type CouponView struct {
	ID           uuid.UUID          `json:"id"`
	Code         string             `json:"code"`
	Rules        []DiscountRuleView `json:"rules"`
	ValidFrom    *time.Time         `json:"valid_from,omitempty"`
	ValidTo      *time.Time         `json:"valid_to,omitempty"`
	NewUsersOnly bool               `json:"new_users_only"`
	UserIDs      []uuid.UUID        `json:"user_ids,omitempty"`
	MaxUses      int32              `json:"max_uses"`
	Uses         int32              `json:"uses"`
	CreatedAt    time.Time          `json:"created_at"`
	UpdatedAt    time.Time          `json:"updated_at"`
}

// ToDomain rehydrates the view into a coupon entity.
func (v *CouponView) ToDomain() *coupon.Coupon {
	rules := make([]coupon.DiscountRule, 0, len(v.Rules))
	for _, r := range v.Rules {
		rules = append(rules, coupon.DiscountRule{
			Name:      r.Name,
			Value:     r.Value,
			FlatRate:  r.FlatRate,
			AppliesTo: r.AppliesTo,
		})
	}
	return coupon.ReconstructCoupon(
		v.ID,
		coupon.Code(v.Code),
		rules,
		v.ValidFrom,
		v.ValidTo,
		v.NewUsersOnly,
		v.UserIDs,
		int(v.MaxUses),
		int(v.Uses),
		v.CreatedAt,
		v.UpdatedAt,
	)
}

type CouponQueries interface {
	GetByCode(ctx context.Context, code string) (*CouponView, error)
	List(ctx context.Context, limit int) ([]*CouponView, error)
}

type CouponReadStore interface {
	FindByCode(ctx context.Context, code string) (*CouponView, error)
	FindAll(ctx context.Context, limit int32) ([]*CouponView, error)
}

type couponQueriesImpl struct {
	readStore CouponReadStore
}

func NewCouponQueries(readStore CouponReadStore) CouponQueries {
	return &couponQueriesImpl{readStore: readStore}
}

func (q *couponQueriesImpl) GetByCode(ctx context.Context, code string) (*CouponView, error) {
	view, err := q.readStore.FindByCode(ctx, code)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrCouponNotFound
		}
		return nil, err
	}
	return view, nil
}

func (q *couponQueriesImpl) List(ctx context.Context, limit int) ([]*CouponView, error) {
	return q.readStore.FindAll(ctx, int32(ValidateLimit(limit)))
}
