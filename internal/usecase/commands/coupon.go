package commands

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"storefront/internal/domain/coupon"
	"storefront/internal/infra"
	"storefront/internal/pkg/errs"
	"storefront/internal/usecase/shared"
)

var ErrDuplicateCouponCode = errs.New("coupon code already exists")

type DiscountRuleRequest struct {
	Name      string
	Value     decimal.Decimal
	FlatRate  bool
	AppliesTo []uuid.UUID
}

type CreateCouponRequest struct {
	Code         string
	Rules        []DiscountRuleRequest
	ValidFrom    *time.Time
	ValidTo      *time.Time
	NewUsersOnly bool
	UserIDs      []uuid.UUID
	MaxUses      int
}

type CreateCouponResult struct {
	CouponID uuid.UUID
}

type CouponCommands interface {
	CreateCoupon(ctx context.Context, req CreateCouponRequest) (*CreateCouponResult, error)
}

type couponCommandsImpl struct {
	uow shared.UnitOfWork
}

func NewCouponCommands(uow shared.UnitOfWork) CouponCommands {
	return &couponCommandsImpl{uow: uow}
}

func (c *couponCommandsImpl) CreateCoupon(ctx context.Context, req CreateCouponRequest) (*CreateCouponResult, error) {
	rules := make([]coupon.DiscountRule, 0, len(req.Rules))
	for _, r := range req.Rules {
		rules = append(rules, coupon.DiscountRule{
			Name:      r.Name,
			Value:     r.Value,
			FlatRate:  r.FlatRate,
			AppliesTo: r.AppliesTo,
		})
	}

	entity, err := coupon.NewCoupon(
		uuid.New(),
		req.Code,
		rules,
		req.ValidFrom,
		req.ValidTo,
		req.NewUsersOnly,
		req.UserIDs,
		req.MaxUses,
	)
	if err != nil {
		return nil, errs.Mark(err, ErrDomainValidation)
	}

	var createdID uuid.UUID
	err = c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		id, createErr := tx.Coupons().Create(ctx, tx.DB(), entity)
		if createErr != nil {
			if infra.IsKind(createErr, infra.KindDuplicateKey) {
				return ErrDuplicateCouponCode
			}
			return createErr
		}
		createdID = id
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &CreateCouponResult{CouponID: createdID}, nil
}
