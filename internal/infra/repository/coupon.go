package repository

import (
	"context"

	"github.com/google/uuid"

	"storefront/internal/domain/coupon"
	"storefront/internal/infra/db"
	"storefront/internal/usecase/shared"
)

const (
	createCouponSQL = `INSERT INTO coupons (id, code, valid_from, valid_to, new_users_only, max_uses)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`

	insertCouponRuleSQL = `INSERT INTO coupon_rules (id, coupon_id, name, value, flat_rate, position)
		VALUES ($1, $2, $3, $4, $5, $6)`

	insertCouponRuleProductSQL = `INSERT INTO coupon_rule_products (rule_id, product_id)
		VALUES ($1, $2)`

	insertCouponUserSQL = `INSERT INTO coupon_users (coupon_id, user_id)
		VALUES ($1, $2)`

	incrementCouponUsesSQL = `UPDATE coupons SET uses = uses + 1, updated_at = now()
		WHERE id = $1 AND (max_uses = 0 OR uses < max_uses)`
)

var _ shared.CouponRepository = (*CouponRepository)(nil)

type CouponRepository struct{}

func NewCouponRepository() *CouponRepository {
	return &CouponRepository{}
}

func (r *CouponRepository) Create(ctx context.Context, tx db.DBTX, c *coupon.Coupon) (uuid.UUID, error) {
	var id uuid.UUID
	err := tx.QueryRow(ctx, createCouponSQL,
		c.ID(), c.Code().String(), c.ValidFrom(), c.ValidTo(), c.NewUsersOnly(), c.MaxUses(),
	).Scan(&id)
	if err != nil {
		return uuid.Nil, wrapWriteErr("creating coupon", err)
	}

	for pos, rule := range c.Rules() {
		ruleID := uuid.New()
		if _, err := tx.Exec(ctx, insertCouponRuleSQL, ruleID, id, rule.Name, rule.Value, rule.FlatRate, pos); err != nil {
			return uuid.Nil, wrapWriteErr("inserting coupon rule", err)
		}
		for _, productID := range rule.AppliesTo {
			if _, err := tx.Exec(ctx, insertCouponRuleProductSQL, ruleID, productID); err != nil {
				return uuid.Nil, wrapWriteErr("inserting coupon rule product", err)
			}
		}
	}

	for _, userID := range c.UserIDs() {
		if _, err := tx.Exec(ctx, insertCouponUserSQL, id, userID); err != nil {
			return uuid.Nil, wrapWriteErr("inserting coupon user", err)
		}
	}

	return id, nil
}

// IncrementUses enforces the usage cap at the row level so concurrent
// placements cannot overshoot max_uses.
func (r *CouponRepository) IncrementUses(ctx context.Context, tx db.DBTX, couponID uuid.UUID) error {
	tag, err := tx.Exec(ctx, incrementCouponUsesSQL, couponID)
	if err != nil {
		return wrapWriteErr("incrementing coupon uses", err)
	}
	if tag.RowsAffected() == 0 {
		return wrapNotFound("coupon exhausted or missing")
	}
	return nil
}
