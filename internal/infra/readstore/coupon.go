package readstore

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"storefront/internal/infra"
	"storefront/internal/infra/db"
	"storefront/internal/usecase/queries"
)

const (
	couponColumns = `id, code, valid_from, valid_to, new_users_only, max_uses, uses, created_at, updated_at`

	findCouponByCodeSQL = `SELECT ` + couponColumns + ` FROM coupons WHERE UPPER(code) = UPPER($1)`

	findAllCouponsSQL = `SELECT ` + couponColumns + ` FROM coupons ORDER BY created_at DESC, id LIMIT $1`

	findCouponRulesSQL = `SELECT r.name, r.value, r.flat_rate,
			COALESCE(array_agg(rp.product_id) FILTER (WHERE rp.product_id IS NOT NULL), '{}')
		FROM coupon_rules r
		LEFT JOIN coupon_rule_products rp ON rp.rule_id = r.id
		WHERE r.coupon_id = $1
		GROUP BY r.id, r.name, r.value, r.flat_rate, r.position
		ORDER BY r.position`

	findCouponUsersSQL = `SELECT user_id FROM coupon_users WHERE coupon_id = $1`
)

type CouponReadStore struct {
	db db.DBTX
}

func NewCouponReadStore(db db.DBTX) *CouponReadStore {
	return &CouponReadStore{db: db}
}

func (r *CouponReadStore) FindByCode(ctx context.Context, code string) (*queries.CouponView, error) {
	rows, err := r.db.Query(ctx, findCouponByCodeSQL, code)
	if err != nil {
		return nil, infra.WrapRepoErr("finding coupon by code", err)
	}

	view, err := pgx.CollectExactlyOneRow(rows, scanCouponView)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, infra.WrapRepoErr("coupon not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("finding coupon by code", err)
	}

	if err := r.loadAssociations(ctx, view); err != nil {
		return nil, err
	}
	return view, nil
}

func (r *CouponReadStore) FindAll(ctx context.Context, limit int32) ([]*queries.CouponView, error) {
	rows, err := r.db.Query(ctx, findAllCouponsSQL, limit)
	if err != nil {
		return nil, infra.WrapRepoErr("listing coupons", err)
	}

	views, err := pgx.CollectRows(rows, scanCouponView)
	if err != nil {
		return nil, infra.WrapRepoErr("listing coupons", err)
	}

	for _, view := range views {
		if err := r.loadAssociations(ctx, view); err != nil {
			return nil, err
		}
	}
	return views, nil
}

func (r *CouponReadStore) loadAssociations(ctx context.Context, view *queries.CouponView) error {
	ruleRows, err := r.db.Query(ctx, findCouponRulesSQL, view.ID)
	if err != nil {
		return infra.WrapRepoErr("listing coupon rules", err)
	}

	rules, err := pgx.CollectRows(ruleRows, scanDiscountRuleView)
	if err != nil {
		return infra.WrapRepoErr("listing coupon rules", err)
	}
	view.Rules = rules

	userRows, err := r.db.Query(ctx, findCouponUsersSQL, view.ID)
	if err != nil {
		return infra.WrapRepoErr("listing coupon users", err)
	}

	userIDs, err := pgx.CollectRows(userRows, pgx.RowTo[uuid.UUID])
	if err != nil {
		return infra.WrapRepoErr("listing coupon users", err)
	}
	view.UserIDs = userIDs

	return nil
}

func scanCouponView(row pgx.CollectableRow) (*queries.CouponView, error) {
	var v queries.CouponView
	err := row.Scan(
		&v.ID, &v.Code, &v.ValidFrom, &v.ValidTo, &v.NewUsersOnly,
		&v.MaxUses, &v.Uses, &v.CreatedAt, &v.UpdatedAt,
	)
	return &v, err
}

func scanDiscountRuleView(row pgx.CollectableRow) (queries.DiscountRuleView, error) {
	var v queries.DiscountRuleView
	err := row.Scan(&v.Name, &v.Value, &v.FlatRate, &v.AppliesTo)
	return v, err
}
