//go:build unit || e2e

package builder

import (
	"time"

	reqdto "storefront/internal/handler/dto/request"
	"storefront/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type CouponBuilder struct {
	ID           uuid.UUID
	Code         string
	Rules        []queries.DiscountRuleView
	ValidFrom    *time.Time
	ValidTo      *time.Time
	NewUsersOnly bool
	UserIDs      []uuid.UUID
	MaxUses      int32
	Uses         int32
}

func NewCouponBuilder() *CouponBuilder {
	return &CouponBuilder{
		ID:   uuid.New(),
		Code: "HAPPYHRS",
		Rules: []queries.DiscountRuleView{
			{Name: "Whole Order", Value: decimal.NewFromInt(18), FlatRate: false},
		},
	}
}

func (c *CouponBuilder) BuildReadModel() *queries.CouponView {
	now := time.Now()
	return &queries.CouponView{
		ID:           c.ID,
		Code:         c.Code,
		Rules:        c.Rules,
		ValidFrom:    c.ValidFrom,
		ValidTo:      c.ValidTo,
		NewUsersOnly: c.NewUsersOnly,
		UserIDs:      c.UserIDs,
		MaxUses:      c.MaxUses,
		Uses:         c.Uses,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

func (c *CouponBuilder) BuildDTO() reqdto.CreateCouponRequest {
	rules := make([]reqdto.DiscountRuleRequest, 0, len(c.Rules))
	for _, r := range c.Rules {
		rules = append(rules, reqdto.DiscountRuleRequest{
			Name:      r.Name,
			Value:     r.Value,
			FlatRate:  r.FlatRate,
			AppliesTo: r.AppliesTo,
		})
	}
	return reqdto.CreateCouponRequest{
		Code:         c.Code,
		Rules:        rules,
		ValidFrom:    c.ValidFrom,
		ValidTo:      c.ValidTo,
		NewUsersOnly: c.NewUsersOnly,
		UserIDs:      c.UserIDs,
		MaxUses:      int(c.MaxUses),
	}
}

func (c *CouponBuilder) WithCode(code string) *CouponBuilder {
	c.Code = code
	return c
}

func (c *CouponBuilder) WithShippingRule(value decimal.Decimal, flatRate bool) *CouponBuilder {
	c.Rules = append(c.Rules, queries.DiscountRuleView{
		Name:     "Shipping",
		Value:    value,
		FlatRate: flatRate,
	})
	return c
}

func (c *CouponBuilder) WithWindow(from, to time.Time) *CouponBuilder {
	c.ValidFrom = &from
	c.ValidTo = &to
	return c
}

func (c *CouponBuilder) ForNewUsersOnly() *CouponBuilder {
	c.NewUsersOnly = true
	return c
}

func (c *CouponBuilder) WithMaxUses(maxUses, uses int32) *CouponBuilder {
	c.MaxUses = maxUses
	c.Uses = uses
	return c
}
