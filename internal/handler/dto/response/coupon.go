package response

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"storefront/internal/usecase/queries"
)

type DiscountRuleResponse struct {
	Name      string          `json:"name"`
	Value     decimal.Decimal `json:"value"`
	FlatRate  bool            `json:"flatRate"`
	AppliesTo []uuid.UUID     `json:"appliesTo,omitempty"`
}

type CouponResponse struct {
	ID           uuid.UUID              `json:"id"`
	Code         string                 `json:"code"`
	Rules        []DiscountRuleResponse `json:"rules"`
	ValidFrom    *time.Time             `json:"validFrom,omitempty"`
	ValidTo      *time.Time             `json:"validTo,omitempty"`
	NewUsersOnly bool                   `json:"newUsersOnly"`
	MaxUses      int32                  `json:"maxUses"`
	Uses         int32                  `json:"uses"`
	CreatedAt    time.Time              `json:"createdAt"`
}

func FromCouponView(view *queries.CouponView) *CouponResponse {
	rules := make([]DiscountRuleResponse, 0, len(view.Rules))
	for _, rule := range view.Rules {
		rules = append(rules, DiscountRuleResponse{
			Name:      rule.Name,
			Value:     rule.Value,
			FlatRate:  rule.FlatRate,
			AppliesTo: rule.AppliesTo,
		})
	}
	return &CouponResponse{
		ID:           view.ID,
		Code:         view.Code,
		Rules:        rules,
		ValidFrom:    view.ValidFrom,
		ValidTo:      view.ValidTo,
		NewUsersOnly: view.NewUsersOnly,
		MaxUses:      view.MaxUses,
		Uses:         view.Uses,
		CreatedAt:    view.CreatedAt,
	}
}

func FromCouponViews(views []*queries.CouponView) []*CouponResponse {
	items := make([]*CouponResponse, 0, len(views))
	for _, v := range views {
		items = append(items, FromCouponView(v))
	}
	return items
}
