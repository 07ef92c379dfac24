package request

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"storefront/internal/usecase/commands"
)

type DiscountRuleRequest struct {
	Name      string          `json:"name" binding:"required"`
	Value     decimal.Decimal `json:"value" binding:"required"`
	FlatRate  bool            `json:"flat_rate"`
	AppliesTo []uuid.UUID     `json:"applies_to,omitempty"`
}

type CreateCouponRequest struct {
	Code         string                `json:"code" binding:"required"`
	Rules        []DiscountRuleRequest `json:"rules" binding:"required,min=1"`
	ValidFrom    *time.Time            `json:"valid_from,omitempty"`
	ValidTo      *time.Time            `json:"valid_to,omitempty"`
	NewUsersOnly bool                  `json:"new_users_only"`
	UserIDs      []uuid.UUID           `json:"user_ids,omitempty"`
	MaxUses      int                   `json:"max_uses"`
}

func (r CreateCouponRequest) ToCommand() commands.CreateCouponRequest {
	rules := make([]commands.DiscountRuleRequest, 0, len(r.Rules))
	for _, rule := range r.Rules {
		rules = append(rules, commands.DiscountRuleRequest{
			Name:      rule.Name,
			Value:     rule.Value,
			FlatRate:  rule.FlatRate,
			AppliesTo: rule.AppliesTo,
		})
	}
	return commands.CreateCouponRequest{
		Code:         r.Code,
		Rules:        rules,
		ValidFrom:    r.ValidFrom,
		ValidTo:      r.ValidTo,
		NewUsersOnly: r.NewUsersOnly,
		UserIDs:      r.UserIDs,
		MaxUses:      r.MaxUses,
	}
}
