package coupon

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrCouponExpired      = errors.New("coupon has expired")
	ErrCouponNotYetValid  = errors.New("coupon is not yet valid")
	ErrUsageLimitReached  = errors.New("coupon usage limit reached")
	ErrUserNotEligible    = errors.New("coupon is not available for this user")
	ErrNoRules            = errors.New("coupon must have at least one discount rule")
	ErrNegativeRuleValue  = errors.New("discount rule value cannot be negative")
	ErrInvalidPercentRule = errors.New("percentage discount must be between 0 and 100")
)

// Coupon is a named set of discount rules with a validity window and usage
// scoping (new users only, or a fixed set of users).
type Coupon struct {
	id           uuid.UUID
	code         Code
	rules        []DiscountRule
	validFrom    *time.Time
	validTo      *time.Time
	newUsersOnly bool
	userIDs      []uuid.UUID
	maxUses      int
	uses         int
	createdAt    time.Time
	updatedAt    time.Time
}

func NewCoupon(
	id uuid.UUID,
	code string,
	rules []DiscountRule,
	validFrom, validTo *time.Time,
	newUsersOnly bool,
	userIDs []uuid.UUID,
	maxUses int,
) (*Coupon, error) {
	couponCode, err := NewCouponCode(code)
	if err != nil {
		return nil, err
	}

	if len(rules) == 0 {
		return nil, ErrNoRules
	}
	for _, r := range rules {
		if r.Value.IsNegative() {
			return nil, ErrNegativeRuleValue
		}
		if !r.FlatRate && r.Value.GreaterThan(hundred) {
			return nil, ErrInvalidPercentRule
		}
	}

	return &Coupon{
		id:           id,
		code:         couponCode,
		rules:        rules,
		validFrom:    validFrom,
		validTo:      validTo,
		newUsersOnly: newUsersOnly,
		userIDs:      userIDs,
		maxUses:      maxUses,
	}, nil
}

// ReconstructCoupon rehydrates a persisted coupon without re-running
// creation-time validation.
func ReconstructCoupon(
	id uuid.UUID,
	code Code,
	rules []DiscountRule,
	validFrom, validTo *time.Time,
	newUsersOnly bool,
	userIDs []uuid.UUID,
	maxUses, uses int,
	createdAt, updatedAt time.Time,
) *Coupon {
	return &Coupon{
		id:           id,
		code:         code,
		rules:        rules,
		validFrom:    validFrom,
		validTo:      validTo,
		newUsersOnly: newUsersOnly,
		userIDs:      userIDs,
		maxUses:      maxUses,
		uses:         uses,
		createdAt:    createdAt,
		updatedAt:    updatedAt,
	}
}

func (c *Coupon) IsValidAt(t time.Time) bool {
	if c.validFrom != nil && t.Before(*c.validFrom) {
		return false
	}
	if c.validTo != nil && t.After(*c.validTo) {
		return false
	}
	return true
}

// ValidateUsage checks the validity window and the usage counter.
func (c *Coupon) ValidateUsage(t time.Time) error {
	if !c.IsValidAt(t) {
		if c.validFrom != nil && t.Before(*c.validFrom) {
			return ErrCouponNotYetValid
		}
		return ErrCouponExpired
	}
	if c.maxUses > 0 && c.uses >= c.maxUses {
		return ErrUsageLimitReached
	}
	return nil
}

// EligibleFor checks user scoping: a new-users-only coupon rejects returning
// customers, and a user-scoped coupon rejects users outside its list.
func (c *Coupon) EligibleFor(userID uuid.UUID, isNewUser bool) error {
	if c.newUsersOnly && !isNewUser {
		return ErrUserNotEligible
	}
	if len(c.userIDs) > 0 {
		for _, id := range c.userIDs {
			if id == userID {
				return nil
			}
		}
		return ErrUserNotEligible
	}
	return nil
}

func (c *Coupon) ID() uuid.UUID         { return c.id }
func (c *Coupon) Code() Code            { return c.code }
func (c *Coupon) Rules() []DiscountRule { return c.rules }
func (c *Coupon) ValidFrom() *time.Time { return c.validFrom }
func (c *Coupon) ValidTo() *time.Time   { return c.validTo }
func (c *Coupon) NewUsersOnly() bool    { return c.newUsersOnly }
func (c *Coupon) UserIDs() []uuid.UUID  { return c.userIDs }
func (c *Coupon) MaxUses() int          { return c.maxUses }
func (c *Coupon) Uses() int             { return c.uses }
func (c *Coupon) CreatedAt() time.Time  { return c.createdAt }
func (c *Coupon) UpdatedAt() time.Time  { return c.updatedAt }
