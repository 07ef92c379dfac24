package shared

import (
	"time"

	"storefront/internal/domain/cart"
	"storefront/internal/domain/coupon"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Write-side snapshots prevent dependency on Read-side query types (CQRS separation)

type ProductSnapshot struct {
	ID     uuid.UUID
	Name   string
	Price  decimal.Decimal
	Active bool
}

type CouponSnapshot struct {
	ID           uuid.UUID
	Code         string
	Rules        []coupon.DiscountRule
	ValidFrom    *time.Time
	ValidTo      *time.Time
	NewUsersOnly bool
	UserIDs      []uuid.UUID
	MaxUses      int
	Uses         int
}

// ToDomain rehydrates the snapshot into a coupon entity.
func (s *CouponSnapshot) ToDomain() *coupon.Coupon {
	return coupon.ReconstructCoupon(
		s.ID,
		coupon.Code(s.Code),
		s.Rules,
		s.ValidFrom,
		s.ValidTo,
		s.NewUsersOnly,
		s.UserIDs,
		s.MaxUses,
		s.Uses,
		time.Time{},
		time.Time{},
	)
}

type CartSnapshot struct {
	ID     uuid.UUID
	UserID uuid.UUID
	Items  []cart.Item
}

func (s *CartSnapshot) ToDomain() *cart.Cart {
	return cart.NewCart(s.ID, s.UserID, s.Items)
}

type OrderSnapshot struct {
	ID     uuid.UUID
	UserID uuid.UUID
	Status string
}

type IdempotencyRecord struct {
	Key           uuid.UUID
	UserID        uuid.UUID
	Status        string
	RequestHash   string
	ResultOrderID *uuid.UUID
	ExpiresAt     time.Time
}
