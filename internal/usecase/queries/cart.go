package queries

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"storefront/internal/domain/coupon"
	"storefront/internal/infra"
	"storefront/internal/pkg/clock"
	"storefront/internal/pkg/errs"
)

var ErrCartNotFound = errs.New("cart not found")

type CartItemView struct {
	ProductID   uuid.UUID       `json:"product_id"`
	ProductName string          `json:"product_name"`
	Quantity    int32           `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	LineTotal   decimal.Decimal `json:"line_total"`
}

type CartView struct {
	ID        uuid.UUID       `json:"id"`
	UserID    uuid.UUID       `json:"user_id"`
	Items     []CartItemView  `json:"items"`
	Subtotal  decimal.Decimal `json:"subtotal"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// PricingView is a checkout preview: what the cart would cost if the order
// were placed now, optionally with a coupon applied.
type PricingView struct {
	Subtotal         decimal.Decimal `json:"subtotal"`
	ProductDiscount  decimal.Decimal `json:"product_discount"`
	ShippingDiscount decimal.Decimal `json:"shipping_discount"`
	ShippingFee      decimal.Decimal `json:"shipping_fee"`
	Total            decimal.Decimal `json:"total"`
	CouponCode       string          `json:"coupon_code,omitempty"`
}

type CartQueries interface {
	GetByUser(ctx context.Context, userID uuid.UUID) (*CartView, error)
	PreviewTotals(ctx context.Context, userID uuid.UUID, couponCode string) (*PricingView, error)
}

type CartReadStore interface {
	FindByUser(ctx context.Context, userID uuid.UUID) (*CartView, error)
}

type cartQueriesImpl struct {
	readStore       CartReadStore
	couponReadStore CouponReadStore
	clock           clock.Clock
}

func NewCartQueries(readStore CartReadStore, couponReadStore CouponReadStore, clock clock.Clock) CartQueries {
	return &cartQueriesImpl{
		readStore:       readStore,
		couponReadStore: couponReadStore,
		clock:           clock,
	}
}

func (q *cartQueriesImpl) GetByUser(ctx context.Context, userID uuid.UUID) (*CartView, error) {
	view, err := q.readStore.FindByUser(ctx, userID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrCartNotFound
		}
		return nil, err
	}
	return view, nil
}

func (q *cartQueriesImpl) PreviewTotals(ctx context.Context, userID uuid.UUID, couponCode string) (*PricingView, error) {
	view, err := q.GetByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	items := make([]coupon.LineItem, 0, len(view.Items))
	for _, item := range view.Items {
		items = append(items, coupon.LineItem{
			ProductID: item.ProductID,
			Quantity:  int(item.Quantity),
			UnitPrice: item.UnitPrice,
		})
	}

	pricing := &PricingView{
		Subtotal:    coupon.Subtotal(items),
		ShippingFee: coupon.ShippingBaseFee,
	}
	pricing.Total = pricing.Subtotal.Add(pricing.ShippingFee)

	if couponCode == "" {
		return pricing, nil
	}

	couponView, err := q.couponReadStore.FindByCode(ctx, couponCode)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrCouponNotFound
		}
		return nil, err
	}

	// The preview checks the validity window and usage cap; per-user
	// eligibility is enforced at order placement.
	entity := couponView.ToDomain()
	if err := entity.ValidateUsage(q.clock.Now()); err != nil {
		return nil, errs.Mark(err, ErrCouponNotUsable)
	}

	result := coupon.ComputeDiscounts(items, entity.Rules())

	pricing.CouponCode = entity.Code().String()
	pricing.ProductDiscount = result.ProductDiscount
	pricing.ShippingDiscount = result.ShippingDiscount
	pricing.ShippingFee = coupon.ShippingBaseFee.Sub(result.ShippingDiscount)
	if pricing.ShippingFee.IsNegative() {
		pricing.ShippingFee = decimal.Zero
	}
	pricing.Total = pricing.Subtotal.Sub(pricing.ProductDiscount).Add(pricing.ShippingFee)

	return pricing, nil
}
