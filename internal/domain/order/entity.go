package order

import (
	"errors"
	"time"

	"storefront/internal/domain/coupon"
	"storefront/internal/pkg/clock"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrNoLines             = errors.New("order must have at least one line")
	ErrInvalidStatusChange = errors.New("invalid order status change")
	ErrInvalidCoupon       = errors.New("invalid coupon")
)

// Line is one product line snapshotted into the order at placement time.
type Line struct {
	ProductID   uuid.UUID
	ProductName string
	Quantity    int
	UnitPrice   decimal.Decimal
}

func (l Line) Total() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

type Services struct {
	Clock clock.Clock
}

type Order struct {
	id               uuid.UUID
	userID           uuid.UUID
	lines            []Line
	couponID         *uuid.UUID
	couponCode       string
	subtotal         decimal.Decimal
	productDiscount  decimal.Decimal
	shippingDiscount decimal.Decimal
	shippingFee      decimal.Decimal
	total            decimal.Decimal
	status           Status
	createdAt        time.Time
	updatedAt        time.Time
}

// NewOrder builds an order from snapshotted cart lines, running the discount
// engine against the coupon's rules when one is supplied. The coupon's
// validity window and usage counter are checked here; user eligibility is a
// usecase concern because it needs the caller's order history.
func NewOrder(services *Services, userID uuid.UUID, lines []Line, coup *coupon.Coupon) (*Order, error) {
	if len(lines) == 0 {
		return nil, ErrNoLines
	}

	lineItems := make([]coupon.LineItem, 0, len(lines))
	for _, l := range lines {
		lineItems = append(lineItems, coupon.LineItem{
			ProductID: l.ProductID,
			Quantity:  l.Quantity,
			UnitPrice: l.UnitPrice,
		})
	}
	subtotal := coupon.Subtotal(lineItems)

	var (
		rules      []coupon.DiscountRule
		couponID   *uuid.UUID
		couponCode string
	)
	if coup != nil {
		if err := coup.ValidateUsage(services.Clock.Now()); err != nil {
			return nil, err
		}
		rules = coup.Rules()
		id := coup.ID()
		couponID = &id
		couponCode = coup.Code().String()
	}

	discounts := coupon.ComputeDiscounts(lineItems, rules)

	// The charged fee is floored at zero; the raw discount value is kept so
	// callers can still report it.
	shippingFee := coupon.ShippingBaseFee.Sub(discounts.ShippingDiscount)
	if shippingFee.IsNegative() {
		shippingFee = decimal.Zero
	}

	total := subtotal.Sub(discounts.ProductDiscount).Add(shippingFee)

	return &Order{
		id:               uuid.New(),
		userID:           userID,
		lines:            lines,
		couponID:         couponID,
		couponCode:       couponCode,
		subtotal:         subtotal,
		productDiscount:  discounts.ProductDiscount,
		shippingDiscount: discounts.ShippingDiscount,
		shippingFee:      shippingFee,
		total:            total,
		status:           StatusPending,
	}, nil
}

func ReconstructOrder(
	id, userID uuid.UUID,
	lines []Line,
	couponID *uuid.UUID,
	couponCode string,
	subtotal, productDiscount, shippingDiscount, shippingFee, total decimal.Decimal,
	status Status,
	createdAt, updatedAt time.Time,
) *Order {
	return &Order{
		id:               id,
		userID:           userID,
		lines:            lines,
		couponID:         couponID,
		couponCode:       couponCode,
		subtotal:         subtotal,
		productDiscount:  productDiscount,
		shippingDiscount: shippingDiscount,
		shippingFee:      shippingFee,
		total:            total,
		status:           status,
		createdAt:        createdAt,
		updatedAt:        updatedAt,
	}
}

func (o *Order) ChangeStatus(next Status) error {
	if !next.IsValid() || !o.status.CanTransitionTo(next) {
		return ErrInvalidStatusChange
	}
	o.status = next
	return nil
}

func (o *Order) ID() uuid.UUID                     { return o.id }
func (o *Order) UserID() uuid.UUID                 { return o.userID }
func (o *Order) Lines() []Line                     { return o.lines }
func (o *Order) CouponID() *uuid.UUID              { return o.couponID }
func (o *Order) CouponCode() string                { return o.couponCode }
func (o *Order) Subtotal() decimal.Decimal         { return o.subtotal }
func (o *Order) ProductDiscount() decimal.Decimal  { return o.productDiscount }
func (o *Order) ShippingDiscount() decimal.Decimal { return o.shippingDiscount }
func (o *Order) ShippingFee() decimal.Decimal      { return o.shippingFee }
func (o *Order) Total() decimal.Decimal            { return o.total }
func (o *Order) Status() Status                    { return o.status }
func (o *Order) CreatedAt() time.Time              { return o.createdAt }
func (o *Order) UpdatedAt() time.Time              { return o.updatedAt }
