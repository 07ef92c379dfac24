package coupon

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ShippingRuleName is the reserved rule name whose discount applies to the
// shipping fee instead of the product subtotal.
const ShippingRuleName = "Shipping"

var (
	// ShippingBaseFee is the flat shipping fee charged per order.
	ShippingBaseFee = decimal.NewFromInt(99)

	hundred = decimal.NewFromInt(100)
)

// LineItem is one product line of a cart or order, snapshotted at calculation
// time. The engine never mutates it.
type LineItem struct {
	ProductID uuid.UUID
	Quantity  int
	UnitPrice decimal.Decimal
}

// DiscountRule is one discount clause of a coupon. An empty AppliesTo set
// means the rule covers every line item; otherwise it covers only line items
// whose product is listed.
type DiscountRule struct {
	Name      string
	Value     decimal.Decimal
	FlatRate  bool
	AppliesTo []uuid.UUID
}

// DiscountResult aggregates the computed discounts for one calculation.
// It is derived per call and never persisted.
type DiscountResult struct {
	ProductDiscount  decimal.Decimal
	ShippingDiscount decimal.Decimal
}

// ComputeDiscounts calculates per-rule discount amounts over the given line
// items and aggregates them into a product discount plus a shipping discount.
//
// A rule named "Shipping" only ever affects the shipping discount; its amount
// is excluded from the product total. When several shipping rules are present
// the last one in input order wins.
//
// The two shipping formulas differ between the all-products and the
// product-scoped branches. That asymmetry is inherited behaviour; callers
// depend on it, so both variants are kept as-is.
//
// The function is total: it never fails, and malformed input (negative
// quantities or values) flows through to the result unvalidated.
func ComputeDiscounts(items []LineItem, rules []DiscountRule) DiscountResult {
	subtotal := Subtotal(items)

	result := DiscountResult{
		ProductDiscount:  decimal.Zero,
		ShippingDiscount: decimal.Zero,
	}

	for _, rule := range rules {
		var amount decimal.Decimal

		if len(rule.AppliesTo) == 0 {
			// Rule covers the whole order.
			if rule.FlatRate {
				// A single flat deduction, not per unit.
				amount = rule.Value
			} else {
				amount = subtotal.Mul(rule.Value).Div(hundred)
			}
			if rule.Name == ShippingRuleName {
				result.ShippingDiscount = ShippingBaseFee.Mul(rule.Value).Div(hundred)
			}
		} else {
			scoped := scopedItems(items, rule.AppliesTo)
			if rule.FlatRate {
				// Flat rate acts as a per-unit discounted price floor here.
				amount = decimal.Zero
				for _, item := range scoped {
					perUnit := item.UnitPrice.Sub(rule.Value)
					amount = amount.Add(perUnit.Mul(decimal.NewFromInt(int64(item.Quantity))))
				}
			} else {
				amount = Subtotal(scoped).Mul(rule.Value).Div(hundred)
			}
			if rule.Name == ShippingRuleName {
				if rule.FlatRate {
					result.ShippingDiscount = ShippingBaseFee.Sub(rule.Value)
				} else {
					result.ShippingDiscount = ShippingBaseFee.Sub(ShippingBaseFee.Mul(rule.Value).Div(hundred))
				}
			}
		}

		if rule.Name != ShippingRuleName {
			result.ProductDiscount = result.ProductDiscount.Add(amount)
		}
	}

	return result
}

// Subtotal returns the sum of quantity * unit price across all items.
func Subtotal(items []LineItem) decimal.Decimal {
	sum := decimal.Zero
	for _, item := range items {
		line := item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity)))
		sum = sum.Add(line)
	}
	return sum
}

func scopedItems(items []LineItem, appliesTo []uuid.UUID) []LineItem {
	scope := make(map[uuid.UUID]struct{}, len(appliesTo))
	for _, id := range appliesTo {
		scope[id] = struct{}{}
	}

	var scoped []LineItem
	for _, item := range items {
		if _, ok := scope[item.ProductID]; ok {
			scoped = append(scoped, item)
		}
	}
	return scoped
}
