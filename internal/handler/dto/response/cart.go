package response

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"storefront/internal/usecase/queries"
)

type CartItemResponse struct {
	ProductID   uuid.UUID       `json:"productId"`
	ProductName string          `json:"productName"`
	Quantity    int32           `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
	LineTotal   decimal.Decimal `json:"lineTotal"`
}

type CartResponse struct {
	ID        uuid.UUID          `json:"id"`
	Items     []CartItemResponse `json:"items"`
	Subtotal  decimal.Decimal    `json:"subtotal"`
	UpdatedAt time.Time          `json:"updatedAt"`
}

type PricingResponse struct {
	Subtotal         decimal.Decimal `json:"subtotal"`
	ProductDiscount  decimal.Decimal `json:"productDiscount"`
	ShippingDiscount decimal.Decimal `json:"shippingDiscount"`
	ShippingFee      decimal.Decimal `json:"shippingFee"`
	Total            decimal.Decimal `json:"total"`
	CouponCode       string          `json:"couponCode,omitempty"`
}

func FromCartView(view *queries.CartView) *CartResponse {
	items := make([]CartItemResponse, 0, len(view.Items))
	for _, item := range view.Items {
		items = append(items, CartItemResponse{
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			LineTotal:   item.LineTotal,
		})
	}
	return &CartResponse{
		ID:        view.ID,
		Items:     items,
		Subtotal:  view.Subtotal,
		UpdatedAt: view.UpdatedAt,
	}
}

func FromPricingView(view *queries.PricingView) *PricingResponse {
	return &PricingResponse{
		Subtotal:         view.Subtotal,
		ProductDiscount:  view.ProductDiscount,
		ShippingDiscount: view.ShippingDiscount,
		ShippingFee:      view.ShippingFee,
		Total:            view.Total,
		CouponCode:       view.CouponCode,
	}
}
