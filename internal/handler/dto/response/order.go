package response

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"storefront/internal/usecase/queries"
)

type OrderLineResponse struct {
	ProductID   uuid.UUID       `json:"productId"`
	ProductName string          `json:"productName"`
	Quantity    int32           `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
	LineTotal   decimal.Decimal `json:"lineTotal"`
}

type OrderResponse struct {
	ID               uuid.UUID           `json:"id"`
	UserID           uuid.UUID           `json:"userId"`
	UserEmail        string              `json:"userEmail"`
	Lines            []OrderLineResponse `json:"lines"`
	CouponCode       *string             `json:"couponCode,omitempty"`
	Subtotal         decimal.Decimal     `json:"subtotal"`
	ProductDiscount  decimal.Decimal     `json:"productDiscount"`
	ShippingDiscount decimal.Decimal     `json:"shippingDiscount"`
	ShippingFee      decimal.Decimal     `json:"shippingFee"`
	Total            decimal.Decimal     `json:"total"`
	Status           string              `json:"status"`
	CreatedAt        time.Time           `json:"createdAt"`
	UpdatedAt        time.Time           `json:"updatedAt"`
}

type OrderListItemResponse struct {
	ID         uuid.UUID       `json:"id"`
	Total      decimal.Decimal `json:"total"`
	Status     string          `json:"status"`
	CouponCode *string         `json:"couponCode,omitempty"`
	CreatedAt  time.Time       `json:"createdAt"`
}

type OrderListResponse struct {
	Orders     []OrderListItemResponse `json:"orders"`
	NextCursor string                  `json:"nextCursor,omitempty"`
}

func FromOrderView(view *queries.OrderView) *OrderResponse {
	lines := make([]OrderLineResponse, 0, len(view.Lines))
	for _, line := range view.Lines {
		lines = append(lines, OrderLineResponse{
			ProductID:   line.ProductID,
			ProductName: line.ProductName,
			Quantity:    line.Quantity,
			UnitPrice:   line.UnitPrice,
			LineTotal:   line.LineTotal,
		})
	}
	return &OrderResponse{
		ID:               view.ID,
		UserID:           view.UserID,
		UserEmail:        view.UserEmail,
		Lines:            lines,
		CouponCode:       view.CouponCode,
		Subtotal:         view.Subtotal,
		ProductDiscount:  view.ProductDiscount,
		ShippingDiscount: view.ShippingDiscount,
		ShippingFee:      view.ShippingFee,
		Total:            view.Total,
		Status:           view.Status,
		CreatedAt:        view.CreatedAt,
		UpdatedAt:        view.UpdatedAt,
	}
}

func FromOrderList(items []*queries.OrderListItem, next *queries.Cursor) *OrderListResponse {
	orders := make([]OrderListItemResponse, 0, len(items))
	for _, item := range items {
		orders = append(orders, OrderListItemResponse{
			ID:         item.ID,
			Total:      item.Total,
			Status:     item.Status,
			CouponCode: item.CouponCode,
			CreatedAt:  item.CreatedAt,
		})
	}
	resp := &OrderListResponse{Orders: orders}
	if next != nil {
		resp.NextCursor = next.After
	}
	return resp
}
