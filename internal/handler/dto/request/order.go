package request

import (
	"strings"
)

type PlaceOrderRequest struct {
	CouponCode *string `json:"coupon_code,omitempty"`
}

func (r PlaceOrderRequest) GetCouponCode() string {
	if r.CouponCode == nil {
		return ""
	}
	return strings.TrimSpace(*r.CouponCode)
}

type UpdateOrderStatusRequest struct {
	Status string `json:"status" binding:"required"`
}
