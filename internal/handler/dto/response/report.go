package response

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"storefront/internal/usecase/queries"
)

type KPIReportResponse struct {
	OrderCount      int64           `json:"orderCount"`
	GrossRevenue    decimal.Decimal `json:"grossRevenue"`
	TotalDiscount   decimal.Decimal `json:"totalDiscount"`
	AverageOrder    decimal.Decimal `json:"averageOrder"`
	CouponOrderRate decimal.Decimal `json:"couponOrderRate"`
}

type RevenuePointResponse struct {
	Day     time.Time       `json:"day"`
	Orders  int64           `json:"orders"`
	Revenue decimal.Decimal `json:"revenue"`
}

type TopProductResponse struct {
	ProductID   uuid.UUID       `json:"productId"`
	ProductName string          `json:"productName"`
	UnitsSold   int64           `json:"unitsSold"`
	Revenue     decimal.Decimal `json:"revenue"`
}

func FromKPIReport(report *queries.KPIReport) *KPIReportResponse {
	return &KPIReportResponse{
		OrderCount:      report.OrderCount,
		GrossRevenue:    report.GrossRevenue,
		TotalDiscount:   report.TotalDiscount,
		AverageOrder:    report.AverageOrder,
		CouponOrderRate: report.CouponOrderRate,
	}
}

func FromRevenuePoints(points []*queries.RevenuePoint) []*RevenuePointResponse {
	items := make([]*RevenuePointResponse, 0, len(points))
	for _, p := range points {
		items = append(items, &RevenuePointResponse{Day: p.Day, Orders: p.Orders, Revenue: p.Revenue})
	}
	return items
}

func FromTopProducts(products []*queries.TopProduct) []*TopProductResponse {
	items := make([]*TopProductResponse, 0, len(products))
	for _, p := range products {
		items = append(items, &TopProductResponse{
			ProductID:   p.ProductID,
			ProductName: p.ProductName,
			UnitsSold:   p.UnitsSold,
			Revenue:     p.Revenue,
		})
	}
	return items
}
