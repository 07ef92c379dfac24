package components

import (
	"storefront/internal/handler"
	"storefront/internal/handler/api"
	"storefront/internal/handler/middleware"

	"go.uber.org/fx"
)

var HandlerModule = fx.Module("handler",
	fx.Provide(
		api.NewAuthHandler,
		api.NewProductHandler,
		api.NewCartHandler,
		api.NewOrderHandler,
		api.NewCouponHandler,
		api.NewReportHandler,
		middleware.NewAuthMiddleware,
		NewHandlers,
	),
	fx.Invoke(handler.NewRouter),
)

func NewHandlers(
	auth *api.AuthHandler,
	product *api.ProductHandler,
	cart *api.CartHandler,
	order *api.OrderHandler,
	coupon *api.CouponHandler,
	report *api.ReportHandler,
) handler.Handlers {
	return handler.Handlers{
		Auth:    auth,
		Product: product,
		Cart:    cart,
		Order:   order,
		Coupon:  coupon,
		Report:  report,
	}
}
