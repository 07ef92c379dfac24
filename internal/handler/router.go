package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"storefront/internal/domain/user"
	"storefront/internal/handler/api"
	"storefront/internal/handler/middleware"
	"storefront/internal/pkg/config"
)

type route struct {
	Method  string
	Path    string
	Handler gin.HandlerFunc
	Mw      []gin.HandlerFunc
}

type Handlers struct {
	Auth    *api.AuthHandler
	Product *api.ProductHandler
	Cart    *api.CartHandler
	Order   *api.OrderHandler
	Coupon  *api.CouponHandler
	Report  *api.ReportHandler
}

func NewRouter(engine *gin.Engine, cfg config.Config, handlers Handlers, authMiddleware *middleware.AuthMiddleware) {
	setupMiddleware(engine, cfg)
	setupRoutes(engine, handlers, authMiddleware)
}

func setupMiddleware(engine *gin.Engine, cfg config.Config) {
	// Recovery must be first (outermost) to catch panics from all other middleware
	engine.Use(middleware.CustomRecovery())
	engine.Use(middleware.NewCORSMiddleware(cfg.CORS))
	engine.Use(middleware.LoggingMiddleware(cfg.Log))
	engine.Use(middleware.ErrorHandler())
}

func setupRoutes(engine *gin.Engine, h Handlers, authMiddleware *middleware.AuthMiddleware) {
	engine.GET("/health", healthCheck)

	if gin.Mode() == gin.DebugMode {
		engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	apiGroup := engine.Group("/api")
	{
		auth := apiGroup.Group("/auth")
		{
			addRoutes(auth, []route{
				{Method: http.MethodPost, Path: "/register", Handler: h.Auth.Register},
				{Method: http.MethodPost, Path: "/login", Handler: h.Auth.Login},
				{Method: http.MethodPost, Path: "/refresh", Handler: h.Auth.Refresh},
			})

			authRequired := auth.Group("")
			authRequired.Use(authMiddleware.RequireAuth())
			addRoutes(authRequired, []route{
				{Method: http.MethodPost, Path: "/logout", Handler: h.Auth.Logout},
				{Method: http.MethodGet, Path: "/me", Handler: h.Auth.Me},
			})
		}

		products := apiGroup.Group("/products")
		{
			addRoutes(products, []route{
				{Method: http.MethodGet, Path: "", Handler: h.Product.ListProducts},
				{Method: http.MethodGet, Path: "/:id", Handler: h.Product.GetProduct},
			})
		}

		cart := apiGroup.Group("/cart")
		cart.Use(authMiddleware.RequireAuth())
		{
			addRoutes(cart, []route{
				{Method: http.MethodGet, Path: "", Handler: h.Cart.GetCart},
				{Method: http.MethodDelete, Path: "", Handler: h.Cart.ClearCart},
				{Method: http.MethodGet, Path: "/preview", Handler: h.Cart.PreviewTotals},
				{Method: http.MethodPost, Path: "/items", Handler: h.Cart.AddItem},
				{Method: http.MethodPut, Path: "/items/:productId", Handler: h.Cart.UpdateItem},
				{Method: http.MethodDelete, Path: "/items/:productId", Handler: h.Cart.RemoveItem},
			})
		}

		orders := apiGroup.Group("/orders")
		orders.Use(authMiddleware.RequireAuth())
		{
			addRoutes(orders, []route{
				{Method: http.MethodPost, Path: "", Handler: h.Order.PlaceOrder},
				{Method: http.MethodGet, Path: "", Handler: h.Order.ListOrders},
				{Method: http.MethodGet, Path: "/:id", Handler: h.Order.GetOrder},
				{Method: http.MethodPost, Path: "/:id/cancel", Handler: h.Order.CancelOrder},
			})
		}

		admin := apiGroup.Group("/admin")
		admin.Use(authMiddleware.RequireAuth(), authMiddleware.RequireRoleAtLeast(user.RoleAdmin))
		{
			addRoutes(admin, []route{
				{Method: http.MethodPost, Path: "/products", Handler: h.Product.CreateProduct},
				{Method: http.MethodPut, Path: "/products/:id", Handler: h.Product.UpdateProduct},
				{Method: http.MethodPut, Path: "/products/:id/active", Handler: h.Product.SetActive},
				{Method: http.MethodPost, Path: "/coupons", Handler: h.Coupon.CreateCoupon},
				{Method: http.MethodGet, Path: "/coupons", Handler: h.Coupon.ListCoupons},
				{Method: http.MethodGet, Path: "/coupons/:code", Handler: h.Coupon.GetCoupon},
				{Method: http.MethodPut, Path: "/orders/:id/status", Handler: h.Order.UpdateStatus},
				{Method: http.MethodGet, Path: "/reports/kpis", Handler: h.Report.KPIs},
				{Method: http.MethodGet, Path: "/reports/revenue", Handler: h.Report.RevenueByDay},
				{Method: http.MethodGet, Path: "/reports/top-products", Handler: h.Report.TopProducts},
			})
		}
	}
}

// @Summary Health check
// @Description Check if the service is healthy
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"message": "Service is healthy",
	})
}

func addRoutes(g *gin.RouterGroup, rs []route) {
	for _, r := range rs {
		h := r.Handler
		if len(r.Mw) > 0 {
			h = chainHandlers(append(r.Mw, r.Handler)...)
		}
		switch r.Method {
		case http.MethodGet:
			g.GET(r.Path, h)
		case http.MethodPost:
			g.POST(r.Path, h)
		case http.MethodPut:
			g.PUT(r.Path, h)
		case http.MethodPatch:
			g.PATCH(r.Path, h)
		case http.MethodDelete:
			g.DELETE(r.Path, h)
		default:
			g.Any(r.Path, h)
		}
	}
}

func chainHandlers(hs ...gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		for _, h := range hs {
			h(c)
			if c.IsAborted() {
				return
			}
		}
	}
}
