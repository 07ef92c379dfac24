//go:build e2e

package storefront_test

import (
	"net/http"
	"testing"
	"time"

	"storefront/internal/domain/user"
	reqdto "storefront/internal/handler/dto/request"
	resdto "storefront/internal/handler/dto/response"
	"storefront/tests/common/authtest"
	"storefront/tests/common/dbtest"
	"storefront/tests/common/httptest"
	"storefront/tests/e2e"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

const (
	productsURL      = "/api/products"
	adminProductsURL = "/api/admin/products"
	adminCouponsURL  = "/api/admin/coupons"
	reportsURL       = "/api/admin/reports"
	storeCartURL     = "/api/cart"
	storeOrdersURL   = "/api/orders"
)

// decimal.Decimal carries an internal exponent, so compare by value.
var decimalComparer = cmp.Comparer(func(a, b decimal.Decimal) bool { return a.Equal(b) })

type StorefrontSuite struct {
	e2e.SharedSuite
}

func (s *StorefrontSuite) SetupSubTest() {
	s.SharedSuite.SetupSubTest()
}

func TestStorefrontSuite(t *testing.T) {
	t.Parallel()
	suite.Run(t, new(StorefrontSuite))
}

func (s *StorefrontSuite) adminToken(t *testing.T) string {
	t.Helper()
	return authtest.CreateAndLogin(t, s.DB, s.Router, "admin@example.com", string(user.RoleAdmin))
}

func (s *StorefrontSuite) customerToken(t *testing.T, email string) string {
	t.Helper()
	return authtest.CreateAndLogin(t, s.DB, s.Router, email, string(user.RoleCustomer))
}

func (s *StorefrontSuite) addToCart(t *testing.T, token string, productID uuid.UUID, quantity int) {
	t.Helper()
	w := httptest.PerformRequest(t, s.Router, http.MethodPost, storeCartURL+"/items",
		reqdto.AddCartItemRequest{ProductID: productID, Quantity: quantity}, token)
	require.Equal(t, http.StatusNoContent, w.Code, w.Body.String())
}

func (s *StorefrontSuite) placeOrder(t *testing.T, token, couponCode string) resdto.OrderResponse {
	t.Helper()
	var body reqdto.PlaceOrderRequest
	if couponCode != "" {
		body.CouponCode = &couponCode
	}
	headers := map[string]string{"Idempotency-Key": uuid.NewString()}
	w := httptest.PerformRequestWithHeaders(t, s.Router, http.MethodPost, storeOrdersURL, body, headers, token)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var res resdto.OrderResponse
	require.NoError(t, httptest.DecodeResponseBody(t, w.Body, &res))
	return res
}

func (s *StorefrontSuite) TestCatalog() {
	s.Run("Admin-created product shows up in the public listing", func() {
		t := s.T()
		admin := s.adminToken(t)

		create := httptest.PerformRequest(t, s.Router, http.MethodPost, adminProductsURL,
			reqdto.UpsertProductRequest{
				Name:        "Espresso Machine",
				Description: "Compact 15 bar pump machine",
				Price:       decimal.NewFromInt(250),
				Category:    "Kitchen",
			}, admin)
		require.Equal(t, http.StatusCreated, create.Code, create.Body.String())

		var created struct {
			ID uuid.UUID `json:"id"`
		}
		require.NoError(t, httptest.DecodeResponseBody(t, create.Body, &created))

		// no auth needed on the public catalog
		get := httptest.PerformRequest(t, s.Router, http.MethodGet, productsURL+"/"+created.ID.String(), nil, "")
		require.Equal(t, http.StatusOK, get.Code)

		var view resdto.ProductResponse
		require.NoError(t, httptest.DecodeResponseBody(t, get.Body, &view))

		expected := resdto.ProductResponse{
			Name:        "Espresso Machine",
			Description: "Compact 15 bar pump machine",
			Price:       decimal.NewFromInt(250),
			Category:    "Kitchen",
			Active:      true,
		}
		diff := cmp.Diff(expected, view, decimalComparer,
			cmpopts.IgnoreFields(resdto.ProductResponse{}, "ID", "CreatedAt", "UpdatedAt"))
		require.Empty(t, diff)
	})

	s.Run("Filters narrow the listing", func() {
		t := s.T()

		dbtest.CreateTestProduct(t, s.DB, "Budget Mug", decimal.NewFromInt(8))
		dbtest.CreateTestProduct(t, s.DB, "Fancy Mug", decimal.NewFromInt(40))

		w := httptest.PerformRequest(t, s.Router, http.MethodGet, productsURL+"?min_price=10", nil, "")
		require.Equal(t, http.StatusOK, w.Code)

		var views []resdto.ProductResponse
		require.NoError(t, httptest.DecodeResponseBody(t, w.Body, &views))
		require.Len(t, views, 1)
		require.Equal(t, "Fancy Mug", views[0].Name)

		bad := httptest.PerformRequest(t, s.Router, http.MethodGet, productsURL+"?min_price=abc", nil, "")
		httptest.AssertErrorResponse(t, bad, http.StatusBadRequest, "Invalid min_price")
	})

	s.Run("Deactivated product disappears from the listing", func() {
		t := s.T()
		admin := s.adminToken(t)

		productID := dbtest.CreateTestProduct(t, s.DB, "Retired Lamp", decimal.NewFromInt(30))

		inactive := false
		w := httptest.PerformRequest(t, s.Router, http.MethodPut,
			adminProductsURL+"/"+productID.String()+"/active",
			map[string]*bool{"active": &inactive}, admin)
		require.Equal(t, http.StatusNoContent, w.Code, w.Body.String())

		list := httptest.PerformRequest(t, s.Router, http.MethodGet, productsURL, nil, "")
		require.Equal(t, http.StatusOK, list.Code)
		require.NotContains(t, list.Body.String(), "Retired Lamp")

		// direct lookup still works for an inactive product
		get := httptest.PerformRequest(t, s.Router, http.MethodGet, productsURL+"/"+productID.String(), nil, "")
		require.Equal(t, http.StatusOK, get.Code)
	})

	s.Run("Customers cannot manage the catalog", func() {
		t := s.T()
		customer := s.customerToken(t, "shopper@example.com")

		w := httptest.PerformRequest(t, s.Router, http.MethodPost, adminProductsURL,
			reqdto.UpsertProductRequest{Name: "Sneaky", Price: decimal.NewFromInt(1)}, customer)
		require.Equal(t, http.StatusForbidden, w.Code)
	})
}

func (s *StorefrontSuite) TestCart() {
	s.Run("Untouched cart is empty, not missing", func() {
		t := s.T()
		token := s.customerToken(t, "empty@example.com")

		w := httptest.PerformRequest(t, s.Router, http.MethodGet, storeCartURL, nil, token)
		require.Equal(t, http.StatusOK, w.Code)

		var cart resdto.CartResponse
		require.NoError(t, httptest.DecodeResponseBody(t, w.Body, &cart))
		require.Empty(t, cart.Items)
	})

	s.Run("Items can be added, updated and removed", func() {
		t := s.T()
		token := s.customerToken(t, "cartuser@example.com")
		productID := dbtest.CreateTestProduct(t, s.DB, "Notebook", decimal.NewFromInt(12))

		s.addToCart(t, token, productID, 1)

		update := httptest.PerformRequest(t, s.Router, http.MethodPut,
			storeCartURL+"/items/"+productID.String(),
			reqdto.UpdateCartItemRequest{Quantity: 3}, token)
		require.Equal(t, http.StatusNoContent, update.Code, update.Body.String())

		get := httptest.PerformRequest(t, s.Router, http.MethodGet, storeCartURL, nil, token)
		var cart resdto.CartResponse
		require.NoError(t, httptest.DecodeResponseBody(t, get.Body, &cart))
		require.Len(t, cart.Items, 1)
		require.EqualValues(t, 3, cart.Items[0].Quantity)
		require.True(t, cart.Subtotal.Equal(decimal.NewFromInt(36)), cart.Subtotal.String())

		remove := httptest.PerformRequest(t, s.Router, http.MethodDelete,
			storeCartURL+"/items/"+productID.String(), nil, token)
		require.Equal(t, http.StatusNoContent, remove.Code)

		get = httptest.PerformRequest(t, s.Router, http.MethodGet, storeCartURL, nil, token)
		require.NoError(t, httptest.DecodeResponseBody(t, get.Body, &cart))
		require.Empty(t, cart.Items)
	})

	s.Run("Preview applies a whole order coupon", func() {
		t := s.T()
		token := s.customerToken(t, "preview@example.com")
		productID := dbtest.CreateTestProduct(t, s.DB, "Desk Fan", decimal.NewFromInt(100))
		dbtest.CreateTestCoupon(t, s.DB, "TENOFF", decimal.NewFromInt(10))

		s.addToCart(t, token, productID, 2)

		// codes are normalized, lowercase input still matches
		w := httptest.PerformRequest(t, s.Router, http.MethodGet,
			storeCartURL+"/preview?coupon=tenoff", nil, token)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var pricing resdto.PricingResponse
		require.NoError(t, httptest.DecodeResponseBody(t, w.Body, &pricing))

		expected := resdto.PricingResponse{
			Subtotal:         decimal.NewFromInt(200),
			ProductDiscount:  decimal.NewFromInt(20),
			ShippingDiscount: decimal.Zero,
			ShippingFee:      decimal.NewFromInt(99),
			Total:            decimal.NewFromInt(279),
			CouponCode:       "TENOFF",
		}
		require.Empty(t, cmp.Diff(expected, pricing, decimalComparer))
	})

	s.Run("Preview rejects unusable coupons", func() {
		t := s.T()
		admin := s.adminToken(t)
		token := s.customerToken(t, "expired@example.com")
		productID := dbtest.CreateTestProduct(t, s.DB, "Kettle", decimal.NewFromInt(50))
		s.addToCart(t, token, productID, 1)

		validTo := time.Now().Add(-24 * time.Hour)
		create := httptest.PerformRequest(t, s.Router, http.MethodPost, adminCouponsURL,
			reqdto.CreateCouponRequest{
				Code:    "BYGONES",
				Rules:   []reqdto.DiscountRuleRequest{{Name: "Whole Order", Value: decimal.NewFromInt(15)}},
				ValidTo: &validTo,
			}, admin)
		require.Equal(t, http.StatusCreated, create.Code, create.Body.String())

		expired := httptest.PerformRequest(t, s.Router, http.MethodGet,
			storeCartURL+"/preview?coupon=BYGONES", nil, token)
		httptest.AssertErrorResponse(t, expired, http.StatusBadRequest, "not currently usable")

		unknown := httptest.PerformRequest(t, s.Router, http.MethodGet,
			storeCartURL+"/preview?coupon=NOSUCH", nil, token)
		httptest.AssertErrorResponse(t, unknown, http.StatusNotFound, "Coupon not found")
	})
}

func (s *StorefrontSuite) TestCouponAdmin() {
	s.Run("Coupons can be created and looked up", func() {
		t := s.T()
		admin := s.adminToken(t)
		productID := dbtest.CreateTestProduct(t, s.DB, "Beans", decimal.NewFromInt(20))

		create := httptest.PerformRequest(t, s.Router, http.MethodPost, adminCouponsURL,
			reqdto.CreateCouponRequest{
				Code: "BEANS5",
				Rules: []reqdto.DiscountRuleRequest{
					{Name: "Beans", Value: decimal.NewFromInt(5), FlatRate: true, AppliesTo: []uuid.UUID{productID}},
				},
				MaxUses: 100,
			}, admin)
		require.Equal(t, http.StatusCreated, create.Code, create.Body.String())

		get := httptest.PerformRequest(t, s.Router, http.MethodGet, adminCouponsURL+"/BEANS5", nil, admin)
		require.Equal(t, http.StatusOK, get.Code)

		var coupon resdto.CouponResponse
		require.NoError(t, httptest.DecodeResponseBody(t, get.Body, &coupon))
		require.Equal(t, "BEANS5", coupon.Code)
		require.Len(t, coupon.Rules, 1)
		require.True(t, coupon.Rules[0].FlatRate)
		require.EqualValues(t, 100, coupon.MaxUses)
		require.EqualValues(t, 0, coupon.Uses)

		list := httptest.PerformRequest(t, s.Router, http.MethodGet, adminCouponsURL, nil, admin)
		require.Equal(t, http.StatusOK, list.Code)
		require.Contains(t, list.Body.String(), "BEANS5")
	})

	s.Run("Duplicate and malformed coupons are rejected", func() {
		t := s.T()
		admin := s.adminToken(t)
		dbtest.CreateTestCoupon(t, s.DB, "TAKEN", decimal.NewFromInt(10))

		dup := httptest.PerformRequest(t, s.Router, http.MethodPost, adminCouponsURL,
			reqdto.CreateCouponRequest{
				Code:  "TAKEN",
				Rules: []reqdto.DiscountRuleRequest{{Name: "Whole Order", Value: decimal.NewFromInt(10)}},
			}, admin)
		httptest.AssertErrorResponse(t, dup, http.StatusConflict, "already exists")

		overPercent := httptest.PerformRequest(t, s.Router, http.MethodPost, adminCouponsURL,
			reqdto.CreateCouponRequest{
				Code:  "TOOBIG",
				Rules: []reqdto.DiscountRuleRequest{{Name: "Whole Order", Value: decimal.NewFromInt(150)}},
			}, admin)
		httptest.AssertErrorResponse(t, overPercent, http.StatusUnprocessableEntity, "Invalid coupon definition")

		badCode := httptest.PerformRequest(t, s.Router, http.MethodPost, adminCouponsURL,
			reqdto.CreateCouponRequest{
				Code:  "no",
				Rules: []reqdto.DiscountRuleRequest{{Name: "Whole Order", Value: decimal.NewFromInt(10)}},
			}, admin)
		require.Equal(t, http.StatusUnprocessableEntity, badCode.Code)
	})

	s.Run("Coupon endpoints are admin only", func() {
		t := s.T()
		customer := s.customerToken(t, "plain@example.com")

		w := httptest.PerformRequest(t, s.Router, http.MethodGet, adminCouponsURL, nil, customer)
		require.Equal(t, http.StatusForbidden, w.Code)
	})
}

func (s *StorefrontSuite) TestReports() {
	s.Run("KPIs aggregate placed orders", func() {
		t := s.T()
		admin := s.adminToken(t)
		productID := dbtest.CreateTestProduct(t, s.DB, "Grinder", decimal.NewFromInt(100))
		dbtest.CreateTestCoupon(t, s.DB, "TWENTY", decimal.NewFromInt(20))

		first := s.customerToken(t, "first@example.com")
		s.addToCart(t, first, productID, 2)
		s.placeOrder(t, first, "")

		second := s.customerToken(t, "second@example.com")
		s.addToCart(t, second, productID, 1)
		s.placeOrder(t, second, "TWENTY")

		from := time.Now().UTC().Add(-time.Hour).Format(time.RFC3339)
		to := time.Now().UTC().Add(time.Hour).Format(time.RFC3339)
		rangeQuery := "?from=" + from + "&to=" + to

		w := httptest.PerformRequest(t, s.Router, http.MethodGet, reportsURL+"/kpis"+rangeQuery, nil, admin)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var kpis resdto.KPIReportResponse
		require.NoError(t, httptest.DecodeResponseBody(t, w.Body, &kpis))

		// 100x2 + 99 shipping = 299, and 100 - 20 + 99 = 179 with the coupon
		expected := resdto.KPIReportResponse{
			OrderCount:      2,
			GrossRevenue:    decimal.NewFromInt(478),
			TotalDiscount:   decimal.NewFromInt(20),
			AverageOrder:    decimal.NewFromInt(239),
			CouponOrderRate: decimal.NewFromFloat(0.5),
		}
		require.Empty(t, cmp.Diff(expected, kpis, decimalComparer))

		revenue := httptest.PerformRequest(t, s.Router, http.MethodGet, reportsURL+"/revenue"+rangeQuery, nil, admin)
		require.Equal(t, http.StatusOK, revenue.Code)

		var points []resdto.RevenuePointResponse
		require.NoError(t, httptest.DecodeResponseBody(t, revenue.Body, &points))
		require.Len(t, points, 1)
		require.EqualValues(t, 2, points[0].Orders)
		require.True(t, points[0].Revenue.Equal(decimal.NewFromInt(478)), points[0].Revenue.String())

		top := httptest.PerformRequest(t, s.Router, http.MethodGet, reportsURL+"/top-products"+rangeQuery, nil, admin)
		require.Equal(t, http.StatusOK, top.Code)

		var products []resdto.TopProductResponse
		require.NoError(t, httptest.DecodeResponseBody(t, top.Body, &products))
		require.Len(t, products, 1)
		require.Equal(t, "Grinder", products[0].ProductName)
		require.EqualValues(t, 3, products[0].UnitsSold)
		require.True(t, products[0].Revenue.Equal(decimal.NewFromInt(300)), products[0].Revenue.String())
	})

	s.Run("Cancelled orders are excluded", func() {
		t := s.T()
		admin := s.adminToken(t)
		productID := dbtest.CreateTestProduct(t, s.DB, "Scale", decimal.NewFromInt(60))

		buyer := s.customerToken(t, "regretful@example.com")
		s.addToCart(t, buyer, productID, 1)
		order := s.placeOrder(t, buyer, "")

		cancel := httptest.PerformRequest(t, s.Router, http.MethodPost,
			storeOrdersURL+"/"+order.ID.String()+"/cancel", nil, buyer)
		require.Equal(t, http.StatusNoContent, cancel.Code, cancel.Body.String())

		from := time.Now().UTC().Add(-time.Hour).Format("2006-01-02")
		to := time.Now().UTC().Add(48 * time.Hour).Format("2006-01-02")
		w := httptest.PerformRequest(t, s.Router, http.MethodGet,
			reportsURL+"/kpis?from="+from+"&to="+to, nil, admin)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var kpis resdto.KPIReportResponse
		require.NoError(t, httptest.DecodeResponseBody(t, w.Body, &kpis))
		require.EqualValues(t, 0, kpis.OrderCount)
		require.True(t, kpis.GrossRevenue.IsZero())
	})

	s.Run("Range parameters are validated", func() {
		t := s.T()
		admin := s.adminToken(t)

		missing := httptest.PerformRequest(t, s.Router, http.MethodGet, reportsURL+"/kpis?to=2026-01-01", nil, admin)
		httptest.AssertErrorResponse(t, missing, http.StatusBadRequest, "Missing from parameter")

		garbled := httptest.PerformRequest(t, s.Router, http.MethodGet,
			reportsURL+"/kpis?from=yesterday&to=2026-01-01", nil, admin)
		httptest.AssertErrorResponse(t, garbled, http.StatusBadRequest, "Invalid from parameter")

		inverted := httptest.PerformRequest(t, s.Router, http.MethodGet,
			reportsURL+"/kpis?from=2026-02-01&to=2026-01-01", nil, admin)
		httptest.AssertErrorResponse(t, inverted, http.StatusBadRequest, "non-empty interval")
	})
}
