//go:build e2e

package order_test

import (
	"context"
	"net/http"
	"testing"

	"storefront/internal/domain/user"
	reqdto "storefront/internal/handler/dto/request"
	resdto "storefront/internal/handler/dto/response"
	"storefront/tests/common/authtest"
	"storefront/tests/common/dbtest"
	"storefront/tests/common/httptest"
	"storefront/tests/e2e"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

const (
	ordersURL    = "/api/orders"
	cartURL      = "/api/cart"
	cartItemsURL = "/api/cart/items"
)

type OrderSuite struct {
	e2e.SharedSuite
}

func (s *OrderSuite) SetupSubTest() {
	s.SharedSuite.SetupSubTest()
}

func TestOrderSuite(t *testing.T) {
	t.Parallel()
	suite.Run(t, new(OrderSuite))
}

func idempotencyHeaders() map[string]string {
	return map[string]string{"Idempotency-Key": uuid.NewString()}
}

// fills the logged-in user's cart with quantity x of one product
func (s *OrderSuite) addToCart(t *testing.T, token string, productID uuid.UUID, quantity int) {
	t.Helper()
	w := httptest.PerformRequest(t, s.Router, http.MethodPost, cartItemsURL,
		reqdto.AddCartItemRequest{ProductID: productID, Quantity: quantity}, token)
	require.Equal(t, http.StatusNoContent, w.Code, w.Body.String())
}

func (s *OrderSuite) TestPlaceOrder() {
	s.Run("Normal case: order placed from cart with shipping fee", func() {
		t := s.T()

		productID := dbtest.CreateTestProduct(t, s.DB, "Waffle with Berries", decimal.NewFromInt(100))
		token := authtest.CreateAndLogin(t, s.DB, s.Router, "buyer@example.com", string(user.RoleCustomer))
		s.addToCart(t, token, productID, 2)

		w := httptest.PerformRequestWithHeaders(t, s.Router, http.MethodPost, ordersURL,
			reqdto.PlaceOrderRequest{}, idempotencyHeaders(), token)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

		var order resdto.OrderResponse
		require.NoError(t, httptest.DecodeResponseBody(t, w.Body, &order))
		require.Equal(t, "pending", order.Status)
		require.True(t, order.Subtotal.Equal(decimal.NewFromInt(200)), order.Subtotal.String())
		require.True(t, order.ShippingFee.Equal(decimal.NewFromInt(99)), order.ShippingFee.String())
		require.True(t, order.Total.Equal(decimal.NewFromInt(299)), order.Total.String())
		require.Len(t, order.Lines, 1)
		require.Equal(t, "Waffle with Berries", order.Lines[0].ProductName)

		// Cart is cleared by a successful order
		cw := httptest.PerformRequest(t, s.Router, http.MethodGet, cartURL, nil, token)
		require.Equal(t, http.StatusOK, cw.Code)
		var cart resdto.CartResponse
		require.NoError(t, httptest.DecodeResponseBody(t, cw.Body, &cart))
		require.Empty(t, cart.Items)

		// A confirmation job was enqueued in the same transaction
		var jobs int
		require.NoError(t, s.DB.QueryRow(context.Background(),
			"SELECT count(*) FROM notification_jobs WHERE topic = 'order_placed'").Scan(&jobs))
		require.Equal(t, 1, jobs)
	})

	s.Run("Normal case: whole-order percentage coupon discounts products", func() {
		t := s.T()

		productID := dbtest.CreateTestProduct(t, s.DB, "Vanilla Panna Cotta", decimal.NewFromInt(100))
		dbtest.CreateTestCoupon(t, s.DB, "HAPPYHRS", decimal.NewFromInt(18))
		token := authtest.CreateAndLogin(t, s.DB, s.Router, "couponbuyer@example.com", string(user.RoleCustomer))
		s.addToCart(t, token, productID, 2)

		code := "HAPPYHRS"
		w := httptest.PerformRequestWithHeaders(t, s.Router, http.MethodPost, ordersURL,
			reqdto.PlaceOrderRequest{CouponCode: &code}, idempotencyHeaders(), token)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

		var order resdto.OrderResponse
		require.NoError(t, httptest.DecodeResponseBody(t, w.Body, &order))
		require.NotNil(t, order.CouponCode)
		require.Equal(t, "HAPPYHRS", *order.CouponCode)
		require.True(t, order.ProductDiscount.Equal(decimal.NewFromInt(36)), order.ProductDiscount.String())
		require.True(t, order.Total.Equal(decimal.NewFromInt(263)), order.Total.String())

		// Coupon usage counter advanced
		var uses int
		require.NoError(t, s.DB.QueryRow(context.Background(),
			"SELECT uses FROM coupons WHERE code = 'HAPPYHRS'").Scan(&uses))
		require.Equal(t, 1, uses)
	})

	s.Run("Normal case: full shipping discount zeroes the fee", func() {
		t := s.T()

		productID := dbtest.CreateTestProduct(t, s.DB, "Macaron Mix", decimal.NewFromInt(100))
		dbtest.CreateShippingCoupon(t, s.DB, "FREESHIP", decimal.NewFromInt(100))
		token := authtest.CreateAndLogin(t, s.DB, s.Router, "freeship@example.com", string(user.RoleCustomer))
		s.addToCart(t, token, productID, 2)

		code := "FREESHIP"
		w := httptest.PerformRequestWithHeaders(t, s.Router, http.MethodPost, ordersURL,
			reqdto.PlaceOrderRequest{CouponCode: &code}, idempotencyHeaders(), token)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

		var order resdto.OrderResponse
		require.NoError(t, httptest.DecodeResponseBody(t, w.Body, &order))
		require.True(t, order.ShippingDiscount.Equal(decimal.NewFromInt(99)), order.ShippingDiscount.String())
		require.True(t, order.ShippingFee.IsZero(), order.ShippingFee.String())
		require.True(t, order.Total.Equal(decimal.NewFromInt(200)), order.Total.String())
	})

	s.Run("Normal case: retry with the same key replays the original order", func() {
		t := s.T()

		productID := dbtest.CreateTestProduct(t, s.DB, "Tiramisu", decimal.NewFromInt(50))
		token := authtest.CreateAndLogin(t, s.DB, s.Router, "retry@example.com", string(user.RoleCustomer))
		s.addToCart(t, token, productID, 1)

		headers := idempotencyHeaders()

		w1 := httptest.PerformRequestWithHeaders(t, s.Router, http.MethodPost, ordersURL,
			reqdto.PlaceOrderRequest{}, headers, token)
		require.Equal(t, http.StatusCreated, w1.Code, w1.Body.String())
		var first resdto.OrderResponse
		require.NoError(t, httptest.DecodeResponseBody(t, w1.Body, &first))

		w2 := httptest.PerformRequestWithHeaders(t, s.Router, http.MethodPost, ordersURL,
			reqdto.PlaceOrderRequest{}, headers, token)
		require.Equal(t, http.StatusOK, w2.Code, w2.Body.String())
		var second resdto.OrderResponse
		require.NoError(t, httptest.DecodeResponseBody(t, w2.Body, &second))

		require.Equal(t, first.ID, second.ID, "retry must not create a second order")

		var count int
		require.NoError(t, s.DB.QueryRow(context.Background(), "SELECT count(*) FROM orders").Scan(&count))
		require.Equal(t, 1, count)
	})

	s.Run("Error case: same key with a different body is rejected", func() {
		t := s.T()

		productID := dbtest.CreateTestProduct(t, s.DB, "Cheesecake", decimal.NewFromInt(50))
		dbtest.CreateTestCoupon(t, s.DB, "TENOFF", decimal.NewFromInt(10))
		token := authtest.CreateAndLogin(t, s.DB, s.Router, "conflict@example.com", string(user.RoleCustomer))
		s.addToCart(t, token, productID, 1)

		headers := idempotencyHeaders()

		w1 := httptest.PerformRequestWithHeaders(t, s.Router, http.MethodPost, ordersURL,
			reqdto.PlaceOrderRequest{}, headers, token)
		require.Equal(t, http.StatusCreated, w1.Code, w1.Body.String())

		code := "TENOFF"
		w2 := httptest.PerformRequestWithHeaders(t, s.Router, http.MethodPost, ordersURL,
			reqdto.PlaceOrderRequest{CouponCode: &code}, headers, token)
		require.Equal(t, http.StatusConflict, w2.Code, w2.Body.String())
	})

	s.Run("Error case: empty cart cannot be ordered", func() {
		t := s.T()

		token := authtest.CreateAndLogin(t, s.DB, s.Router, "emptycart@example.com", string(user.RoleCustomer))

		w := httptest.PerformRequestWithHeaders(t, s.Router, http.MethodPost, ordersURL,
			reqdto.PlaceOrderRequest{}, idempotencyHeaders(), token)
		require.Equal(t, http.StatusUnprocessableEntity, w.Code, w.Body.String())
	})

	s.Run("Error case: unknown coupon code", func() {
		t := s.T()

		productID := dbtest.CreateTestProduct(t, s.DB, "Brownie", decimal.NewFromInt(30))
		token := authtest.CreateAndLogin(t, s.DB, s.Router, "nocoupon@example.com", string(user.RoleCustomer))
		s.addToCart(t, token, productID, 1)

		code := "NOSUCHCODE"
		w := httptest.PerformRequestWithHeaders(t, s.Router, http.MethodPost, ordersURL,
			reqdto.PlaceOrderRequest{CouponCode: &code}, idempotencyHeaders(), token)
		require.Equal(t, http.StatusNotFound, w.Code, w.Body.String())
	})

	s.Run("Error case: missing Idempotency-Key header", func() {
		t := s.T()

		token := authtest.CreateAndLogin(t, s.DB, s.Router, "nokey@example.com", string(user.RoleCustomer))

		w := httptest.PerformRequest(t, s.Router, http.MethodPost, ordersURL, reqdto.PlaceOrderRequest{}, token)
		require.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
	})

	s.Run("Auth test - Unauthorized when not logged in", func() {
		t := s.T()

		w := httptest.PerformRequestWithHeaders(t, s.Router, http.MethodPost, ordersURL,
			reqdto.PlaceOrderRequest{}, idempotencyHeaders(), "")
		require.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func (s *OrderSuite) TestGetAndListOrders() {
	s.Run("Normal case: owner retrieves their order, strangers get 404", func() {
		t := s.T()

		productID := dbtest.CreateTestProduct(t, s.DB, "Waffle", decimal.NewFromInt(40))
		ownerToken := authtest.CreateAndLogin(t, s.DB, s.Router, "owner@example.com", string(user.RoleCustomer))
		s.addToCart(t, ownerToken, productID, 1)

		w := httptest.PerformRequestWithHeaders(t, s.Router, http.MethodPost, ordersURL,
			reqdto.PlaceOrderRequest{}, idempotencyHeaders(), ownerToken)
		require.Equal(t, http.StatusCreated, w.Code)
		var order resdto.OrderResponse
		require.NoError(t, httptest.DecodeResponseBody(t, w.Body, &order))

		url := ordersURL + "/" + order.ID.String()

		gw := httptest.PerformRequest(t, s.Router, http.MethodGet, url, nil, ownerToken)
		require.Equal(t, http.StatusOK, gw.Code)

		strangerToken := authtest.CreateAndLogin(t, s.DB, s.Router, "stranger@example.com", string(user.RoleCustomer))
		sw := httptest.PerformRequest(t, s.Router, http.MethodGet, url, nil, strangerToken)
		require.Equal(t, http.StatusNotFound, sw.Code, "other users' orders must read as not found")

		// Admins can see any order
		adminToken := authtest.CreateAndLogin(t, s.DB, s.Router, "admin@example.com", string(user.RoleAdmin))
		aw := httptest.PerformRequest(t, s.Router, http.MethodGet, url, nil, adminToken)
		require.Equal(t, http.StatusOK, aw.Code)
	})

	s.Run("Normal case: list pages newest-first with a cursor", func() {
		t := s.T()

		productID := dbtest.CreateTestProduct(t, s.DB, "Cookie", decimal.NewFromInt(5))
		token := authtest.CreateAndLogin(t, s.DB, s.Router, "pager@example.com", string(user.RoleCustomer))

		for range 3 {
			s.addToCart(t, token, productID, 1)
			w := httptest.PerformRequestWithHeaders(t, s.Router, http.MethodPost, ordersURL,
				reqdto.PlaceOrderRequest{}, idempotencyHeaders(), token)
			require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
		}

		w1 := httptest.PerformRequest(t, s.Router, http.MethodGet, ordersURL+"?limit=2", nil, token)
		require.Equal(t, http.StatusOK, w1.Code)
		var page1 resdto.OrderListResponse
		require.NoError(t, httptest.DecodeResponseBody(t, w1.Body, &page1))
		require.Len(t, page1.Orders, 2)
		require.NotEmpty(t, page1.NextCursor)

		w2 := httptest.PerformRequest(t, s.Router, http.MethodGet,
			ordersURL+"?limit=2&after="+page1.NextCursor, nil, token)
		require.Equal(t, http.StatusOK, w2.Code)
		var page2 resdto.OrderListResponse
		require.NoError(t, httptest.DecodeResponseBody(t, w2.Body, &page2))
		require.Len(t, page2.Orders, 1)
		require.Empty(t, page2.NextCursor)

		// No overlap between pages
		seen := map[uuid.UUID]bool{}
		for _, o := range append(page1.Orders, page2.Orders...) {
			require.False(t, seen[o.ID])
			seen[o.ID] = true
		}
	})
}

func (s *OrderSuite) TestOrderLifecycle() {
	s.Run("Normal case: customer cancels a pending order", func() {
		t := s.T()

		productID := dbtest.CreateTestProduct(t, s.DB, "Cake", decimal.NewFromInt(25))
		token := authtest.CreateAndLogin(t, s.DB, s.Router, "canceller@example.com", string(user.RoleCustomer))
		s.addToCart(t, token, productID, 1)

		w := httptest.PerformRequestWithHeaders(t, s.Router, http.MethodPost, ordersURL,
			reqdto.PlaceOrderRequest{}, idempotencyHeaders(), token)
		require.Equal(t, http.StatusCreated, w.Code)
		var order resdto.OrderResponse
		require.NoError(t, httptest.DecodeResponseBody(t, w.Body, &order))

		cw := httptest.PerformRequest(t, s.Router, http.MethodPost,
			ordersURL+"/"+order.ID.String()+"/cancel", nil, token)
		require.Equal(t, http.StatusNoContent, cw.Code, cw.Body.String())

		gw := httptest.PerformRequest(t, s.Router, http.MethodGet, ordersURL+"/"+order.ID.String(), nil, token)
		require.Equal(t, http.StatusOK, gw.Code)
		var updated resdto.OrderResponse
		require.NoError(t, httptest.DecodeResponseBody(t, gw.Body, &updated))
		require.Equal(t, "cancelled", updated.Status)
	})

	s.Run("Normal case: admin drives the status machine, bad moves rejected", func() {
		t := s.T()

		productID := dbtest.CreateTestProduct(t, s.DB, "Pie", decimal.NewFromInt(15))
		token := authtest.CreateAndLogin(t, s.DB, s.Router, "shopper@example.com", string(user.RoleCustomer))
		s.addToCart(t, token, productID, 1)

		w := httptest.PerformRequestWithHeaders(t, s.Router, http.MethodPost, ordersURL,
			reqdto.PlaceOrderRequest{}, idempotencyHeaders(), token)
		require.Equal(t, http.StatusCreated, w.Code)
		var order resdto.OrderResponse
		require.NoError(t, httptest.DecodeResponseBody(t, w.Body, &order))

		adminToken := authtest.CreateAndLogin(t, s.DB, s.Router, "ops@example.com", string(user.RoleAdmin))
		statusURL := "/api/admin/orders/" + order.ID.String() + "/status"

		// pending -> delivered skips the machine
		bad := httptest.PerformRequest(t, s.Router, http.MethodPut, statusURL,
			reqdto.UpdateOrderStatusRequest{Status: "delivered"}, adminToken)
		require.Equal(t, http.StatusUnprocessableEntity, bad.Code, bad.Body.String())

		for _, next := range []string{"paid", "shipped", "delivered"} {
			uw := httptest.PerformRequest(t, s.Router, http.MethodPut, statusURL,
				reqdto.UpdateOrderStatusRequest{Status: next}, adminToken)
			require.Equal(t, http.StatusNoContent, uw.Code, uw.Body.String())
		}

		// Delivered orders can no longer be cancelled by the customer
		cw := httptest.PerformRequest(t, s.Router, http.MethodPost,
			ordersURL+"/"+order.ID.String()+"/cancel", nil, token)
		require.Equal(t, http.StatusUnprocessableEntity, cw.Code)
	})

	s.Run("Auth test - customers cannot reach the admin status endpoint", func() {
		t := s.T()

		token := authtest.CreateAndLogin(t, s.DB, s.Router, "plain@example.com", string(user.RoleCustomer))

		w := httptest.PerformRequest(t, s.Router, http.MethodPut,
			"/api/admin/orders/"+uuid.NewString()+"/status",
			reqdto.UpdateOrderStatusRequest{Status: "paid"}, token)
		require.Equal(t, http.StatusForbidden, w.Code)
	})
}
