//go:build unit

package api_test

import (
	"errors"
	"net/http"
	"testing"
	"time"

	"storefront/internal/domain/order"
	"storefront/internal/domain/user"
	"storefront/internal/handler/api"
	reqdto "storefront/internal/handler/dto/request"
	resdto "storefront/internal/handler/dto/response"
	"storefront/internal/usecase/commands"
	"storefront/internal/usecase/queries"
	"storefront/tests/common/httptest"
	commandsmock "storefront/tests/mock/commands"
	queriesmock "storefront/tests/mock/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type OrderHandlerTestSuite struct {
	suite.Suite
	router       *gin.Engine
	mockCtrl     *gomock.Controller
	mockCommands *commandsmock.MockOrderCommands
	mockQueries  *queriesmock.MockOrderQueries
	handler      *api.OrderHandler
	userID       uuid.UUID
}

func (s *OrderHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.router = gin.New()

	s.mockCtrl = gomock.NewController(s.T())
	s.mockCommands = commandsmock.NewMockOrderCommands(s.mockCtrl)
	s.mockQueries = queriesmock.NewMockOrderQueries(s.mockCtrl)
	s.handler = api.NewOrderHandler(s.mockCommands, s.mockQueries)
	s.userID = uuid.New()

	// Stand-in for the auth middleware
	s.router.Use(func(c *gin.Context) {
		c.Set("user_id", s.userID)
		c.Set("user_role", user.RoleCustomer)
	})
	s.router.POST("/orders", s.handler.PlaceOrder)
	s.router.GET("/orders", s.handler.ListOrders)
	s.router.GET("/orders/:id", s.handler.GetOrder)
	s.router.POST("/orders/:id/cancel", s.handler.CancelOrder)
	s.router.PUT("/orders/:id/status", s.handler.UpdateStatus)
}

func (s *OrderHandlerTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func TestOrderHandlerSuite(t *testing.T) {
	suite.Run(t, new(OrderHandlerTestSuite))
}

func (s *OrderHandlerTestSuite) orderView(orderID uuid.UUID) *queries.OrderView {
	return &queries.OrderView{
		ID:          orderID,
		UserID:      s.userID,
		UserEmail:   "test@example.com",
		Subtotal:    decimal.NewFromInt(200),
		ShippingFee: decimal.NewFromInt(99),
		Total:       decimal.NewFromInt(299),
		Status:      "pending",
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}
}

func (s *OrderHandlerTestSuite) TestPlaceOrder() {
	url := "/orders"
	key := uuid.New()
	orderID := uuid.New()
	headers := map[string]string{"Idempotency-Key": key.String()}

	s.Run("success: returns 201 Created for a new order", func() {
		s.mockCommands.EXPECT().
			PlaceOrder(gomock.Any(), commands.PlaceOrderRequest{}, s.userID, key).
			Return(&commands.PlaceOrderResult{Order: s.orderView(orderID)}, nil).Times(1)

		rec := httptest.PerformRequestWithHeaders(s.T(), s.router, http.MethodPost, url, reqdto.PlaceOrderRequest{}, headers, "")

		var response resdto.OrderResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusCreated, &response)
		s.Equal(orderID, response.ID)
	})

	s.Run("success: returns 200 OK when the key replays an earlier order", func() {
		s.mockCommands.EXPECT().
			PlaceOrder(gomock.Any(), commands.PlaceOrderRequest{}, s.userID, key).
			Return(&commands.PlaceOrderResult{Order: s.orderView(orderID), IsReplayed: true}, nil).Times(1)

		rec := httptest.PerformRequestWithHeaders(s.T(), s.router, http.MethodPost, url, reqdto.PlaceOrderRequest{}, headers, "")

		var response resdto.OrderResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &response)
		s.Equal(orderID, response.ID)
	})

	s.Run("success: forwards the coupon code", func() {
		code := "HAPPYHRS"
		s.mockCommands.EXPECT().
			PlaceOrder(gomock.Any(), commands.PlaceOrderRequest{CouponCode: code}, s.userID, key).
			Return(&commands.PlaceOrderResult{Order: s.orderView(orderID)}, nil).Times(1)

		rec := httptest.PerformRequestWithHeaders(s.T(), s.router, http.MethodPost, url, reqdto.PlaceOrderRequest{CouponCode: &code}, headers, "")
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusCreated, nil)
	})

	s.Run("error: 400 when the Idempotency-Key header is missing", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqdto.PlaceOrderRequest{}, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "Idempotency-Key")
	})

	s.Run("error: 400 when the Idempotency-Key header is not a UUID", func() {
		bad := map[string]string{"Idempotency-Key": "not-a-uuid"}
		rec := httptest.PerformRequestWithHeaders(s.T(), s.router, http.MethodPost, url, reqdto.PlaceOrderRequest{}, bad, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "Idempotency-Key")
	})

	s.Run("error: maps usecase errors to proper statuses", func() {
		testCases := []struct {
			name           string
			commandsError  error
			expectedStatus int
			expectedMsg    string
		}{
			{
				name:           "empty cart",
				commandsError:  commands.ErrCartEmpty,
				expectedStatus: http.StatusUnprocessableEntity,
				expectedMsg:    "Cart is empty",
			},
			{
				name:           "coupon not found",
				commandsError:  commands.ErrCouponNotFound,
				expectedStatus: http.StatusNotFound,
				expectedMsg:    "Coupon not found",
			},
			{
				name:           "coupon not applicable",
				commandsError:  commands.ErrInvalidCoupon,
				expectedStatus: http.StatusBadRequest,
				expectedMsg:    "Coupon cannot be applied",
			},
			{
				name:           "product removed",
				commandsError:  commands.ErrProductNotFound,
				expectedStatus: http.StatusNotFound,
				expectedMsg:    "Product no longer available",
			},
			{
				name:           "product inactive",
				commandsError:  commands.ErrProductInactive,
				expectedStatus: http.StatusUnprocessableEntity,
				expectedMsg:    "Product no longer available",
			},
			{
				name:           "key reused with a different request",
				commandsError:  commands.ErrDuplicateOrderRequest,
				expectedStatus: http.StatusConflict,
				expectedMsg:    "different request",
			},
			{
				name:           "request still in progress",
				commandsError:  commands.ErrIdempotencyInProgress,
				expectedStatus: http.StatusConflict,
				expectedMsg:    "already being processed",
			},
			{
				name:           "internal server error",
				commandsError:  errors.New("database error"),
				expectedStatus: http.StatusInternalServerError,
				expectedMsg:    "Internal server error",
			},
		}

		for _, tc := range testCases {
			s.Run(tc.name, func() {
				s.mockCommands.EXPECT().
					PlaceOrder(gomock.Any(), gomock.Any(), s.userID, key).
					Return(nil, tc.commandsError).Times(1)

				rec := httptest.PerformRequestWithHeaders(s.T(), s.router, http.MethodPost, url, reqdto.PlaceOrderRequest{}, headers, "")
				httptest.AssertErrorResponse(s.T(), rec, tc.expectedStatus, tc.expectedMsg)
			})
		}
	})
}

func (s *OrderHandlerTestSuite) TestGetOrder() {
	orderID := uuid.New()
	url := "/orders/" + orderID.String()

	s.Run("success: returns the order", func() {
		s.mockQueries.EXPECT().
			GetByID(gomock.Any(), s.userID, user.RoleCustomer, orderID).
			Return(s.orderView(orderID), nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url, nil, "")

		var response resdto.OrderResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &response)
		s.Equal(orderID, response.ID)
	})

	s.Run("error: 400 for a malformed order ID", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/orders/not-a-uuid", nil, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "Invalid order ID")
	})

	s.Run("error: 404 when the order does not exist", func() {
		s.mockQueries.EXPECT().
			GetByID(gomock.Any(), s.userID, user.RoleCustomer, orderID).
			Return(nil, queries.ErrOrderNotFound).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url, nil, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusNotFound, "Order not found")
	})

	s.Run("error: 404 when the order belongs to someone else", func() {
		s.mockQueries.EXPECT().
			GetByID(gomock.Any(), s.userID, user.RoleCustomer, orderID).
			Return(nil, queries.ErrOrderAccessDenied).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url, nil, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusNotFound, "Order not found")
	})
}

func (s *OrderHandlerTestSuite) TestListOrders() {
	url := "/orders"

	s.Run("success: returns orders with the next cursor", func() {
		items := []*queries.OrderListItem{
			{ID: uuid.New(), Total: decimal.NewFromInt(299), Status: "pending", CreatedAt: time.Now()},
		}
		next := &queries.Cursor{After: "djE6MTIzNDU"}

		s.mockQueries.EXPECT().
			ListByUser(gomock.Any(), s.userID, nil, 0).
			Return(items, next, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url, nil, "")

		var response resdto.OrderListResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &response)
		s.Len(response.Orders, 1)
		s.Equal(next.After, response.NextCursor)
	})

	s.Run("success: passes a valid cursor and limit through", func() {
		cursor := queries.EncodeAfterCursor(time.Now(), uuid.New())

		s.mockQueries.EXPECT().
			ListByUser(gomock.Any(), s.userID, &queries.Cursor{After: cursor}, 5).
			Return(nil, nil, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url+"?after="+cursor+"&limit=5", nil, "")
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, nil)
	})

	s.Run("error: 400 for a malformed cursor", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url+"?after=garbage", nil, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "Invalid cursor")
	})

	s.Run("error: 400 for a non-numeric limit", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url+"?limit=lots", nil, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "Invalid limit")
	})
}

func (s *OrderHandlerTestSuite) TestCancelOrder() {
	orderID := uuid.New()
	url := "/orders/" + orderID.String() + "/cancel"

	s.Run("success: returns 204 No Content", func() {
		s.mockCommands.EXPECT().
			CancelOwn(gomock.Any(), orderID, s.userID).
			Return(nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, nil, "")
		s.Equal(http.StatusNoContent, rec.Code)
	})

	s.Run("error: 404 when the order does not exist", func() {
		s.mockCommands.EXPECT().
			CancelOwn(gomock.Any(), orderID, s.userID).
			Return(commands.ErrOrderNotFound).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, nil, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusNotFound, "Order not found")
	})

	s.Run("error: 422 when the order is past cancellation", func() {
		s.mockCommands.EXPECT().
			CancelOwn(gomock.Any(), orderID, s.userID).
			Return(commands.ErrInvalidStatusChange).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, nil, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusUnprocessableEntity, "no longer be cancelled")
	})
}

func (s *OrderHandlerTestSuite) TestUpdateStatus() {
	orderID := uuid.New()
	url := "/orders/" + orderID.String() + "/status"

	s.Run("success: returns 204 No Content", func() {
		s.mockCommands.EXPECT().
			UpdateStatus(gomock.Any(), orderID, order.StatusPaid).
			Return(nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPut, url, reqdto.UpdateOrderStatusRequest{Status: "paid"}, "")
		s.Equal(http.StatusNoContent, rec.Code)
	})

	s.Run("error: 400 for an unknown status value", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPut, url, reqdto.UpdateOrderStatusRequest{Status: "teleported"}, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "Unknown order status")
	})

	s.Run("error: 422 for a disallowed transition", func() {
		s.mockCommands.EXPECT().
			UpdateStatus(gomock.Any(), orderID, order.StatusDelivered).
			Return(commands.ErrInvalidStatusChange).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPut, url, reqdto.UpdateOrderStatusRequest{Status: "delivered"}, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusUnprocessableEntity, "Status change is not allowed")
	})
}
