package api

import (
	"errors"
	"net/http"
	"strconv"

	"storefront/internal/domain/order"
	reqdto "storefront/internal/handler/dto/request"
	resdto "storefront/internal/handler/dto/response"
	"storefront/internal/handler/middleware"
	"storefront/internal/usecase/commands"
	"storefront/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const idempotencyKeyHeader = "Idempotency-Key"

type OrderHandler struct {
	orderCommands commands.OrderCommands
	orderQueries  queries.OrderQueries
}

func NewOrderHandler(orderCommands commands.OrderCommands, orderQueries queries.OrderQueries) *OrderHandler {
	return &OrderHandler{
		orderCommands: orderCommands,
		orderQueries:  orderQueries,
	}
}

// @Summary Place order
// @Description Place an order from the current cart. Requires an Idempotency-Key header; retries with the same key replay the original result.
// @Tags orders
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param Idempotency-Key header string true "Idempotency key (UUID)"
// @Param request body reqdto.PlaceOrderRequest true "Order request"
// @Success 200 {object} resdto.OrderResponse "Replayed result"
// @Success 201 {object} resdto.OrderResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Failure 422 {object} map[string]string
// @Router /orders [post]
func (h *OrderHandler) PlaceOrder(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	idempotencyKey, err := uuid.Parse(c.GetHeader(idempotencyKeyHeader))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Idempotency-Key header must be a valid UUID"})
		return
	}

	var req reqdto.PlaceOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	result, err := h.orderCommands.PlaceOrder(
		c.Request.Context(),
		commands.PlaceOrderRequest{CouponCode: req.GetCouponCode()},
		userID,
		idempotencyKey,
	)
	if err != nil {
		switch {
		case errors.Is(err, commands.ErrCartEmpty):
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Cart is empty"})
		case errors.Is(err, commands.ErrCouponNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Coupon not found"})
		case errors.Is(err, commands.ErrInvalidCoupon):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Coupon cannot be applied to this order"})
		case errors.Is(err, commands.ErrProductNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Product no longer available"})
		case errors.Is(err, commands.ErrProductInactive):
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Product no longer available"})
		case errors.Is(err, commands.ErrDuplicateOrderRequest):
			c.JSON(http.StatusConflict, gin.H{"error": "Idempotency key already used with a different request"})
		case errors.Is(err, commands.ErrIdempotencyInProgress):
			c.JSON(http.StatusConflict, gin.H{"error": "Order request is already being processed"})
		case errors.Is(err, commands.ErrDomainValidation):
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Invalid order"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		}
		return
	}

	status := http.StatusCreated
	if result.IsReplayed {
		status = http.StatusOK
	}
	c.JSON(status, resdto.FromOrderView(result.Order))
}

// @Summary Get order
// @Description Get an order by ID. Customers can only read their own orders.
// @Tags orders
// @Produce json
// @Security BearerAuth
// @Param id path string true "Order ID"
// @Success 200 {object} resdto.OrderResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /orders/{id} [get]
func (h *OrderHandler) GetOrder(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	role, ok := middleware.GetUserRole(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid order ID format"})
		return
	}

	view, err := h.orderQueries.GetByID(c.Request.Context(), userID, role, orderID)
	if err != nil {
		switch {
		case errors.Is(err, queries.ErrOrderNotFound), errors.Is(err, queries.ErrOrderAccessDenied):
			// Access denials read as not-found so order IDs cannot be probed.
			c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		}
		return
	}

	c.JSON(http.StatusOK, resdto.FromOrderView(view))
}

// @Summary List orders
// @Description List the current user's orders, newest first, with cursor pagination
// @Tags orders
// @Produce json
// @Security BearerAuth
// @Param after query string false "Cursor from a previous page"
// @Param limit query int false "Page size (max 200)"
// @Success 200 {object} resdto.OrderListResponse
// @Failure 400 {object} map[string]string
// @Router /orders [get]
func (h *OrderHandler) ListOrders(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	var after *queries.Cursor
	if raw := c.Query("after"); raw != "" {
		if _, _, err := queries.DecodeAfterCursor(raw); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid cursor"})
			return
		}
		after = &queries.Cursor{After: raw}
	}

	limit := 0
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid limit"})
			return
		}
		limit = parsed
	}

	items, next, err := h.orderQueries.ListByUser(c.Request.Context(), userID, after, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, resdto.FromOrderList(items, next))
}

// @Summary Cancel order
// @Description Cancel one of the current user's orders while it is still cancellable
// @Tags orders
// @Security BearerAuth
// @Param id path string true "Order ID"
// @Success 204 "No Content"
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 422 {object} map[string]string
// @Router /orders/{id}/cancel [post]
func (h *OrderHandler) CancelOrder(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid order ID format"})
		return
	}

	if err := h.orderCommands.CancelOwn(c.Request.Context(), orderID, userID); err != nil {
		switch {
		case errors.Is(err, commands.ErrOrderNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		case errors.Is(err, commands.ErrInvalidStatusChange):
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Order can no longer be cancelled"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		}
		return
	}

	c.Status(http.StatusNoContent)
}

// @Summary Update order status
// @Description Advance an order through its status lifecycle (admin only)
// @Tags admin
// @Accept json
// @Security BearerAuth
// @Param id path string true "Order ID"
// @Param request body reqdto.UpdateOrderStatusRequest true "Next status"
// @Success 204 "No Content"
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 422 {object} map[string]string
// @Router /admin/orders/{id}/status [put]
func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid order ID format"})
		return
	}

	var req reqdto.UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	next := order.Status(req.Status)
	if !next.IsValid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown order status"})
		return
	}

	if err := h.orderCommands.UpdateStatus(c.Request.Context(), orderID, next); err != nil {
		switch {
		case errors.Is(err, commands.ErrOrderNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		case errors.Is(err, commands.ErrInvalidStatusChange):
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Status change is not allowed"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		}
		return
	}

	c.Status(http.StatusNoContent)
}
