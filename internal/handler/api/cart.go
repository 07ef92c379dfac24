package api

import (
	"errors"
	"net/http"

	reqdto "storefront/internal/handler/dto/request"
	resdto "storefront/internal/handler/dto/response"
	"storefront/internal/handler/middleware"
	"storefront/internal/usecase/commands"
	"storefront/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type CartHandler struct {
	cartCommands commands.CartCommands
	cartQueries  queries.CartQueries
}

func NewCartHandler(cartCommands commands.CartCommands, cartQueries queries.CartQueries) *CartHandler {
	return &CartHandler{
		cartCommands: cartCommands,
		cartQueries:  cartQueries,
	}
}

// @Summary Get cart
// @Description Get the current user's cart
// @Tags cart
// @Produce json
// @Security BearerAuth
// @Success 200 {object} resdto.CartResponse
// @Failure 401 {object} map[string]string
// @Router /cart [get]
func (h *CartHandler) GetCart(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	view, err := h.cartQueries.GetByUser(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, queries.ErrCartNotFound) {
			// An untouched cart is just empty, not an error.
			c.JSON(http.StatusOK, resdto.CartResponse{Items: []resdto.CartItemResponse{}})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, resdto.FromCartView(view))
}

// @Summary Preview cart totals
// @Description Preview checkout totals, optionally with a coupon code
// @Tags cart
// @Produce json
// @Security BearerAuth
// @Param coupon query string false "Coupon code"
// @Success 200 {object} resdto.PricingResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /cart/preview [get]
func (h *CartHandler) PreviewTotals(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	view, err := h.cartQueries.PreviewTotals(c.Request.Context(), userID, c.Query("coupon"))
	if err != nil {
		switch {
		case errors.Is(err, queries.ErrCartNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Cart is empty"})
		case errors.Is(err, queries.ErrCouponNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Coupon not found"})
		case errors.Is(err, queries.ErrCouponNotUsable):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Coupon is not currently usable"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		}
		return
	}

	c.JSON(http.StatusOK, resdto.FromPricingView(view))
}

// @Summary Add cart item
// @Description Add a product to the current user's cart
// @Tags cart
// @Accept json
// @Security BearerAuth
// @Param request body reqdto.AddCartItemRequest true "Cart item"
// @Success 204 "No Content"
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /cart/items [post]
func (h *CartHandler) AddItem(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	var req reqdto.AddCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	if err := h.cartCommands.AddItem(c.Request.Context(), userID, req.ProductID, req.Quantity); err != nil {
		h.writeCartError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// @Summary Update cart item
// @Description Change the quantity of a cart line
// @Tags cart
// @Accept json
// @Security BearerAuth
// @Param productId path string true "Product ID"
// @Param request body reqdto.UpdateCartItemRequest true "New quantity"
// @Success 204 "No Content"
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /cart/items/{productId} [put]
func (h *CartHandler) UpdateItem(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	productID, err := uuid.Parse(c.Param("productId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product ID format"})
		return
	}

	var req reqdto.UpdateCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	if err := h.cartCommands.UpdateItemQuantity(c.Request.Context(), userID, productID, req.Quantity); err != nil {
		h.writeCartError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// @Summary Remove cart item
// @Description Remove a product from the cart
// @Tags cart
// @Security BearerAuth
// @Param productId path string true "Product ID"
// @Success 204 "No Content"
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /cart/items/{productId} [delete]
func (h *CartHandler) RemoveItem(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	productID, err := uuid.Parse(c.Param("productId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product ID format"})
		return
	}

	if err := h.cartCommands.RemoveItem(c.Request.Context(), userID, productID); err != nil {
		h.writeCartError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// @Summary Clear cart
// @Description Remove all items from the cart
// @Tags cart
// @Security BearerAuth
// @Success 204 "No Content"
// @Failure 401 {object} map[string]string
// @Router /cart [delete]
func (h *CartHandler) ClearCart(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	if err := h.cartCommands.ClearCart(c.Request.Context(), userID); err != nil {
		if errors.Is(err, commands.ErrCartNotFound) {
			c.Status(http.StatusNoContent)
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *CartHandler) writeCartError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, commands.ErrProductNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
	case errors.Is(err, commands.ErrProductInactive):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Product is not available"})
	case errors.Is(err, commands.ErrCartNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Cart is empty"})
	case errors.Is(err, commands.ErrCartItemNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Item not in cart"})
	case errors.Is(err, commands.ErrDomainValidation):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Invalid cart operation"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
