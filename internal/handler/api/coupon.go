package api

import (
	"errors"
	"net/http"
	"strconv"

	reqdto "storefront/internal/handler/dto/request"
	resdto "storefront/internal/handler/dto/response"
	"storefront/internal/usecase/commands"
	"storefront/internal/usecase/queries"

	"github.com/gin-gonic/gin"
)

const defaultCouponListLimit = 50

type CouponHandler struct {
	couponCommands commands.CouponCommands
	couponQueries  queries.CouponQueries
}

func NewCouponHandler(couponCommands commands.CouponCommands, couponQueries queries.CouponQueries) *CouponHandler {
	return &CouponHandler{
		couponCommands: couponCommands,
		couponQueries:  couponQueries,
	}
}

// @Summary Create coupon
// @Description Create a coupon with its discount rules (admin only)
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body reqdto.CreateCouponRequest true "Coupon definition"
// @Success 201 {object} map[string]string
// @Failure 400 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Failure 422 {object} map[string]string
// @Router /admin/coupons [post]
func (h *CouponHandler) CreateCoupon(c *gin.Context) {
	var req reqdto.CreateCouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	result, err := h.couponCommands.CreateCoupon(c.Request.Context(), req.ToCommand())
	if err != nil {
		switch {
		case errors.Is(err, commands.ErrDuplicateCouponCode):
			c.JSON(http.StatusConflict, gin.H{"error": "Coupon code already exists"})
		case errors.Is(err, commands.ErrDomainValidation):
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Invalid coupon definition"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{"id": result.CouponID.String()})
}

// @Summary Get coupon
// @Description Look up a coupon by code (admin only)
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param code path string true "Coupon code"
// @Success 200 {object} resdto.CouponResponse
// @Failure 404 {object} map[string]string
// @Router /admin/coupons/{code} [get]
func (h *CouponHandler) GetCoupon(c *gin.Context) {
	view, err := h.couponQueries.GetByCode(c.Request.Context(), c.Param("code"))
	if err != nil {
		if errors.Is(err, queries.ErrCouponNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Coupon not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, resdto.FromCouponView(view))
}

// @Summary List coupons
// @Description List coupons, newest first (admin only)
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param limit query int false "Page size"
// @Success 200 {array} resdto.CouponResponse
// @Failure 400 {object} map[string]string
// @Router /admin/coupons [get]
func (h *CouponHandler) ListCoupons(c *gin.Context) {
	limit := defaultCouponListLimit
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid limit"})
			return
		}
		limit = parsed
	}

	views, err := h.couponQueries.List(c.Request.Context(), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, resdto.FromCouponViews(views))
}
