package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	resdto "storefront/internal/handler/dto/response"
	"storefront/internal/usecase/queries"

	"github.com/gin-gonic/gin"
)

const defaultTopProductsLimit = 10

type ReportHandler struct {
	reportQueries queries.ReportQueries
}

func NewReportHandler(reportQueries queries.ReportQueries) *ReportHandler {
	return &ReportHandler{reportQueries: reportQueries}
}

// @Summary Sales KPIs
// @Description Aggregate order count, revenue, discount and coupon usage for a period (admin only)
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param from query string true "Period start (RFC 3339 or YYYY-MM-DD)"
// @Param to query string true "Period end (RFC 3339 or YYYY-MM-DD)"
// @Success 200 {object} resdto.KPIReportResponse
// @Failure 400 {object} map[string]string
// @Router /admin/reports/kpis [get]
func (h *ReportHandler) KPIs(c *gin.Context) {
	rng, ok := h.parseRange(c)
	if !ok {
		return
	}

	report, err := h.reportQueries.KPIs(c.Request.Context(), rng)
	if err != nil {
		h.writeReportError(c, err)
		return
	}

	c.JSON(http.StatusOK, resdto.FromKPIReport(report))
}

// @Summary Daily revenue
// @Description Revenue and order counts per day for a period (admin only)
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param from query string true "Period start (RFC 3339 or YYYY-MM-DD)"
// @Param to query string true "Period end (RFC 3339 or YYYY-MM-DD)"
// @Success 200 {array} resdto.RevenuePointResponse
// @Failure 400 {object} map[string]string
// @Router /admin/reports/revenue [get]
func (h *ReportHandler) RevenueByDay(c *gin.Context) {
	rng, ok := h.parseRange(c)
	if !ok {
		return
	}

	points, err := h.reportQueries.RevenueByDay(c.Request.Context(), rng)
	if err != nil {
		h.writeReportError(c, err)
		return
	}

	c.JSON(http.StatusOK, resdto.FromRevenuePoints(points))
}

// @Summary Top products
// @Description Best-selling products by quantity for a period (admin only)
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param from query string true "Period start (RFC 3339 or YYYY-MM-DD)"
// @Param to query string true "Period end (RFC 3339 or YYYY-MM-DD)"
// @Param limit query int false "Number of products"
// @Success 200 {array} resdto.TopProductResponse
// @Failure 400 {object} map[string]string
// @Router /admin/reports/top-products [get]
func (h *ReportHandler) TopProducts(c *gin.Context) {
	rng, ok := h.parseRange(c)
	if !ok {
		return
	}

	limit := defaultTopProductsLimit
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid limit"})
			return
		}
		limit = parsed
	}

	products, err := h.reportQueries.TopProducts(c.Request.Context(), rng, limit)
	if err != nil {
		h.writeReportError(c, err)
		return
	}

	c.JSON(http.StatusOK, resdto.FromTopProducts(products))
}

func (h *ReportHandler) parseRange(c *gin.Context) (queries.ReportRange, bool) {
	from, ok := h.parseTime(c, "from")
	if !ok {
		return queries.ReportRange{}, false
	}
	to, ok := h.parseTime(c, "to")
	if !ok {
		return queries.ReportRange{}, false
	}
	return queries.ReportRange{From: from, To: to}, true
}

func (h *ReportHandler) parseTime(c *gin.Context, name string) (time.Time, bool) {
	raw := c.Query(name)
	if raw == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing " + name + " parameter"})
		return time.Time{}, false
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, true
	}
	if t, err := time.Parse("2006-01-02", raw); err == nil {
		return t, true
	}
	c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid " + name + " parameter"})
	return time.Time{}, false
}

func (h *ReportHandler) writeReportError(c *gin.Context, err error) {
	if errors.Is(err, queries.ErrInvalidReportRange) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Report range must be a non-empty interval"})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
}
