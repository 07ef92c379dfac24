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
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type ProductHandler struct {
	productCommands commands.ProductCommands
	productQueries  queries.ProductQueries
}

func NewProductHandler(productCommands commands.ProductCommands, productQueries queries.ProductQueries) *ProductHandler {
	return &ProductHandler{
		productCommands: productCommands,
		productQueries:  productQueries,
	}
}

// @Summary List products
// @Description List active catalog products with optional filters
// @Tags products
// @Produce json
// @Param category query string false "Filter by category"
// @Param min_price query string false "Minimum price"
// @Param max_price query string false "Maximum price"
// @Param limit query int false "Max results"
// @Success 200 {array} resdto.ProductResponse
// @Router /products [get]
func (h *ProductHandler) ListProducts(c *gin.Context) {
	filter := queries.ProductFilter{
		Category: c.Query("category"),
	}

	if raw := c.Query("min_price"); raw != "" {
		price, err := decimal.NewFromString(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid min_price"})
			return
		}
		filter.MinPrice = &price
	}
	if raw := c.Query("max_price"); raw != "" {
		price, err := decimal.NewFromString(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid max_price"})
			return
		}
		filter.MaxPrice = &price
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "0"))

	views, err := h.productQueries.List(c.Request.Context(), filter, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, resdto.FromProductViews(views))
}

// @Summary Get product
// @Description Get a single product by ID
// @Tags products
// @Produce json
// @Param id path string true "Product ID"
// @Success 200 {object} resdto.ProductResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /products/{id} [get]
func (h *ProductHandler) GetProduct(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product ID format"})
		return
	}

	view, err := h.productQueries.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, queries.ErrProductNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, resdto.FromProductView(view))
}

// @Summary Create product
// @Description Create a catalog product (admin only)
// @Tags products
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body reqdto.UpsertProductRequest true "Product request"
// @Success 201 {object} map[string]string
// @Failure 400 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Router /admin/products [post]
func (h *ProductHandler) CreateProduct(c *gin.Context) {
	var req reqdto.UpsertProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	result, err := h.productCommands.CreateProduct(c.Request.Context(), req.ToCommand())
	if err != nil {
		if errors.Is(err, commands.ErrDomainValidation) {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Invalid product data"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"id": result.ProductID.String()})
}

// @Summary Update product
// @Description Replace a catalog product's attributes (admin only)
// @Tags products
// @Accept json
// @Security BearerAuth
// @Param id path string true "Product ID"
// @Param request body reqdto.UpsertProductRequest true "Product request"
// @Success 204 "No Content"
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /admin/products/{id} [put]
func (h *ProductHandler) UpdateProduct(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product ID format"})
		return
	}

	var req reqdto.UpsertProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	if err := h.productCommands.UpdateProduct(c.Request.Context(), id, req.ToCommand()); err != nil {
		switch {
		case errors.Is(err, commands.ErrProductNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		case errors.Is(err, commands.ErrDomainValidation):
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Invalid product data"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		}
		return
	}

	c.Status(http.StatusNoContent)
}

// @Summary Set product active flag
// @Description Activate or deactivate a product (admin only)
// @Tags products
// @Accept json
// @Security BearerAuth
// @Param id path string true "Product ID"
// @Success 204 "No Content"
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /admin/products/{id}/active [put]
func (h *ProductHandler) SetActive(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product ID format"})
		return
	}

	var req struct {
		Active *bool `json:"active" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	if err := h.productCommands.SetActive(c.Request.Context(), id, *req.Active); err != nil {
		if errors.Is(err, commands.ErrProductNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	c.Status(http.StatusNoContent)
}
