package api

import (
	"errors"
	"net/http"

	reqdto "storefront/internal/handler/dto/request"
	resdto "storefront/internal/handler/dto/response"
	"storefront/internal/handler/middleware"
	"storefront/internal/pkg/config"
	"storefront/internal/pkg/cookie"
	"storefront/internal/pkg/jwt"
	"storefront/internal/usecase/commands"
	"storefront/internal/usecase/queries"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	authCommands commands.AuthCommands
	userQueries  queries.UserQueries
	jwtService   *jwt.Service
	cookieCfg    config.CookieConfig
}

func NewAuthHandler(authCommands commands.AuthCommands, userQueries queries.UserQueries, jwtService *jwt.Service, cookieCfg config.CookieConfig) *AuthHandler {
	return &AuthHandler{
		authCommands: authCommands,
		userQueries:  userQueries,
		jwtService:   jwtService,
		cookieCfg:    cookieCfg,
	}
}

// @Summary Register account
// @Description Create a new customer account
// @Tags auth
// @Accept json
// @Produce json
// @Param request body reqdto.RegisterRequest true "Registration request"
// @Success 201 {object} resdto.RegisterResponse
// @Failure 400 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req reqdto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}

	result, err := h.authCommands.Register(c.Request.Context(), commands.RegisterRequest{
		Email:    req.Email,
		Password: req.Password,
		Phone:    req.Phone,
	})
	if err != nil {
		switch {
		case errors.Is(err, commands.ErrEmailAlreadyUsed):
			c.JSON(http.StatusConflict, gin.H{
				"error": "Email address already in use",
			})
		case errors.Is(err, commands.ErrDomainValidation):
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Invalid request data",
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Internal server error",
			})
		}
		return
	}

	c.JSON(http.StatusCreated, resdto.RegisterResponse{UserID: result.UserID})
}

// @Summary User login
// @Description Login with email and password, issuing token cookies
// @Tags auth
// @Accept json
// @Produce json
// @Param request body reqdto.LoginRequest true "Login request"
// @Success 200 {object} resdto.LoginResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req reqdto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}

	credentials, err := req.ToDomain()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request data",
		})
		return
	}

	result, err := h.authCommands.Login(c.Request.Context(), credentials.Email().Value(), credentials.Password().Value())
	if err != nil {
		switch {
		case errors.Is(err, commands.ErrInvalidCredentials), errors.Is(err, commands.ErrUserNotFound):
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Invalid email or password",
			})
		case errors.Is(err, commands.ErrUserInactive):
			c.JSON(http.StatusForbidden, gin.H{
				"error": "Account is inactive",
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Internal server error",
			})
		}
		return
	}

	cookie.SetTokenCookies(c, h.cookieCfg,
		result.TokenPair.AccessToken, result.TokenPair.RefreshToken,
		h.jwtService.AccessTokenDuration(), h.jwtService.RefreshTokenDuration(),
	)

	user, err := h.userQueries.GetCurrentUser(c.Request.Context(), result.UserID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	c.JSON(http.StatusOK, resdto.LoginResponse{User: user})
}

// @Summary Refresh tokens
// @Description Rotate the access and refresh token cookies
// @Tags auth
// @Produce json
// @Success 204 "No Content"
// @Failure 401 {object} map[string]string
// @Router /auth/refresh [post]
func (h *AuthHandler) Refresh(c *gin.Context) {
	refreshToken := cookie.GetRefreshToken(c)
	if refreshToken == "" {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error": "Refresh token required",
		})
		return
	}

	tokenPair, err := h.authCommands.RefreshToken(c.Request.Context(), refreshToken)
	if err != nil {
		cookie.ClearTokenCookies(c, h.cookieCfg)
		c.JSON(http.StatusUnauthorized, gin.H{
			"error": "Invalid or expired refresh token",
		})
		return
	}

	cookie.SetTokenCookies(c, h.cookieCfg,
		tokenPair.AccessToken, tokenPair.RefreshToken,
		h.jwtService.AccessTokenDuration(), h.jwtService.RefreshTokenDuration(),
	)

	c.Status(http.StatusNoContent)
}

// @Summary User logout
// @Description Clear token cookies for the current session
// @Tags auth
// @Security BearerAuth
// @Success 204 "No Content"
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	cookie.ClearTokenCookies(c, h.cookieCfg)
	c.Status(http.StatusNoContent)
}

// @Summary Get current user
// @Description Get current authenticated user information
// @Tags auth
// @Security BearerAuth
// @Produce json
// @Success 200 {object} queries.AuthorizedUserView
// @Failure 401 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /auth/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error": "User not authenticated",
		})
		return
	}

	user, err := h.userQueries.GetCurrentUser(c.Request.Context(), userID)
	if err != nil {
		switch {
		case errors.Is(err, queries.ErrUserNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"error": "User not found",
			})
		case errors.Is(err, queries.ErrUserInactive):
			c.JSON(http.StatusForbidden, gin.H{
				"error": "Account is inactive",
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Internal server error",
			})
		}
		return
	}

	c.JSON(http.StatusOK, user)
}
