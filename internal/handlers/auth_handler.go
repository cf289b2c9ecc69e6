package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/xpanvictor/portfolio/internal/domains/user"
	"github.com/xpanvictor/portfolio/pkg/Logger"
)

// AuthHandler serves admin sign-in.
type AuthHandler struct {
	userService user.UserService
	logger      *Logger.Logger
}

func NewAuthHandler(userService user.UserService, logger *Logger.Logger) *AuthHandler {
	return &AuthHandler{
		userService: userService,
		logger:      logger,
	}
}

// Login handles admin login
// @Summary Admin login
// @Description Authenticate the site admin with email and password
// @Tags Authentication
// @Accept json
// @Produce json
// @Param request body user.LoginRequest true "Login credentials"
// @Success 200 {object} LoginResponse "Login successful with user data and tokens"
// @Failure 400 {object} ErrorResponse "Invalid request data"
// @Failure 401 {object} ErrorResponse "Invalid credentials"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req user.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "Invalid request data",
			Details: err.Error(),
		})
		return
	}

	userResponse, tokens, err := h.userService.Login(c.Request.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, user.ErrInvalidCredentials):
			c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Invalid credentials"})
		default:
			h.logger.Errorf("login error: %v", err)
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Internal server error"})
		}
		return
	}

	c.JSON(http.StatusOK, LoginResponse{
		Message: "Login successful",
		User:    *userResponse,
		Tokens:  *tokens,
	})
}

// RefreshToken handles token refresh
// @Summary Refresh access token
// @Description Exchange a refresh token for a new token pair
// @Tags Authentication
// @Accept json
// @Produce json
// @Param request body RefreshTokenRequest true "Refresh token data"
// @Success 200 {object} RefreshTokenResponse "Token refreshed successfully"
// @Failure 400 {object} ErrorResponse "Invalid request data"
// @Failure 401 {object} ErrorResponse "Invalid refresh token"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Router /auth/refresh [post]
func (h *AuthHandler) RefreshToken(c *gin.Context) {
	var req RefreshTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "Invalid request data",
			Details: err.Error(),
		})
		return
	}

	tokens, err := h.userService.RefreshToken(c.Request.Context(), req.RefreshToken)
	if err != nil {
		switch {
		case errors.Is(err, user.ErrInvalidToken), errors.Is(err, user.ErrUserNotFound):
			c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Invalid refresh token"})
		default:
			h.logger.Errorf("token refresh error: %v", err)
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Internal server error"})
		}
		return
	}

	c.JSON(http.StatusOK, RefreshTokenResponse{
		Message: "Token refreshed successfully",
		Tokens:  *tokens,
	})
}

// Me returns the signed-in admin
// @Summary Current admin
// @Tags Authentication
// @Produce json
// @Security BearerAuth
// @Success 200 {object} ProfileResponse
// @Failure 401 {object} ErrorResponse "User not authenticated"
// @Failure 404 {object} ErrorResponse "User not found"
// @Router /auth/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	info, ok := ExtractUserInfo(c)
	if !ok {
		return
	}

	userResponse, err := h.userService.GetProfile(c.Request.Context(), info.UserID.String())
	if err != nil {
		switch {
		case errors.Is(err, user.ErrUserNotFound):
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "User not found"})
		default:
			h.logger.Errorf("get profile error: %v", err)
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Internal server error"})
		}
		return
	}

	c.JSON(http.StatusOK, ProfileResponse{User: *userResponse})
}

func (h *AuthHandler) RegisterAuthRoutes(r *gin.RouterGroup) {
	public := r.Group("/auth")
	{
		public.POST("/login", h.Login)
		public.POST("/refresh", h.RefreshToken)
	}

	protected := r.Group("/auth")
	protected.Use(AuthMiddleware(h.userService, h.logger))
	{
		protected.GET("/me", h.Me)
	}
}
