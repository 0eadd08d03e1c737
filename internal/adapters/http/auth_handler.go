package http

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/dayflow/core/internal/application/services"
	"github.com/dayflow/core/internal/domain/entities"
	"github.com/dayflow/core/internal/infrastructure/logger"
	"github.com/dayflow/core/internal/ports"
)

// AuthHandler handles authentication-related requests
type AuthHandler struct {
	authService *services.AuthService
	logger      *logger.Logger
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *services.AuthService, logger *logger.Logger) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		logger:      logger,
	}
}

// Register godoc
// @Summary Register a new account
// @Description Create an account and seed its task collections
// @Tags auth
// @Accept json
// @Produce json
// @Param request body ports.RegisterRequest true "Registration data"
// @Success 201 {object} ports.AuthResponse
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /auth/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req ports.RegisterRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	response, err := h.authService.Register(c.Request().Context(), req)
	if err != nil {
		if errors.Is(err, entities.ErrEmailTaken) {
			return echo.NewHTTPError(http.StatusConflict, "Email already registered")
		}
		h.logger.Error("Registration failed", "error", err, "email", req.Email)
		return echo.NewHTTPError(http.StatusInternalServerError, "Registration failed")
	}

	return c.JSON(http.StatusCreated, response)
}

// Login godoc
// @Summary Log in
// @Description Authenticate with email and password
// @Tags auth
// @Accept json
// @Produce json
// @Param request body ports.LoginRequest true "Credentials"
// @Success 200 {object} ports.AuthResponse
// @Failure 401 {object} ErrorResponse
// @Router /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req ports.LoginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	response, err := h.authService.Login(c.Request().Context(), req)
	if err != nil {
		h.logger.Warn("Login failed", "error", err, "email", req.Email)
		return echo.NewHTTPError(http.StatusUnauthorized, "Invalid credentials")
	}

	return c.JSON(http.StatusOK, response)
}

// RefreshToken godoc
// @Summary Refresh the token pair
// @Tags auth
// @Accept json
// @Produce json
// @Param request body RefreshTokenRequest true "Refresh token"
// @Success 200 {object} ports.AuthResponse
// @Failure 401 {object} ErrorResponse
// @Router /auth/refresh [post]
func (h *AuthHandler) RefreshToken(c echo.Context) error {
	var req RefreshTokenRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	response, err := h.authService.RefreshToken(c.Request().Context(), req.RefreshToken)
	if err != nil {
		h.logger.Warn("Token refresh failed", "error", err)
		return echo.NewHTTPError(http.StatusUnauthorized, "Invalid refresh token")
	}

	return c.JSON(http.StatusOK, response)
}

// Logout godoc
// @Summary Log out
// @Description Revoke every refresh token of the authenticated user
// @Tags auth
// @Produce json
// @Success 200 {object} MessageResponse
// @Security BearerAuth
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	userID := getUserIDFromContext(c)

	if err := h.authService.Logout(c.Request().Context(), userID); err != nil {
		h.logger.Error("Logout failed", "error", err, "user_id", userID)
		return echo.NewHTTPError(http.StatusInternalServerError, "Logout failed")
	}

	return c.JSON(http.StatusOK, MessageResponse{Message: "Logged out successfully"})
}

// Me godoc
// @Summary Get the authenticated user
// @Tags auth
// @Produce json
// @Success 200 {object} entities.User
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /auth/me [get]
func (h *AuthHandler) Me(c echo.Context) error {
	userID := getUserIDFromContext(c)

	user, err := h.authService.GetUser(c.Request().Context(), userID)
	if err != nil {
		logFailure(h.logger, "Get current user failed", err, "user_id", userID)
		return domainHTTPError(err)
	}

	return c.JSON(http.StatusOK, user)
}
