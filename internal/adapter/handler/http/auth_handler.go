package http

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/finvero/corebank/internal/domain/dto"
	domainErrors "github.com/finvero/corebank/internal/domain/errors"
	"github.com/finvero/corebank/internal/usecase"
)

// AuthHandler handles login and logout
type AuthHandler struct {
	logger      *zap.Logger
	authService *usecase.AuthService
}

// NewAuthHandler creates a new auth handler instance
func NewAuthHandler(logger *zap.Logger, authService *usecase.AuthService) *AuthHandler {
	return &AuthHandler{
		logger:      logger,
		authService: authService,
	}
}

// Login handles POST /api/v1/auth/login
func (h *AuthHandler) Login(c echo.Context) error {
	var req dto.LoginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid request body"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	token, profile, err := h.authService.Login(c.Request().Context(), req.Username, req.Password)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, dto.LoginResponse{
		Message: "Login successful",
		Token:   token,
		User:    *profile,
	})
}

// Logout handles POST /api/v1/auth/logout
func (h *AuthHandler) Logout(c echo.Context) error {
	authHeader := c.Request().Header.Get("Authorization")
	token := strings.TrimPrefix(authHeader, "Bearer ")
	if token == authHeader || token == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "Authorization header missing or invalid"})
	}

	if err := h.authService.Logout(c.Request().Context(), token); err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, echo.Map{"message": "Logout successful"})
}

// respondError maps a domain error onto its HTTP status with a safe message.
func respondError(c echo.Context, err error) error {
	httpErr := domainErrors.ToHTTPError(err)
	return c.JSON(httpErr.Code, echo.Map{"message": httpErr.Message})
}
