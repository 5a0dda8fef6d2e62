package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/sproutly/greenhouse/cmd/greenhouse/container"
	"github.com/sproutly/greenhouse/cmd/greenhouse/middleware"
	"github.com/sproutly/greenhouse/cmd/greenhouse/service"
	"github.com/sproutly/greenhouse/common/bootstrap"
)

// AuthHandler handles HTTP requests for accounts and sessions
type AuthHandler struct {
	components  *bootstrap.Components
	authService *service.AuthService
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(c *container.Container) *AuthHandler {
	return &AuthHandler{
		components:  c.Components,
		authService: c.AuthService,
	}
}

// Signup creates a new account
// POST /api/v1/auth/signup
func (h *AuthHandler) Signup(c echo.Context) error {
	ctx := c.Request().Context()

	var req struct {
		Email       string `json:"email" validate:"required,email"`
		Password    string `json:"password" validate:"required,min=8"`
		DisplayName string `json:"display_name" validate:"required"`
	}

	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]interface{}{
			"error": "invalid request body",
		})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]interface{}{
			"error": err.Error(),
		})
	}

	user, err := h.authService.Signup(ctx, req.Email, req.Password, req.DisplayName)
	if errors.Is(err, service.ErrEmailTaken) {
		return c.JSON(http.StatusBadRequest, map[string]interface{}{
			"error": "email is already registered",
		})
	}
	if err != nil {
		h.components.Logger.Error("signup failed", "error", err)
		return c.JSON(http.StatusInternalServerError, map[string]interface{}{
			"error": "failed to create account",
		})
	}

	return c.JSON(http.StatusCreated, map[string]interface{}{
		"data": user,
	})
}

// Login verifies credentials and returns a session token
// POST /api/v1/auth/login
func (h *AuthHandler) Login(c echo.Context) error {
	ctx := c.Request().Context()

	var req struct {
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required"`
	}

	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]interface{}{
			"error": "invalid request body",
		})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]interface{}{
			"error": err.Error(),
		})
	}

	token, user, err := h.authService.Login(ctx, req.Email, req.Password)
	if errors.Is(err, service.ErrInvalidCredentials) {
		return c.JSON(http.StatusUnauthorized, map[string]interface{}{
			"error": "invalid email or password",
		})
	}
	if err != nil {
		h.components.Logger.Error("login failed", "error", err)
		return c.JSON(http.StatusInternalServerError, map[string]interface{}{
			"error": "failed to log in",
		})
	}

	c.SetCookie(&http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(h.components.Config.Auth.SessionTTL.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	return c.JSON(http.StatusOK, map[string]interface{}{
		"token": token,
		"user":  user,
	})
}

// Logout invalidates the current session
// POST /api/v1/auth/logout
func (h *AuthHandler) Logout(c echo.Context) error {
	ctx := c.Request().Context()

	token := middleware.ExtractToken(c)
	if err := h.authService.Logout(ctx, token); err != nil && !errors.Is(err, service.ErrNotAuthenticated) {
		h.components.Logger.Warn("logout failed", "error", err)
	}

	c.SetCookie(&http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": "logged out",
	})
}

// Me returns the authenticated user
// GET /api/v1/auth/me
func (h *AuthHandler) Me(c echo.Context) error {
	user := middleware.GetUser(c)
	if user == nil {
		return c.JSON(http.StatusUnauthorized, map[string]interface{}{
			"error": "authentication required",
		})
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"data": user,
	})
}
