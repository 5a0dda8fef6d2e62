package routes

import (
	"github.com/labstack/echo/v4"

	"github.com/sproutly/greenhouse/cmd/greenhouse/container"
	"github.com/sproutly/greenhouse/cmd/greenhouse/handlers"
	"github.com/sproutly/greenhouse/cmd/greenhouse/middleware"
)

// RegisterAuthRoutes registers account and session routes
func RegisterAuthRoutes(e *echo.Echo, c *container.Container) {
	h := handlers.NewAuthHandler(c)

	auth := e.Group("/api/v1/auth")
	{
		auth.POST("/signup", h.Signup) // POST /api/v1/auth/signup
		auth.POST("/login", h.Login)   // POST /api/v1/auth/login
		auth.POST("/logout", h.Logout) // POST /api/v1/auth/logout

		auth.GET("/me", h.Me, middleware.RequireSession(c.AuthService)) // GET /api/v1/auth/me
	}
}
