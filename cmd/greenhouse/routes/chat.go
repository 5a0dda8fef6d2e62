package routes

import (
	"github.com/labstack/echo/v4"

	"github.com/sproutly/greenhouse/cmd/greenhouse/container"
	"github.com/sproutly/greenhouse/cmd/greenhouse/handlers"
	"github.com/sproutly/greenhouse/cmd/greenhouse/middleware"
	commonmw "github.com/sproutly/greenhouse/common/middleware"
)

// RegisterChatRoutes registers the gardening chat route
func RegisterChatRoutes(e *echo.Echo, c *container.Container) {
	h := handlers.NewChatHandler(c)
	cfg := c.Components.Config

	mw := []echo.MiddlewareFunc{middleware.RequireSession(c.AuthService)}
	if cfg.RateLimit.Enabled {
		mw = append(mw, commonmw.UserRateLimitMiddleware(c.RateLimiter, "chat", cfg.RateLimit.ChatPerMin))
	}

	e.POST("/api/v1/chat", h.Respond, mw...)
}
