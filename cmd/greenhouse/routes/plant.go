package routes

import (
	"github.com/labstack/echo/v4"

	"github.com/sproutly/greenhouse/cmd/greenhouse/container"
	"github.com/sproutly/greenhouse/cmd/greenhouse/handlers"
	"github.com/sproutly/greenhouse/cmd/greenhouse/middleware"
	commonmw "github.com/sproutly/greenhouse/common/middleware"
)

// RegisterPlantRoutes registers identification and plant-listing routes
func RegisterPlantRoutes(e *echo.Echo, c *container.Container) {
	h := handlers.NewPlantHandler(c)
	cfg := c.Components.Config

	plants := e.Group("/api/v1/plants", middleware.RequireSession(c.AuthService))
	{
		// Identification calls the oracle, so it is rate limited per user
		var identifyMW []echo.MiddlewareFunc
		if cfg.RateLimit.Enabled {
			identifyMW = append(identifyMW, commonmw.UserRateLimitMiddleware(c.RateLimiter, "identify", cfg.RateLimit.IdentifyPerMin))
		}

		plants.POST("", h.Identify, identifyMW...) // POST /api/v1/plants
		plants.GET("", h.List)                     // GET /api/v1/plants
		plants.GET("/:id", h.Get)                  // GET /api/v1/plants/:id
	}
}
