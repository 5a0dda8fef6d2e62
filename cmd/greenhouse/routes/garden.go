package routes

import (
	"github.com/labstack/echo/v4"

	"github.com/sproutly/greenhouse/cmd/greenhouse/container"
	"github.com/sproutly/greenhouse/cmd/greenhouse/handlers"
	"github.com/sproutly/greenhouse/cmd/greenhouse/middleware"
)

// RegisterGardenRoutes registers garden membership and care-schedule routes
func RegisterGardenRoutes(e *echo.Echo, c *container.Container) {
	h := handlers.NewGardenHandler(c)

	garden := e.Group("/api/v1/garden", middleware.RequireSession(c.AuthService))
	{
		garden.POST("", h.Add)                           // POST /api/v1/garden
		garden.GET("", h.List)                           // GET /api/v1/garden
		garden.DELETE("/:id", h.Remove)                  // DELETE /api/v1/garden/:id
		garden.POST("/:id/water", h.Water)               // POST /api/v1/garden/:id/water
		garden.PATCH("/:id/schedule", h.UpdateSchedule)  // PATCH /api/v1/garden/:id/schedule
	}
}
