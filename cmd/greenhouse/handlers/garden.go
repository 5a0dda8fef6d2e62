package handlers

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/sproutly/greenhouse/cmd/greenhouse/container"
	"github.com/sproutly/greenhouse/cmd/greenhouse/middleware"
	"github.com/sproutly/greenhouse/cmd/greenhouse/service"
	"github.com/sproutly/greenhouse/common/bootstrap"
)

// GardenHandler handles HTTP requests for garden memberships and care schedules
type GardenHandler struct {
	components    *bootstrap.Components
	gardenService *service.GardenService
}

// NewGardenHandler creates a new garden handler
func NewGardenHandler(c *container.Container) *GardenHandler {
	return &GardenHandler{
		components:    c.Components,
		gardenService: c.GardenService,
	}
}

// Add creates a membership plus its default care schedule
// POST /api/v1/garden
func (h *GardenHandler) Add(c echo.Context) error {
	ctx := c.Request().Context()
	userID := middleware.GetUserID(c)

	var req struct {
		PlantID  string  `json:"plant_id" validate:"required,uuid"`
		Nickname *string `json:"nickname"`
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

	plantID, err := uuid.Parse(req.PlantID)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]interface{}{
			"error": "invalid plant id",
		})
	}

	garden, err := h.gardenService.Add(ctx, userID, plantID, req.Nickname)
	if err != nil {
		h.components.Logger.Error("failed to add to garden", "error", err, "plant_id", plantID)
		return c.JSON(http.StatusInternalServerError, map[string]interface{}{
			"error": "failed to add plant to garden",
		})
	}

	return c.JSON(http.StatusCreated, map[string]interface{}{
		"data": garden,
	})
}

// List returns the user's garden joined with plants and schedules
// GET /api/v1/garden
func (h *GardenHandler) List(c echo.Context) error {
	ctx := c.Request().Context()
	userID := middleware.GetUserID(c)

	entries, err := h.gardenService.List(ctx, userID)
	if err != nil {
		h.components.Logger.Error("failed to list garden", "error", err, "user_id", userID)
		return c.JSON(http.StatusInternalServerError, map[string]interface{}{
			"error": "failed to list garden",
		})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"data": entries,
	})
}

// Remove deletes a membership and its care schedule
// DELETE /api/v1/garden/:id
func (h *GardenHandler) Remove(c echo.Context) error {
	ctx := c.Request().Context()
	userID := middleware.GetUserID(c)

	gardenID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]interface{}{
			"error": "invalid garden id",
		})
	}

	err = h.gardenService.Remove(ctx, userID, gardenID)
	if errors.Is(err, service.ErrNotFound) {
		return c.JSON(http.StatusNotFound, map[string]interface{}{
			"error": "garden entry not found",
		})
	}
	if err != nil {
		h.components.Logger.Error("failed to remove from garden", "error", err, "garden_id", gardenID)
		return c.JSON(http.StatusInternalServerError, map[string]interface{}{
			"error": "failed to remove plant from garden",
		})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": "removed from garden",
	})
}

// Water marks a plant watered and advances its next water date
// POST /api/v1/garden/:id/water
func (h *GardenHandler) Water(c echo.Context) error {
	ctx := c.Request().Context()
	userID := middleware.GetUserID(c)

	gardenID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]interface{}{
			"error": "invalid garden id",
		})
	}

	schedule, err := h.gardenService.MarkWatered(ctx, userID, gardenID)
	if errors.Is(err, service.ErrNotFound) {
		return c.JSON(http.StatusNotFound, map[string]interface{}{
			"error": "garden entry not found",
		})
	}
	if err != nil {
		h.components.Logger.Error("failed to mark watered", "error", err, "garden_id", gardenID)
		return c.JSON(http.StatusInternalServerError, map[string]interface{}{
			"error": "failed to update watering schedule",
		})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"data": schedule,
	})
}

// UpdateSchedule adjusts the watering cadence or sunlight needs
// PATCH /api/v1/garden/:id/schedule
func (h *GardenHandler) UpdateSchedule(c echo.Context) error {
	ctx := c.Request().Context()
	userID := middleware.GetUserID(c)

	gardenID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]interface{}{
			"error": "invalid garden id",
		})
	}

	var req struct {
		WaterFrequency *int    `json:"water_frequency" validate:"omitempty,min=1,max=365"`
		SunlightNeeds  *string `json:"sunlight_needs"`
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
	if req.WaterFrequency == nil && req.SunlightNeeds == nil {
		return c.JSON(http.StatusBadRequest, map[string]interface{}{
			"error": "nothing to update",
		})
	}

	schedule, err := h.gardenService.UpdateSchedule(ctx, userID, gardenID, req.WaterFrequency, req.SunlightNeeds)
	if errors.Is(err, service.ErrInvalidInput) {
		return c.JSON(http.StatusBadRequest, map[string]interface{}{
			"error": err.Error(),
		})
	}
	if errors.Is(err, service.ErrNotFound) {
		return c.JSON(http.StatusNotFound, map[string]interface{}{
			"error": "garden entry not found",
		})
	}
	if err != nil {
		h.components.Logger.Error("failed to update schedule", "error", err, "garden_id", gardenID)
		return c.JSON(http.StatusInternalServerError, map[string]interface{}{
			"error": "failed to update care schedule",
		})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"data": schedule,
	})
}
