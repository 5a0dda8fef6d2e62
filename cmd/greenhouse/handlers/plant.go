package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/sproutly/greenhouse/cmd/greenhouse/container"
	"github.com/sproutly/greenhouse/cmd/greenhouse/middleware"
	"github.com/sproutly/greenhouse/cmd/greenhouse/repository"
	"github.com/sproutly/greenhouse/cmd/greenhouse/service"
	"github.com/sproutly/greenhouse/common/bootstrap"
)

// maxImageBytes caps uploaded image size at 10 MiB
const maxImageBytes = 10 << 20

// PlantHandler handles HTTP requests for plant identification
type PlantHandler struct {
	components      *bootstrap.Components
	identifyService *service.IdentifyService
}

// NewPlantHandler creates a new plant handler
func NewPlantHandler(c *container.Container) *PlantHandler {
	return &PlantHandler{
		components:      c.Components,
		identifyService: c.IdentifyService,
	}
}

// Identify accepts a multipart image upload and runs the identification
// pipeline. Identification and persistence failures share a status code.
// POST /api/v1/plants
func (h *PlantHandler) Identify(c echo.Context) error {
	ctx := c.Request().Context()
	userID := middleware.GetUserID(c)

	fileHeader, err := c.FormFile("image")
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]interface{}{
			"error": "image file is required",
		})
	}
	if fileHeader.Size > maxImageBytes {
		return c.JSON(http.StatusBadRequest, map[string]interface{}{
			"error": "image is too large",
		})
	}

	file, err := fileHeader.Open()
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]interface{}{
			"error": "failed to read image",
		})
	}
	defer file.Close()

	image, err := io.ReadAll(io.LimitReader(file, maxImageBytes+1))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]interface{}{
			"error": "failed to read image",
		})
	}
	if len(image) == 0 {
		return c.JSON(http.StatusBadRequest, map[string]interface{}{
			"error": "image is empty",
		})
	}

	h.components.Logger.WithContext(ctx).Info("identification requested",
		"user_id", userID,
		"filename", fileHeader.Filename,
		"bytes", len(image),
	)

	plant, err := h.identifyService.Identify(ctx, userID, fileHeader.Filename, image)
	if err != nil {
		h.components.Logger.WithContext(ctx).Error("identification failed", "error", err, "user_id", userID)
		return c.JSON(http.StatusInternalServerError, map[string]interface{}{
			"error": "failed to identify plant",
		})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"data": plant,
	})
}

// List returns the user's identified plants, newest first
// GET /api/v1/plants
func (h *PlantHandler) List(c echo.Context) error {
	ctx := c.Request().Context()
	userID := middleware.GetUserID(c)

	plants, err := h.identifyService.ListPlants(ctx, userID)
	if err != nil {
		h.components.Logger.Error("failed to list plants", "error", err, "user_id", userID)
		return c.JSON(http.StatusInternalServerError, map[string]interface{}{
			"error": "failed to list plants",
		})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"data": plants,
	})
}

// Get returns one of the user's plants
// GET /api/v1/plants/:id
func (h *PlantHandler) Get(c echo.Context) error {
	ctx := c.Request().Context()
	userID := middleware.GetUserID(c)

	plantID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]interface{}{
			"error": "invalid plant id",
		})
	}

	plant, err := h.identifyService.GetPlant(ctx, userID, plantID)
	if errors.Is(err, repository.ErrNotFound) {
		return c.JSON(http.StatusNotFound, map[string]interface{}{
			"error": "plant not found",
		})
	}
	if err != nil {
		h.components.Logger.Error("failed to get plant", "error", err, "plant_id", plantID)
		return c.JSON(http.StatusInternalServerError, map[string]interface{}{
			"error": "failed to get plant",
		})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"data": plant,
	})
}
