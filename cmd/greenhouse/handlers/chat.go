package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/sproutly/greenhouse/cmd/greenhouse/container"
	"github.com/sproutly/greenhouse/cmd/greenhouse/middleware"
	"github.com/sproutly/greenhouse/cmd/greenhouse/models"
	"github.com/sproutly/greenhouse/cmd/greenhouse/service"
	"github.com/sproutly/greenhouse/common/bootstrap"
)

// ChatHandler handles HTTP requests for the gardening chat
type ChatHandler struct {
	components  *bootstrap.Components
	chatService *service.ChatService
}

// NewChatHandler creates a new chat handler
func NewChatHandler(c *container.Container) *ChatHandler {
	return &ChatHandler{
		components:  c.Components,
		chatService: c.ChatService,
	}
}

// Respond answers the latest user message given the conversation so far.
// Conversations are client-held; nothing is persisted server-side.
// POST /api/v1/chat
func (h *ChatHandler) Respond(c echo.Context) error {
	ctx := c.Request().Context()
	userID := middleware.GetUserID(c)

	var req struct {
		Messages []models.ChatMessage `json:"messages" validate:"required,min=1"`
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

	reply, err := h.chatService.Respond(ctx, req.Messages)
	if errors.Is(err, service.ErrEmptyMessage) {
		return c.JSON(http.StatusBadRequest, map[string]interface{}{
			"error": "last message must be a non-empty user message",
		})
	}
	if err != nil {
		h.components.Logger.WithContext(ctx).Error("chat failed", "error", err, "user_id", userID)
		return c.JSON(http.StatusInternalServerError, map[string]interface{}{
			"error": "failed to generate response",
		})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"data": map[string]string{
			"reply": reply,
		},
	})
}
