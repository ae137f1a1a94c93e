package handlers

import (
	"github.com/gofiber/fiber/v2"

	"promptforge/internal/middleware"
	"promptforge/internal/models"
	"promptforge/internal/services"
)

// ChatHandler handles per-user chat history requests
type ChatHandler struct {
	chatHistory *services.ChatHistoryService
}

// NewChatHandler creates a new chat handler
func NewChatHandler(chatHistory *services.ChatHistoryService) *ChatHandler {
	return &ChatHandler{chatHistory: chatHistory}
}

// History handles GET /api/chat-history?optimizerId=
func (h *ChatHandler) History(c *fiber.Ctx) error {
	optimizerID := c.Query("optimizerId")
	if optimizerID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Missing optimizerId",
		})
	}

	messages, err := h.chatHistory.List(c.Context(), middleware.UserID(c), optimizerID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch chat history",
		})
	}

	return c.JSON(fiber.Map{
		"messages": messages,
		"count":    len(messages),
	})
}

// Clear handles POST /api/clear-chat. Users can only clear their own
// history; the user id always comes from the token, never the body.
func (h *ChatHandler) Clear(c *fiber.Ctx) error {
	var req models.ClearChatRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if req.OptimizerID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Missing optimizerId",
		})
	}

	deleted, err := h.chatHistory.Clear(c.Context(), middleware.UserID(c), req.OptimizerID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to clear chat",
		})
	}

	return c.JSON(fiber.Map{"ok": true, "deleted": deleted})
}
