package handlers

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"

	"promptforge/internal/middleware"
	"promptforge/internal/models"
	"promptforge/internal/services"
)

// GenerateHandler exposes the content-generation pipeline
type GenerateHandler struct {
	generation  *services.GenerationService
	chatHistory *services.ChatHistoryService
}

// NewGenerateHandler creates a new generate handler
func NewGenerateHandler(generation *services.GenerationService, chatHistory *services.ChatHistoryService) *GenerateHandler {
	return &GenerateHandler{generation: generation, chatHistory: chatHistory}
}

// Generate handles POST /api/generate-optimized-content.
// Auth is optional here: an anonymous caller still gets a response, their
// usage just goes unrecorded. Generation failures degrade to a 200 with
// sentinel text; only malformed requests produce error statuses.
func (h *GenerateHandler) Generate(c *fiber.Ctx) error {
	var req models.GenerateRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	userID := middleware.UserID(c)

	text, err := h.generation.Generate(c.Context(), &req, userID)
	if err != nil {
		if errors.Is(err, services.ErrInvalidRequest) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Missing optimizer or userInput",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Internal error",
		})
	}

	// Persist the exchange for signed-in users. Best effort, a storage
	// failure must not turn a successful generation into an error.
	if h.chatHistory != nil && userID != "" && req.Optimizer != nil {
		optimizerID := req.Optimizer.ID
		userInput := req.UserInput
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := h.chatHistory.Append(ctx, userID, optimizerID, models.RoleUser, userInput); err != nil {
				log.Printf("⚠️ Failed to store user message: %v", err)
				return
			}
			if err := h.chatHistory.Append(ctx, userID, optimizerID, models.RoleAssistant, text); err != nil {
				log.Printf("⚠️ Failed to store assistant message: %v", err)
			}
		}()
	}

	return c.JSON(models.GenerateResponse{OptimizedContent: text})
}
