package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"promptforge/internal/models"
	"promptforge/internal/services"
)

// OptimizerHandler handles optimizer CRUD requests
type OptimizerHandler struct {
	optimizerService *services.OptimizerService
}

// NewOptimizerHandler creates a new optimizer handler
func NewOptimizerHandler(optimizerService *services.OptimizerService) *OptimizerHandler {
	return &OptimizerHandler{optimizerService: optimizerService}
}

// List returns optimizers. Members only see published profiles; admins see
// drafts too.
func (h *OptimizerHandler) List(c *fiber.Ctx) error {
	role, _ := c.Locals("user_role").(string)
	publishedOnly := role != models.RoleAdmin

	optimizers, err := h.optimizerService.List(c.Context(), publishedOnly)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch optimizers",
		})
	}

	return c.JSON(fiber.Map{
		"optimizers": optimizers,
		"count":      len(optimizers),
	})
}

// Get returns a single optimizer by id
func (h *OptimizerHandler) Get(c *fiber.Ctx) error {
	id := c.Params("id")

	optimizer, err := h.optimizerService.GetByID(c.Context(), id)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Optimizer not found",
		})
	}

	return c.JSON(optimizer)
}

// Create handles POST /api/optimizers (admin only)
func (h *OptimizerHandler) Create(c *fiber.Ctx) error {
	var req models.CreateOptimizerRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if strings.TrimSpace(req.Name) == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Missing optimizer name",
		})
	}

	creatorID, _ := c.Locals("user_id").(string)
	creatorName, _ := c.Locals("user_name").(string)
	creatorEmail, _ := c.Locals("user_email").(string)

	optimizer, err := h.optimizerService.Create(c.Context(), req, creatorID, creatorName, creatorEmail)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to create optimizer",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(optimizer)
}

// Update handles PUT /api/optimizers/:id (admin only)
func (h *OptimizerHandler) Update(c *fiber.Ctx) error {
	id := c.Params("id")

	var req models.CreateOptimizerRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	optimizer, err := h.optimizerService.Update(c.Context(), id, req)
	if err != nil {
		if strings.Contains(err.Error(), "not found") {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Optimizer not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to update optimizer",
		})
	}

	return c.JSON(optimizer)
}

// Delete handles DELETE /api/optimizers/:id (admin only)
func (h *OptimizerHandler) Delete(c *fiber.Ctx) error {
	id := c.Params("id")

	if err := h.optimizerService.Delete(c.Context(), id); err != nil {
		if strings.Contains(err.Error(), "not found") {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Optimizer not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to delete optimizer",
		})
	}

	return c.JSON(fiber.Map{"ok": true})
}
