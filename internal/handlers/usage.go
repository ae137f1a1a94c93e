package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"promptforge/internal/services"
)

// UsageHandler exposes the admin usage reporting endpoints
type UsageHandler struct {
	usageService *services.UsageService
}

// NewUsageHandler creates a new usage handler
func NewUsageHandler(usageService *services.UsageService) *UsageHandler {
	return &UsageHandler{usageService: usageService}
}

// Ranking handles GET /api/usage-ranking: all users sorted by total tokens
func (h *UsageHandler) Ranking(c *fiber.Ctx) error {
	ranking, err := h.usageService.Ranking(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch usage ranking",
		})
	}

	return c.JSON(fiber.Map{"ranking": ranking})
}

// Report handles GET /api/usage-report?start=&end=. Missing or unparsable
// bounds default to the last 30 days.
func (h *UsageHandler) Report(c *fiber.Ctx) error {
	now := time.Now().UTC()

	start := parseDateParam(c.Query("start"), now.AddDate(0, 0, -30))
	end := parseDateParam(c.Query("end"), now)

	report, err := h.usageService.Report(c.Context(), start, end)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to build usage report",
		})
	}

	return c.JSON(report)
}

func parseDateParam(value string, fallback time.Time) time.Time {
	if value == "" {
		return fallback
	}
	if parsed, err := time.Parse(time.RFC3339, value); err == nil {
		return parsed
	}
	if parsed, err := time.Parse("2006-01-02", value); err == nil {
		return parsed
	}
	return fallback
}
