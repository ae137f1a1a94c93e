package middleware

import (
	"github.com/gofiber/fiber/v2"

	"promptforge/internal/config"
)

// AdminMiddleware checks that the authenticated user carries the admin role
// claim or appears in the configured superadmin list. Must run after
// LocalAuthMiddleware.
func AdminMiddleware(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, ok := c.Locals("user_id").(string)
		if !ok || userID == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Authentication required",
			})
		}

		isAdmin := false
		if role, ok := c.Locals("user_role").(string); ok && role == "admin" {
			isAdmin = true
		}
		if !isAdmin {
			for _, adminID := range cfg.SuperadminUserIDs {
				if adminID == userID {
					isAdmin = true
					break
				}
			}
		}

		if !isAdmin {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "Admin access required",
			})
		}

		c.Locals("is_admin", true)
		return c.Next()
	}
}
