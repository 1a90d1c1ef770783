package middleware

import (
	"github.com/gofiber/fiber/v2"

	"github.com/mmondo-adventures/tours_be/internal/models"
)

// RequireRoles gates a route group to the given roles. It reads the
// models.Role that AttachJWTLocals stored, so it must be mounted after it.
func RequireRoles(allowed ...models.Role) fiber.Handler {
	allowedSet := make(map[models.Role]bool, len(allowed))
	for _, r := range allowed {
		allowedSet[r] = true
	}

	return func(c *fiber.Ctx) error {
		role, ok := c.Locals("role").(models.Role)
		if !ok {
			return fiber.ErrUnauthorized
		}

		if !allowedSet[role] {
			return fiber.NewError(fiber.StatusForbidden, "forbidden: insufficient role")
		}

		return c.Next()
	}
}
