package api

import (
	"github.com/gofiber/fiber/v2"
)

// Routes a user flagged by reset-password may still reach.
var passwordChangeRoutes = map[string]bool{
	fiber.MethodGet + " /api/session":          true,
	fiber.MethodPatch + " /api/users/password": true,
}

func (handler *Handler) AuthRequired(c *fiber.Ctx) error {
	user, err := handler.authenticateRequest(c)
	if err != nil {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}
	if user.MustChangePassword && !passwordChangeRoutes[c.Method()+" "+c.Route().Path] {
		return apiError(c, fiber.StatusForbidden, "password change required")
	}

	c.Locals(contextUserKey, user)
	return c.Next()
}
