package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/circlecare/internal/models"
)

const (
	authCookieName = "circlecare_auth"
	contextUserKey = "current_user"
	bearerPrefix   = "Bearer "
)

func currentUser(c *fiber.Ctx) (*models.User, bool) {
	user, ok := c.Locals(contextUserKey).(*models.User)
	return user, ok
}

// mustCurrentUser is only called behind AuthRequired.
func mustCurrentUser(c *fiber.Ctx) *models.User {
	user, ok := currentUser(c)
	if !ok || user == nil {
		panic("api: handler registered without AuthRequired")
	}
	return user
}
