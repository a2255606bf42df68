package api

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/circlecare/internal/models"
	"github.com/terraincognita07/circlecare/internal/services"
)

func (handler *Handler) Health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

func (handler *Handler) Session(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"user": mustCurrentUser(c)})
}

func (handler *Handler) Register(c *fiber.Ctx) error {
	if _, err := handler.authenticateRequest(c); err == nil {
		return apiError(c, fiber.StatusBadRequest, "already signed in")
	}

	input, err := bindInput[credentialsInput](handler, c)
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, err.Error())
	}

	user, err := handler.authService.Register(input.Username, input.Password)
	if err != nil {
		return respondServiceError(c, err)
	}
	return handler.respondSignedIn(c, fiber.StatusCreated, &user)
}

func (handler *Handler) Login(c *fiber.Ctx) error {
	input, err := bindInput[credentialsInput](handler, c)
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, err.Error())
	}

	attempt := newLoginAttempt(c, input.Username)
	now := time.Now()
	if handler.loginGuard.blocked(attempt, now) {
		return apiError(c, fiber.StatusTooManyRequests, "too many login attempts")
	}

	user, err := handler.authService.Authenticate(input.Username, input.Password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			handler.loginGuard.recordFailure(attempt, now)
		}
		return respondServiceError(c, err)
	}

	handler.loginGuard.recordSuccess(attempt)
	return handler.respondSignedIn(c, fiber.StatusOK, &user)
}

func (handler *Handler) Logout(c *fiber.Ctx) error {
	handler.clearAuthCookie(c)
	return c.JSON(fiber.Map{"ok": true})
}

func (handler *Handler) UpdateUsername(c *fiber.Ctx) error {
	user := mustCurrentUser(c)
	input, err := bindInput[updateUsernameInput](handler, c)
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, err.Error())
	}

	updated, err := handler.authService.UpdateUsername(user.ID, input.Username)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"user": updated})
}

func (handler *Handler) UpdatePassword(c *fiber.Ctx) error {
	user := mustCurrentUser(c)
	input, err := bindInput[updatePasswordInput](handler, c)
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, err.Error())
	}

	if err := handler.authService.UpdatePassword(user.ID, input.CurrentPassword, input.NewPassword); err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"ok": true})
}

func (handler *Handler) DeleteAccount(c *fiber.Ctx) error {
	user := mustCurrentUser(c)
	input, err := bindInput[deleteAccountInput](handler, c)
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, err.Error())
	}

	if _, err := handler.authService.Authenticate(user.Username, input.Password); err != nil {
		return respondServiceError(c, err)
	}
	if err := handler.authService.DeleteAccount(user.ID); err != nil {
		return respondServiceError(c, err)
	}

	handler.clearAuthCookie(c)
	return c.JSON(fiber.Map{"ok": true})
}

func (handler *Handler) ListUsers(c *fiber.Ctx) error {
	usernames, err := handler.authService.ListUsers()
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"users": usernames})
}

func (handler *Handler) GetUser(c *fiber.Ctx) error {
	user, err := handler.authService.FindByUsername(c.Params("username"))
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"id": user.ID, "username": user.Username})
}

func (handler *Handler) respondSignedIn(c *fiber.Ctx, status int, user *models.User) error {
	token, err := handler.buildToken(user)
	if err != nil {
		return respondServiceError(c, err)
	}
	handler.setAuthCookie(c, token)
	return c.Status(status).JSON(fiber.Map{"user": user, "token": token})
}
