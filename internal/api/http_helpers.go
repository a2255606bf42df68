package api

import (
	"errors"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"github.com/terraincognita07/circlecare/internal/services"
)

func apiError(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{"error": message})
}

// respondServiceError maps the service error taxonomy onto HTTP statuses.
// Anything unrecognised is reported as an internal error and logged.
func respondServiceError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrInvalidInput):
		return apiError(c, fiber.StatusBadRequest, err.Error())
	case errors.Is(err, services.ErrSelfReference):
		return apiError(c, fiber.StatusBadRequest, err.Error())
	case errors.Is(err, services.ErrUnauthenticated):
		return apiError(c, fiber.StatusUnauthorized, err.Error())
	case errors.Is(err, services.ErrAuthorization):
		return apiError(c, fiber.StatusForbidden, err.Error())
	case errors.Is(err, services.ErrNotFound):
		return apiError(c, fiber.StatusNotFound, err.Error())
	case errors.Is(err, services.ErrConflict):
		return apiError(c, fiber.StatusConflict, err.Error())
	}

	log.Error().
		Err(err).
		Str("request_id", requestID(c)).
		Str("method", c.Method()).
		Str("path", c.Path()).
		Msg("request failed")
	return apiError(c, fiber.StatusInternalServerError, "internal error")
}

func requestID(c *fiber.Ctx) string {
	if value, ok := c.Locals("requestid").(string); ok {
		return value
	}
	return c.GetRespHeader(fiber.HeaderXRequestID)
}

func parseIDParam(c *fiber.Ctx, name string) (uint, error) {
	raw := strings.TrimSpace(c.Params(name))
	value, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || value == 0 {
		return 0, errors.New("invalid " + name)
	}
	return uint(value), nil
}
