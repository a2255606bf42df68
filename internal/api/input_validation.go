package api

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var errInvalidBody = errors.New("invalid request body")

func newInputValidator() *validator.Validate {
	validate := validator.New(validator.WithRequiredStructEnabled())
	validate.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return validate
}

// bindInput parses the request body into T and runs its validate tags.
func bindInput[T any](handler *Handler, c *fiber.Ctx) (T, error) {
	var input T
	if err := c.BodyParser(&input); err != nil {
		return input, errInvalidBody
	}
	if err := handler.validate.Struct(input); err != nil {
		return input, describeValidationError(err)
	}
	return input, nil
}

func describeValidationError(err error) error {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) || len(validationErrors) == 0 {
		return errInvalidBody
	}

	first := validationErrors[0]
	switch first.Tag() {
	case "required":
		return fmt.Errorf("%s is required", first.Field())
	case "min", "max":
		return fmt.Errorf("%s must satisfy %s=%s", first.Field(), first.Tag(), first.Param())
	case "oneof":
		return fmt.Errorf("%s must be one of: %s", first.Field(), first.Param())
	case "datetime":
		return fmt.Errorf("%s must be a YYYY-MM-DD date", first.Field())
	default:
		return fmt.Errorf("%s is invalid", first.Field())
	}
}
