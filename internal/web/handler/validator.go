package handler

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// ErrorResponse represents a validation error response.
type ErrorResponse struct {
	Error       bool
	FailedField string
	Tag         string
	Value       interface{}
}

var validate = validator.New()

// Validate performs validation on the provided data and returns a slice of ErrorResponse.
func Validate(data interface{}) []ErrorResponse {
	var validationErrors []ErrorResponse

	errs := validate.Struct(data)
	if errs != nil {
		for _, err := range errs.(validator.ValidationErrors) { //nolint:errorlint,errcheck // ok here
			var elem ErrorResponse

			elem.FailedField = err.Field() // Export struct field name
			elem.Tag = err.Tag()           // Export struct tag
			elem.Value = err.Value()       // Export field value
			elem.Error = true

			validationErrors = append(validationErrors, elem)
		}
	}

	return validationErrors
}

// ValidationFailed writes a 400 response carrying the failed fields.
func ValidationFailed(c *fiber.Ctx, details []ErrorResponse) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"error":   "validation failed",
		"details": details,
	})
}

// BadRequest writes a 400 response for unparseable bodies.
func BadRequest(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"error": "invalid request body",
	})
}
