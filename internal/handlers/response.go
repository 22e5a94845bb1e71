package handlers

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"restoran/internal/otp"
	"restoran/internal/repositories"
	"restoran/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Guards are the auth middlewares a route group can opt into.
type Guards struct {
	Optional fiber.Handler
	User     fiber.Handler
	// Admin authenticates and then requires the is_admin claim.
	Admin []fiber.Handler
}

// NewValidator returns a validator that reports fields by their JSON names.
func NewValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// bind parses the JSON body into out and validates it. On failure the 400 response has
// already been written and the returned error is the one fiber should propagate (usually nil).
func bind(c *fiber.Ctx, v *validator.Validate, out interface{}) (bool, error) {
	if err := c.BodyParser(out); err != nil {
		return false, c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if err := v.Struct(out); err != nil {
		return false, validationFailed(c, err)
	}
	return true, nil
}

func validationFailed(c *fiber.Ctx, err error) error {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Validation failed",
			"error":   err.Error(),
		})
	}
	errorMessages := make(map[string]string, len(validationErrors))
	for _, e := range validationErrors {
		errorMessages[e.Field()] = fmt.Sprintf("Field '%s' failed on the '%s' tag", e.Field(), e.Tag())
	}
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"message": "Validation failed",
		"errors":  errorMessages,
	})
}

// idParam reads a positive numeric :id route parameter.
func idParam(c *fiber.Ctx) (uint, bool) {
	id, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

func invalidID(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"message": fmt.Sprintf("Invalid ID %q", c.Params("id")),
	})
}

// statusFor maps domain errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, repositories.ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, otp.ErrNotFound), errors.Is(err, otp.ErrExpired),
		errors.Is(err, services.ErrInvalidStatus),
		errors.Is(err, services.ErrInvalidPaymentStatus),
		errors.Is(err, services.ErrInvalidPaymentMethod),
		errors.Is(err, services.ErrUnknownMenuItem),
		errors.Is(err, services.ErrUnsupportedImageType),
		errors.Is(err, services.ErrInvalidReference):
		return fiber.StatusBadRequest
	case errors.Is(err, services.ErrInvalidCredentials), errors.Is(err, services.ErrInvalidToken):
		return fiber.StatusUnauthorized
	case errors.Is(err, services.ErrEmailTaken), errors.Is(err, services.ErrMobileTaken),
		errors.Is(err, services.ErrAlreadyPaid), errors.Is(err, services.ErrOrderNotPayable):
		return fiber.StatusConflict
	case errors.Is(err, services.ErrTooManyAttempts):
		return fiber.StatusTooManyRequests
	case errors.Is(err, services.ErrPaymentsDisabled), errors.Is(err, services.ErrImageStorageDisabled):
		return fiber.StatusServiceUnavailable
	default:
		return fiber.StatusInternalServerError
	}
}

// fail logs err and writes the mapped status with message.
func fail(c *fiber.Ctx, logger *zap.SugaredLogger, err error, message string) error {
	status := statusFor(err)
	if status >= fiber.StatusInternalServerError {
		logger.Errorw(message, "error", err, "path", c.Path())
	} else {
		logger.Infow(message, "error", err, "status", status, "path", c.Path())
	}
	return c.Status(status).JSON(fiber.Map{
		"message": message,
		"error":   err.Error(),
	})
}

// chain returns a fresh handler list of middlewares followed by handler.
func chain(middlewares []fiber.Handler, handler fiber.Handler) []fiber.Handler {
	out := make([]fiber.Handler, 0, len(middlewares)+1)
	out = append(out, middlewares...)
	return append(out, handler)
}
