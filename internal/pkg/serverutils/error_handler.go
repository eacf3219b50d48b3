package serverutils

import (
	"errors"

	"interview-rag-be/internal/pkg/logger"

	"github.com/gofiber/fiber/v2"
)

// NewErrorHandler renders every returned error as {success:false, error}.
// Unknown errors are logged and hidden behind a generic 500.
func NewErrorHandler(log logger.ILogger) fiber.ErrorHandler {
	return func(ctx *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError
		message := "internal server error"

		var fiberErr *fiber.Error
		var validationErr *RequestValidationError
		switch {
		case errors.As(err, &fiberErr):
			code = fiberErr.Code
			message = fiberErr.Message
		case errors.As(err, &validationErr):
			code = fiber.StatusBadRequest
			message = validationErr.Error()
		}

		if code >= fiber.StatusInternalServerError {
			log.Error("HTTP", "request failed", map[string]interface{}{
				"method": ctx.Method(),
				"path":   ctx.Path(),
				"error":  err.Error(),
			})
		}

		return ctx.Status(code).JSON(ErrorResponse(code, message))
	}
}
