package middleware

import (
	"errors"

	"recipe-organizer/domain"
	"recipe-organizer/internal/api/presenters"
	"recipe-organizer/internal/utils"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// ErrorHandler is the last stop for errors returned by handlers. Outside
// production the underlying error text is included in the response, for
// client and server errors alike.
func ErrorHandler(cfg *utils.Config, logger *zap.Logger) fiber.ErrorHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(c *fiber.Ctx, err error) error {
		if appErr, ok := domain.AsAppError(err); ok {
			return presenters.WriteAppError(c, appErr)
		}

		var reqErr *presenters.RequestError
		if errors.As(err, &reqErr) {
			body := presenters.ErrorBody{
				Success: false,
				Message: reqErr.Message,
			}
			if !cfg.IsProduction() && reqErr.Err != nil {
				body.Error = reqErr.Err.Error()
			}
			return c.Status(reqErr.Status).JSON(body)
		}

		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) && fiberErr.Code < fiber.StatusInternalServerError {
			return c.Status(fiberErr.Code).JSON(presenters.ErrorBody{
				Success: false,
				Message: fiberErr.Message,
			})
		}

		logger.Error("unhandled error",
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.Error(err),
		)

		body := presenters.ErrorBody{
			Success: false,
			Message: domain.MessageServerError,
			Code:    domain.ErrInternal.Code,
		}
		if !cfg.IsProduction() {
			body.Error = err.Error()
		}
		return c.Status(fiber.StatusInternalServerError).JSON(body)
	}
}
