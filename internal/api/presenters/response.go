package presenters

import (
	"errors"
	"fmt"

	"recipe-organizer/domain"

	"github.com/gofiber/fiber/v2"
)

type (
	Response struct {
		Success bool   `json:"success"`
		Message string `json:"message,omitempty"`
		Data    any    `json:"data,omitempty"`
	}

	ListResponse struct {
		Success    bool              `json:"success"`
		Count      int               `json:"count"`
		Total      int64             `json:"total"`
		Pagination domain.Pagination `json:"pagination"`
		Data       any               `json:"data"`
	}

	TokenResponse struct {
		Success bool   `json:"success"`
		Token   string `json:"token"`
		User    any    `json:"user"`
	}

	ErrorBody struct {
		Success bool     `json:"success"`
		Message string   `json:"message"`
		Code    string   `json:"code,omitempty"`
		Errors  []string `json:"errors,omitempty"`
		Error   string   `json:"error,omitempty"`
	}
)

func SuccessResponse(c *fiber.Ctx, data any, statusCode int, message string) error {
	return c.Status(statusCode).JSON(Response{
		Success: true,
		Message: message,
		Data:    data,
	})
}

func MessageResponse(c *fiber.Ctx, statusCode int, message string) error {
	return c.Status(statusCode).JSON(Response{
		Success: true,
		Message: message,
	})
}

func PageResponse(c *fiber.Ctx, data any, count int, total int64, pagination domain.Pagination) error {
	return c.Status(fiber.StatusOK).JSON(ListResponse{
		Success:    true,
		Count:      count,
		Total:      total,
		Pagination: pagination,
		Data:       data,
	})
}

func AuthResponse(c *fiber.Ctx, statusCode int, token string, user any) error {
	return c.Status(statusCode).JSON(TokenResponse{
		Success: true,
		Token:   token,
		User:    user,
	})
}

// RequestError is a client error that is not a *domain.AppError, such as a
// malformed body. The app's ErrorHandler writes it and decides whether the
// cause is shown.
type RequestError struct {
	Status  int
	Message string
	Err     error
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("%s: %v", e.Message, e.Err)
}

func (e *RequestError) Unwrap() error {
	return e.Err
}

// ErrorResponse writes the error envelope. An *domain.AppError carries its own
// status and code and is written directly. Anything else is returned to the
// app's ErrorHandler: below 500 as a *RequestError with statusCode and
// message, 5xx wrapped so it gets logged in one place.
func ErrorResponse(c *fiber.Ctx, statusCode int, message string, err error) error {
	if appErr, ok := domain.AsAppError(err); ok {
		return WriteAppError(c, appErr)
	}
	if err == nil {
		return errors.New(message)
	}
	if statusCode >= fiber.StatusInternalServerError {
		return fmt.Errorf("%s: %w", message, err)
	}
	return &RequestError{Status: statusCode, Message: message, Err: err}
}

func WriteAppError(c *fiber.Ctx, appErr *domain.AppError) error {
	return c.Status(appErr.Status).JSON(ErrorBody{
		Success: false,
		Message: appErr.Message,
		Code:    appErr.Code,
		Errors:  appErr.Errors,
	})
}
