package apperror

import (
	"fmt"

	"ragdocs/config"
	"ragdocs/pkg/apperror/status"
	"ragdocs/pkg/logger"

	"github.com/gofiber/fiber/v3"
)

// ErrorResponse is the standardized HTTP error payload
type ErrorResponse struct {
	Error     string `json:"error"`
	ErrorCode string `json:"error_code"`
}

type FiberSuccessMessage struct {
	Code       status.SuccessCode `json:"code"`
	Message    string             `json:"message"`
	TrackingID string             `json:"tracking_id"`
	Data       any                `json:"data"`
}

// WriteError logs a structured warning and returns a standardized JSON error
func WriteError(module config.Module, c fiber.Ctx, httpStatus int, code string, message string) error {
	logger.WithFields(map[string]interface{}{
		"module":        module,
		"status_code":   httpStatus,
		"error_code":    code,
		"error_message": message,
		"http_method":   c.Method(),
		"path":          c.Path(),
		"url":           c.OriginalURL(),
		"ip":            c.IP(),
	}).Warnf("http error")

	return c.Status(httpStatus).JSON(ErrorResponse{
		Error:     message,
		ErrorCode: code,
	})
}

// BadRequest returns a 400 with a domain error code
func BadRequest(module config.Module, c fiber.Ctx, code status.ErrorCode, message string) error {
	errorCode := fmt.Sprintf("RD-%d", code)
	return WriteError(module, c, fiber.StatusBadRequest, errorCode, message)
}

// NotFound returns a 404 with a domain error code
func NotFound(module config.Module, c fiber.Ctx, code status.ErrorCode, message string) error {
	errorCode := fmt.Sprintf("RD-%d", code)
	return WriteError(module, c, fiber.StatusNotFound, errorCode, message)
}

// InternalError returns a 500 with the generic internal error code
func InternalError(module config.Module, c fiber.Ctx, err error) error {
	errorCode := fmt.Sprintf("RD-%d", status.ErrorCodeInternal)
	return WriteError(module, c, fiber.StatusInternalServerError, errorCode, err.Error())
}

// Success writes a standardized JSON success response
func Success(module config.Module, c fiber.Ctx, response FiberSuccessMessage) error {
	return c.Status(fiber.StatusOK).JSON(response)
}
