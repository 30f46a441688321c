package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/mayankk-1803/file-store/internal/http/middleware"
	"github.com/mayankk-1803/file-store/internal/service"
)

// errorPayload defines the standardized error response body.
type errorPayload struct {
	RequestID string        `json:"request_id"`
	Error     errorEnvelope `json:"error"`
}

type errorEnvelope struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// requestIDFromCtx extracts request_id previously stored by middleware.RequestID.
func requestIDFromCtx(c *fiber.Ctx) string {
	if v := c.Locals(middleware.RequestIDLocalKey); v != nil {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// writeError writes a standardized JSON error response without leaking internal errors.
//
// Parameters:
// - status: HTTP status code to return
// - code: machine-readable short error code (e.g., "INVALID_ID", "NOT_FOUND", "INTERNAL_ERROR")
// - message: human-readable safe message (no internal details)
func writeError(c *fiber.Ctx, status int, code, message string) error {
	res := errorPayload{
		RequestID: requestIDFromCtx(c),
		Error: errorEnvelope{
			Code:    code,
			Message: message,
		},
	}
	return c.Status(status).JSON(res)
}

// respondError translates service-layer errors into the standardized error
// body. Anything unrecognized collapses to a 500 with no internal details.
func respondError(c *fiber.Ctx, err error) error {
	var verr *service.ValidationError
	switch {
	case errors.As(err, &verr):
		return writeError(c, fiber.StatusBadRequest, "VALIDATION_ERROR", verr.Error())
	case errors.Is(err, service.ErrUnauthorized):
		return writeError(c, fiber.StatusUnauthorized, "UNAUTHORIZED", "invalid credentials")
	case errors.Is(err, service.ErrNotVerified):
		return writeError(c, fiber.StatusForbidden, "NOT_VERIFIED", "account is not verified")
	case errors.Is(err, service.ErrForbidden):
		return writeError(c, fiber.StatusForbidden, "FORBIDDEN", "insufficient permission")
	case errors.Is(err, service.ErrNotFound):
		return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "resource not found")
	case errors.Is(err, service.ErrConflict):
		return writeError(c, fiber.StatusConflict, "ALREADY_EXISTS", "resource already exists")
	default:
		return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
	}
}

// ErrorHandler returns a Fiber global error handler that standardizes error
// responses for errors that escape the handlers, such as middleware failures.
func ErrorHandler() fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			switch fiberErr.Code {
			case fiber.StatusBadRequest:
				return writeError(c, fiberErr.Code, "BAD_REQUEST", fiberErr.Message)
			case fiber.StatusUnauthorized:
				return writeError(c, fiberErr.Code, "UNAUTHORIZED", fiberErr.Message)
			case fiber.StatusNotFound:
				return writeError(c, fiberErr.Code, "NOT_FOUND", "resource not found")
			case fiber.StatusMethodNotAllowed:
				return writeError(c, fiberErr.Code, "METHOD_NOT_ALLOWED", "method not allowed")
			case fiber.StatusTooManyRequests:
				return writeError(c, fiberErr.Code, "RATE_LIMITED", "too many requests")
			default:
				return writeError(c, fiberErr.Code, "INTERNAL_ERROR", "internal server error")
			}
		}
		return respondError(c, err)
	}
}
