package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"radicado/internal/convert"
	"radicado/internal/http/middleware"
	"radicado/internal/lifecycle"
	"radicado/internal/repository"
	"radicado/internal/service"
	"radicado/internal/signing"
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

// writeServiceError translates workflow errors into stable HTTP codes. Every
// sentinel the services return maps here; anything unmatched is a 500.
func writeServiceError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, service.ErrNotFound):
		return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "document not found")
	case errors.Is(err, service.ErrActorNotFound):
		return writeError(c, fiber.StatusNotFound, "ACTOR_NOT_FOUND", "actor not found")
	case errors.Is(err, service.ErrIDRequired):
		return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "id is required")
	case errors.Is(err, service.ErrReaderNil):
		return writeError(c, fiber.StatusBadRequest, "FILE_REQUIRED", "file is required")
	case errors.Is(err, service.ErrTitleRequired):
		return writeError(c, fiber.StatusBadRequest, "TITLE_REQUIRED", "title is required")
	case errors.Is(err, service.ErrPrefixRequired):
		return writeError(c, fiber.StatusBadRequest, "PREFIX_REQUIRED", "project prefix is required")
	case errors.Is(err, service.ErrInvalidSeries):
		return writeError(c, fiber.StatusBadRequest, "INVALID_SERIES", "unknown series")
	case errors.Is(err, service.ErrInvalidDirection):
		return writeError(c, fiber.StatusBadRequest, "INVALID_DIRECTION", "unknown direction")
	case errors.Is(err, service.ErrVoidReasonTooShort):
		return writeError(c, fiber.StatusBadRequest, "VOID_REASON_TOO_SHORT", "void reason must be at least 10 characters")
	case errors.Is(err, service.ErrReservedTransition):
		return writeError(c, fiber.StatusBadRequest, "RESERVED_TRANSITION", "use the sign or void operation")
	case errors.Is(err, service.ErrEditFrozen):
		return writeError(c, fiber.StatusConflict, "EDIT_FROZEN", "document content can no longer be edited")
	case errors.Is(err, service.ErrDelegateState):
		return writeError(c, fiber.StatusConflict, "DELEGATE_STATE", "document not awaiting delegation")
	case errors.Is(err, lifecycle.ErrInvalidTransition):
		return writeError(c, fiber.StatusConflict, "INVALID_TRANSITION", "status transition not allowed")
	case errors.Is(err, lifecycle.ErrInsufficientRole):
		return writeError(c, fiber.StatusForbidden, "INSUFFICIENT_ROLE", "role not authorized for this operation")
	case errors.Is(err, signing.ErrInvalidPIN):
		return writeError(c, fiber.StatusUnauthorized, "INVALID_PIN", "signing pin rejected")
	case errors.Is(err, signing.ErrNotEligible):
		return writeError(c, fiber.StatusForbidden, "NOT_ELIGIBLE", "actor not eligible to sign this document")
	case errors.Is(err, repository.ErrConcurrentUpdate):
		return writeError(c, fiber.StatusConflict, "CONFLICT", "document changed concurrently, retry")
	case errors.Is(err, convert.ErrConversionFailed):
		return writeError(c, fiber.StatusBadGateway, "CONVERSION_FAILED", "document conversion failed, nothing was changed")
	default:
		return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
	}
}

// ErrorHandler returns a Fiber global error handler that standardizes error responses.
func ErrorHandler() fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		status := fiber.StatusInternalServerError
		if e, ok := err.(*fiber.Error); ok {
			status = e.Code
		}

		switch status {
		case fiber.StatusBadRequest:
			return writeError(c, status, "BAD_REQUEST", "bad request")
		case fiber.StatusNotFound:
			return writeError(c, status, "NOT_FOUND", "resource not found")
		case fiber.StatusMethodNotAllowed:
			return writeError(c, status, "METHOD_NOT_ALLOWED", "method not allowed")
		default:
			return writeError(c, status, "INTERNAL_ERROR", "internal server error")
		}
	}
}
