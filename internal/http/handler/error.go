package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"streamapi/internal/http/middleware"
	"streamapi/internal/service"
	"streamapi/internal/stream"
)

// errorPayload defines the standardized error response body.
type errorPayload struct {
	RequestID string        `json:"request_id"`
	Error     errorEnvelope `json:"error"`
}

type errorEnvelope struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	// Upstream carries the Cloudflare errors list when the failure came from
	// the remote API, for caller inspection.
	Upstream []stream.APIMessage `json:"upstream,omitempty"`
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
func writeError(c *fiber.Ctx, status int, code, message string) error {
	return writeUpstreamError(c, status, code, message, nil)
}

func writeUpstreamError(c *fiber.Ctx, status int, code, message string, upstream []stream.APIMessage) error {
	res := errorPayload{
		RequestID: requestIDFromCtx(c),
		Error: errorEnvelope{
			Code:     code,
			Message:  message,
			Upstream: upstream,
		},
	}
	return c.Status(status).JSON(res)
}

// serviceError translates service and stream errors into HTTP responses.
// Validation errors become 400s; remote failures keep their nature visible
// (404 vs upstream error vs timeout) instead of collapsing into a 500.
func serviceError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, service.ErrUIDRequired):
		return writeError(c, fiber.StatusBadRequest, "UID_REQUIRED", "video uid is required")
	case errors.Is(err, service.ErrURLRequired):
		return writeError(c, fiber.StatusBadRequest, "URL_REQUIRED", "source url is required")
	case errors.Is(err, service.ErrURLInvalid):
		return writeError(c, fiber.StatusBadRequest, "URL_INVALID", "source url must be absolute http(s)")
	case errors.Is(err, service.ErrNotFound):
		return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "video not found")
	}

	var waitErr *stream.WaitTimeoutError
	if errors.As(err, &waitErr) {
		return writeError(c, fiber.StatusGatewayTimeout, "NOT_READY", "video not ready within the wait budget")
	}

	var transportErr *stream.TransportError
	if errors.As(err, &transportErr) {
		return writeError(c, fiber.StatusBadGateway, "UPSTREAM_UNREACHABLE", "cloudflare api unreachable")
	}

	var apiErr *stream.APIError
	if errors.As(err, &apiErr) {
		if apiErr.NotFound() {
			return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "video not found")
		}
		return writeUpstreamError(c, fiber.StatusBadGateway, "UPSTREAM_ERROR", "cloudflare api rejected the request", apiErr.Errors)
	}

	return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
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
