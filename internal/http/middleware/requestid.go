package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const (
	// RequestIDHeader propagates request ids across services.
	RequestIDHeader = "X-Request-ID"
	// RequestIDLocalKey stores the request id in fiber context locals.
	RequestIDLocalKey = "request_id"
)

// RequestID assigns every request an id: the incoming X-Request-ID when
// present, a fresh UUID otherwise. The id lands in context locals and on the
// response header so the logger and the error envelope can pick it up.
func RequestID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Get(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}

		c.Locals(RequestIDLocalKey, id)
		c.Set(RequestIDHeader, id)

		return c.Next()
	}
}
