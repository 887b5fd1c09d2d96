package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const (
	// RequestIDHeader carries the request ID between clients and the API.
	RequestIDHeader = "X-Request-ID"
	// RequestIDLocalKey is where the request ID lives in Fiber's context
	// locals; the request logger and the error envelope both read it.
	RequestIDLocalKey = "request_id"
)

// RequestID guarantees every request entering the notes API has a request ID.
// An incoming X-Request-ID is kept as-is so callers can correlate across
// retries; otherwise a fresh UUID is generated. The ID is stored in context
// locals and echoed on the response header.
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
