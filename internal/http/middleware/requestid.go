package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const (
	// RequestIDHeader carries the request ID on both request and response.
	RequestIDHeader = "X-Request-ID"
	// RequestIDLocalKey is where the request ID lives in Fiber's locals.
	RequestIDLocalKey = "request_id"

	// maxRequestIDLen bounds inbound IDs so a hostile client cannot bloat
	// every log line; anything longer is replaced with a fresh UUID.
	maxRequestIDLen = 64
)

// RequestID makes sure every request has an ID: it honors a reasonable
// inbound X-Request-ID, mints a UUID otherwise, and echoes the value on the
// response so callers can correlate.
func RequestID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Get(RequestIDHeader)
		if id == "" || len(id) > maxRequestIDLen {
			id = uuid.NewString()
		}

		c.Locals(RequestIDLocalKey, id)
		c.Set(RequestIDHeader, id)

		return c.Next()
	}
}
