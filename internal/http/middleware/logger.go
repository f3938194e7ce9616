package middleware

import (
	"io"
	"os"
	"time"

	"github.com/gofiber/fiber/v2"

	"hondaapi/internal/logging"
)

// Logger is a middleware that logs each HTTP request as one JSON line on stdout
// with UTC timestamps. See AccessLog for the fields.
func Logger() fiber.Handler {
	return LoggerWithWriter(os.Stdout, time.UTC)
}

// LoggerWithWriter logs to w with timestamps rendered in loc.
func LoggerWithWriter(w io.Writer, loc *time.Location) fiber.Handler {
	return AccessLog(logging.New(w, loc))
}

// AccessLog logs each HTTP request through log.
// Fields:
// - request_id (taken from context locals set by RequestID middleware)
// - method
// - path (no query string)
// - status
// - latency (in milliseconds, as float)
//
// Server errors are logged at error level.
func AccessLog(log logging.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		err := c.Next()

		rid, _ := c.Locals(RequestIDLocalKey).(string)
		status := c.Response().StatusCode()
		latency := float64(time.Since(start).Microseconds()) / 1000

		args := []any{
			"request_id", rid,
			"method", c.Method(),
			"path", c.Path(),
			"status", status,
			"latency", latency,
		}
		if status >= fiber.StatusInternalServerError {
			log.Error(c.UserContext(), "request", args...)
		} else {
			log.Info(c.UserContext(), "request", args...)
		}

		return err
	}
}
