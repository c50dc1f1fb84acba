package middleware

import (
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

const requestIDHeader = "X-Request-ID"

// RequestID tags every request with a UUID (reusing one supplied by the
// client) and logs method, path, status and latency with that id so log
// lines from one request can be correlated.
func RequestID() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			rid := c.Request().Header.Get(requestIDHeader)
			if rid == "" {
				rid = uuid.NewString()
			}
			c.Set("request_id", rid)
			c.Response().Header().Set(requestIDHeader, rid)

			start := time.Now()
			err := next(c)
			log.Printf("[%s] %s %s -> %d (%s)",
				rid, c.Request().Method, c.Request().URL.Path,
				c.Response().Status, time.Since(start))
			return err
		}
	}
}
