package middleware

import (
	"time"

	"pizzeria/internal/logger"

	"github.com/labstack/echo/v4"
)

// RequestLogger puts a request-scoped logger carrying the request id into the
// request context and logs one line per request. Runs after echo's RequestID.
func RequestLogger() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			rid := c.Response().Header().Get(echo.HeaderXRequestID)

			l := logger.L.With("request_id", rid)
			c.SetRequest(req.WithContext(logger.Inject(req.Context(), l)))

			start := time.Now()
			err := next(c)
			if err != nil {
				c.Error(err)
			}

			l.Info("request",
				"method", req.Method,
				"path", c.Path(),
				"status", c.Response().Status,
				"duration_ms", time.Since(start).Milliseconds(),
			)
			return nil
		}
	}
}
