package middleware

import (
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/moementrabelsi/mma/internal/metrics"
)

// MetricsMiddleware records the count and duration of HTTP requests.
// It must wrap logger.Middleware so that error responses are already written.
func MetricsMiddleware(m *metrics.Metrics) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			err := next(c)
			if err != nil && !c.Response().Committed {
				c.Error(err)
				err = nil
			}

			duration := time.Since(start).Seconds()

			method := c.Request().Method
			path := c.Path()
			if path == "" {
				path = "unmatched"
			}
			status := strconv.Itoa(c.Response().Status)

			m.HttpRequestsTotal.WithLabelValues(method, path, status).Inc()
			m.HttpRequestDuration.WithLabelValues(method, path, status).Observe(duration)

			return err
		}
	}
}
