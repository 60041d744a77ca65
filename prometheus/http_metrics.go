package prometheus

import (
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
)

// MetricsMiddleware creates an Echo middleware that records HTTP
// request metrics. InitMetrics must run before the server starts.
func MetricsMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			err := next(c)

			// Record metrics after the request is processed
			status := strconv.Itoa(c.Response().Status)
			method := c.Request().Method
			path := c.Path()

			if HTTPRequestCounter != nil {
				HTTPRequestCounter.WithLabelValues(method, path, status).Inc()
				HTTPRequestDuration.WithLabelValues(method, path, status).Observe(time.Since(start).Seconds())
			}

			return err
		}
	}
}

var (
	HTTPRequestCounter  *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
)
