package middleware

import (
	"strconv"
	"time"

	"todoref/internal/core/port"
	"todoref/internal/core/telemetry"

	"github.com/gin-gonic/gin"
)

// MetricsMiddleware records every request in Prometheus and on the request
// span through the probe. Either may be nil.
func MetricsMiddleware(metrics *telemetry.AppMetrics, probe port.Telemetry) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		ctx := c.Request.Context()

		if metrics != nil {
			metrics.IncrementActiveConnections(ctx)
			defer metrics.DecrementActiveConnections(ctx)
		}

		c.Next()

		path := c.FullPath()

		if path == "" {
			path = "unmatched"
		}

		status := c.Writer.Status()
		duration := time.Since(start)

		if metrics != nil {
			metrics.RecordRequest(ctx, c.Request.Method, path, strconv.Itoa(status), duration)
		}

		if probe != nil {
			probe.RecordHTTPOperation(ctx, c.Request.Method, path, status, duration)
		}
	}
}
