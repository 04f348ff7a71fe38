package middleware

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/popstats/backend/internal/infrastructure/telemetry"
)

// ProfileOperation tags the handler goroutine with the route, method and
// aggregation operation so Pyroscope profiles from the HTTP server and the
// console runner can be compared per operation. Mount it per route.
func ProfileOperation(enabled bool, operation string) gin.HandlerFunc {
	if !enabled {
		return func(c *gin.Context) { c.Next() }
	}
	return func(c *gin.Context) {
		labels := map[string]string{
			telemetry.ProfilingLabelMethod:    c.Request.Method,
			telemetry.ProfilingLabelRoute:     c.FullPath(),
			telemetry.ProfilingLabelOperation: operation,
		}
		telemetry.WithProfilingLabels(c.Request.Context(), labels, func(ctx context.Context) {
			c.Request = c.Request.WithContext(ctx)
			c.Next()
		})
	}
}
