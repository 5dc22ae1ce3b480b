package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/educare-ngo/educare-api/internal/service"
)

// Metrics records method, route template, status and latency for every
// request. Uses the route template rather than the raw URL so ids do not
// explode label cardinality.
func Metrics(metricsSvc *service.MetricsService) gin.HandlerFunc {
	if metricsSvc == nil {
		return func(c *gin.Context) { c.Next() }
	}
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			// Unmatched routes all land on the 404 handler.
			route = "unmatched"
		}
		metricsSvc.ObserveHTTPRequest(c.Request.Method, route, c.Writer.Status(), time.Since(start))
	}
}
