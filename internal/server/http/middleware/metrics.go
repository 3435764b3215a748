package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/polkiloo/orderservice/internal/metrics"
)

// RequestMetrics records count and latency per matched route.
func RequestMetrics(m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.ObserveRequest(route, c.Request.Method, c.Writer.Status(), time.Since(start))
	}
}
