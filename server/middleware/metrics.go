package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/recordkit/observability"
)

// Metrics records request count, latency and in-flight requests. A nil
// metrics set records nothing.
func Metrics(m *observability.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		if m == nil {
			c.Next()
			return
		}
		ctx := c.Request.Context()
		start := time.Now()
		m.RecordRequestStart(ctx)

		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.RecordRequestEnd(ctx, c.Request.Method, route, c.Writer.Status(), time.Since(start))
	}
}
