package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/kbukum/recordkit/logger"
	"github.com/kbukum/recordkit/observability"
)

// Tracing starts a server span per request and puts the trace and span ids
// into the logger context. Route templates name the span so ids in paths do
// not explode span cardinality.
func Tracing() gin.HandlerFunc {
	return func(c *gin.Context) {
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		ctx, span := observability.StartSpan(c.Request.Context(), c.Request.Method+" "+route,
			trace.WithSpanKind(trace.SpanKindServer),
			trace.WithAttributes(
				attribute.String("http.request.method", c.Request.Method),
				attribute.String("http.route", route),
			),
		)
		defer span.End()

		if id := c.GetString(logger.FieldRequestID); id != "" {
			span.SetAttributes(attribute.String(observability.AttrRequestID, id))
		}
		if sc := span.SpanContext(); sc.IsValid() {
			ctx = logger.ContextWithTrace(ctx, sc.TraceID().String(), sc.SpanID().String())
		}
		c.Request = c.Request.WithContext(ctx)

		c.Next()

		status := c.Writer.Status()
		span.SetAttributes(attribute.Int("http.response.status_code", status))
		if status >= http.StatusInternalServerError {
			span.SetStatus(codes.Error, http.StatusText(status))
		}
	}
}
