package observability

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/kbukum/recordkit/errors"
)

// StatusOK is the status recorded for operations that return no error.
const StatusOK = "ok"

// Operation is a traced and counted unit of work.
type Operation struct {
	ctx       context.Context
	span      trace.Span
	component string
	name      string
	start     time.Time
	metrics   *Metrics
}

// Start begins an operation named component.name with a child span.
//
//	ctx, op := observability.Start(ctx, "resource", "list")
//	defer func() { op.End(err) }()
func Start(ctx context.Context, component, name string, attrs ...attribute.KeyValue) (context.Context, *Operation) {
	ctx, span := StartSpan(ctx, component+"."+name, trace.WithAttributes(
		append([]attribute.KeyValue{
			attribute.String(AttrComponent, component),
			attribute.String(AttrOperation, name),
		}, attrs...)...,
	))
	return ctx, &Operation{
		ctx:       ctx,
		span:      span,
		component: component,
		name:      name,
		start:     time.Now(),
		metrics:   DefaultMetrics(),
	}
}

// SetAttributes adds attributes to the operation span.
func (op *Operation) SetAttributes(attrs ...attribute.KeyValue) {
	op.span.SetAttributes(attrs...)
}

// End finishes the span and records the outcome. Domain errors are
// recorded by code; anything else counts as an internal error.
func (op *Operation) End(err error) {
	status := Status(err)
	op.span.SetAttributes(attribute.String(AttrStatus, status))
	if err != nil {
		op.span.RecordError(err)
		if appErr := errors.From(err); appErr.HTTPStatus >= 500 {
			op.span.SetStatus(codes.Error, appErr.Message)
		}
	}
	op.span.End()
	op.metrics.RecordOperation(op.ctx, op.component, op.name, status, time.Since(op.start))
}

// Status maps err to the status label recorded on spans and metrics.
func Status(err error) string {
	if err == nil {
		return StatusOK
	}
	return string(errors.From(err).Code)
}
