package observability

import (
	"context"
	"errors"
	"fmt"

	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/kbukum/recordkit/component"
	"github.com/kbukum/recordkit/logger"
)

// Component installs the configured exporters on Start and flushes them on
// Stop. With nothing enabled it is a no-op and spans go to the global
// no-op provider.
type Component struct {
	cfg Config
	svc ServiceInfo
	log *logger.Logger

	tp *sdktrace.TracerProvider
	mp *sdkmetric.MeterProvider
}

var _ component.Component = (*Component)(nil)

// NewComponent creates an observability component.
func NewComponent(cfg Config, svc ServiceInfo, log *logger.Logger) *Component {
	cfg.ApplyDefaults()
	return &Component{cfg: cfg, svc: svc, log: log.WithComponent("observability")}
}

// Name returns the component name.
func (c *Component) Name() string { return "observability" }

// Start initializes the enabled providers.
func (c *Component) Start(ctx context.Context) error {
	if c.cfg.TracingEnabled {
		tp, err := InitTracer(ctx, c.cfg, c.svc)
		if err != nil {
			return fmt.Errorf("observability start: %w", err)
		}
		c.tp = tp
		c.log.Info("Tracer initialized", logger.Fields(
			"endpoint", c.cfg.Endpoint,
			"sample_rate", c.cfg.SampleRate,
		))
	}
	if c.cfg.MetricsEnabled {
		mp, err := InitMeter(ctx, c.cfg, c.svc)
		if err != nil {
			return fmt.Errorf("observability start: %w", err)
		}
		c.mp = mp
		c.log.Info("Meter initialized", logger.Fields(
			"endpoint", c.cfg.Endpoint,
			"interval", c.cfg.ExportInterval.String(),
		))
	}
	return nil
}

// Stop flushes and shuts down the providers.
func (c *Component) Stop(ctx context.Context) error {
	var errs []error
	if c.tp != nil {
		errs = append(errs, c.tp.Shutdown(ctx))
	}
	if c.mp != nil {
		errs = append(errs, c.mp.Shutdown(ctx))
	}
	return errors.Join(errs...)
}

// Health reports which exporters are active.
func (c *Component) Health(_ context.Context) component.Health {
	msg := "exporters disabled"
	if c.cfg.Enabled() {
		msg = fmt.Sprintf("tracing=%t metrics=%t endpoint=%s", c.tp != nil, c.mp != nil, c.cfg.Endpoint)
	}
	return component.Healthy(c.Name(), msg)
}
