package observability

import (
	"fmt"
	"time"
)

// Config configures OpenTelemetry tracing and metrics export.
type Config struct {
	// TracingEnabled turns on span export.
	TracingEnabled bool `mapstructure:"tracing_enabled"`
	// MetricsEnabled turns on metric export.
	MetricsEnabled bool `mapstructure:"metrics_enabled"`
	// Endpoint is the OTLP HTTP endpoint host:port (default: localhost:4318).
	Endpoint string `mapstructure:"endpoint"`
	// Insecure disables TLS to the collector (for development).
	Insecure bool `mapstructure:"insecure"`
	// SampleRate is the trace sampling ratio from 0.0 to 1.0 (default: 1.0).
	SampleRate float64 `mapstructure:"sample_rate"`
	// ExportInterval is the metric export interval (default: 15s).
	ExportInterval time.Duration `mapstructure:"export_interval"`
}

// ApplyDefaults sets sensible defaults for zero-valued fields.
func (c *Config) ApplyDefaults() {
	if c.Endpoint == "" {
		c.Endpoint = "localhost:4318"
	}
	if c.SampleRate == 0 {
		c.SampleRate = 1.0
	}
	if c.ExportInterval == 0 {
		c.ExportInterval = 15 * time.Second
	}
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	if c.SampleRate < 0 || c.SampleRate > 1 {
		return fmt.Errorf("observability.sample_rate must be between 0 and 1 (got: %v)", c.SampleRate)
	}
	if c.ExportInterval < 0 {
		return fmt.Errorf("observability.export_interval must not be negative (got: %s)", c.ExportInterval)
	}
	return nil
}

// Enabled reports whether any exporter is configured.
func (c *Config) Enabled() bool {
	return c.TracingEnabled || c.MetricsEnabled
}

// ServiceInfo identifies the service on exported telemetry.
type ServiceInfo struct {
	Name        string
	Version     string
	Environment string
}
