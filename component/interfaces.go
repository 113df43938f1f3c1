package component

import "context"

// HealthStatus is a component's state as reported by /health.
type HealthStatus string

const (
	StatusHealthy   HealthStatus = "healthy"
	StatusUnhealthy HealthStatus = "unhealthy"
	StatusDegraded  HealthStatus = "degraded"
)

// Health is one component's entry in a health report.
type Health struct {
	Name    string       `json:"name"`
	Status  HealthStatus `json:"status"`
	Message string       `json:"message,omitempty"`
}

// Healthy reports name as working. detail is optional.
func Healthy(name, detail string) Health {
	return Health{Name: name, Status: StatusHealthy, Message: detail}
}

// Unhealthy reports name as failing with reason.
func Unhealthy(name, reason string) Health {
	return Health{Name: name, Status: StatusUnhealthy, Message: reason}
}

// Component is infrastructure with a start/stop lifecycle, such as the
// database pool, the telemetry exporters or the HTTP listener. Components
// start in registration order and stop in reverse.
type Component interface {
	Name() string
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
	Health(ctx context.Context) Health
}
