package component

import "context"

// HealthStatus is the state reported by a component's health probe.
type HealthStatus string

const (
	StatusHealthy   HealthStatus = "healthy"
	StatusDegraded  HealthStatus = "degraded"
	StatusUnhealthy HealthStatus = "unhealthy"
)

// Health is one component's entry in the /health report.
type Health struct {
	Name    string       `json:"name"`
	Status  HealthStatus `json:"status"`
	Message string       `json:"message,omitempty"`
}

func Healthy(name, message string) Health {
	return Health{Name: name, Status: StatusHealthy, Message: message}
}

func Degraded(name, message string) Health {
	return Health{Name: name, Status: StatusDegraded, Message: message}
}

func Unhealthy(name, message string) Health {
	return Health{Name: name, Status: StatusUnhealthy, Message: message}
}

// Component is a long-lived part of the service: storage, the recognizer
// model, the retention sweeper, the HTTP server. Names must be unique
// within a Registry.
type Component interface {
	Name() string
	// Start returning an error aborts startup.
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
	Health(ctx context.Context) Health
}

// Description is a component's line in the startup summary.
type Description struct {
	// Name defaults to the component's Name().
	Name string
	// Type groups components: "storage", "server", "model", "stage".
	Type string
	// Details is a short config summary such as "provider=local base_path=uploads".
	Details string
}

// Describable components appear in the startup summary.
type Describable interface {
	Describe() Description
}
