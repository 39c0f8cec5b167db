package observability

import (
	"context"
	"fmt"

	"github.com/kbukum/lingolink/component"
	"github.com/kbukum/lingolink/logger"
)

// Component owns the tracer and meter providers for the process lifetime.
type Component struct {
	cfg         Config
	serviceName string
	version     string
	environment string
	log         *logger.Logger

	providers *providers
	metrics   *Metrics
}

var _ component.Component = (*Component)(nil)

// NewComponent creates the telemetry component.
func NewComponent(cfg Config, serviceName, version, environment string, log *logger.Logger) *Component {
	cfg.ApplyDefaults()
	return &Component{
		cfg:         cfg,
		serviceName: serviceName,
		version:     version,
		environment: environment,
		log:         log.WithComponent("observability"),
	}
}

// Name returns the component name.
func (c *Component) Name() string { return "observability" }

// Start installs the OTLP exporters when telemetry is enabled.
func (c *Component) Start(ctx context.Context) error {
	if !c.cfg.Enabled {
		c.log.Info("telemetry disabled")
		return nil
	}

	res, err := newResource(c.serviceName, c.version, c.environment)
	if err != nil {
		return fmt.Errorf("observability: resource: %w", err)
	}
	p, err := install(ctx, c.cfg, res)
	if err != nil {
		return fmt.Errorf("observability: %w", err)
	}
	metrics, err := NewMetrics(p.meter.Meter(c.serviceName))
	if err != nil {
		_ = p.shutdown(ctx)
		return fmt.Errorf("observability: %w", err)
	}
	c.providers, c.metrics = p, metrics
	c.log.Info("telemetry exporting", logger.Fields("endpoint", c.cfg.Endpoint, "sample_rate", c.cfg.SampleRate))
	return nil
}

// Metrics returns the service instruments, or nil when telemetry is disabled.
// Metrics methods are nil-safe.
func (c *Component) Metrics() *Metrics { return c.metrics }

// Stop flushes and shuts down the providers.
func (c *Component) Stop(ctx context.Context) error {
	return c.providers.shutdown(ctx)
}

// Health reports the component as healthy; export failures are retried by the SDK.
func (c *Component) Health(_ context.Context) component.Health {
	msg := "disabled"
	if c.cfg.Enabled {
		msg = "exporting to " + c.cfg.Endpoint
	}
	return component.Healthy(c.Name(), msg)
}

// Describe returns the startup summary line.
func (c *Component) Describe() component.Description {
	return component.Description{
		Name:    "Telemetry",
		Type:    "observability",
		Details: fmt.Sprintf("enabled=%t endpoint=%s sample_rate=%.2f", c.cfg.Enabled, c.cfg.Endpoint, c.cfg.SampleRate),
	}
}
