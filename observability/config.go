package observability

import (
	"fmt"
	"time"
)

// Config holds the telemetry settings of the service.
type Config struct {
	// Enabled turns on OTLP export of traces and metrics.
	Enabled bool `mapstructure:"enabled" json:"enabled"`
	// Endpoint is the OTLP HTTP collector host:port.
	Endpoint string `mapstructure:"endpoint" json:"endpoint"`
	// Insecure disables TLS towards the collector.
	Insecure bool `mapstructure:"insecure" json:"insecure"`
	// SampleRate is the trace sampling ratio between 0 and 1.
	SampleRate float64 `mapstructure:"sample_rate" json:"sample_rate"`
	// MetricInterval is the metric export period.
	MetricInterval time.Duration `mapstructure:"metric_interval" json:"metric_interval"`
}

// ApplyDefaults fills in zero-valued fields.
func (c *Config) ApplyDefaults() {
	if c.Endpoint == "" {
		c.Endpoint = "localhost:4318"
	}
	if c.SampleRate == 0 {
		c.SampleRate = 1.0
	}
	if c.MetricInterval <= 0 {
		c.MetricInterval = 15 * time.Second
	}
}

// Validate checks the sampling ratio.
func (c *Config) Validate() error {
	if c.SampleRate < 0 || c.SampleRate > 1 {
		return fmt.Errorf("observability.sample_rate must be within [0, 1] (got: %v)", c.SampleRate)
	}
	return nil
}
