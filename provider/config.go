package provider

import (
	"time"

	"github.com/kbukum/lingolink/validation"
)

// Config selects and configures the backend of one pipeline stage.
//
//	translator:
//	  provider: google
//	  timeout: 30s
//	  options:
//	    base_url: https://translate.googleapis.com
type Config struct {
	// Provider is the registered backend name.
	Provider string `mapstructure:"provider"`
	// Timeout bounds one call into the stage.
	Timeout time.Duration `mapstructure:"timeout"`
	// Options are decoded by the backend's factory with DecodeOptions.
	Options map[string]any `mapstructure:"options"`
}

// ApplyDefaults fills in the backend name and timeout when unset.
func (c *Config) ApplyDefaults(provider string, timeout time.Duration) {
	if c.Provider == "" {
		c.Provider = provider
	}
	if c.Timeout <= 0 {
		c.Timeout = timeout
	}
}

// Checks returns the rules every stage section shares, for stage configs
// to extend with their own.
func (c *Config) Checks(stage string) *validation.Checks {
	return validation.Check(stage).
		Required("provider", c.Provider).
		Positive("timeout", c.Timeout)
}

// Validate checks that a backend is named and the timeout is positive.
func (c *Config) Validate(stage string) error {
	return c.Checks(stage).Err()
}
