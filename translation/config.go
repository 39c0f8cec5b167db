package translation

import (
	"time"

	"github.com/kbukum/lingolink/provider"
)

// Defaults of the translator stage.
const (
	DefaultProvider = "google"
	DefaultTimeout  = 30 * time.Second
)

// Config configures the translator stage.
type Config struct {
	provider.Config `mapstructure:",squash"`
	CircuitBreaker  CircuitBreakerConfig `mapstructure:"circuit_breaker"`
}

// CircuitBreakerConfig lets a dead translation service fail fast into the fallback.
type CircuitBreakerConfig struct {
	Enabled     bool          `mapstructure:"enabled"`
	MaxFailures int           `mapstructure:"max_failures"`
	OpenTimeout time.Duration `mapstructure:"open_timeout"`
}

// ApplyDefaults fills in zero-valued fields.
func (c *Config) ApplyDefaults() {
	c.Config.ApplyDefaults(DefaultProvider, DefaultTimeout)
	if c.CircuitBreaker.MaxFailures <= 0 {
		c.CircuitBreaker.MaxFailures = 5
	}
	if c.CircuitBreaker.OpenTimeout <= 0 {
		c.CircuitBreaker.OpenTimeout = 30 * time.Second
	}
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	checks := c.Checks("translator")
	if c.CircuitBreaker.Enabled {
		checks.AtLeast("circuit_breaker.max_failures", c.CircuitBreaker.MaxFailures, 1).
			Positive("circuit_breaker.open_timeout", c.CircuitBreaker.OpenTimeout)
	}
	return checks.Err()
}
