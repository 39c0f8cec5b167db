package audiostore

import (
	"time"

	"github.com/kbukum/lingolink/validation"
)

// Defaults of the retention policy.
const (
	DefaultMaxAge        = 24 * time.Hour
	DefaultSweepInterval = 10 * time.Minute
	DefaultWriteTimeout  = 30 * time.Second
)

// Config is the retention policy for generated audio.
//
//	retention:
//	  max_age: 24h
//	  sweep_interval: 10m
//	  delete_after_serve: false
type Config struct {
	// MaxAge is how long a generated file stays retrievable.
	MaxAge time.Duration `mapstructure:"max_age"`
	// SweepInterval is the period of the background sweeper.
	SweepInterval time.Duration `mapstructure:"sweep_interval"`
	// DeleteAfterServe removes a file once it has been served completely.
	DeleteAfterServe bool `mapstructure:"delete_after_serve"`
	// WriteTimeout bounds one write to storage.
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

// ApplyDefaults fills in zero-valued fields.
func (c *Config) ApplyDefaults() {
	if c.MaxAge <= 0 {
		c.MaxAge = DefaultMaxAge
	}
	if c.SweepInterval <= 0 {
		c.SweepInterval = DefaultSweepInterval
	}
	if c.WriteTimeout <= 0 {
		c.WriteTimeout = DefaultWriteTimeout
	}
}

// Validate checks the retention policy.
func (c *Config) Validate() error {
	return validation.Check("retention").
		Positive("max_age", c.MaxAge).
		Positive("sweep_interval", c.SweepInterval).
		Positive("write_timeout", c.WriteTimeout).
		Err()
}
