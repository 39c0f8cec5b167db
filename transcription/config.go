package transcription

import (
	"time"

	"github.com/kbukum/lingolink/provider"
)

// Defaults of the recognizer stage.
const (
	DefaultProvider = "whisper"
	DefaultTimeout  = 120 * time.Second
	DefaultMaxWait  = 2 * time.Minute
)

// Config configures the recognizer stage.
type Config struct {
	provider.Config `mapstructure:",squash"`
	// Language is passed to the backend as a hint. Empty means auto-detect.
	Language string `mapstructure:"language"`
	// MaxConcurrent is the number of recognitions allowed at once.
	// 1 unless the engine is known to be safe for concurrent calls.
	MaxConcurrent int `mapstructure:"max_concurrent"`
	// MaxWait bounds how long a request queues for the recognizer.
	MaxWait time.Duration `mapstructure:"max_wait"`
	// LoadTimeout bounds model loading at startup.
	LoadTimeout time.Duration `mapstructure:"load_timeout"`
}

// ApplyDefaults fills in zero-valued fields.
func (c *Config) ApplyDefaults() {
	c.Config.ApplyDefaults(DefaultProvider, DefaultTimeout)
	if c.MaxConcurrent <= 0 {
		c.MaxConcurrent = 1
	}
	if c.MaxWait <= 0 {
		c.MaxWait = DefaultMaxWait
	}
	if c.LoadTimeout <= 0 {
		c.LoadTimeout = 5 * time.Minute
	}
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	return c.Checks("recognizer").
		Language("language", c.Language).
		AtLeast("max_concurrent", c.MaxConcurrent, 1).
		Positive("max_wait", c.MaxWait).
		Err()
}
