package synthesis

import (
	"time"

	"github.com/kbukum/lingolink/provider"
)

// Defaults of the synthesizer stage.
const (
	DefaultProvider = "gtts"
	DefaultTimeout  = 60 * time.Second
)

// Config configures the synthesizer stage.
type Config struct {
	provider.Config `mapstructure:",squash"`
}

// ApplyDefaults fills in zero-valued fields.
func (c *Config) ApplyDefaults() {
	c.Config.ApplyDefaults(DefaultProvider, DefaultTimeout)
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	return c.Config.Validate("synthesizer")
}
