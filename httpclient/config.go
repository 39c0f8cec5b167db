package httpclient

import (
	"time"

	"github.com/kbukum/lingolink/validation"
)

// Config describes one upstream.
type Config struct {
	// Name labels the upstream in errors.
	Name    string        `yaml:"name" mapstructure:"name"`
	BaseURL string        `yaml:"base_url" mapstructure:"base_url"`
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout"`
	// Headers go out on every call; request headers override them.
	Headers   map[string]string `yaml:"headers" mapstructure:"headers"`
	UserAgent string            `yaml:"user_agent" mapstructure:"user_agent"`
	// MaxBodyBytes truncates response bodies. 0 reads everything.
	MaxBodyBytes int64 `yaml:"max_body_bytes" mapstructure:"max_body_bytes"`
	Auth         Auth  `yaml:"-" mapstructure:"-"`
}

// ApplyDefaults sets a 30s timeout and the name "http".
func (c *Config) ApplyDefaults() {
	if c.Timeout <= 0 {
		c.Timeout = 30 * time.Second
	}
	if c.Name == "" {
		c.Name = "http"
	}
}

// Validate reports unusable settings.
func (c *Config) Validate() error {
	return validation.Check("httpclient").
		Positive("timeout", c.Timeout).
		That(c.MaxBodyBytes >= 0, "max_body_bytes", "must not be negative").
		Err()
}
