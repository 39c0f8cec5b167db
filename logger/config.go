package logger

import (
	"fmt"
	"slices"
)

// Output formats.
const (
	FormatJSON    = "json"
	FormatConsole = "console"
)

var levels = []string{"trace", "debug", "info", "warn", "error", "fatal"}

// Config is the logging section of the service config.
type Config struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
	// Output is stdout or stderr.
	Output  string `yaml:"output" mapstructure:"output"`
	NoColor bool   `yaml:"no_color" mapstructure:"no_color"`
	Caller  bool   `yaml:"caller" mapstructure:"caller"`
}

func (c *Config) ApplyDefaults() {
	if c.Level == "" {
		c.Level = "info"
	}
	if c.Format == "" {
		c.Format = FormatConsole
	}
	if c.Output == "" {
		c.Output = "stdout"
	}
}

func (c *Config) Validate() error {
	if !slices.Contains(levels, c.Level) {
		return fmt.Errorf("logging.level must be one of %v (got: %s)", levels, c.Level)
	}
	if c.Format != FormatJSON && c.Format != FormatConsole {
		return fmt.Errorf("logging.format must be %s or %s (got: %s)", FormatJSON, FormatConsole, c.Format)
	}
	if c.Output != "stdout" && c.Output != "stderr" {
		return fmt.Errorf("logging.output must be stdout or stderr (got: %s)", c.Output)
	}
	return nil
}
