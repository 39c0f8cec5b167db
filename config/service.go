package config

import (
	"cmp"
	"fmt"

	"github.com/kbukum/lingolink/logger"
	"github.com/kbukum/lingolink/validation"
)

// Deployment environments.
const (
	EnvDevelopment = "development"
	EnvStaging     = "staging"
	EnvProduction  = "production"
)

// ServiceConfig is the top-level block shared by every service config.
// Embed it squashed:
//
//	type Config struct {
//	    config.ServiceConfig `yaml:",inline" mapstructure:",squash"`
//	    Storage storage.Config `yaml:"storage" mapstructure:"storage"`
//	}
type ServiceConfig struct {
	Name        string `yaml:"name" mapstructure:"name"`
	Environment string `yaml:"environment" mapstructure:"environment"`
	Version     string `yaml:"version" mapstructure:"version"`
	// Debug lowers the default log level to debug and puts Gin in debug mode.
	Debug   bool          `yaml:"debug" mapstructure:"debug"`
	Logging logger.Config `yaml:"logging" mapstructure:"logging"`
}

// Base returns c. Embedding structs inherit it, which is how bootstrap
// finds the shared block.
func (c *ServiceConfig) Base() *ServiceConfig { return c }

// ApplyDefaults turns Debug on in development.
func (c *ServiceConfig) ApplyDefaults() {
	c.Environment = cmp.Or(c.Environment, EnvDevelopment)
	if c.Environment == EnvDevelopment {
		c.Debug = true
	}
	if c.Debug && c.Logging.Level == "" {
		c.Logging.Level = "debug"
	}
	c.Logging.ApplyDefaults()
}

func (c *ServiceConfig) Validate() error {
	err := validation.Check("config").
		Required("name", c.Name).
		That(c.Environment != "", "environment", "is required").
		OneOf("environment", c.Environment, EnvDevelopment, EnvStaging, EnvProduction).
		Err()
	if err != nil {
		return err
	}
	if err := c.Logging.Validate(); err != nil {
		return fmt.Errorf("config.%w", err)
	}
	return nil
}
