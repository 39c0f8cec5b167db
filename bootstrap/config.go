package bootstrap

import (
	"github.com/kbukum/lingolink/config"
)

// Config is the constraint for application configuration types. Any struct
// that embeds config.ServiceConfig and defines ApplyDefaults/Validate
// satisfies it.
//
//	type Config struct {
//	    config.ServiceConfig `yaml:",inline" mapstructure:",squash"`
//	    Server server.Config `yaml:"server" mapstructure:"server"`
//	}
//
//	app, err := bootstrap.NewApp[*Config](&cfg)
type Config interface {
	Base() *config.ServiceConfig
	ApplyDefaults()
	Validate() error
}
