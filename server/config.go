package server

import (
	"cmp"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/kbukum/lingolink/server/middleware"
	"github.com/kbukum/lingolink/util"
	"github.com/kbukum/lingolink/validation"
)

const (
	DefaultHost        = "0.0.0.0"
	DefaultPort        = 5000
	DefaultMaxBodySize = "25MB"
)

// Config is the "server" section.
type Config struct {
	Host string `yaml:"host" mapstructure:"host"`
	Port int    `yaml:"port" mapstructure:"port"`

	ReadTimeout time.Duration `yaml:"read_timeout" mapstructure:"read_timeout"`
	// WriteTimeout covers the whole pipeline run of /process_audio.
	WriteTimeout time.Duration `yaml:"write_timeout" mapstructure:"write_timeout"`
	IdleTimeout  time.Duration `yaml:"idle_timeout" mapstructure:"idle_timeout"`

	MaxBodySize string                `yaml:"max_body_size" mapstructure:"max_body_size"`
	CORS        middleware.CORSConfig `yaml:"cors" mapstructure:"cors"`
}

// ApplyDefaults fills unset fields.
func (c *Config) ApplyDefaults() {
	c.Host = cmp.Or(c.Host, DefaultHost)
	c.Port = cmp.Or(c.Port, DefaultPort)
	c.ReadTimeout = cmp.Or(c.ReadTimeout, time.Minute)
	c.WriteTimeout = cmp.Or(c.WriteTimeout, 6*time.Minute)
	c.IdleTimeout = cmp.Or(c.IdleTimeout, 2*time.Minute)
	c.MaxBodySize = cmp.Or(c.MaxBodySize, DefaultMaxBodySize)

	cors := &c.CORS
	if len(cors.AllowedOrigins) == 0 {
		cors.AllowedOrigins = []string{"*"}
	}
	if len(cors.AllowedMethods) == 0 {
		cors.AllowedMethods = []string{http.MethodGet, http.MethodPost, http.MethodOptions}
	}
	if len(cors.AllowedHeaders) == 0 {
		cors.AllowedHeaders = []string{"Origin", "Content-Type", "Accept", middleware.HeaderRequestID}
	}
	cors.MaxAge = cmp.Or(cors.MaxAge, 600)
}

// Validate reports every invalid field at once.
func (c *Config) Validate() error {
	_, sizeErr := util.ParseByteSize(c.MaxBodySize)
	return validation.Check("server").
		That(c.Port >= 0 && c.Port <= 65535, "port", "must be between 0 and 65535 (got: "+strconv.Itoa(c.Port)+")").
		Positive("read_timeout", c.ReadTimeout).
		Positive("write_timeout", c.WriteTimeout).
		Positive("idle_timeout", c.IdleTimeout).
		That(sizeErr == nil, "max_body_size", "must be a size such as 25MB").
		Err()
}

// Addr is the configured listen address.
func (c *Config) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}
