package main

import (
	"github.com/kbukum/lingolink/audiostore"
	"github.com/kbukum/lingolink/config"
	"github.com/kbukum/lingolink/observability"
	"github.com/kbukum/lingolink/pipeline"
	"github.com/kbukum/lingolink/provider"
	"github.com/kbukum/lingolink/server"
	"github.com/kbukum/lingolink/storage"
	"github.com/kbukum/lingolink/synthesis"
	"github.com/kbukum/lingolink/transcoding"
	"github.com/kbukum/lingolink/transcoding/ffmpeg"
	"github.com/kbukum/lingolink/transcription"
	"github.com/kbukum/lingolink/translation"
	"github.com/kbukum/lingolink/version"
)

const serviceName = "lingolink"

// Config is the lingolink service configuration.
type Config struct {
	config.ServiceConfig `yaml:",inline" mapstructure:",squash"`

	Server        server.Config        `yaml:"server" mapstructure:"server"`
	Storage       storage.Config       `yaml:"storage" mapstructure:"storage"`
	Pipeline      pipeline.Config      `yaml:"pipeline" mapstructure:"pipeline"`
	Transcoder    provider.Config      `yaml:"transcoder" mapstructure:"transcoder"`
	Recognizer    transcription.Config `yaml:"recognizer" mapstructure:"recognizer"`
	Translator    translation.Config   `yaml:"translator" mapstructure:"translator"`
	Synthesizer   synthesis.Config     `yaml:"synthesizer" mapstructure:"synthesizer"`
	Retention     audiostore.Config    `yaml:"retention" mapstructure:"retention"`
	Observability observability.Config `yaml:"observability" mapstructure:"observability"`
}

// ApplyDefaults fills every section.
func (c *Config) ApplyDefaults() {
	if c.Name == "" {
		c.Name = serviceName
	}
	if c.Version == "" {
		c.Version = version.Get().Version
	}
	c.ServiceConfig.ApplyDefaults()
	c.Server.ApplyDefaults()
	c.Storage.ApplyDefaults()
	c.Pipeline.ApplyDefaults()
	c.Transcoder.ApplyDefaults(ffmpeg.ProviderName, transcoding.DefaultTimeout)
	c.Recognizer.ApplyDefaults()
	c.Translator.ApplyDefaults()
	c.Synthesizer.ApplyDefaults()
	c.Retention.ApplyDefaults()
	c.Observability.ApplyDefaults()
}

// Validate checks every section and stops at the first problem.
func (c *Config) Validate() error {
	checks := []func() error{
		c.ServiceConfig.Validate,
		c.Server.Validate,
		c.Storage.Validate,
		c.Pipeline.Validate,
		func() error { return c.Transcoder.Validate("transcoder") },
		c.Recognizer.Validate,
		c.Translator.Validate,
		c.Synthesizer.Validate,
		c.Retention.Validate,
		c.Observability.Validate,
	}
	for _, check := range checks {
		if err := check(); err != nil {
			return err
		}
	}
	return nil
}
