package pipeline

import (
	"os"
	"path/filepath"
	"time"

	"github.com/kbukum/lingolink/validation"
)

// Defaults of the pipeline.
const (
	DefaultTargetLang     = "en"
	DefaultInputExtension = ".webm"
	DefaultRequestTimeout = 5 * time.Minute
	DefaultAudioURLPrefix = "/uploads/"
)

// Config configures request processing.
//
//	pipeline:
//	  work_dir: /tmp/lingolink
//	  default_target_lang: en
//	  request_timeout: 5m
type Config struct {
	// WorkDir holds the per-request workspaces.
	WorkDir string `mapstructure:"work_dir"`
	// DefaultTargetLang is used when a request names no target language.
	DefaultTargetLang string `mapstructure:"default_target_lang"`
	// RequestTimeout bounds the whole pipeline; each stage also has its own.
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
	// AudioURLPrefix is prepended to generated file names in results.
	AudioURLPrefix string `mapstructure:"audio_url_prefix"`
}

// ApplyDefaults fills in zero-valued fields.
func (c *Config) ApplyDefaults() {
	if c.WorkDir == "" {
		c.WorkDir = filepath.Join(os.TempDir(), "lingolink")
	}
	if c.DefaultTargetLang == "" {
		c.DefaultTargetLang = DefaultTargetLang
	}
	if c.RequestTimeout <= 0 {
		c.RequestTimeout = DefaultRequestTimeout
	}
	if c.AudioURLPrefix == "" {
		c.AudioURLPrefix = DefaultAudioURLPrefix
	}
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	return validation.Check("pipeline").
		Required("work_dir", c.WorkDir).
		Language("default_target_lang", c.DefaultTargetLang).
		Positive("request_timeout", c.RequestTimeout).
		Err()
}
