package storage

import (
	"errors"
	"fmt"
)

// Backends.
const (
	ProviderLocal = "local"
	ProviderS3    = "s3"
)

// Defaults.
const (
	DefaultProvider = ProviderLocal
	DefaultBasePath = "uploads"
	DefaultRegion   = "us-east-1"
)

// Config selects where generated audio is kept.
//
//	storage:
//	  provider: s3
//	  s3:
//	    bucket: lingolink-audio
//	    prefix: generated
//	    endpoint: http://minio:9000
type Config struct {
	Provider string      `mapstructure:"provider" json:"provider"`
	Local    LocalConfig `mapstructure:"local" json:"local"`
	S3       S3Config    `mapstructure:"s3" json:"s3"`
}

// LocalConfig keeps files in a directory, ./uploads by default.
type LocalConfig struct {
	BasePath string `mapstructure:"base_path" json:"base_path"`
}

// S3Config keeps files in an S3 bucket or an S3-compatible server.
type S3Config struct {
	Bucket string `mapstructure:"bucket" json:"bucket"`
	// Prefix is prepended to every key, e.g. "generated".
	Prefix string `mapstructure:"prefix" json:"prefix"`
	Region string `mapstructure:"region" json:"region"`
	// Endpoint overrides the AWS endpoint; it implies path-style addressing.
	Endpoint string `mapstructure:"endpoint" json:"endpoint"`
	// AccessKey and SecretKey are optional; without them the default AWS
	// credential chain is used.
	AccessKey      string `mapstructure:"access_key" json:"access_key"`
	SecretKey      string `mapstructure:"secret_key" json:"-"`
	ForcePathStyle bool   `mapstructure:"force_path_style" json:"force_path_style"`
}

// ApplyDefaults fills in zero-valued fields.
func (c *Config) ApplyDefaults() {
	if c.Provider == "" {
		c.Provider = DefaultProvider
	}
	if c.Local.BasePath == "" {
		c.Local.BasePath = DefaultBasePath
	}
	if c.S3.Region == "" {
		c.S3.Region = DefaultRegion
	}
}

// Validate checks the section of the selected backend only.
func (c *Config) Validate() error {
	switch c.Provider {
	case ProviderLocal:
		if c.Local.BasePath == "" {
			return errors.New("storage.local.base_path is required")
		}
		return nil
	case ProviderS3:
		return c.S3.Validate()
	default:
		return fmt.Errorf("storage.provider %q is not supported (use %s or %s)", c.Provider, ProviderLocal, ProviderS3)
	}
}

// Validate checks the bucket settings.
func (c *S3Config) Validate() error {
	var errs []error
	if c.Bucket == "" {
		errs = append(errs, errors.New("bucket is required"))
	}
	if c.Region == "" {
		errs = append(errs, errors.New("region is required"))
	}
	if (c.AccessKey == "") != (c.SecretKey == "") {
		errs = append(errs, errors.New("access_key and secret_key must be set together"))
	}
	if len(errs) > 0 {
		return fmt.Errorf("storage.s3: %w", errors.Join(errs...))
	}
	return nil
}

// Location describes where objects live, for the startup summary.
func (c *Config) Location() string {
	if c.Provider != ProviderS3 {
		return "base_path=" + c.Local.BasePath
	}
	loc := "bucket=" + c.S3.Bucket
	if c.S3.Prefix != "" {
		loc += " prefix=" + c.S3.Prefix
	}
	if c.S3.Endpoint != "" {
		loc += " endpoint=" + c.S3.Endpoint
	}
	return loc
}
