package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Option adjusts LoadConfig.
type Option func(*loadOptions)

type loadOptions struct {
	configFile string
	envFile    string
	aliases    map[string]string
	exists     func(path string) bool
}

// WithConfigFile skips the search and reads path.
func WithConfigFile(path string) Option {
	return func(o *loadOptions) { o.configFile = path }
}

// WithEnvFile skips the search and loads path.
func WithEnvFile(path string) Option {
	return func(o *loadOptions) { o.envFile = path }
}

// WithEnvAlias maps a plain variable onto a nested key, e.g.
// WithEnvAlias("server.port", "PORT"). Aliases override every other source.
func WithEnvAlias(key, envVar string) Option {
	return func(o *loadOptions) {
		if o.aliases == nil {
			o.aliases = map[string]string{}
		}
		o.aliases[key] = envVar
	}
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// LoadConfig fills out from, lowest priority first: config.yml, the .env
// file, the process environment and the env aliases. Missing files are
// skipped.
func LoadConfig(service string, out any, opts ...Option) error {
	o := loadOptions{exists: fileExists}
	for _, opt := range opts {
		opt(&o)
	}

	v := viper.New()
	if path := firstExisting(o.exists, o.configFile, configSearch(service)...); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("config: reading %s: %w", path, err)
		}
	}
	// godotenv leaves variables that are already set alone.
	if path := firstExisting(o.exists, o.envFile, envSearch(service)...); path != "" {
		if err := godotenv.Load(path); err != nil {
			return fmt.Errorf("config: loading %s: %w", path, err)
		}
	}

	for _, kv := range os.Environ() {
		name, value, _ := strings.Cut(kv, "=")
		for _, key := range envKeys(name) {
			v.Set(key, value)
		}
	}
	for key, name := range o.aliases {
		if value := os.Getenv(name); value != "" {
			v.Set(key, value)
		}
	}

	if err := v.Unmarshal(out); err != nil {
		return fmt.Errorf("config: decoding %s: %w", service, err)
	}
	return nil
}

// firstExisting returns explicit when set, otherwise the first candidate
// that exists. An explicit path that does not exist yields "".
func firstExisting(exists func(string) bool, explicit string, candidates ...string) string {
	if explicit != "" {
		candidates = []string{explicit}
	}
	for _, c := range candidates {
		if exists(c) {
			return c
		}
	}
	return ""
}

func configSearch(service string) []string {
	return []string{
		"cmd/" + service + "/config.yml",
		"../cmd/" + service + "/config.yml",
		"../../cmd/" + service + "/config.yml",
		"config/config.yml",
		"config.yml",
	}
}

func envSearch(service string) []string {
	var out []string
	for _, name := range []string{".env." + service, ".env"} {
		for _, dir := range []string{"cmd/" + service + "/", "", "../", "../../"} {
			out = append(out, dir+name)
		}
	}
	return out
}

// maxSplitParts bounds the 2^(n-1) expansion in envKeys.
const maxSplitParts = 6

// envKeys lists the config keys an environment variable may address: every
// underscore is tried both as a nesting dot and as a literal underscore.
//
//	STORAGE_S3_BUCKET -> storage.s3.bucket, storage.s3_bucket, storage_s3.bucket, storage_s3_bucket
func envKeys(name string) []string {
	parts := strings.Split(strings.ToLower(name), "_")
	if len(parts) == 1 || len(parts) > maxSplitParts {
		return []string{strings.ToLower(name)}
	}
	keys := []string{parts[0]}
	for _, p := range parts[1:] {
		next := make([]string, 0, 2*len(keys))
		for _, k := range keys {
			next = append(next, k+"."+p, k+"_"+p)
		}
		keys = next
	}
	return keys
}
