package ffmpeg

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/kbukum/lingolink/process"
	"github.com/kbukum/lingolink/provider"
	"github.com/kbukum/lingolink/transcoding"
)

// ProviderName is the registered name of the ffmpeg backend.
const ProviderName = "ffmpeg"

// Config holds the ffmpeg backend options.
type Config struct {
	// Binary is the ffmpeg executable. Defaults to "ffmpeg" on PATH.
	Binary string `mapstructure:"binary"`
	// Codec is the output audio codec. Defaults to pcm_s16le.
	Codec string `mapstructure:"codec"`
	// GracePeriod is the wait between SIGTERM and SIGKILL on cancellation.
	GracePeriod time.Duration `mapstructure:"grace_period"`
}

func (c *Config) applyDefaults() {
	if c.Binary == "" {
		c.Binary = "ffmpeg"
	}
	if c.Codec == "" {
		c.Codec = "pcm_s16le"
	}
	if c.GracePeriod <= 0 {
		c.GracePeriod = 2 * time.Second
	}
}

// Provider converts audio with an ffmpeg subprocess.
type Provider struct {
	cfg    Config
	runner *process.Runner
}

var _ transcoding.Provider = (*Provider)(nil)

// NewProvider creates an ffmpeg backend.
func NewProvider(cfg Config) *Provider {
	cfg.applyDefaults()
	return &Provider{
		cfg: cfg,
		runner: process.NewRunner(process.RunnerConfig{
			Name:        ProviderName,
			Binary:      cfg.Binary,
			GracePeriod: cfg.GracePeriod,
		}),
	}
}

// Factory creates ffmpeg providers from an options map.
func Factory() provider.Factory[transcoding.Provider] {
	return func(opts map[string]any) (transcoding.Provider, error) {
		var cfg Config
		if err := provider.DecodeOptions(opts, &cfg); err != nil {
			return nil, fmt.Errorf("ffmpeg: %w", err)
		}
		return NewProvider(cfg), nil
	}
}

// Name returns the provider name.
func (p *Provider) Name() string { return ProviderName }

// IsAvailable reports whether the ffmpeg binary resolves on PATH.
func (p *Provider) IsAvailable(ctx context.Context) bool {
	return p.runner.IsAvailable(ctx)
}

// Convert runs ffmpeg -y -i <in> -ac <channels> -ar <rate> -c:a <codec> <out>.
func (p *Provider) Convert(ctx context.Context, req transcoding.Request) (*transcoding.Result, error) {
	if req.InputPath == "" || req.OutputPath == "" {
		return nil, fmt.Errorf("ffmpeg: input and output paths are required")
	}
	_, err := p.runner.Execute(ctx, process.Command{Args: Args(req, p.cfg.Codec)})
	if err != nil {
		return nil, fmt.Errorf("ffmpeg: %w", err)
	}
	return &transcoding.Result{Path: req.OutputPath}, nil
}

// Args builds the ffmpeg argument list for req.
func Args(req transcoding.Request, codec string) []string {
	rate := req.SampleRate
	if rate <= 0 {
		rate = transcoding.DefaultSampleRate
	}
	channels := req.Channels
	if channels <= 0 {
		channels = transcoding.DefaultChannels
	}
	return []string{
		"-y",
		"-i", req.InputPath,
		"-ac", strconv.Itoa(channels),
		"-ar", strconv.Itoa(rate),
		"-c:a", codec,
		req.OutputPath,
	}
}
