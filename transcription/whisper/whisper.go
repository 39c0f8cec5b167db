package whisper

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/kbukum/lingolink/httpclient"
	"github.com/kbukum/lingolink/provider"
	"github.com/kbukum/lingolink/transcription"
)

// ProviderName is the registry key.
const ProviderName = "whisper"

// Config points at a faster-whisper HTTP sidecar.
type Config struct {
	URL         string        `mapstructure:"url"`
	Model       string        `mapstructure:"model"`
	Language    string        `mapstructure:"language"`
	Device      string        `mapstructure:"device"`
	ComputeType string        `mapstructure:"compute_type"`
	APIKey      string        `mapstructure:"api_key"`
	Timeout     time.Duration `mapstructure:"timeout"`
}

func (c *Config) applyDefaults() {
	if c.URL == "" {
		c.URL = "http://localhost:8387"
	}
	if c.Model == "" {
		c.Model = "base"
	}
	if c.Timeout == 0 {
		c.Timeout = 2 * time.Minute
	}
}

// Provider transcribes through the sidecar's /transcribe endpoint.
type Provider struct {
	cfg    Config
	client *httpclient.Client
}

var (
	_ transcription.Provider = (*Provider)(nil)
	_ transcription.Loader   = (*Provider)(nil)
)

// NewProvider builds a sidecar client from cfg.
func NewProvider(cfg Config) (*Provider, error) {
	cfg.applyDefaults()
	client, err := httpclient.New(httpclient.Config{
		Name:    ProviderName,
		BaseURL: cfg.URL,
		Timeout: cfg.Timeout,
		Auth:    httpclient.APIKeyAuth(cfg.APIKey, ""),
	})
	if err != nil {
		return nil, fmt.Errorf("whisper: %w", err)
	}
	return &Provider{cfg: cfg, client: client}, nil
}

// Factory decodes the recognizer options into a Config.
func Factory() provider.Factory[transcription.Provider] {
	return func(opts map[string]any) (transcription.Provider, error) {
		var cfg Config
		if err := provider.DecodeOptions(opts, &cfg); err != nil {
			return nil, fmt.Errorf("whisper: %w", err)
		}
		return NewProvider(cfg)
	}
}

func (p *Provider) Name() string { return ProviderName }

// IsAvailable probes GET /health.
func (p *Provider) IsAvailable(ctx context.Context) bool {
	_, err := p.client.Do(ctx, httpclient.Request{Path: "/health"})
	return err == nil
}

// Load blocks until the sidecar has the configured model in memory.
func (p *Provider) Load(ctx context.Context) error {
	body := struct {
		Model       string `json:"model"`
		Device      string `json:"device,omitempty"`
		ComputeType string `json:"compute_type,omitempty"`
	}{p.cfg.Model, p.cfg.Device, p.cfg.ComputeType}

	if _, err := p.client.Do(ctx, httpclient.Request{Method: http.MethodPost, Path: "/load", Body: body}); err != nil {
		return fmt.Errorf("whisper: loading %s: %w", p.cfg.Model, err)
	}
	return nil
}

// Transcribe uploads req.AudioPath as the "audio" part.
func (p *Provider) Transcribe(ctx context.Context, req transcription.Request) (*transcription.Transcript, error) {
	audio, err := os.Open(req.AudioPath)
	if err != nil {
		return nil, fmt.Errorf("whisper: %w", err)
	}
	defer audio.Close()

	out, err := httpclient.DoJSON[transcription.Transcript](ctx, p.client, httpclient.Request{
		Method: http.MethodPost,
		Path:   "/transcribe",
		Body: &httpclient.MultipartBody{
			Fields: p.fields(req),
			Files: []httpclient.FileField{{
				FieldName:   "audio",
				FileName:    filepath.Base(req.AudioPath),
				ContentType: "audio/wav",
				Reader:      audio,
			}},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("whisper: transcribing: %w", err)
	}
	out.FillDuration()
	return &out, nil
}

// fields picks the model and language, request values over configured ones.
func (p *Provider) fields(req transcription.Request) map[string]string {
	f := map[string]string{"model": firstNonEmpty(req.Model, p.cfg.Model)}
	if lang := firstNonEmpty(req.Language, p.cfg.Language); lang != "" {
		f["language"] = lang
	}
	return f
}

func firstNonEmpty(a, b string) string {
	if a != "" {
		return a
	}
	return b
}
