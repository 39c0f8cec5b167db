package openai

import (
	"context"
	"fmt"

	goopenai "github.com/sashabaranov/go-openai"

	"github.com/kbukum/lingolink/provider"
	"github.com/kbukum/lingolink/transcription"
)

// ProviderName is the registered name of the OpenAI transcription backend.
const ProviderName = "openai"

// Config holds the OpenAI transcription options.
type Config struct {
	APIKey string `mapstructure:"api_key"`
	// BaseURL points at an OpenAI-compatible API. Empty uses api.openai.com.
	BaseURL string `mapstructure:"base_url"`
	Model   string `mapstructure:"model"`
}

// Provider transcribes audio with the OpenAI audio API.
type Provider struct {
	cfg    Config
	client *goopenai.Client
}

var _ transcription.Provider = (*Provider)(nil)

// NewProvider creates an OpenAI transcription backend.
func NewProvider(cfg Config) (*Provider, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("openai: api_key is required")
	}
	if cfg.Model == "" {
		cfg.Model = goopenai.Whisper1
	}
	clientCfg := goopenai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	return &Provider{cfg: cfg, client: goopenai.NewClientWithConfig(clientCfg)}, nil
}

// Factory creates OpenAI transcription backends from an options map.
func Factory() provider.Factory[transcription.Provider] {
	return func(opts map[string]any) (transcription.Provider, error) {
		var cfg Config
		if err := provider.DecodeOptions(opts, &cfg); err != nil {
			return nil, fmt.Errorf("openai: %w", err)
		}
		return NewProvider(cfg)
	}
}

// Name returns the provider name.
func (p *Provider) Name() string { return ProviderName }

// IsAvailable reports whether the backend is configured. The API is not
// probed so startup does not spend a request.
func (p *Provider) IsAvailable(_ context.Context) bool {
	return p.cfg.APIKey != ""
}

// Transcribe uploads the audio file and returns the verbose transcription.
func (p *Provider) Transcribe(ctx context.Context, req transcription.Request) (*transcription.Transcript, error) {
	model := p.cfg.Model
	if req.Model != "" {
		model = req.Model
	}
	resp, err := p.client.CreateTranscription(ctx, goopenai.AudioRequest{
		Model:    model,
		FilePath: req.AudioPath,
		Language: req.Language,
		Format:   goopenai.AudioResponseFormatVerboseJSON,
	})
	if err != nil {
		return nil, fmt.Errorf("openai transcription: %w", err)
	}

	segments := make([]transcription.Segment, len(resp.Segments))
	for i, seg := range resp.Segments {
		segments[i] = transcription.Segment{Start: seg.Start, End: seg.End, Text: seg.Text}
	}
	out := &transcription.Transcript{
		Text:     resp.Text,
		Segments: segments,
		Duration: resp.Duration,
		Language: resp.Language,
	}
	out.FillDuration()
	return out, nil
}
