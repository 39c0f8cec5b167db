package openai

import (
	"context"
	"fmt"
	"io"

	goopenai "github.com/sashabaranov/go-openai"

	"github.com/kbukum/lingolink/provider"
	"github.com/kbukum/lingolink/synthesis"
)

// ProviderName is the registered name of the OpenAI speech backend.
const ProviderName = "openai"

// Config holds the OpenAI speech options.
type Config struct {
	APIKey  string `mapstructure:"api_key"`
	BaseURL string `mapstructure:"base_url"`
	Model   string `mapstructure:"model"`
	Voice   string `mapstructure:"voice"`
	// Speed is 0.25 to 4.0; zero keeps the API default.
	Speed float64 `mapstructure:"speed"`
}

// Provider synthesizes speech with the OpenAI speech API. The model infers
// the language from the text, so Request.Language is not sent.
type Provider struct {
	cfg    Config
	client *goopenai.Client
}

var _ synthesis.Provider = (*Provider)(nil)

// NewProvider creates an OpenAI speech backend.
func NewProvider(cfg Config) (*Provider, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("openai: api_key is required")
	}
	if cfg.Model == "" {
		cfg.Model = string(goopenai.TTSModel1)
	}
	if cfg.Voice == "" {
		cfg.Voice = string(goopenai.VoiceAlloy)
	}
	if cfg.Speed != 0 && (cfg.Speed < 0.25 || cfg.Speed > 4.0) {
		return nil, fmt.Errorf("openai: speed must be between 0.25 and 4.0 (got: %v)", cfg.Speed)
	}
	clientCfg := goopenai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	return &Provider{cfg: cfg, client: goopenai.NewClientWithConfig(clientCfg)}, nil
}

// Factory creates OpenAI speech backends from an options map.
func Factory() provider.Factory[synthesis.Provider] {
	return func(opts map[string]any) (synthesis.Provider, error) {
		var cfg Config
		if err := provider.DecodeOptions(opts, &cfg); err != nil {
			return nil, fmt.Errorf("openai: %w", err)
		}
		return NewProvider(cfg)
	}
}

// Name returns the provider name.
func (p *Provider) Name() string { return ProviderName }

// IsAvailable reports whether the backend is configured.
func (p *Provider) IsAvailable(_ context.Context) bool { return p.cfg.APIKey != "" }

// Synthesize requests MP3 speech for req.Text.
func (p *Provider) Synthesize(ctx context.Context, req synthesis.Request) (*synthesis.Audio, error) {
	resp, err := p.client.CreateSpeech(ctx, goopenai.CreateSpeechRequest{
		Model:          goopenai.SpeechModel(p.cfg.Model),
		Input:          req.Text,
		Voice:          goopenai.SpeechVoice(p.cfg.Voice),
		ResponseFormat: goopenai.SpeechResponseFormatMp3,
		Speed:          p.cfg.Speed,
	})
	if err != nil {
		return nil, fmt.Errorf("openai speech: %w", err)
	}
	defer resp.Close()

	data, err := io.ReadAll(resp)
	if err != nil {
		return nil, fmt.Errorf("openai speech: read audio: %w", err)
	}
	return &synthesis.Audio{
		Data:        data,
		Format:      synthesis.FormatMP3,
		ContentType: synthesis.ContentTypeMP3,
	}, nil
}
