package openai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	goopenai "github.com/sashabaranov/go-openai"

	"github.com/kbukum/lingolink/provider"
	"github.com/kbukum/lingolink/translation"
)

// ProviderName is the registered name of the OpenAI translation backend.
const ProviderName = "openai"

const systemPrompt = `You translate text. Detect the language of the user's message and translate it into the language with code %q.
Reply with a JSON object: {"translated_text": "<translation>", "source_lang": "<ISO 639-1 code of the detected language>"}.
If the target language code is not a real language, reply {"error": "unsupported_language"}.`

// Config holds the OpenAI translation options.
type Config struct {
	APIKey  string `mapstructure:"api_key"`
	BaseURL string `mapstructure:"base_url"`
	Model   string `mapstructure:"model"`
}

// Provider translates with an OpenAI chat model.
type Provider struct {
	cfg    Config
	client *goopenai.Client
}

var _ translation.Provider = (*Provider)(nil)

// NewProvider creates an OpenAI translation backend.
func NewProvider(cfg Config) (*Provider, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("openai: api_key is required")
	}
	if cfg.Model == "" {
		cfg.Model = goopenai.GPT4oMini
	}
	clientCfg := goopenai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	return &Provider{cfg: cfg, client: goopenai.NewClientWithConfig(clientCfg)}, nil
}

// Factory creates OpenAI translation backends from an options map.
func Factory() provider.Factory[translation.Provider] {
	return func(opts map[string]any) (translation.Provider, error) {
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

type reply struct {
	TranslatedText string `json:"translated_text"`
	SourceLang     string `json:"source_lang"`
	Error          string `json:"error"`
}

// Translate asks the model for a translation and the detected source language.
func (p *Provider) Translate(ctx context.Context, req translation.Request) (*translation.Result, error) {
	resp, err := p.client.CreateChatCompletion(ctx, goopenai.ChatCompletionRequest{
		Model: p.cfg.Model,
		Messages: []goopenai.ChatCompletionMessage{
			{Role: goopenai.ChatMessageRoleSystem, Content: fmt.Sprintf(systemPrompt, req.Target)},
			{Role: goopenai.ChatMessageRoleUser, Content: req.Text},
		},
		ResponseFormat: &goopenai.ChatCompletionResponseFormat{
			Type: goopenai.ChatCompletionResponseFormatTypeJSONObject,
		},
		Temperature: 0,
	})
	if err != nil {
		return nil, fmt.Errorf("openai translate: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("openai translate: no choices returned")
	}
	return parseReply(resp.Choices[0].Message.Content, req.Target)
}

func parseReply(content, target string) (*translation.Result, error) {
	var r reply
	if err := json.Unmarshal([]byte(content), &r); err != nil {
		return nil, fmt.Errorf("openai translate: decode reply: %w", err)
	}
	if r.Error == "unsupported_language" {
		return nil, fmt.Errorf("%w: %q", translation.ErrUnsupportedLanguage, target)
	}
	if r.Error != "" {
		return nil, fmt.Errorf("openai translate: %s", r.Error)
	}
	source := strings.ToLower(strings.TrimSpace(r.SourceLang))
	if source == "" {
		return nil, translation.ErrDetectionFailed
	}
	return &translation.Result{Text: r.TranslatedText, DetectedSource: source}, nil
}
