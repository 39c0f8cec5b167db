package google

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/kbukum/lingolink/httpclient"
	"github.com/kbukum/lingolink/provider"
	"github.com/kbukum/lingolink/translation"
)

const (
	// ProviderName is the registered name of the Google translation backend.
	ProviderName = "google"

	defaultBaseURL   = "https://translate.googleapis.com"
	defaultTimeout   = 30 * time.Second
	defaultUserAgent = "Mozilla/5.0 (compatible; lingolink)"
)

// Config holds the Google translation options.
type Config struct {
	BaseURL   string        `mapstructure:"base_url"`
	Timeout   time.Duration `mapstructure:"timeout"`
	UserAgent string        `mapstructure:"user_agent"`
}

// Provider translates through the translate_a/single web endpoint.
type Provider struct {
	cfg    Config
	client *httpclient.Client
}

var _ translation.Provider = (*Provider)(nil)

// NewProvider creates a Google translation backend.
func NewProvider(cfg Config) (*Provider, error) {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = defaultUserAgent
	}
	client, err := httpclient.New(httpclient.Config{
		Name:         ProviderName,
		BaseURL:      cfg.BaseURL,
		Timeout:      cfg.Timeout,
		UserAgent:    cfg.UserAgent,
		MaxBodyBytes: 1 << 20,
	})
	if err != nil {
		return nil, fmt.Errorf("google: %w", err)
	}
	return &Provider{cfg: cfg, client: client}, nil
}

// Factory creates Google translation backends from an options map.
func Factory() provider.Factory[translation.Provider] {
	return func(opts map[string]any) (translation.Provider, error) {
		var cfg Config
		if err := provider.DecodeOptions(opts, &cfg); err != nil {
			return nil, fmt.Errorf("google: %w", err)
		}
		return NewProvider(cfg)
	}
}

// Name returns the provider name.
func (p *Provider) Name() string { return ProviderName }

// IsAvailable always reports true; the endpoint has no health check.
func (p *Provider) IsAvailable(_ context.Context) bool { return true }

// Translate translates req.Text and reads the detected source language.
func (p *Provider) Translate(ctx context.Context, req translation.Request) (*translation.Result, error) {
	target, ok := normalizeTarget(req.Target)
	if !ok {
		return nil, fmt.Errorf("%w: %q", translation.ErrUnsupportedLanguage, req.Target)
	}
	source := req.Source
	if source == "" {
		source = translation.SourceAuto
	}

	resp, err := p.client.Do(ctx, httpclient.Request{
		Method: http.MethodGet,
		Path:   "/translate_a/single",
		Query: map[string]string{
			"client": "gtx",
			"sl":     source,
			"tl":     target,
			"dt":     "t",
			"q":      req.Text,
		},
	})
	if err != nil {
		if httpclient.IsRejected(err) {
			return nil, fmt.Errorf("%w: %q: %v", translation.ErrUnsupportedLanguage, req.Target, err)
		}
		return nil, fmt.Errorf("google translate: %w", err)
	}
	return parseResponse(resp.Body)
}

// parseResponse reads the positional array the endpoint returns:
//
//	[[["Hola mundo","Hello world",null,null,10]],null,"en",...]
//
// Element 0 holds the translated segments, element 2 the detected source.
func parseResponse(body []byte) (*translation.Result, error) {
	var root []json.RawMessage
	if err := json.Unmarshal(body, &root); err != nil {
		return nil, fmt.Errorf("google translate: decode response: %w", err)
	}
	if len(root) == 0 {
		return nil, fmt.Errorf("google translate: empty response")
	}

	var segments [][]any
	if err := json.Unmarshal(root[0], &segments); err != nil {
		return nil, fmt.Errorf("google translate: decode segments: %w", err)
	}
	var sb strings.Builder
	for _, seg := range segments {
		if len(seg) == 0 {
			continue
		}
		if s, ok := seg[0].(string); ok {
			sb.WriteString(s)
		}
	}

	var detected string
	if len(root) > 2 {
		_ = json.Unmarshal(root[2], &detected)
	}
	if detected == "" {
		return nil, translation.ErrDetectionFailed
	}

	return &translation.Result{Text: sb.String(), DetectedSource: detected}, nil
}
