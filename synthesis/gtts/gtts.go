package gtts

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/kbukum/lingolink/httpclient"
	"github.com/kbukum/lingolink/provider"
	"github.com/kbukum/lingolink/synthesis"
)

const (
	// ProviderName is the registered name of the Google speech backend.
	ProviderName = "gtts"

	defaultBaseURL   = "https://translate.google.com"
	defaultTimeout   = 30 * time.Second
	defaultUserAgent = "Mozilla/5.0 (compatible; lingolink)"
)

// Config holds the Google speech options.
type Config struct {
	BaseURL   string        `mapstructure:"base_url"`
	Timeout   time.Duration `mapstructure:"timeout"`
	UserAgent string        `mapstructure:"user_agent"`
}

// Provider synthesizes speech with the translate_tts endpoint. Long text is
// fetched in chunks and the MP3 streams are concatenated.
type Provider struct {
	cfg    Config
	client *httpclient.Client
}

var _ synthesis.Provider = (*Provider)(nil)

// NewProvider creates a Google speech backend.
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
		Headers:      map[string]string{"Referer": cfg.BaseURL + "/"},
		MaxBodyBytes: 8 << 20,
	})
	if err != nil {
		return nil, fmt.Errorf("gtts: %w", err)
	}
	return &Provider{cfg: cfg, client: client}, nil
}

// Factory creates Google speech backends from an options map.
func Factory() provider.Factory[synthesis.Provider] {
	return func(opts map[string]any) (synthesis.Provider, error) {
		var cfg Config
		if err := provider.DecodeOptions(opts, &cfg); err != nil {
			return nil, fmt.Errorf("gtts: %w", err)
		}
		return NewProvider(cfg)
	}
}

// Name returns the provider name.
func (p *Provider) Name() string { return ProviderName }

// IsAvailable always reports true; the endpoint has no health check.
func (p *Provider) IsAvailable(_ context.Context) bool { return true }

// Synthesize fetches speech for every chunk of req.Text in order.
func (p *Provider) Synthesize(ctx context.Context, req synthesis.Request) (*synthesis.Audio, error) {
	chunks := splitText(req.Text, maxChunkRunes)
	if len(chunks) == 0 {
		return nil, fmt.Errorf("gtts: no text to speak")
	}
	lang := strings.ToLower(strings.TrimSpace(req.Language))
	if lang == "" {
		lang = "en"
	}

	var buf bytes.Buffer
	for i, chunk := range chunks {
		resp, err := p.client.Do(ctx, httpclient.Request{
			Method: http.MethodGet,
			Path:   "/translate_tts",
			Query: map[string]string{
				"ie":      "UTF-8",
				"client":  "tw-ob",
				"tl":      lang,
				"q":       chunk,
				"total":   strconv.Itoa(len(chunks)),
				"idx":     strconv.Itoa(i),
				"textlen": strconv.Itoa(len([]rune(chunk))),
			},
		})
		if err != nil {
			if httpclient.IsRejected(err) || httpclient.IsNotFound(err) {
				return nil, fmt.Errorf("gtts: language %q not supported: %w", req.Language, err)
			}
			return nil, fmt.Errorf("gtts chunk %d/%d: %w", i+1, len(chunks), err)
		}
		if len(resp.Body) == 0 {
			return nil, fmt.Errorf("gtts chunk %d/%d: empty audio", i+1, len(chunks))
		}
		buf.Write(resp.Body)
	}

	return &synthesis.Audio{
		Data:        buf.Bytes(),
		Format:      synthesis.FormatMP3,
		ContentType: synthesis.ContentTypeMP3,
	}, nil
}
