package translation

import (
	"context"
	stderrors "errors"
	"fmt"
	"strings"

	"github.com/kbukum/lingolink/component"
	"github.com/kbukum/lingolink/errors"
	"github.com/kbukum/lingolink/httpclient"
	"github.com/kbukum/lingolink/logger"
	"github.com/kbukum/lingolink/observability"
	"github.com/kbukum/lingolink/provider"
	"github.com/kbukum/lingolink/resilience"
)

// Failure reasons recorded when the translator falls back.
const (
	ReasonUnsupportedLanguage = "unsupported_language"
	ReasonDetectionFailed     = "detection_failed"
	ReasonServiceFailed       = "service_failed"
	ReasonTimeout             = "timeout"
)

// Outcome is what the translator stage hands to the next stage.
type Outcome struct {
	Text       string
	SourceLang string
	// Fallback is set when Text is the untranslated input.
	Fallback bool
	// Reason classifies the failure behind a fallback.
	Reason string
}

// Translator is the translation stage. It never fails: on any backend
// failure it returns the original text with source language "unknown".
type Translator struct {
	cfg     Config
	backend Provider
	state   *provider.ResilienceState
	stage   provider.RequestResponse[Request, *Result]
	log     *logger.Logger
	metrics *observability.Metrics
}

var _ component.Describable = (*Translator)(nil)

// NewTranslator wraps backend with the stage middleware and, when
// enabled, a circuit breaker.
func NewTranslator(cfg Config, backend Provider, log *logger.Logger, metrics *observability.Metrics) *Translator {
	cfg.ApplyDefaults()
	log = log.WithComponent("translator")

	var state *provider.ResilienceState
	if cfg.CircuitBreaker.Enabled {
		state = provider.BuildResilience(provider.ResilienceConfig{
			CircuitBreaker: &resilience.CircuitBreakerConfig{
				Name:        "translator",
				MaxFailures: cfg.CircuitBreaker.MaxFailures,
				Timeout:     cfg.CircuitBreaker.OpenTimeout,
				// Rejections of a bad request say nothing about the service.
				IsFailure: func(err error) bool {
					r := Reason(err)
					return r == ReasonServiceFailed || r == ReasonTimeout
				},
				OnStateChange: func(name string, from, to resilience.State) {
					log.Warn("circuit state changed", logger.Fields(
						logger.FieldState, to.String(), "from", from.String()))
				},
			},
		})
	}

	return &Translator{
		cfg:     cfg,
		backend: backend,
		state:   state,
		stage: provider.Stage[Request, *Result](
			provider.NewFunc(backend.Name(), backend.Translate),
			provider.StageOptions{
				Stage:      "translation",
				Operation:  "translate",
				Log:        log,
				Metrics:    metrics,
				Timeout:    cfg.Timeout,
				Resilience: state,
			},
		),
		log:     log,
		metrics: metrics,
	}
}

// Translate translates text into target with source auto-detection.
func (t *Translator) Translate(ctx context.Context, text, target string) Outcome {
	if strings.TrimSpace(text) == "" {
		return Outcome{Text: text, SourceLang: UnknownSource}
	}

	res, err := t.stage.Execute(ctx, Request{Text: text, Source: SourceAuto, Target: target})
	if err == nil && res != nil && res.DetectedSource == "" {
		err = ErrDetectionFailed
	}
	if err == nil && res == nil {
		err = fmt.Errorf("%s returned no result", t.backend.Name())
	}
	if err != nil {
		reason := Reason(err)
		appErr := errors.TranslationFailed(reason, err)
		t.log.WithContext(ctx).Warn("translation failed, using original text", logger.MergeWithError(
			logger.Fields(
				logger.FieldErrorCode, string(appErr.Code),
				"reason", reason,
				logger.FieldTargetLang, target,
			), err))
		t.metrics.RecordFallback(ctx, reason)
		return Outcome{Text: text, SourceLang: UnknownSource, Fallback: true, Reason: reason}
	}

	return Outcome{Text: res.Text, SourceLang: res.DetectedSource}
}

// Reason classifies a translation error for logs and metrics.
func Reason(err error) string {
	switch {
	case stderrors.Is(err, ErrUnsupportedLanguage), errors.HasCode(err, errors.ErrCodeUnsupportedLanguage):
		return ReasonUnsupportedLanguage
	case stderrors.Is(err, ErrDetectionFailed):
		return ReasonDetectionFailed
	case errors.HasCode(err, errors.ErrCodeTimeout), stderrors.Is(err, context.DeadlineExceeded), httpclient.IsTimeout(err):
		return ReasonTimeout
	default:
		return ReasonServiceFailed
	}
}

// Describe returns the startup summary line.
func (t *Translator) Describe() component.Description {
	return component.Description{
		Name: "Translator",
		Type: "stage",
		Details: fmt.Sprintf("provider=%s timeout=%s circuit_breaker=%t",
			t.backend.Name(), t.cfg.Timeout, t.cfg.CircuitBreaker.Enabled),
	}
}
