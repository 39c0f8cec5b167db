package transcription

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/kbukum/lingolink/component"
	"github.com/kbukum/lingolink/errors"
	"github.com/kbukum/lingolink/logger"
	"github.com/kbukum/lingolink/observability"
	"github.com/kbukum/lingolink/provider"
	"github.com/kbukum/lingolink/resilience"
)

// Recognizer is the speech-to-text stage. It is created once per process,
// loads its model in Start and serializes inference through a bulkhead.
type Recognizer struct {
	cfg     Config
	backend Provider
	state   *provider.ResilienceState
	stage   provider.RequestResponse[Request, *Transcript]
	log     *logger.Logger
	ready   atomic.Bool
}

var (
	_ component.Component   = (*Recognizer)(nil)
	_ component.Describable = (*Recognizer)(nil)
)

// NewRecognizer wraps backend with the stage middleware and a bulkhead.
func NewRecognizer(cfg Config, backend Provider, log *logger.Logger, metrics *observability.Metrics) *Recognizer {
	cfg.ApplyDefaults()
	log = log.WithComponent("recognizer")

	state := provider.BuildResilience(provider.ResilienceConfig{
		Bulkhead: &resilience.BulkheadConfig{
			Name:          "recognizer",
			MaxConcurrent: cfg.MaxConcurrent,
			MaxWait:       cfg.MaxWait,
			OnAcquire: func(_ string, waited time.Duration) {
				if waited > time.Second {
					log.Debug("recognizer slot acquired", logger.DurationFields("queue", waited))
				}
			},
		},
	})

	return &Recognizer{
		cfg:     cfg,
		backend: backend,
		state:   state,
		stage: provider.Stage[Request, *Transcript](
			provider.NewFunc(backend.Name(), backend.Transcribe),
			provider.StageOptions{
				Stage:      "transcription",
				Operation:  "recognize",
				Log:        log,
				Metrics:    metrics,
				Timeout:    cfg.Timeout,
				Resilience: state,
			},
		),
		log: log,
	}
}

// Name returns the component name.
func (r *Recognizer) Name() string { return "recognizer" }

// Start loads the model. An error here aborts service startup.
func (r *Recognizer) Start(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, r.cfg.LoadTimeout)
	defer cancel()

	start := time.Now()
	if loader, ok := r.backend.(Loader); ok {
		if err := loader.Load(ctx); err != nil {
			return fmt.Errorf("recognizer: loading %s model: %w", r.backend.Name(), err)
		}
	} else if !r.backend.IsAvailable(ctx) {
		return fmt.Errorf("recognizer: %s is not available", r.backend.Name())
	}
	r.ready.Store(true)
	r.log.Info("recognizer ready", logger.MergeWithDuration(
		logger.Fields(logger.FieldProvider, r.backend.Name()), time.Since(start)))
	return nil
}

// Stop releases backend resources.
func (r *Recognizer) Stop(ctx context.Context) error {
	r.ready.Store(false)
	return provider.Close(ctx, r.backend)
}

// Recognize returns the trimmed transcript of the WAV file at audioPath.
// Empty text is a valid result for silence.
func (r *Recognizer) Recognize(ctx context.Context, audioPath string) (string, error) {
	if !r.ready.Load() {
		return "", errors.ServiceUnavailable("recognizer")
	}
	resp, err := r.stage.Execute(ctx, Request{
		AudioPath: audioPath,
		Language:  r.cfg.Language,
	})
	if err != nil {
		if errors.HasCode(err, errors.ErrCodeTimeout) || errors.HasCode(err, errors.ErrCodeServiceUnavailable) {
			return "", err
		}
		return "", errors.RecognitionFailed(err)
	}
	if resp == nil {
		return "", nil
	}
	return strings.TrimSpace(resp.Text), nil
}

// Health reports readiness and the bulkhead occupancy.
func (r *Recognizer) Health(_ context.Context) component.Health {
	if !r.ready.Load() {
		return component.Unhealthy(r.Name(), "model not loaded")
	}
	bh := r.state.Bulkhead()
	msg := fmt.Sprintf("%d/%d slots in use", bh.InUse(), bh.MaxConcurrent())
	if bh.Available() == 0 {
		return component.Degraded(r.Name(), msg)
	}
	return component.Healthy(r.Name(), msg)
}

// Describe returns the startup summary line.
func (r *Recognizer) Describe() component.Description {
	return component.Description{
		Name: "Recognizer",
		Type: "model",
		Details: fmt.Sprintf("provider=%s max_concurrent=%d timeout=%s",
			r.backend.Name(), r.cfg.MaxConcurrent, r.cfg.Timeout),
	}
}
