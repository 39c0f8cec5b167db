package transcoding

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/kbukum/lingolink/component"
	"github.com/kbukum/lingolink/errors"
	"github.com/kbukum/lingolink/logger"
	"github.com/kbukum/lingolink/observability"
	"github.com/kbukum/lingolink/provider"
)

// DefaultTimeout bounds one conversion.
const DefaultTimeout = 60 * time.Second

// Transcoder is the conversion stage. Any failure is a CONVERSION_FAILED
// error except an expired stage deadline, which stays TIMEOUT.
type Transcoder struct {
	backend Provider
	stage   provider.RequestResponse[Request, *Result]
	log     *logger.Logger
	timeout time.Duration
}

var _ component.Component = (*Transcoder)(nil)

// New wraps backend with the stage middleware.
func New(backend Provider, timeout time.Duration, log *logger.Logger, metrics *observability.Metrics) *Transcoder {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	log = log.WithComponent("transcoder")
	convert := provider.NewFunc(backend.Name(), backend.Convert)
	return &Transcoder{
		backend: backend,
		stage: provider.Stage[Request, *Result](convert, provider.StageOptions{
			Stage:     "transcoding",
			Operation: "transcode",
			Log:       log,
			Metrics:   metrics,
			Timeout:   timeout,
		}),
		log:     log,
		timeout: timeout,
	}
}

// Convert normalizes inputPath into outputPath (mono, 16 kHz, 16-bit PCM WAV).
func (t *Transcoder) Convert(ctx context.Context, inputPath, outputPath string) (*Result, error) {
	req := Request{InputPath: inputPath, OutputPath: outputPath}
	req.applyDefaults()

	if !t.backend.IsAvailable(ctx) {
		return nil, errors.ConversionFailed(fmt.Errorf("%s is not available", t.backend.Name()))
	}

	res, err := t.stage.Execute(ctx, req)
	if err != nil {
		if errors.HasCode(err, errors.ErrCodeTimeout) {
			return nil, err
		}
		return nil, errors.ConversionFailed(err)
	}

	info, err := os.Stat(outputPath)
	if err != nil {
		return nil, errors.ConversionFailed(fmt.Errorf("output missing: %w", err))
	}
	if info.Size() == 0 {
		return nil, errors.ConversionFailed(fmt.Errorf("output %s is empty", outputPath))
	}
	if res == nil {
		res = &Result{Path: outputPath}
	}
	res.Size = info.Size()
	return res, nil
}

// Name returns the component name.
func (t *Transcoder) Name() string { return "transcoder" }

// Start warns when the backend is unavailable. Requests fail with
// CONVERSION_FAILED until it becomes available.
func (t *Transcoder) Start(ctx context.Context) error {
	if !t.backend.IsAvailable(ctx) {
		t.log.Warn("transcoding backend unavailable", logger.Fields(logger.FieldProvider, t.backend.Name()))
	}
	return nil
}

// Stop is a no-op.
func (t *Transcoder) Stop(_ context.Context) error { return nil }

// Health reports whether the backend can run.
func (t *Transcoder) Health(ctx context.Context) component.Health {
	if t.backend.IsAvailable(ctx) {
		return component.Healthy(t.Name(), "")
	}
	return component.Unhealthy(t.Name(), t.backend.Name()+" unavailable")
}

// Describe returns the startup summary line.
func (t *Transcoder) Describe() component.Description {
	return component.Description{
		Name:    "Transcoder",
		Type:    "stage",
		Details: fmt.Sprintf("provider=%s timeout=%s", t.backend.Name(), t.timeout),
	}
}
