package transcription_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	apperrors "github.com/kbukum/lingolink/errors"
	"github.com/kbukum/lingolink/logger"
	"github.com/kbukum/lingolink/provider"
	"github.com/kbukum/lingolink/transcription"
)

type fakeBackend struct {
	text      string
	err       error
	loadErr   error
	available bool
	delay     time.Duration

	loads  atomic.Int32
	inside atomic.Int32
	peak   atomic.Int32
}

func (f *fakeBackend) Name() string                       { return "fake" }
func (f *fakeBackend) IsAvailable(_ context.Context) bool { return f.available }

func (f *fakeBackend) Transcribe(ctx context.Context, _ transcription.Request) (*transcription.Transcript, error) {
	n := f.inside.Add(1)
	defer f.inside.Add(-1)
	for {
		p := f.peak.Load()
		if n <= p || f.peak.CompareAndSwap(p, n) {
			break
		}
	}
	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if f.err != nil {
		return nil, f.err
	}
	return &transcription.Transcript{Text: f.text}, nil
}

type loadingBackend struct{ *fakeBackend }

func (l loadingBackend) Load(_ context.Context) error {
	l.loads.Add(1)
	return l.loadErr
}

func newConfig(timeout time.Duration) transcription.Config {
	return transcription.Config{Config: provider.Config{Provider: "fake", Timeout: timeout}}
}

func startRecognizer(t *testing.T, backend transcription.Provider, cfg transcription.Config) *transcription.Recognizer {
	t.Helper()
	rec := transcription.NewRecognizer(cfg, backend, logger.Nop(), nil)
	if err := rec.Start(context.Background()); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	t.Cleanup(func() { _ = rec.Stop(context.Background()) })
	return rec
}

func TestRecognizer_TrimsText(t *testing.T) {
	rec := startRecognizer(t, &fakeBackend{available: true, text: "  hello world \n"}, newConfig(time.Second))
	text, err := rec.Recognize(context.Background(), "normalized.wav")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if text != "hello world" {
		t.Errorf("expected trimmed text, got %q", text)
	}
}

func TestRecognizer_SilenceIsValid(t *testing.T) {
	rec := startRecognizer(t, &fakeBackend{available: true, text: "   "}, newConfig(time.Second))
	text, err := rec.Recognize(context.Background(), "normalized.wav")
	if err != nil || text != "" {
		t.Errorf("expected empty text without error, got %q (%v)", text, err)
	}
}

func TestRecognizer_FailureMapsToRecognitionFailed(t *testing.T) {
	rec := startRecognizer(t, &fakeBackend{available: true, err: errors.New("cuda out of memory")}, newConfig(time.Second))
	_, err := rec.Recognize(context.Background(), "normalized.wav")
	if !apperrors.HasCode(err, apperrors.ErrCodeRecognitionFailed) {
		t.Fatalf("expected RECOGNITION_FAILED, got %v", err)
	}
	if resp := apperrors.Wrap(err).ToResponse(); resp.Error == "cuda out of memory" {
		t.Error("cause must not become the client message")
	}
}

func TestRecognizer_Timeout(t *testing.T) {
	rec := startRecognizer(t, &fakeBackend{available: true, delay: time.Second}, newConfig(20*time.Millisecond))
	_, err := rec.Recognize(context.Background(), "normalized.wav")
	if !apperrors.HasCode(err, apperrors.ErrCodeTimeout) {
		t.Fatalf("expected TIMEOUT, got %v", err)
	}
}

func TestRecognizer_SerializesInference(t *testing.T) {
	backend := &fakeBackend{available: true, text: "ok", delay: 5 * time.Millisecond}
	rec := startRecognizer(t, backend, newConfig(5*time.Second))

	var wg sync.WaitGroup
	for i := 0; i < 6; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := rec.Recognize(context.Background(), "normalized.wav"); err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	if backend.peak.Load() != 1 {
		t.Errorf("expected at most one concurrent recognition, saw %d", backend.peak.Load())
	}
}

func TestRecognizer_ConfiguredConcurrency(t *testing.T) {
	backend := &fakeBackend{available: true, text: "ok", delay: 20 * time.Millisecond}
	cfg := newConfig(5 * time.Second)
	cfg.MaxConcurrent = 3
	rec := startRecognizer(t, backend, cfg)

	var wg sync.WaitGroup
	for i := 0; i < 3; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = rec.Recognize(context.Background(), "normalized.wav")
		}()
	}
	wg.Wait()
	if backend.peak.Load() < 2 {
		t.Errorf("expected parallel recognitions with max_concurrent=3, peak was %d", backend.peak.Load())
	}
}

func TestRecognizer_StartLoadsModel(t *testing.T) {
	backend := loadingBackend{&fakeBackend{available: true, text: "ok"}}
	startRecognizer(t, backend, newConfig(time.Second))
	if backend.loads.Load() != 1 {
		t.Errorf("expected one model load, got %d", backend.loads.Load())
	}
}

func TestRecognizer_StartFailsFatally(t *testing.T) {
	tests := []struct {
		name    string
		backend transcription.Provider
	}{
		{"load error", loadingBackend{&fakeBackend{available: true, loadErr: errors.New("model not found")}}},
		{"unavailable", &fakeBackend{available: false}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec := transcription.NewRecognizer(newConfig(time.Second), tc.backend, logger.Nop(), nil)
			if err := rec.Start(context.Background()); err == nil {
				t.Fatal("expected Start to fail")
			}
			if h := rec.Health(context.Background()); h.Status != "unhealthy" {
				t.Errorf("expected unhealthy, got %s", h.Status)
			}
			_, err := rec.Recognize(context.Background(), "normalized.wav")
			if !apperrors.HasCode(err, apperrors.ErrCodeServiceUnavailable) {
				t.Errorf("expected SERVICE_UNAVAILABLE before the model is loaded, got %v", err)
			}
		})
	}
}

func TestConfigDefaults(t *testing.T) {
	var cfg transcription.Config
	cfg.ApplyDefaults()
	if cfg.Provider != "whisper" || cfg.Timeout != 120*time.Second || cfg.MaxConcurrent != 1 {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}
