package transcoding_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	apperrors "github.com/kbukum/lingolink/errors"
	"github.com/kbukum/lingolink/logger"
	"github.com/kbukum/lingolink/transcoding"
)

type fakeBackend struct {
	available bool
	output    []byte
	err       error
	delay     time.Duration
	got       transcoding.Request
}

func (f *fakeBackend) Name() string                       { return "fake" }
func (f *fakeBackend) IsAvailable(_ context.Context) bool { return f.available }
func (f *fakeBackend) Convert(ctx context.Context, req transcoding.Request) (*transcoding.Result, error) {
	f.got = req
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
	if f.output != nil {
		if err := os.WriteFile(req.OutputPath, f.output, 0o600); err != nil {
			return nil, err
		}
	}
	return &transcoding.Result{Path: req.OutputPath}, nil
}

func paths(t *testing.T) (string, string) {
	dir := t.TempDir()
	return filepath.Join(dir, "input.webm"), filepath.Join(dir, "normalized.wav")
}

func TestTranscoder_Success(t *testing.T) {
	backend := &fakeBackend{available: true, output: []byte("RIFFdata")}
	tr := transcoding.New(backend, time.Second, logger.Nop(), nil)
	in, out := paths(t)

	res, err := tr.Convert(context.Background(), in, out)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Size != 8 {
		t.Errorf("expected size 8, got %d", res.Size)
	}
	if backend.got.SampleRate != 16000 || backend.got.Channels != 1 {
		t.Errorf("expected mono 16kHz request, got %+v", backend.got)
	}
}

func TestTranscoder_Failures(t *testing.T) {
	tests := []struct {
		name    string
		backend *fakeBackend
		code    apperrors.ErrorCode
	}{
		{"backend error", &fakeBackend{available: true, err: errors.New("exit status 1")}, apperrors.ErrCodeConversionFailed},
		{"missing output", &fakeBackend{available: true}, apperrors.ErrCodeConversionFailed},
		{"empty output", &fakeBackend{available: true, output: []byte{}}, apperrors.ErrCodeConversionFailed},
		{"unavailable", &fakeBackend{available: false}, apperrors.ErrCodeConversionFailed},
		{"deadline", &fakeBackend{available: true, delay: time.Second}, apperrors.ErrCodeTimeout},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			tr := transcoding.New(tc.backend, 20*time.Millisecond, logger.Nop(), nil)
			in, out := paths(t)
			_, err := tr.Convert(context.Background(), in, out)
			if !apperrors.HasCode(err, tc.code) {
				t.Fatalf("expected %s, got %v", tc.code, err)
			}
		})
	}
}

func TestTranscoder_Health(t *testing.T) {
	backend := &fakeBackend{available: false}
	tr := transcoding.New(backend, 0, logger.Nop(), nil)
	if err := tr.Start(context.Background()); err != nil {
		t.Fatalf("Start must not fail on an unavailable backend: %v", err)
	}
	if h := tr.Health(context.Background()); h.Status != "unhealthy" {
		t.Errorf("expected unhealthy, got %s", h.Status)
	}
	backend.available = true
	if h := tr.Health(context.Background()); h.Status != "healthy" {
		t.Errorf("expected healthy, got %s", h.Status)
	}
}
