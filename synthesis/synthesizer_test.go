package synthesis_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/kbukum/lingolink/audiostore"
	apperrors "github.com/kbukum/lingolink/errors"
	"github.com/kbukum/lingolink/logger"
	"github.com/kbukum/lingolink/provider"
	"github.com/kbukum/lingolink/synthesis"
)

type fakeBackend struct {
	audio *synthesis.Audio
	err   error
	block bool
	got   synthesis.Request
}

func (f *fakeBackend) Name() string                     { return "fake" }
func (f *fakeBackend) IsAvailable(context.Context) bool { return true }

func (f *fakeBackend) Synthesize(ctx context.Context, req synthesis.Request) (*synthesis.Audio, error) {
	f.got = req
	if f.block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	return f.audio, f.err
}

type memSaver struct {
	mu    sync.Mutex
	files map[string][]byte
	err   error
}

func (m *memSaver) Save(_ context.Context, name string, data []byte) error {
	if m.err != nil {
		return m.err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.files == nil {
		m.files = make(map[string][]byte)
	}
	m.files[name] = data
	return nil
}

func mp3(data string) *synthesis.Audio {
	return &synthesis.Audio{Data: []byte(data), Format: synthesis.FormatMP3, ContentType: synthesis.ContentTypeMP3}
}

func newSynthesizer(backend synthesis.Provider, saver synthesis.Saver, timeout time.Duration) *synthesis.Synthesizer {
	cfg := synthesis.Config{Config: provider.Config{Provider: "fake", Timeout: timeout}}
	return synthesis.NewSynthesizer(cfg, backend, saver, logger.Nop(), nil)
}

func TestSynthesize(t *testing.T) {
	backend := &fakeBackend{audio: mp3("ID3hola")}
	saver := &memSaver{}
	s := newSynthesizer(backend, saver, 0)

	name, err := s.Synthesize(context.Background(), "Hola", "es")
	if err != nil {
		t.Fatalf("Synthesize: %v", err)
	}
	if !audiostore.ValidName(name) {
		t.Errorf("expected a generated name, got %q", name)
	}
	if string(saver.files[name]) != "ID3hola" {
		t.Errorf("expected audio saved under %s", name)
	}
	if backend.got.Language != "es" || backend.got.Text != "Hola" {
		t.Errorf("unexpected request %+v", backend.got)
	}
}

func TestSynthesize_DistinctNames(t *testing.T) {
	s := newSynthesizer(&fakeBackend{audio: mp3("x")}, &memSaver{}, 0)
	a, _ := s.Synthesize(context.Background(), "one", "en")
	b, _ := s.Synthesize(context.Background(), "one", "en")
	if a == "" || a == b {
		t.Errorf("expected distinct names, got %q and %q", a, b)
	}
}

func TestSynthesize_Failures(t *testing.T) {
	tests := []struct {
		name    string
		backend *fakeBackend
		saver   *memSaver
		text    string
	}{
		{"backend error", &fakeBackend{err: errors.New("unsupported language")}, &memSaver{}, "hi"},
		{"no audio", &fakeBackend{audio: &synthesis.Audio{}}, &memSaver{}, "hi"},
		{"nil audio", &fakeBackend{}, &memSaver{}, "hi"},
		{"save error", &fakeBackend{audio: mp3("x")}, &memSaver{err: errors.New("disk full")}, "hi"},
		{"empty text", &fakeBackend{audio: mp3("x")}, &memSaver{}, "  "},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s := newSynthesizer(tc.backend, tc.saver, 0)
			name, err := s.Synthesize(context.Background(), tc.text, "en")
			if !apperrors.HasCode(err, apperrors.ErrCodeSynthesisFailed) {
				t.Errorf("expected SYNTHESIS_FAILED, got %v", err)
			}
			if name != "" {
				t.Errorf("expected no file name, got %q", name)
			}
			if len(tc.saver.files) != 0 {
				t.Errorf("expected nothing saved, got %d files", len(tc.saver.files))
			}
		})
	}
}

func TestSynthesize_Timeout(t *testing.T) {
	s := newSynthesizer(&fakeBackend{block: true}, &memSaver{}, 20*time.Millisecond)
	_, err := s.Synthesize(context.Background(), "hi", "en")
	if !apperrors.HasCode(err, apperrors.ErrCodeTimeout) {
		t.Errorf("expected TIMEOUT, got %v", err)
	}
}

func TestConfigDefaults(t *testing.T) {
	var cfg synthesis.Config
	cfg.ApplyDefaults()
	if cfg.Provider != "gtts" || cfg.Timeout != time.Minute {
		t.Errorf("unexpected defaults %+v", cfg)
	}
}
