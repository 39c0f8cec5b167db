package pipeline_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	apperrors "github.com/kbukum/lingolink/errors"
	"github.com/kbukum/lingolink/logger"
	"github.com/kbukum/lingolink/pipeline"
	"github.com/kbukum/lingolink/transcoding"
	"github.com/kbukum/lingolink/translation"
)

type fakeTranscoder struct {
	mu     sync.Mutex
	inputs []string
	err    error
}

func (f *fakeTranscoder) Convert(_ context.Context, in, out string) (*transcoding.Result, error) {
	f.mu.Lock()
	f.inputs = append(f.inputs, in)
	f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	if _, err := os.Stat(in); err != nil {
		return nil, err
	}
	if err := os.WriteFile(out, []byte("RIFF"), 0o600); err != nil {
		return nil, err
	}
	return &transcoding.Result{Path: out, Size: 4}, nil
}

type fakeRecognizer struct {
	text   string
	err    error
	called atomic.Bool
}

func (f *fakeRecognizer) Recognize(_ context.Context, path string) (string, error) {
	f.called.Store(true)
	if filepath.Base(path) != "normalized.wav" {
		return "", errors.New("unexpected input " + path)
	}
	return f.text, f.err
}

type fakeTranslator struct {
	fail bool
}

func (f *fakeTranslator) Translate(_ context.Context, text, target string) translation.Outcome {
	if f.fail || text == "" {
		return translation.Outcome{Text: text, SourceLang: translation.UnknownSource, Fallback: f.fail, Reason: translation.ReasonServiceFailed}
	}
	return translation.Outcome{Text: "[" + target + "] " + text, SourceLang: "en"}
}

type fakeSynthesizer struct {
	mu  sync.Mutex
	n   int
	err error
}

func (f *fakeSynthesizer) Synthesize(_ context.Context, text, lang string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	if text == "" {
		return "", apperrors.SynthesisFailed(errors.New("no text"))
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.n++
	return "translated_" + strings.Repeat("0", 31) + string(rune('0'+f.n%10)) + ".mp3", nil
}

type harness struct {
	svc         *pipeline.Service
	workDir     string
	transcoder  *fakeTranscoder
	recognizer  *fakeRecognizer
	translator  *fakeTranslator
	synthesizer *fakeSynthesizer
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	h := &harness{
		workDir:     t.TempDir(),
		transcoder:  &fakeTranscoder{},
		recognizer:  &fakeRecognizer{text: "Hello, how are you?"},
		translator:  &fakeTranslator{},
		synthesizer: &fakeSynthesizer{},
	}
	h.svc = pipeline.NewService(pipeline.Config{WorkDir: h.workDir}, pipeline.Stages{
		Transcoder:  h.transcoder,
		Recognizer:  h.recognizer,
		Translator:  h.translator,
		Synthesizer: h.synthesizer,
	}, logger.Nop(), nil)
	return h
}

func (h *harness) assertWorkspaceClean(t *testing.T) {
	t.Helper()
	entries, err := os.ReadDir(h.workDir)
	if err != nil {
		t.Fatalf("read work dir: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("expected workspaces removed, found %d entries", len(entries))
	}
}

func audio(s string) pipeline.Input {
	return pipeline.Input{Audio: strings.NewReader(s), Filename: "blob"}
}

func TestProcess(t *testing.T) {
	h := newHarness(t)
	in := audio("webm-bytes")
	in.TargetLang = "es"

	res, err := h.svc.Process(context.Background(), in)
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if res.OriginalText != "Hello, how are you?" || res.TranslatedText != "[es] Hello, how are you?" {
		t.Errorf("unexpected texts %+v", res)
	}
	if res.SourceLang != "en" || res.TargetLang != "es" {
		t.Errorf("unexpected languages %+v", res)
	}
	if !strings.HasPrefix(res.AudioURL, "/uploads/translated_") || !strings.HasSuffix(res.AudioURL, ".mp3") {
		t.Errorf("unexpected audio url %q", res.AudioURL)
	}
	if got := filepath.Base(h.transcoder.inputs[0]); got != "input.webm" {
		t.Errorf("expected input.webm for an extensionless upload, got %s", got)
	}
	h.assertWorkspaceClean(t)
}

func TestProcess_DefaultTargetLang(t *testing.T) {
	h := newHarness(t)
	for _, lang := range []string{"", "   "} {
		in := audio("x")
		in.TargetLang = lang
		res, err := h.svc.Process(context.Background(), in)
		if err != nil {
			t.Fatalf("Process: %v", err)
		}
		if res.TargetLang != "en" {
			t.Errorf("expected default target en, got %q", res.TargetLang)
		}
	}
}

func TestProcess_KeepsUploadExtension(t *testing.T) {
	h := newHarness(t)
	in := pipeline.Input{Audio: strings.NewReader("x"), Filename: "clip.OGG"}
	if _, err := h.svc.Process(context.Background(), in); err != nil {
		t.Fatalf("Process: %v", err)
	}
	if got := filepath.Base(h.transcoder.inputs[0]); got != "input.ogg" {
		t.Errorf("expected input.ogg, got %s", got)
	}
}

func TestProcess_IngressErrors(t *testing.T) {
	h := newHarness(t)

	_, err := h.svc.Process(context.Background(), pipeline.Input{})
	if !apperrors.HasCode(err, apperrors.ErrCodeMissingField) {
		t.Errorf("expected MISSING_FIELD, got %v", err)
	}
	_, err = h.svc.Process(context.Background(), audio(""))
	if !apperrors.HasCode(err, apperrors.ErrCodeInvalidInput) {
		t.Errorf("expected INVALID_INPUT for an empty upload, got %v", err)
	}
	if len(h.transcoder.inputs) != 0 {
		t.Error("expected no conversion for rejected input")
	}
	h.assertWorkspaceClean(t)
}

func TestProcess_ConversionFailureShortCircuits(t *testing.T) {
	h := newHarness(t)
	h.transcoder.err = apperrors.ConversionFailed(errors.New("ffmpeg exited with status 1"))

	res, err := h.svc.Process(context.Background(), audio("garbage"))
	if res != nil || !apperrors.HasCode(err, apperrors.ErrCodeConversionFailed) {
		t.Fatalf("expected CONVERSION_FAILED and no result, got %+v, %v", res, err)
	}
	if h.recognizer.called.Load() {
		t.Error("recognizer must not run after a failed conversion")
	}
	h.assertWorkspaceClean(t)
}

func TestProcess_RecognitionFailure(t *testing.T) {
	h := newHarness(t)
	h.recognizer.err = apperrors.RecognitionFailed(errors.New("model crashed"))

	_, err := h.svc.Process(context.Background(), audio("x"))
	if !apperrors.HasCode(err, apperrors.ErrCodeRecognitionFailed) {
		t.Errorf("expected RECOGNITION_FAILED, got %v", err)
	}
	h.assertWorkspaceClean(t)
}

func TestProcess_TranslationFallback(t *testing.T) {
	h := newHarness(t)
	h.translator.fail = true

	res, err := h.svc.Process(context.Background(), audio("x"))
	if err != nil {
		t.Fatalf("translation failure must not fail the request: %v", err)
	}
	if res.TranslatedText != res.OriginalText || res.SourceLang != "unknown" {
		t.Errorf("expected passthrough text with unknown source, got %+v", res)
	}
	if res.AudioURL == "" {
		t.Error("expected audio for the passthrough text")
	}
}

func TestProcess_SynthesisFailure(t *testing.T) {
	h := newHarness(t)
	h.synthesizer.err = apperrors.SynthesisFailed(errors.New("tts down"))

	res, err := h.svc.Process(context.Background(), audio("x"))
	if res != nil {
		t.Errorf("expected no result, got %+v", res)
	}
	if !apperrors.HasCode(err, apperrors.ErrCodeSynthesisFailed) {
		t.Errorf("expected SYNTHESIS_FAILED, got %v", err)
	}
	h.assertWorkspaceClean(t)
}

func TestProcess_SilenceFailsAtSynthesis(t *testing.T) {
	h := newHarness(t)
	h.recognizer.text = ""

	_, err := h.svc.Process(context.Background(), audio("x"))
	if !apperrors.HasCode(err, apperrors.ErrCodeSynthesisFailed) {
		t.Errorf("expected SYNTHESIS_FAILED for an empty transcript, got %v", err)
	}
}

func TestProcess_ConcurrentRequestsUseDistinctWorkspaces(t *testing.T) {
	h := newHarness(t)
	const n = 8

	var wg sync.WaitGroup
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := h.svc.Process(context.Background(), audio("clip")); err != nil {
				errs <- err
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Errorf("Process: %v", err)
	}

	dirs := make(map[string]bool)
	for _, in := range h.transcoder.inputs {
		dirs[filepath.Dir(in)] = true
	}
	if len(dirs) != n {
		t.Errorf("expected %d distinct workspaces, got %d", n, len(dirs))
	}
	h.assertWorkspaceClean(t)
}

func TestProcess_UsesRequestIDForWorkspace(t *testing.T) {
	h := newHarness(t)
	ctx := logger.ContextWithRequestID(context.Background(), "req-42")
	if _, err := h.svc.Process(ctx, audio("x")); err != nil {
		t.Fatalf("Process: %v", err)
	}
	if dir := filepath.Base(filepath.Dir(h.transcoder.inputs[0])); !strings.HasPrefix(dir, "req-42-") {
		t.Errorf("expected workspace named after the request id, got %s", dir)
	}
}

func TestConfigDefaults(t *testing.T) {
	var cfg pipeline.Config
	cfg.ApplyDefaults()
	if cfg.DefaultTargetLang != "en" || cfg.AudioURLPrefix != "/uploads/" || cfg.WorkDir == "" {
		t.Errorf("unexpected defaults %+v", cfg)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}
