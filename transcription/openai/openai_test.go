package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/kbukum/lingolink/transcription"
)

func TestNewProviderRequiresKey(t *testing.T) {
	if _, err := NewProvider(Config{}); err == nil {
		t.Fatal("expected error without api_key")
	}
	if _, err := Factory()(map[string]any{"model": "whisper-1"}); err == nil {
		t.Fatal("expected factory error without api_key")
	}
}

func TestTranscribe(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/audio/transcriptions" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer sk-test" {
			t.Errorf("missing bearer token")
		}
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("parse multipart: %v", err)
			return
		}
		if r.FormValue("model") != "whisper-1" || r.FormValue("response_format") != "verbose_json" {
			t.Errorf("unexpected form: %v", r.MultipartForm.Value)
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"task":     "transcribe",
			"language": "spanish",
			"duration": 1.5,
			"text":     "hola mundo",
			"segments": []map[string]any{{"id": 0, "start": 0.0, "end": 1.5, "text": "hola mundo"}},
		})
	}))
	defer srv.Close()

	audio := filepath.Join(t.TempDir(), "normalized.wav")
	if err := os.WriteFile(audio, []byte("RIFF"), 0o600); err != nil {
		t.Fatal(err)
	}

	p, err := NewProvider(Config{APIKey: "sk-test", BaseURL: srv.URL + "/v1"})
	if err != nil {
		t.Fatal(err)
	}
	if !p.IsAvailable(context.Background()) {
		t.Error("expected configured provider to be available")
	}
	resp, err := p.Transcribe(context.Background(), transcription.Request{AudioPath: audio})
	if err != nil {
		t.Fatalf("Transcribe failed: %v", err)
	}
	if resp.Text != "hola mundo" || resp.Duration != 1.5 || len(resp.Segments) != 1 {
		t.Errorf("unexpected response: %+v", resp)
	}
}

func TestTranscribeAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":{"message":"quota exceeded","type":"insufficient_quota"}}`))
	}))
	defer srv.Close()

	audio := filepath.Join(t.TempDir(), "normalized.wav")
	_ = os.WriteFile(audio, []byte("RIFF"), 0o600)

	p, _ := NewProvider(Config{APIKey: "sk-test", BaseURL: srv.URL + "/v1"})
	if _, err := p.Transcribe(context.Background(), transcription.Request{AudioPath: audio}); err == nil {
		t.Fatal("expected API error")
	}
}
