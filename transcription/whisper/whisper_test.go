package whisper

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/kbukum/lingolink/transcription"
)

func newSidecar(t *testing.T, handler http.HandlerFunc) *Provider {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	p, err := NewProvider(Config{URL: srv.URL, Model: "small", Language: "es"})
	if err != nil {
		t.Fatalf("NewProvider failed: %v", err)
	}
	return p
}

func writeWAV(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "normalized.wav")
	if err := os.WriteFile(path, []byte("RIFF....WAVE"), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestTranscribe(t *testing.T) {
	p := newSidecar(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/transcribe" || r.Method != http.MethodPost {
			t.Errorf("unexpected %s %s", r.Method, r.URL.Path)
		}
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("parse multipart: %v", err)
			return
		}
		if r.FormValue("model") != "small" || r.FormValue("language") != "es" {
			t.Errorf("unexpected fields: %v", r.MultipartForm.Value)
		}
		file, header, err := r.FormFile("audio")
		if err != nil {
			t.Errorf("missing audio part: %v", err)
			return
		}
		data, _ := io.ReadAll(file)
		if header.Filename != "normalized.wav" || string(data) != "RIFF....WAVE" {
			t.Errorf("unexpected file %s %q", header.Filename, data)
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"text":     " hola mundo ",
			"language": "es",
			"segments": []map[string]any{
				{"text": "hola", "start": 0.0, "end": 0.5},
				{"text": "mundo", "start": 0.5, "end": 1.25},
			},
		})
	})

	resp, err := p.Transcribe(context.Background(), transcriptionRequest(writeWAV(t)))
	if err != nil {
		t.Fatalf("Transcribe failed: %v", err)
	}
	if resp.Text != " hola mundo " || resp.Language != "es" {
		t.Errorf("unexpected response: %+v", resp)
	}
	if len(resp.Segments) != 2 || resp.Duration != 1.25 {
		t.Errorf("expected 2 segments and 1.25s, got %d and %v", len(resp.Segments), resp.Duration)
	}
}

func TestTranscribeServerError(t *testing.T) {
	p := newSidecar(t, func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "model crashed", http.StatusInternalServerError)
	})
	if _, err := p.Transcribe(context.Background(), transcriptionRequest(writeWAV(t))); err == nil {
		t.Fatal("expected error for 500")
	}
}

func TestTranscribeMissingFile(t *testing.T) {
	p := newSidecar(t, func(http.ResponseWriter, *http.Request) {
		t.Error("sidecar must not be called")
	})
	if _, err := p.Transcribe(context.Background(), transcriptionRequest("/nonexistent.wav")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestLoadAndHealth(t *testing.T) {
	var loaded struct {
		Model string `json:"model"`
	}
	p := newSidecar(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/health":
			w.WriteHeader(http.StatusOK)
		case "/load":
			_ = json.NewDecoder(r.Body).Decode(&loaded)
			w.WriteHeader(http.StatusOK)
		default:
			http.NotFound(w, r)
		}
	})
	if !p.IsAvailable(context.Background()) {
		t.Error("expected sidecar available")
	}
	if err := p.Load(context.Background()); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded.Model != "small" {
		t.Errorf("expected model small, got %+v", loaded)
	}
}

func TestLoadFailure(t *testing.T) {
	p := newSidecar(t, func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "no such model", http.StatusBadRequest)
	})
	if err := p.Load(context.Background()); err == nil {
		t.Fatal("expected load error")
	}
	if p.IsAvailable(context.Background()) {
		t.Error("expected unavailable when /health fails")
	}
}

func TestFactory(t *testing.T) {
	p, err := Factory()(map[string]any{"url": "http://sidecar:8387", "timeout": "30s", "model": "medium"})
	if err != nil {
		t.Fatalf("Factory failed: %v", err)
	}
	if p.Name() != ProviderName {
		t.Errorf("expected %s, got %s", ProviderName, p.Name())
	}
	wp := p.(*Provider)
	if wp.cfg.Model != "medium" || wp.cfg.URL != "http://sidecar:8387" {
		t.Errorf("unexpected config: %+v", wp.cfg)
	}
}

func transcriptionRequest(path string) transcription.Request {
	return transcription.Request{AudioPath: path}
}

func TestFieldsPreferRequest(t *testing.T) {
	p, err := NewProvider(Config{Language: "es"})
	if err != nil {
		t.Fatal(err)
	}
	tests := []struct {
		req  transcription.Request
		want map[string]string
	}{
		{transcription.Request{}, map[string]string{"model": "base", "language": "es"}},
		{transcription.Request{Model: "large-v3", Language: "fr"}, map[string]string{"model": "large-v3", "language": "fr"}},
	}
	for _, tt := range tests {
		got := p.fields(tt.req)
		if len(got) != len(tt.want) || got["model"] != tt.want["model"] || got["language"] != tt.want["language"] {
			t.Errorf("fields(%+v) = %v, want %v", tt.req, got, tt.want)
		}
	}
}
