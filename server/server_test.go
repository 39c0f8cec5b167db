package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/lingolink/component"
	apperrors "github.com/kbukum/lingolink/errors"
	"github.com/kbukum/lingolink/logger"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestServer(t *testing.T, cfg Config) *Server {
	t.Helper()
	cfg.ApplyDefaults()
	cfg.Host = "127.0.0.1"
	cfg.Port = 0
	return New(cfg, logger.Nop())
}

func TestConfigDefaults(t *testing.T) {
	var cfg Config
	cfg.ApplyDefaults()
	if cfg.Host != "0.0.0.0" || cfg.Port != 5000 || cfg.MaxBodySize != "25MB" {
		t.Errorf("unexpected defaults %+v", cfg)
	}
	if len(cfg.CORS.AllowedOrigins) != 1 || cfg.CORS.AllowedOrigins[0] != "*" {
		t.Errorf("expected all origins allowed, got %v", cfg.CORS.AllowedOrigins)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}

	bad := cfg
	bad.Port = 70000
	if err := bad.Validate(); err == nil {
		t.Error("expected invalid port to fail")
	}
	bad = cfg
	bad.MaxBodySize = "lots"
	if err := bad.Validate(); err == nil {
		t.Error("expected malformed max_body_size to fail")
	}
}

func TestServer_StartStop(t *testing.T) {
	s := newTestServer(t, Config{})
	s.GinEngine().GET("/", func(c *gin.Context) { RespondOK(c, gin.H{"message": "live"}) })
	comp := NewComponent(s)

	ctx := context.Background()
	if h := comp.Health(ctx); h.Status != component.StatusUnhealthy {
		t.Errorf("expected unhealthy before start, got %s", h.Status)
	}
	if err := comp.Start(ctx); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer comp.Stop(ctx)

	if h := comp.Health(ctx); h.Status != component.StatusHealthy {
		t.Errorf("expected healthy after start, got %s", h.Status)
	}
	resp, err := http.Get("http://" + s.Addr() + "/")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK || !strings.Contains(string(body), "live") {
		t.Errorf("unexpected response %d %s", resp.StatusCode, body)
	}
	if !strings.Contains(comp.Describe().Details, "max_body=") {
		t.Errorf("unexpected description %+v", comp.Describe())
	}
}

func TestServer_HandlerAppliesMiddleware(t *testing.T) {
	s := newTestServer(t, Config{MaxBodySize: "1KB"})
	s.GinEngine().POST("/echo", func(c *gin.Context) {
		_, err := io.ReadAll(c.Request.Body)
		if err != nil {
			RespondWithError(c, apperrors.PayloadTooLarge("1KB"))
			return
		}
		RespondOK(c, gin.H{"ok": true})
	})
	s.GinEngine().GET("/panic", func(*gin.Context) { panic("boom") })

	h := s.Handler()

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/echo", strings.NewReader(strings.Repeat("a", 4096))))
	if rr.Code != http.StatusRequestEntityTooLarge {
		t.Errorf("expected 413, got %d", rr.Code)
	}

	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/panic", http.NoBody))
	if rr.Code != http.StatusInternalServerError {
		t.Errorf("expected 500 after panic, got %d", rr.Code)
	}
	if rr.Header().Get("X-Request-Id") == "" {
		t.Error("expected request id on every response")
	}
}

func TestRespondWithError(t *testing.T) {
	tests := []struct {
		err  error
		code int
		want apperrors.ErrorCode
	}{
		{apperrors.MissingField("audio"), http.StatusBadRequest, apperrors.ErrCodeMissingField},
		{apperrors.NotFound("file", "x.mp3"), http.StatusNotFound, apperrors.ErrCodeNotFound},
		{io.ErrUnexpectedEOF, http.StatusInternalServerError, apperrors.ErrCodeInternal},
	}
	for _, tc := range tests {
		rr := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(rr)
		c.Request = httptest.NewRequest(http.MethodGet, "/", http.NoBody)
		RespondWithError(c, tc.err)

		var body apperrors.ErrorResponse
		if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
			t.Fatalf("invalid JSON: %v", err)
		}
		if rr.Code != tc.code || body.Code != tc.want || body.Error == "" {
			t.Errorf("%v: got %d %+v", tc.err, rr.Code, body)
		}
		if strings.Contains(body.Error, "unexpected EOF") {
			t.Error("internal causes must not reach the client")
		}
	}
}

func TestHandlerLabel(t *testing.T) {
	tests := map[string]string{
		"github.com/kbukum/lingolink/api.(*Handler).ProcessAudio-fm":    "Handler.ProcessAudio",
		"github.com/kbukum/lingolink/server/endpoint.Health.func1":      "health",
		"github.com/kbukum/lingolink/server.TestServer_StartStop.func1": "testserver_startstop",
		"github.com/kbukum/lingolink/api.Root":                          "Root",
		"main.main.func2.1":                                             "main",
	}
	for in, want := range tests {
		if got := handlerLabel(in); got != want {
			t.Errorf("handlerLabel(%q) = %q, want %q", in, got, want)
		}
	}
}
