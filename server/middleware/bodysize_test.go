package middleware_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/kbukum/lingolink/server/middleware"
)

func TestBodySizeLimitDeclaredLength(t *testing.T) {
	h := middleware.BodySizeLimit("1KB")(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		t.Error("oversized body reached the handler")
	}))

	rr := run(h, httptest.NewRequest(http.MethodPost, "/process_audio", strings.NewReader(strings.Repeat("a", 2048))))
	if rr.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("status = %d, want 413", rr.Code)
	}
	if code := errorCode(t, rr); code != "PAYLOAD_TOO_LARGE" {
		t.Errorf("code = %s", code)
	}
}

func TestBodySizeLimitReads(t *testing.T) {
	tests := []struct {
		name    string
		size    int
		wantErr bool
	}{
		{"under limit", 512, false},
		{"over limit", 2048, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var readErr error
			h := middleware.BodySizeLimit("1KB")(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
				_, readErr = io.ReadAll(r.Body)
			}))
			req := httptest.NewRequest(http.MethodPost, "/process_audio", strings.NewReader(strings.Repeat("a", tt.size)))
			req.ContentLength = -1
			run(h, req)

			if (readErr != nil) != tt.wantErr {
				t.Errorf("read error = %v, want error %v", readErr, tt.wantErr)
			}
		})
	}
}
