package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/kbukum/lingolink/logger"
	"github.com/kbukum/lingolink/server/middleware"
)

func TestRecovery(t *testing.T) {
	recovery := middleware.Recovery(logger.Nop())

	rr := run(recovery(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})), httptest.NewRequest(http.MethodGet, "/", nil))
	if rr.Code != http.StatusOK || rr.Body.String() != "ok" {
		t.Errorf("passthrough = %d %q", rr.Code, rr.Body.String())
	}

	rr = run(recovery(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("whisper segfault")
	})), httptest.NewRequest(http.MethodPost, "/process_audio", nil))
	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rr.Code)
	}
	if code := errorCode(t, rr); code != "INTERNAL_ERROR" {
		t.Errorf("code = %s", code)
	}
	if strings.Contains(rr.Body.String(), "segfault") {
		t.Errorf("panic value leaked: %s", rr.Body.String())
	}
}

func TestRecoveryRepanicsAbort(t *testing.T) {
	h := middleware.Recovery(logger.Nop())(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic(http.ErrAbortHandler)
	}))
	defer func() {
		if rec := recover(); rec != http.ErrAbortHandler {
			t.Errorf("recovered %v, want ErrAbortHandler", rec)
		}
	}()
	run(h, httptest.NewRequest(http.MethodGet, "/", nil))
}
