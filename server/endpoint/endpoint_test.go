package endpoint_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/lingolink/component"
	"github.com/kbukum/lingolink/server/endpoint"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func serve(t *testing.T, h gin.HandlerFunc) (int, map[string]any) {
	t.Helper()
	r := gin.New()
	r.GET("/", h)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", http.NoBody))

	var body map[string]any
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	return rr.Code, body
}

func checker(statuses ...component.HealthStatus) endpoint.HealthChecker {
	return func(context.Context) []component.Health {
		out := make([]component.Health, len(statuses))
		for i, s := range statuses {
			out[i] = component.Health{Name: string(s), Status: s}
		}
		return out
	}
}

func TestHealth(t *testing.T) {
	tests := []struct {
		name       string
		checker    endpoint.HealthChecker
		wantCode   int
		wantStatus string
	}{
		{"no checker", nil, http.StatusOK, "healthy"},
		{"all healthy", checker(component.StatusHealthy, component.StatusHealthy), http.StatusOK, "healthy"},
		{"degraded", checker(component.StatusHealthy, component.StatusDegraded), http.StatusOK, "degraded"},
		{"unhealthy wins", checker(component.StatusDegraded, component.StatusUnhealthy), http.StatusServiceUnavailable, "unhealthy"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			code, body := serve(t, endpoint.Health("lingolink", tc.checker))
			if code != tc.wantCode || body["status"] != tc.wantStatus {
				t.Errorf("expected %d %s, got %d %v", tc.wantCode, tc.wantStatus, code, body["status"])
			}
			if body["service"] != "lingolink" {
				t.Errorf("expected service name, got %v", body["service"])
			}
		})
	}
}

func TestLivenessAndInfo(t *testing.T) {
	if code, body := serve(t, endpoint.Liveness("lingolink")); code != http.StatusOK || body["status"] != "alive" {
		t.Errorf("unexpected liveness response %d %v", code, body)
	}
	code, body := serve(t, endpoint.Info("lingolink"))
	if code != http.StatusOK || body["version"] == "" || body["go_version"] == "" {
		t.Errorf("unexpected info response %d %v", code, body)
	}
}

func TestMetrics(t *testing.T) {
	files := int64(3)
	code, body := serve(t, endpoint.Metrics(endpoint.Gauge{Name: "audio_files", Read: func() int64 { return files }}))
	if code != http.StatusOK {
		t.Fatalf("expected 200, got %d", code)
	}
	if _, ok := body["goroutines"]; !ok {
		t.Error("expected goroutine count")
	}
	gauges, _ := body["gauges"].(map[string]any)
	if gauges["audio_files"] != float64(3) {
		t.Errorf("expected audio_files gauge, got %v", body["gauges"])
	}
}

func TestOverall(t *testing.T) {
	h := func(s component.HealthStatus) component.Health { return component.Health{Status: s} }
	tests := []struct {
		in   []component.Health
		want component.HealthStatus
	}{
		{nil, component.StatusHealthy},
		{[]component.Health{h(component.StatusDegraded), h(component.StatusHealthy)}, component.StatusDegraded},
		{[]component.Health{h(component.StatusUnhealthy), h(component.StatusDegraded)}, component.StatusUnhealthy},
	}
	for _, tc := range tests {
		if got := endpoint.Overall(tc.in); got != tc.want {
			t.Errorf("Overall(%v) = %s, want %s", tc.in, got, tc.want)
		}
	}
}
