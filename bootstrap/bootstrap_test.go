package bootstrap

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/kbukum/lingolink/component"
	"github.com/kbukum/lingolink/config"
	"github.com/kbukum/lingolink/logger"
)

type testConfig struct {
	config.ServiceConfig
}

type fakeComponent struct {
	name     string
	startErr error
	stopErr  error
	health   component.Health
	started  chan struct{}
	stopped  bool
	trail    *[]string
}

func newFake(name string) *fakeComponent {
	return &fakeComponent{name: name, health: component.Healthy(name, ""), started: make(chan struct{})}
}

func (f *fakeComponent) Name() string { return f.name }

func (f *fakeComponent) Start(context.Context) error {
	if f.startErr != nil {
		return f.startErr
	}
	close(f.started)
	return nil
}

func (f *fakeComponent) Stop(context.Context) error {
	f.stopped = true
	if f.trail != nil {
		*f.trail = append(*f.trail, "stop "+f.name)
	}
	return f.stopErr
}

func (f *fakeComponent) Health(context.Context) component.Health { return f.health }

type describedFake struct{ *fakeComponent }

func (describedFake) Describe() component.Description {
	return component.Description{Name: "Audio Store", Type: "storage", Details: "max_age=24h0m0s"}
}

func newTestApp(t *testing.T, opts ...Option) (*App[*testConfig], *bytes.Buffer) {
	t.Helper()
	out := new(bytes.Buffer)
	cfg := &testConfig{ServiceConfig: config.ServiceConfig{Name: "lingolink", Version: "1.0.0"}}
	app, err := NewApp(cfg, append([]Option{WithLogger(logger.Nop()), WithSummaryOutput(out)}, opts...)...)
	if err != nil {
		t.Fatalf("NewApp: %v", err)
	}
	return app, out
}

// squash collapses runs of whitespace so tabwriter padding does not matter.
func squash(s string) string { return strings.Join(strings.Fields(s), " ") }

func TestNewApp(t *testing.T) {
	app, _ := newTestApp(t)
	if app.Name != "lingolink" || app.Version != "1.0.0" {
		t.Errorf("identity = %q %q", app.Name, app.Version)
	}
	if app.Cfg.Environment != "development" {
		t.Errorf("defaults not applied, environment %q", app.Cfg.Environment)
	}
	if app.grace != DefaultGracefulTimeout {
		t.Errorf("grace = %v", app.grace)
	}

	app, _ = newTestApp(t, WithGracefulTimeout(30*time.Second))
	if app.grace != 30*time.Second {
		t.Errorf("grace with option = %v", app.grace)
	}

	if _, err := NewApp(&testConfig{}, WithLogger(logger.Nop())); err == nil {
		t.Error("config without a name was accepted")
	}
}

func TestRegisterRejectsDuplicates(t *testing.T) {
	app, _ := newTestApp(t)
	if err := app.Register(newFake("storage"), newFake("transcoder")); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if err := app.Register(newFake("storage")); err == nil {
		t.Error("duplicate accepted")
	}
}

func TestStartAndShutdown(t *testing.T) {
	app, out := newTestApp(t)
	var trail []string
	storage, server := newFake("storage"), newFake("http-server")
	storage.trail, server.trail = &trail, &trail
	_ = app.Register(storage, server)
	app.Summary.TrackRoute("POST", "/process_audio", "Handler.ProcessAudio")
	app.OnStop(func(context.Context) error {
		trail = append(trail, "hook")
		return nil
	})

	if err := app.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	got := squash(out.String())
	for _, want := range []string{"lingolink 1.0.0 started in", "POST /process_audio Handler.ProcessAudio", "+ storage healthy"} {
		if !strings.Contains(got, want) {
			t.Errorf("summary missing %q:\n%s", want, out.String())
		}
	}

	if err := app.Shutdown(); err != nil {
		t.Fatalf("Shutdown: %v", err)
	}
	if strings.Join(trail, ",") != "stop http-server,stop storage,hook" {
		t.Errorf("shutdown order = %v", trail)
	}
}

func TestStartFailureStopsStartedComponents(t *testing.T) {
	app, _ := newTestApp(t)
	storage := newFake("storage")
	broken := newFake("recognizer")
	broken.startErr = errors.New("model load failed")
	_ = app.Register(storage, broken)
	hookRan := false
	app.OnStop(func(context.Context) error {
		hookRan = true
		return nil
	})

	err := app.Start(context.Background())
	if err == nil || !strings.Contains(err.Error(), "model load failed") {
		t.Fatalf("Start = %v", err)
	}
	if !storage.stopped || !hookRan {
		t.Errorf("stopped=%v hookRan=%v, want both", storage.stopped, hookRan)
	}
}

func TestReadyCheck(t *testing.T) {
	app, _ := newTestApp(t)
	if err := app.ReadyCheck(context.Background()); err != nil {
		t.Errorf("empty registry not ready: %v", err)
	}

	transcoder := newFake("transcoder")
	transcoder.health = component.Unhealthy("transcoder", "ffmpeg unavailable")
	_ = app.Register(newFake("storage"), transcoder)

	err := app.ReadyCheck(context.Background())
	if err == nil || !strings.Contains(err.Error(), "transcoder=unhealthy(ffmpeg unavailable)") {
		t.Errorf("ReadyCheck = %v", err)
	}
	if strings.Contains(err.Error(), "storage") {
		t.Errorf("healthy component listed: %v", err)
	}
}

func TestRunReturnsWhenContextCanceled(t *testing.T) {
	app, _ := newTestApp(t)
	server := newFake("http-server")
	_ = app.Register(server)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- app.Run(ctx) }()

	select {
	case <-server.started:
	case <-time.After(5 * time.Second):
		t.Fatal("component never started")
	}
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run = %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
	if !server.stopped {
		t.Error("component not stopped")
	}
}

func TestShutdownJoinsErrors(t *testing.T) {
	app, _ := newTestApp(t)
	s3 := newFake("s3")
	s3.stopErr = errors.New("flush failed")
	_ = app.Register(s3)
	app.OnStop(func(context.Context) error { return errors.New("telemetry export failed") })

	if err := app.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	err := app.Shutdown()
	if err == nil || !strings.Contains(err.Error(), "flush failed") || !strings.Contains(err.Error(), "telemetry export failed") {
		t.Errorf("Shutdown = %v", err)
	}
}

func TestSummaryDisplay(t *testing.T) {
	out := new(bytes.Buffer)
	s := NewSummary("lingolink", "1.2.3")
	s.SetOutput(out)
	s.SetStartupDuration(1500 * time.Millisecond)
	s.TrackRoute("GET", "/", "Handler.Root")

	store := newFake("audiostore")
	store.health = component.Degraded("audiostore", "sweeper behind")
	reg := component.NewRegistry(logger.Nop())
	_ = reg.Register(describedFake{store})
	s.Display(context.Background(), reg)

	got := squash(out.String())
	for _, want := range []string{
		"lingolink 1.2.3 started in 1.50s",
		"Audio Store storage max_age=24h0m0s",
		"routes (1) GET / Handler.Root",
		"~ audiostore degraded sweeper behind",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("summary missing %q:\n%s", want, out.String())
		}
	}
	if len(s.Routes()) != 1 {
		t.Errorf("Routes() = %v", s.Routes())
	}
}

func TestSummaryWithoutRegistry(t *testing.T) {
	out := new(bytes.Buffer)
	s := NewSummary("lingolink", "dev")
	s.SetOutput(out)
	s.Display(context.Background(), nil)
	got := squash(out.String())
	if !strings.Contains(got, "lingolink dev started") || strings.Contains(got, "health") {
		t.Errorf("output = %q", out.String())
	}
}
