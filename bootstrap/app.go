package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/kbukum/lingolink/component"
	"github.com/kbukum/lingolink/logger"
)

// DefaultGracefulTimeout bounds Shutdown.
const DefaultGracefulTimeout = 15 * time.Second

// Hook runs during shutdown.
type Hook func(ctx context.Context) error

// App owns a service's components from start to graceful stop. C is the
// service's own config type.
type App[C Config] struct {
	Name       string
	Version    string
	Cfg        C
	Components *component.Registry
	Logger     *logger.Logger
	Summary    *Summary

	grace     time.Duration
	stopHooks []Hook
}

// NewApp defaults and validates cfg, then sets up logging from its
// logging section unless WithLogger supplies one.
func NewApp[C Config](cfg C, opts ...Option) (*App[C], error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}
	svc := cfg.Base()

	o := options{grace: DefaultGracefulTimeout}
	for _, opt := range opts {
		opt(&o)
	}
	if o.log == nil {
		logger.Init(svc.Logging, svc.Name)
		o.log = logger.GetGlobalLogger()
	}

	summary := NewSummary(svc.Name, svc.Version)
	if o.summaryOut != nil {
		summary.SetOutput(o.summaryOut)
	}
	return &App[C]{
		Name:       svc.Name,
		Version:    svc.Version,
		Cfg:        cfg,
		Components: component.NewRegistry(o.log),
		Logger:     o.log,
		Summary:    summary,
		grace:      o.grace,
	}, nil
}

// Register adds components in start order. They stop in reverse.
func (a *App[C]) Register(cs ...component.Component) error {
	for _, c := range cs {
		if err := a.Components.Register(c); err != nil {
			return err
		}
	}
	return nil
}

// OnStop adds a hook that runs after every component has stopped.
func (a *App[C]) OnStop(h Hook) {
	a.stopHooks = append(a.stopHooks, h)
}

// ReadyCheck lists the components that are not healthy.
func (a *App[C]) ReadyCheck(ctx context.Context) error {
	var bad []string
	for _, h := range a.Components.HealthAll(ctx) {
		if h.Status == component.StatusHealthy {
			continue
		}
		entry := h.Name + "=" + string(h.Status)
		if h.Message != "" {
			entry += "(" + h.Message + ")"
		}
		bad = append(bad, entry)
	}
	if len(bad) == 0 {
		return nil
	}
	return fmt.Errorf("not ready: %s", strings.Join(bad, ", "))
}

// Run starts the app, waits for SIGINT, SIGTERM or ctx, then shuts down.
func (a *App[C]) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := a.Start(ctx); err != nil {
		return err
	}
	<-ctx.Done()
	a.Logger.Info("shutdown requested", logger.Fields("cause", context.Cause(ctx).Error()))
	return a.Shutdown()
}

// Start brings every component up and prints the summary. On failure the
// components already started are stopped again.
func (a *App[C]) Start(ctx context.Context) error {
	began := time.Now()
	a.Logger.Info("starting", logger.Fields("name", a.Name, "version", a.Version))

	if err := a.Components.StartAll(ctx); err != nil {
		_ = a.Shutdown()
		return fmt.Errorf("startup: %w", err)
	}
	// Components may recover on their own, e.g. a model that finishes
	// loading, so an unhealthy start is only logged.
	if err := a.ReadyCheck(ctx); err != nil {
		a.Logger.Warn("started with unhealthy components", logger.Fields(logger.FieldError, err.Error()))
	}

	a.Summary.SetStartupDuration(time.Since(began))
	a.Summary.Display(ctx, a.Components)
	return nil
}

// Shutdown stops components, then runs the stop hooks, all within the
// graceful timeout on a fresh context.
func (a *App[C]) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), a.grace)
	defer cancel()
	a.Logger.Info("shutting down", logger.Fields("timeout", a.grace.String()))

	errs := []error{a.Components.StopAll(ctx)}
	for _, h := range a.stopHooks {
		errs = append(errs, h(ctx))
	}
	err := errors.Join(errs...)
	if err != nil {
		a.Logger.Error("shutdown finished with errors", logger.Fields(logger.FieldError, err.Error()))
		return err
	}
	a.Logger.Info("shutdown complete")
	return nil
}
