package observability

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const metricPrefix = "lingolink."

// Metrics holds the service's instruments. A nil *Metrics records nothing,
// so callers never branch on whether telemetry is enabled.
type Metrics struct {
	requests  metric.Int64Counter
	latency   metric.Float64Histogram
	inflight  metric.Int64UpDownCounter
	stageRuns metric.Int64Counter
	stageTime metric.Float64Histogram
	failures  metric.Int64Counter
	fallbacks metric.Int64Counter
	evictions metric.Int64Counter
}

// NewMetrics registers the instruments on meter.
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	var (
		m    Metrics
		errs []error
	)
	check := func(name string, err error) {
		if err != nil {
			errs = append(errs, fmt.Errorf("creating %s: %w", name, err))
		}
	}
	counter := func(name, desc string) metric.Int64Counter {
		c, err := meter.Int64Counter(metricPrefix+name, metric.WithDescription(desc))
		check(name, err)
		return c
	}
	seconds := func(name, desc string) metric.Float64Histogram {
		h, err := meter.Float64Histogram(metricPrefix+name, metric.WithDescription(desc), metric.WithUnit("s"))
		check(name, err)
		return h
	}

	m.requests = counter("request.total", "Translation requests by outcome")
	m.latency = seconds("request.duration", "End-to-end pipeline duration")
	m.stageRuns = counter("stage.total", "Stage provider calls by status")
	m.stageTime = seconds("stage.duration", "Stage provider call duration")
	m.failures = counter("error.total", "Errors by code and component")
	m.fallbacks = counter("translation.fallback.total", "Translations that fell back to the original text")
	m.evictions = counter("audio.evicted.total", "Generated audio files removed by retention")

	inflight, err := meter.Int64UpDownCounter(metricPrefix+"request.active",
		metric.WithDescription("Requests currently inside the pipeline"))
	check("request.active", err)
	m.inflight = inflight

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return &m, nil
}

// RecordRequestStart increments the in-flight request count.
func (m *Metrics) RecordRequestStart(ctx context.Context) {
	if m == nil {
		return
	}
	m.inflight.Add(ctx, 1)
}

// RecordRequestEnd closes out a request started with RecordRequestStart.
func (m *Metrics) RecordRequestEnd(ctx context.Context, targetLang, status string, d time.Duration) {
	if m == nil {
		return
	}
	m.inflight.Add(ctx, -1)
	m.requests.Add(ctx, 1, metric.WithAttributes(
		attribute.String("target_lang", targetLang),
		attribute.String("status", status),
	))
	m.latency.Record(ctx, d.Seconds(), metric.WithAttributes(attribute.String("status", status)))
}

// RecordOperation records one provider call of a pipeline stage.
func (m *Metrics) RecordOperation(ctx context.Context, provider, operation, status string, d time.Duration) {
	if m == nil {
		return
	}
	who := attribute.NewSet(
		attribute.String("provider", provider),
		attribute.String("operation", operation),
	)
	m.stageRuns.Add(ctx, 1, metric.WithAttributeSet(who), metric.WithAttributes(attribute.String("status", status)))
	m.stageTime.Record(ctx, d.Seconds(), metric.WithAttributeSet(who))
}

func (m *Metrics) RecordError(ctx context.Context, code, component string) {
	if m == nil {
		return
	}
	m.failures.Add(ctx, 1, metric.WithAttributes(
		attribute.String("code", code),
		attribute.String("component", component),
	))
}

// RecordFallback counts a translation that degraded to the original text.
func (m *Metrics) RecordFallback(ctx context.Context, reason string) {
	if m == nil {
		return
	}
	m.fallbacks.Add(ctx, 1, metric.WithAttributes(attribute.String("reason", reason)))
}

// RecordEvictions counts generated files removed by the retention sweeper.
func (m *Metrics) RecordEvictions(ctx context.Context, n int) {
	if m == nil || n <= 0 {
		return
	}
	m.evictions.Add(ctx, int64(n))
}
