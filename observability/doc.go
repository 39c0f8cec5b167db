// Package observability wires OpenTelemetry tracing and metrics.
//
// Export is off by default. When enabled, the Component installs OTLP HTTP
// exporters and exposes Metrics for the pipeline and the stage providers:
//
//	ctx, span := observability.StartSpan(ctx, observability.SpanPipeline)
//	defer span.End()
//	metrics.RecordRequestEnd(ctx, "es", "ok", time.Since(start))
package observability
