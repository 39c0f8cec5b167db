package observability

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/kbukum/lingolink"

// SpanPipeline is the root span of one /process_audio request. Stage spans
// are named "<stage>.<provider>".
const SpanPipeline = "pipeline.process"

// Span attribute keys.
const (
	AttrOperationName = "operation.name"
	AttrRequestID     = "request.id"
	AttrStage         = "pipeline.stage"
	AttrTargetLang    = "lingolink.target_lang"
	AttrSourceLang    = "lingolink.source_lang"
	AttrErrorCode     = "error.code"
)

// StartSpan starts a span on the global tracer provider, which is a no-op
// until telemetry is enabled.
func StartSpan(ctx context.Context, name string, opts ...trace.SpanStartOption) (context.Context, trace.Span) {
	return otel.Tracer(tracerName).Start(ctx, name, opts...)
}

func SpanFromContext(ctx context.Context) trace.Span {
	return trace.SpanFromContext(ctx)
}

// SetSpanAttribute sets key on the span in ctx. Values of other types than
// string, int, int64, float64 and bool are ignored.
func SetSpanAttribute(ctx context.Context, key string, value any) {
	span := trace.SpanFromContext(ctx)
	if !span.IsRecording() {
		return
	}
	if kv, ok := toAttribute(key, value); ok {
		span.SetAttributes(kv)
	}
}

// SetSpanError records err on the span in ctx and marks the span failed.
func SetSpanError(ctx context.Context, err error) {
	span := trace.SpanFromContext(ctx)
	if !span.IsRecording() {
		return
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}

func toAttribute(key string, value any) (attribute.KeyValue, bool) {
	k := attribute.Key(key)
	switch v := value.(type) {
	case string:
		return k.String(v), true
	case int:
		return k.Int(v), true
	case int64:
		return k.Int64(v), true
	case float64:
		return k.Float64(v), true
	case bool:
		return k.Bool(v), true
	}
	return attribute.KeyValue{}, false
}
