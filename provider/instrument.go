package provider

import (
	"context"
	"time"

	"github.com/kbukum/lingolink/errors"
	"github.com/kbukum/lingolink/logger"
	"github.com/kbukum/lingolink/observability"
)

// WithLogging logs every call with provider, operation and duration:
// failures at error level with their code, successes at debug.
func WithLogging[I, O any](log *logger.Logger, operation string) Middleware[I, O] {
	return around(func(ctx context.Context, next RequestResponse[I, O], in I) (O, error) {
		began := time.Now()
		out, err := next.Execute(ctx, in)

		fields := logger.MergeWithDuration(logger.Fields(
			logger.FieldProvider, next.Name(),
			logger.FieldOperation, operation,
		), time.Since(began))
		l := log.WithContext(ctx)
		if err == nil {
			l.Debug(operation+" ok", fields)
			return out, nil
		}
		if appErr, ok := errors.AsAppError(err); ok {
			fields[logger.FieldErrorCode] = string(appErr.Code)
		}
		l.Error(operation+" failed", logger.MergeWithError(fields, err))
		return out, err
	})
}

// WithMetrics counts calls and their latency per provider and operation,
// plus errors by code. Nil metrics are a no-op.
func WithMetrics[I, O any](metrics *observability.Metrics, operation string) Middleware[I, O] {
	return around(func(ctx context.Context, next RequestResponse[I, O], in I) (O, error) {
		began := time.Now()
		out, err := next.Execute(ctx, in)

		status := "ok"
		if err != nil {
			status = "error"
			metrics.RecordError(ctx, string(errors.Wrap(err).Code), next.Name())
		}
		metrics.RecordOperation(ctx, next.Name(), operation, status, time.Since(began))
		return out, err
	})
}

// WithTracing runs each call in a span named "<stage>.<provider>".
func WithTracing[I, O any](stage string) Middleware[I, O] {
	return around(func(ctx context.Context, next RequestResponse[I, O], in I) (O, error) {
		ctx, span := observability.StartSpan(ctx, stage+"."+next.Name())
		defer span.End()
		observability.SetSpanAttribute(ctx, observability.AttrStage, stage)
		observability.SetSpanAttribute(ctx, observability.AttrOperationName, next.Name())

		out, err := next.Execute(ctx, in)
		if err != nil {
			observability.SetSpanError(ctx, err)
		}
		return out, err
	})
}
