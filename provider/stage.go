package provider

import (
	"time"

	"github.com/kbukum/lingolink/logger"
	"github.com/kbukum/lingolink/observability"
)

// StageOptions describes the standard wrapping of a stage backend.
type StageOptions struct {
	// Stage names the pipeline stage, e.g. "transcription".
	Stage string
	// Operation names the call, e.g. "recognize".
	Operation string
	Log       *logger.Logger
	Metrics   *observability.Metrics
	Timeout   time.Duration
	// Resilience is shared state owned by the stage; nil skips it.
	Resilience *ResilienceState
}

// Stage wraps inner with the standard middleware stack, outermost first:
// logging, metrics, tracing, timeout, resilience. The timeout therefore
// also bounds time spent queueing in a bulkhead.
func Stage[I, O any](inner RequestResponse[I, O], opts StageOptions) RequestResponse[I, O] {
	log := opts.Log
	if log == nil {
		log = logger.Nop()
	}
	var resilient Middleware[I, O]
	if opts.Resilience != nil {
		resilient = WithResilienceState[I, O](opts.Resilience)
	}
	return Chain(
		WithLogging[I, O](log, opts.Operation),
		WithMetrics[I, O](opts.Metrics, opts.Operation),
		WithTracing[I, O](opts.Stage),
		WithTimeout[I, O](opts.Operation, opts.Timeout),
		resilient,
	)(inner)
}
