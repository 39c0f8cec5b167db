package provider

import (
	"context"
	stderrors "errors"

	"github.com/kbukum/lingolink/errors"
	"github.com/kbukum/lingolink/resilience"
)

// ResilienceConfig bundles optional resilience policies for a provider.
// Nil fields are skipped; a zero config is a passthrough.
type ResilienceConfig struct {
	// CircuitBreaker stops calls to a backend after repeated failures.
	CircuitBreaker *resilience.CircuitBreakerConfig
	// Bulkhead limits concurrent calls into a backend.
	Bulkhead *resilience.BulkheadConfig
}

// IsEmpty returns true if no resilience policies are configured.
func (c ResilienceConfig) IsEmpty() bool {
	return c.CircuitBreaker == nil && c.Bulkhead == nil
}

// ResilienceState holds the primitives built from a ResilienceConfig.
type ResilienceState struct {
	cb *resilience.CircuitBreaker
	bh *resilience.Bulkhead
}

// BuildResilience creates the primitives described by cfg, or nil for an empty config.
func BuildResilience(cfg ResilienceConfig) *ResilienceState {
	if cfg.IsEmpty() {
		return nil
	}
	s := &ResilienceState{}
	if cfg.CircuitBreaker != nil {
		s.cb = resilience.NewCircuitBreaker(*cfg.CircuitBreaker)
	}
	if cfg.Bulkhead != nil {
		s.bh = resilience.NewBulkhead(*cfg.Bulkhead)
	}
	return s
}

// CircuitBreaker returns the breaker, or nil when none is configured.
func (s *ResilienceState) CircuitBreaker() *resilience.CircuitBreaker {
	if s == nil {
		return nil
	}
	return s.cb
}

// Bulkhead returns the bulkhead, or nil when none is configured.
func (s *ResilienceState) Bulkhead() *resilience.Bulkhead {
	if s == nil {
		return nil
	}
	return s.bh
}

// WithResilience returns a Middleware running Execute through the policies
// in cfg: Bulkhead, then CircuitBreaker, then the call. An empty config
// yields a nil Middleware, which Chain skips.
func WithResilience[I, O any](cfg ResilienceConfig) Middleware[I, O] {
	state := BuildResilience(cfg)
	if state == nil {
		return nil
	}
	return WithResilienceState[I, O](state)
}

// WithResilienceState is WithResilience over primitives the caller already
// owns, so their state can be inspected for health reporting.
func WithResilienceState[I, O any](state *ResilienceState) Middleware[I, O] {
	return func(inner RequestResponse[I, O]) RequestResponse[I, O] {
		return &resilientRR[I, O]{RequestResponse: inner, state: state}
	}
}

// resilientRR reports unavailable while its circuit is open.
type resilientRR[I, O any] struct {
	RequestResponse[I, O]
	state *ResilienceState
}

func (r *resilientRR[I, O]) IsAvailable(ctx context.Context) bool {
	if cb := r.state.CircuitBreaker(); cb != nil && cb.State() == resilience.StateOpen {
		return false
	}
	return r.RequestResponse.IsAvailable(ctx)
}

func (r *resilientRR[I, O]) Execute(ctx context.Context, in I) (O, error) {
	return ExecuteWithResilience(ctx, r.state, r.Name(), func() (O, error) {
		return r.RequestResponse.Execute(ctx, in)
	})
}

// ExecuteWithResilience runs fn through Bulkhead then CircuitBreaker.
// Rejections by either policy are returned as SERVICE_UNAVAILABLE AppErrors
// naming service; errors from fn pass through untouched.
func ExecuteWithResilience[T any](ctx context.Context, s *ResilienceState, service string, fn func() (T, error)) (T, error) {
	if s == nil {
		return fn()
	}

	call := fn
	if s.cb != nil {
		inner := call
		call = func() (T, error) {
			var result T
			var resultErr error
			cbErr := s.cb.Execute(func() error {
				result, resultErr = inner()
				return resultErr
			})
			if cbErr != nil && resultErr == nil {
				return result, wrapResilienceError(service, cbErr)
			}
			return result, resultErr
		}
	}

	if s.bh == nil {
		return call()
	}

	var fnErr error
	result, err := resilience.ExecuteWithResult(ctx, s.bh, func() (T, error) {
		r, e := call()
		fnErr = e
		return r, e
	})
	if err != nil && fnErr == nil {
		return result, wrapResilienceError(service, err)
	}
	return result, err
}

func wrapResilienceError(service string, err error) error {
	if errors.IsAppError(err) {
		return err
	}
	switch {
	case stderrors.Is(err, resilience.ErrCircuitOpen):
		return errors.ServiceUnavailable(service).
			WithCause(err).
			With("reason", "circuit open")
	case stderrors.Is(err, resilience.ErrBulkheadFull), stderrors.Is(err, resilience.ErrBulkheadTimeout):
		return errors.ServiceUnavailable(service).
			WithCause(err).
			With("reason", "concurrency limit reached")
	case stderrors.Is(err, context.Canceled):
		return errors.Timeout("request canceled").WithCause(err)
	case stderrors.Is(err, context.DeadlineExceeded):
		return errors.Timeout(service).WithCause(err)
	default:
		return err
	}
}
