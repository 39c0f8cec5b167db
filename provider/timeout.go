package provider

import (
	"context"
	stderrors "errors"
	"time"

	"github.com/kbukum/lingolink/errors"
)

// errStageDeadline marks the stage's own deadline, as opposed to one the
// caller set.
var errStageDeadline = stderrors.New("stage deadline exceeded")

// WithTimeout gives each call at most d. When that budget runs out the error
// becomes a TIMEOUT naming operation; an expired or cancelled caller context
// is passed through unchanged. A non-positive d returns nil, which Chain skips.
func WithTimeout[I, O any](operation string, d time.Duration) Middleware[I, O] {
	if d <= 0 {
		return nil
	}
	return around(func(ctx context.Context, next RequestResponse[I, O], in I) (O, error) {
		callCtx, cancel := context.WithTimeoutCause(ctx, d, errStageDeadline)
		defer cancel()

		out, err := next.Execute(callCtx, in)
		if err == nil || ctx.Err() != nil || context.Cause(callCtx) != errStageDeadline {
			return out, err
		}
		if errors.HasCode(err, errors.ErrCodeTimeout) {
			return out, err
		}
		return out, errors.Timeout(operation).WithCause(err).With("timeout", d.String())
	})
}
