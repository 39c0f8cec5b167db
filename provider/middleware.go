package provider

import (
	"context"
	"slices"
)

// Middleware decorates a RequestResponse.
type Middleware[I, O any] func(RequestResponse[I, O]) RequestResponse[I, O]

// Chain applies middlewares so the first one listed runs outermost:
// Chain(a, b)(p) is a(b(p)). Nil entries are skipped, which lets optional
// layers be passed unconditionally.
func Chain[I, O any](middlewares ...Middleware[I, O]) Middleware[I, O] {
	return func(p RequestResponse[I, O]) RequestResponse[I, O] {
		for _, mw := range slices.Backward(middlewares) {
			if mw != nil {
				p = mw(p)
			}
		}
		return p
	}
}

// around builds a Middleware whose Execute is call. The result keeps the
// wrapped provider's name and availability.
func around[I, O any](call func(ctx context.Context, next RequestResponse[I, O], in I) (O, error)) Middleware[I, O] {
	return func(next RequestResponse[I, O]) RequestResponse[I, O] {
		return &wrapped[I, O]{RequestResponse: next, call: call}
	}
}

type wrapped[I, O any] struct {
	RequestResponse[I, O]
	call func(ctx context.Context, next RequestResponse[I, O], in I) (O, error)
}

func (w *wrapped[I, O]) Execute(ctx context.Context, in I) (O, error) {
	return w.call(ctx, w.RequestResponse, in)
}
