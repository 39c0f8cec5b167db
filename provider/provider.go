package provider

import "context"

// Provider is what every stage backend has in common.
type Provider interface {
	// Name is the config name of the backend, e.g. "whisper" or "gtts".
	Name() string
	IsAvailable(ctx context.Context) bool
}

// Factory builds a backend from the "options" map of its stage config.
type Factory[T Provider] func(opts map[string]any) (T, error)

// RequestResponse is a backend with a single call: one input, one output.
// Transcoding, recognition, translation and synthesis all take this shape.
type RequestResponse[I, O any] interface {
	Provider
	Execute(ctx context.Context, in I) (O, error)
}

// NewFunc names fn so it can be wrapped like any other backend.
func NewFunc[I, O any](name string, fn func(ctx context.Context, in I) (O, error)) RequestResponse[I, O] {
	return funcProvider[I, O]{name: name, fn: fn}
}

type funcProvider[I, O any] struct {
	name string
	fn   func(context.Context, I) (O, error)
}

func (f funcProvider[I, O]) Name() string                     { return f.name }
func (f funcProvider[I, O]) IsAvailable(context.Context) bool { return f.fn != nil }

func (f funcProvider[I, O]) Execute(ctx context.Context, in I) (O, error) { return f.fn(ctx, in) }
