package provider

import "context"

// Initializable is optionally implemented by providers that need setup
// before handling requests, such as loading a recognition model or
// checking that a binary is on PATH.
type Initializable interface {
	Init(ctx context.Context) error
}

// Closeable is optionally implemented by providers that hold resources
// requiring explicit cleanup.
type Closeable interface {
	Close(ctx context.Context) error
}

// Init calls Init on p when it implements Initializable.
func Init(ctx context.Context, p any) error {
	if i, ok := p.(Initializable); ok {
		return i.Init(ctx)
	}
	return nil
}

// Close calls Close on p when it implements Closeable.
func Close(ctx context.Context, p any) error {
	if c, ok := p.(Closeable); ok {
		return c.Close(ctx)
	}
	return nil
}
