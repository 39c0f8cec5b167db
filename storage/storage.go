package storage

import (
	"context"
	"errors"
	"io"
	"time"
)

// ErrNotFound is wrapped by Get when the key does not exist.
var ErrNotFound = errors.New("storage: object not found")

// Object describes one stored file.
type Object struct {
	Key      string
	Size     int64
	Modified time.Time
}

// Storage is a flat object store for generated audio. Keys are plain file
// names; backends never let a key address anything outside their root.
type Storage interface {
	// Put stores everything read from r under key, replacing any previous
	// object. Readers never observe a partially written object.
	Put(ctx context.Context, key string, r io.Reader) error

	// Get opens key for reading. The caller closes the reader.
	Get(ctx context.Context, key string) (io.ReadCloser, error)

	// Delete removes key. Missing keys are not an error.
	Delete(ctx context.Context, key string) error

	Exists(ctx context.Context, key string) (bool, error)

	// List returns the objects whose key starts with prefix, sorted by key.
	List(ctx context.Context, prefix string) ([]Object, error)
}
