package resilience

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"golang.org/x/sync/semaphore"
)

var (
	// ErrBulkheadFull rejects a call outright when MaxWait is zero.
	ErrBulkheadFull = errors.New("bulkhead is full")
	// ErrBulkheadTimeout rejects a call that queued for MaxWait.
	ErrBulkheadTimeout = errors.New("bulkhead wait timeout")
)

type BulkheadConfig struct {
	Name string
	// MaxConcurrent calls run at once. 1 serializes callers of a shared
	// in-memory model.
	MaxConcurrent int
	// MaxWait bounds the queueing time. Zero rejects immediately.
	MaxWait   time.Duration
	OnReject  func(name string, err error)
	OnAcquire func(name string, waited time.Duration)
}

// DefaultBulkheadConfig allows one call at a time and queues others for a minute.
func DefaultBulkheadConfig(name string) BulkheadConfig {
	return BulkheadConfig{Name: name, MaxConcurrent: 1, MaxWait: time.Minute}
}

// Bulkhead caps concurrent calls, queueing the excess for a bounded time.
type Bulkhead struct {
	cfg  BulkheadConfig
	sem  *semaphore.Weighted
	busy atomic.Int64
}

func NewBulkhead(cfg BulkheadConfig) *Bulkhead {
	cfg.MaxConcurrent = max(cfg.MaxConcurrent, 1)
	return &Bulkhead{cfg: cfg, sem: semaphore.NewWeighted(int64(cfg.MaxConcurrent))}
}

// Execute runs fn once a slot is free. If none frees up in time it returns
// ErrBulkheadFull, ErrBulkheadTimeout or the caller's context error, and fn
// is not called.
func (b *Bulkhead) Execute(ctx context.Context, fn func() error) error {
	queued := time.Now()
	if err := b.acquire(ctx); err != nil {
		if b.cfg.OnReject != nil {
			b.cfg.OnReject(b.cfg.Name, err)
		}
		return err
	}
	b.busy.Add(1)
	defer func() {
		b.busy.Add(-1)
		b.sem.Release(1)
	}()

	if b.cfg.OnAcquire != nil {
		b.cfg.OnAcquire(b.cfg.Name, time.Since(queued))
	}
	return fn()
}

// ExecuteWithResult is Execute for functions that return a value.
func ExecuteWithResult[T any](ctx context.Context, b *Bulkhead, fn func() (T, error)) (T, error) {
	var out T
	err := b.Execute(ctx, func() (err error) {
		out, err = fn()
		return err
	})
	return out, err
}

func (b *Bulkhead) acquire(ctx context.Context) error {
	if b.sem.TryAcquire(1) {
		return nil
	}
	if b.cfg.MaxWait <= 0 {
		return ErrBulkheadFull
	}
	wait, cancel := context.WithTimeoutCause(ctx, b.cfg.MaxWait, ErrBulkheadTimeout)
	defer cancel()
	if err := b.sem.Acquire(wait, 1); err != nil {
		// The caller's own cancellation wins over the queue deadline.
		return context.Cause(wait)
	}
	return nil
}

func (b *Bulkhead) InUse() int         { return int(b.busy.Load()) }
func (b *Bulkhead) Available() int     { return b.cfg.MaxConcurrent - b.InUse() }
func (b *Bulkhead) MaxConcurrent() int { return b.cfg.MaxConcurrent }
