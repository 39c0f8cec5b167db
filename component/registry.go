package component

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/kbukum/lingolink/logger"
)

// DefaultStopTimeout bounds each component's Stop call.
const DefaultStopTimeout = 10 * time.Second

// Registry starts components in registration order and stops them in
// reverse, so a component may rely on everything registered before it.
type Registry struct {
	log *logger.Logger

	mu         sync.RWMutex
	components []Component
	// running is the length of the prefix of components that started.
	running int
}

func NewRegistry(log *logger.Logger) *Registry {
	if log == nil {
		log = logger.GetGlobalLogger()
	}
	return &Registry{log: log.WithComponent("components")}
}

// Register appends c. Names must be unique.
func (r *Registry) Register(c Component) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.indexOf(c.Name()) >= 0 {
		return fmt.Errorf("component %s already registered", c.Name())
	}
	r.components = append(r.components, c)
	r.log.Debug("component registered", logger.Fields(logger.FieldComponent, c.Name()))
	return nil
}

// StartAll starts every component. On failure the ones already running are
// stopped before the error is returned.
func (r *Registry) StartAll(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for r.running < len(r.components) {
		c := r.components[r.running]
		began := time.Now()
		if err := c.Start(ctx); err != nil {
			r.log.Error("component start failed", logger.MergeWithError(logger.Fields(logger.FieldComponent, c.Name()), err))
			_ = r.stopRunning(ctx)
			return fmt.Errorf("failed to start %s: %w", c.Name(), err)
		}
		r.running++

		fields := logger.Fields(logger.FieldComponent, c.Name(), logger.FieldDuration, time.Since(began).Milliseconds())
		if d, ok := c.(Describable); ok {
			desc := d.Describe()
			fields["type"], fields["details"] = desc.Type, desc.Details
		}
		r.log.Info("component started", fields)
	}
	return nil
}

// StopAll stops the running components, newest first, and joins their errors.
func (r *Registry) StopAll(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.stopRunning(ctx)
}

func (r *Registry) stopRunning(ctx context.Context) error {
	var errs []error
	for ; r.running > 0; r.running-- {
		c := r.components[r.running-1]
		stopCtx, cancel := context.WithTimeout(ctx, DefaultStopTimeout)
		err := c.Stop(stopCtx)
		cancel()
		if err != nil {
			errs = append(errs, fmt.Errorf("failed to stop %s: %w", c.Name(), err))
			r.log.Error("component stop failed", logger.MergeWithError(logger.Fields(logger.FieldComponent, c.Name()), err))
			continue
		}
		r.log.Info("component stopped", logger.Fields(logger.FieldComponent, c.Name()))
	}
	return errors.Join(errs...)
}

// HealthAll probes every registered component, running or not.
func (r *Registry) HealthAll(ctx context.Context) []Health {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Health, len(r.components))
	for i, c := range r.components {
		out[i] = c.Health(ctx)
	}
	return out
}

// Get returns the component called name, or nil.
func (r *Registry) Get(name string) Component {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if i := r.indexOf(name); i >= 0 {
		return r.components[i]
	}
	return nil
}

// All returns the components in registration order.
func (r *Registry) All() []Component {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Clone(r.components)
}

func (r *Registry) indexOf(name string) int {
	return slices.IndexFunc(r.components, func(c Component) bool { return c.Name() == name })
}
