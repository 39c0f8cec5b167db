package storage

import (
	"fmt"
	"maps"
	"slices"
	"sync"

	"github.com/kbukum/lingolink/logger"
)

// Factory opens a backend from the validated storage config.
type Factory func(cfg Config, log *logger.Logger) (Storage, error)

var backends = struct {
	sync.RWMutex
	byName map[string]Factory
}{byName: map[string]Factory{}}

// RegisterFactory makes a backend selectable by name. Backend packages call
// it from init, so importing one for side effects enables it.
func RegisterFactory(name string, f Factory) {
	backends.Lock()
	backends.byName[name] = f
	backends.Unlock()
}

// New validates cfg and opens the backend it selects.
func New(cfg Config, log *logger.Logger) (Storage, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	backends.RLock()
	f, names := backends.byName[cfg.Provider], slices.Sorted(maps.Keys(backends.byName))
	backends.RUnlock()
	if f == nil {
		return nil, fmt.Errorf("storage: unsupported provider %q (registered: %v)", cfg.Provider, names)
	}

	log.Info("opening storage", logger.Fields(logger.FieldProvider, cfg.Provider, "location", cfg.Location()))
	return f(cfg, log)
}
