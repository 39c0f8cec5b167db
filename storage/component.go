package storage

import (
	"context"
	"fmt"
	"io"
	"sync/atomic"

	"github.com/kbukum/lingolink/component"
	"github.com/kbukum/lingolink/logger"
	"github.com/kbukum/lingolink/provider"
	"github.com/kbukum/lingolink/util"
)

// probeKey is looked up by Health. It does not have to exist.
const probeKey = ".health"

// Component owns the configured backend for the lifetime of the service.
type Component struct {
	cfg     Config
	log     *logger.Logger
	backend atomic.Pointer[backend]
}

// backend boxes the interface so it can sit behind an atomic pointer.
type backend struct{ Storage }

var (
	_ component.Component   = (*Component)(nil)
	_ component.Describable = (*Component)(nil)
	_ provider.Provider     = (*Component)(nil)
)

func NewComponent(cfg Config, log *logger.Logger) *Component {
	cfg.ApplyDefaults()
	return &Component{cfg: cfg, log: log.WithComponent("storage")}
}

// Storage is the running backend, nil outside Start/Stop.
func (c *Component) Storage() Storage {
	if b := c.backend.Load(); b != nil {
		return b.Storage
	}
	return nil
}

func (c *Component) Name() string { return "storage" }

func (c *Component) IsAvailable(context.Context) bool { return c.backend.Load() != nil }

// Start opens the backend named by the config's provider.
func (c *Component) Start(context.Context) error {
	s, err := New(c.cfg, c.log)
	if err != nil {
		return fmt.Errorf("open %s storage: %w", c.cfg.Provider, err)
	}
	c.backend.Store(&backend{s})
	return nil
}

// Stop detaches the backend and closes it when it holds resources.
func (c *Component) Stop(context.Context) error {
	b := c.backend.Swap(nil)
	if b == nil {
		return nil
	}
	if closer, ok := b.Storage.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}

// Health round-trips an Exists call to the backend.
func (c *Component) Health(ctx context.Context) component.Health {
	s := c.Storage()
	if s == nil {
		return component.Unhealthy(c.Name(), "not started")
	}
	if _, err := s.Exists(ctx, probeKey); err != nil {
		return component.Unhealthy(c.Name(), "probe: "+err.Error())
	}
	return component.Healthy(c.Name(), c.cfg.Provider)
}

func (c *Component) Describe() component.Description {
	d := component.Description{
		Name:    "Storage",
		Type:    "storage",
		Details: "provider=" + c.cfg.Provider + " " + c.cfg.Location(),
	}
	if key := c.cfg.S3.AccessKey; c.cfg.Provider == ProviderS3 && key != "" {
		d.Details += " access_key=" + util.MaskSecret(key, 4)
	}
	return d
}
