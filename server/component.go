package server

import (
	"context"

	"github.com/kbukum/lingolink/component"
)

const componentName = "http-server"

var (
	_ component.Component   = (*ServerComponent)(nil)
	_ component.Describable = (*ServerComponent)(nil)
)

// ServerComponent runs a Server under the component lifecycle.
type ServerComponent struct {
	*Server
}

func NewComponent(s *Server) *ServerComponent {
	return &ServerComponent{Server: s}
}

func (sc *ServerComponent) Name() string { return componentName }

// Health is healthy once the listener is bound.
func (sc *ServerComponent) Health(_ context.Context) component.Health {
	if sc.listener() == nil {
		return component.Unhealthy(componentName, "not listening")
	}
	return component.Healthy(componentName, "")
}

func (sc *ServerComponent) Describe() component.Description {
	return component.Description{
		Name:    "HTTP Server",
		Type:    "server",
		Details: sc.Addr() + " max_body=" + sc.cfg.MaxBodySize,
	}
}
