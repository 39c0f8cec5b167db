package testutil

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/lingolink/logger"
	"github.com/kbukum/lingolink/server"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// Server wraps a server.Server whose handler is served from a loopback
// httptest listener instead of the configured address.
type Server struct {
	*server.Server
}

// New builds a test server. Host and port in cfg are ignored.
func New(cfg server.Config) *Server {
	cfg.Host = "127.0.0.1"
	cfg.ApplyDefaults()
	return &Server{Server: server.New(cfg, logger.Nop())}
}

// Serve starts listening and returns the base URL, e.g. http://127.0.0.1:41234.
// The listener is closed when t finishes. Register routes before calling it.
func (s *Server) Serve(t testing.TB) string {
	t.Helper()
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)
	return ts.URL
}
