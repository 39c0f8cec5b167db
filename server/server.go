package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/kbukum/lingolink/logger"
	"github.com/kbukum/lingolink/server/endpoint"
	"github.com/kbukum/lingolink/server/middleware"
)

// shutdownTimeout bounds the wait for in-flight requests on Stop.
const shutdownTimeout = 5 * time.Second

// Server serves a Gin engine mounted on a root ServeMux. Every request goes
// through the middleware stack, and cleartext HTTP/2 is accepted.
type Server struct {
	cfg    Config
	log    *logger.Logger
	engine *gin.Engine
	mux    *http.ServeMux
	http   *http.Server
	root   func() http.Handler

	mu sync.Mutex
	ln net.Listener
}

// New builds a Server from an already defaulted Config. Register routes on
// GinEngine before calling Start.
func New(cfg Config, log *logger.Logger) *Server {
	mode := gin.ReleaseMode
	if zerolog.GlobalLevel() <= zerolog.DebugLevel {
		mode = gin.DebugMode
	}
	gin.SetMode(mode)

	s := &Server{
		cfg:    cfg,
		log:    log.WithComponent("server"),
		engine: gin.New(),
		mux:    http.NewServeMux(),
	}
	s.engine.HandleMethodNotAllowed = true
	s.mux.Handle("/", s.engine)
	s.root = sync.OnceValue(s.buildHandler)
	s.http = &http.Server{
		Addr:              cfg.Addr(),
		ReadTimeout:       cfg.ReadTimeout,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
	}
	return s
}

// GinEngine is where API routes are registered.
func (s *Server) GinEngine() *gin.Engine { return s.engine }

// Handle mounts h on the root mux, beside the Gin engine.
func (s *Server) Handle(pattern string, h http.Handler) {
	s.mux.Handle(pattern, h)
	s.log.Debug("handler mounted", logger.Fields("pattern", pattern))
}

// Handler is the fully wrapped root handler. It is built once.
func (s *Server) Handler() http.Handler { return s.root() }

func (s *Server) buildHandler() http.Handler {
	wrap := middleware.Chain(
		middleware.Recovery(s.log),
		middleware.RequestID(),
		middleware.CORS(&s.cfg.CORS),
		middleware.BodySizeLimit(s.cfg.MaxBodySize),
		middleware.RequestLogger(s.log),
	)
	return h2c.NewHandler(wrap(s.mux), &http2.Server{
		MaxConcurrentStreams: 250,
		IdleTimeout:          s.cfg.IdleTimeout,
	})
}

// Start binds the listen address and serves in the background. A bind
// failure is returned; later serve errors are logged.
func (s *Server) Start(_ context.Context) error {
	ln, err := net.Listen("tcp", s.http.Addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", s.http.Addr, err)
	}
	s.http.Handler = s.Handler()

	s.mu.Lock()
	s.ln = ln
	s.mu.Unlock()

	go func() {
		if err := s.http.Serve(ln); !errors.Is(err, http.ErrServerClosed) {
			s.log.Error("serve failed", logger.MergeWithError(nil, err))
		}
	}()
	s.log.Info("listening", logger.Fields("addr", ln.Addr().String()))
	return nil
}

// Stop drains in-flight requests for up to shutdownTimeout.
func (s *Server) Stop(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, shutdownTimeout)
	defer cancel()
	if err := s.http.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	s.log.Info("stopped")
	return nil
}

// Addr is the bound address after Start and the configured one before.
func (s *Server) Addr() string {
	if ln := s.listener(); ln != nil {
		return ln.Addr().String()
	}
	return s.http.Addr
}

func (s *Server) listener() net.Listener {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ln
}

// RegisterDefaultEndpoints adds the probe routes /health and /alive, the
// /info route and /metrics, which also reports gauges.
func (s *Server) RegisterDefaultEndpoints(service string, checker endpoint.HealthChecker, gauges ...endpoint.Gauge) {
	r := s.engine
	r.GET("/health", endpoint.Health(service, checker))
	r.GET("/alive", endpoint.Liveness(service))
	r.GET("/info", endpoint.Info(service))
	r.GET("/metrics", endpoint.Metrics(gauges...))
}
