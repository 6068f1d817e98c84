package server

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"sync/atomic"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/vango-dev/bemhtml/pkg/bemhtml"
	"github.com/vango-dev/bemhtml/pkg/middleware"
)

const (
	reloadSocketPath = "/_bemhtml/reload"
	reloadScriptPath = "/_bemhtml/reload.js"
)

// Server is the HTTP/WebSocket preview server.
type Server struct {
	engine   atomic.Pointer[bemhtml.Engine]
	config   *Config
	registry *prometheus.Registry
	metrics  *middleware.Metrics
	upgrader websocket.Upgrader
	handler  http.Handler
	logger   *slog.Logger

	mu         sync.Mutex
	httpServer *http.Server
}

// New creates a Server rendering with engine.
func New(engine *bemhtml.Engine, config *Config) *Server {
	cfg := config.withDefaults()

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	s := &Server{
		config:   cfg,
		registry: registry,
		metrics:  middleware.NewMetrics(middleware.WithRegistry(registry)),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			CheckOrigin:     cfg.CheckOrigin,
		},
		logger: cfg.Logger.With("component", "server"),
	}
	s.engine.Store(engine)
	s.handler = s.routes()
	return s
}

// SetEngine replaces the engine used by new requests.
func (s *Server) SetEngine(engine *bemhtml.Engine) {
	s.engine.Store(engine)
	s.logger.Info("engine replaced")
}

// Engine returns the current engine.
func (s *Server) Engine() *bemhtml.Engine {
	return s.engine.Load()
}

// Registry returns the Prometheus registry served on /metrics.
func (s *Server) Registry() *prometheus.Registry {
	return s.registry
}

// Config returns the effective configuration.
func (s *Server) Config() *Config {
	return s.config
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.handler
}

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)
	r.Use(middleware.OpenTelemetry(
		middleware.WithRequestFilter(func(r *http.Request) bool {
			return r.URL.Path != "/healthz" && r.URL.Path != "/metrics"
		}),
	))
	r.Use(s.metrics.Handler)

	r.Get("/healthz", s.handleHealth)
	r.Handle("/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))
	r.Post("/render", s.handleRender)
	r.Get("/ws", s.handleWebSocket)

	if s.config.PagesDir != "" {
		r.Get("/pages/{name}", s.handlePage)
	}
	if s.config.StaticDir != "" {
		r.Get(staticPrefix+"*", s.handleStatic)
	}
	if s.config.Reloader != nil {
		r.Handle(reloadSocketPath, s.config.Reloader)
		r.Get(reloadScriptPath, s.handleReloadScript)
	}
	return r
}

// Run starts the server and blocks until ctx is done or the listener
// fails. Cancelling ctx shuts the server down gracefully.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.config.Address)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve is like Run but accepts connections on ln.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.handler,
		ReadHeaderTimeout: s.config.ReadHeaderTimeout,
		IdleTimeout:       s.config.IdleTimeout,
	}
	s.mu.Lock()
	s.httpServer = srv
	s.mu.Unlock()

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server starting", "address", ln.Addr().String())
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		s.logger.Info("shutting down...")
		return s.Shutdown(context.Background())
	}
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, s.config.ShutdownTimeout)
	defer cancel()

	s.mu.Lock()
	srv := s.httpServer
	s.mu.Unlock()

	if srv != nil {
		if err := srv.Shutdown(ctx); err != nil {
			s.logger.Error("shutdown error", "error", err)
			return err
		}
	}

	s.logger.Info("server shutdown complete")
	return nil
}
