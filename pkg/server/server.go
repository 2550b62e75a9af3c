package server

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/vango-dev/reactive/pkg/reactive"
)

// Server serves one reactive instance.
type Server struct {
	// mu serializes every access to state.
	mu    sync.Mutex
	state *reactive.Reactive

	config   *Config
	router   chi.Router
	upgrader websocket.Upgrader
	tracer   trace.Tracer
	metrics  *httpMetrics
	logger   *slog.Logger

	watchersMu sync.Mutex
	watchers   map[*watcher]struct{}

	httpServer *http.Server
}

// New creates a server for state. A nil config uses DefaultConfig.
func New(state *reactive.Reactive, config *Config) *Server {
	if config == nil {
		config = DefaultConfig()
	}
	config = config.withDefaults()

	s := &Server{
		state:  state,
		config: config,
		upgrader: websocket.Upgrader{
			CheckOrigin: config.CheckOrigin,
		},
		tracer:   otel.Tracer(config.TracerName),
		metrics:  newHTTPMetrics(config.Registry),
		logger:   config.Logger,
		watchers: make(map[*watcher]struct{}),
	}
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.trace)
	r.Use(s.instrument)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	r.Get("/state", s.handleGetState)
	r.Get("/state/*", s.handleGetPath)
	r.Put("/state/*", s.handlePutPath)
	r.Get("/keys", s.handleKeys)
	r.Get("/keys/*", s.handleKeys)
	r.Get("/watch", s.handleWatch)
	r.Method(http.MethodGet, "/metrics",
		promhttp.HandlerFor(s.config.Registry, promhttp.HandlerOpts{}))
	return r
}

// Handler returns the HTTP handler, for mounting on another router or in
// tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Config returns the effective configuration.
func (s *Server) Config() *Config {
	return s.config
}

// withState runs fn holding the state lock.
func (s *Server) withState(fn func(r *reactive.Reactive)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.state)
}

// Run listens on Config.Address until ctx is done, then shuts down
// gracefully.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.config.Address)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve is Run on an existing listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	s.httpServer = &http.Server{Handler: s.router}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server starting", "address", ln.Addr().String())
		errCh <- s.httpServer.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
		return s.Shutdown(context.Background())
	}
}

// Shutdown closes every watcher and stops the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, s.config.ShutdownTimeout)
	defer cancel()

	s.watchersMu.Lock()
	for w := range s.watchers {
		w.close()
	}
	s.watchersMu.Unlock()

	if s.httpServer != nil {
		if err := s.httpServer.Shutdown(ctx); err != nil {
			s.logger.Error("shutdown error", "error", err)
			return err
		}
	}

	s.logger.Info("server shutdown complete")
	return nil
}
