// Package server exposes realizations over an HTTP JSON API.
//
// # Routes
//
//	GET  /healthz                       liveness probe
//	GET  /v1/topologies                 catalogue of named patterns
//	POST /v1/realize                    realize a pattern and store the result
//	GET  /v1/realizations               stored realizations, newest first
//	GET  /v1/realizations/{id}          one stored realization
//	GET  /v1/realizations/{id}/svg      diagram of a stored realization
//
// Errors are JSON objects of the form {"error": {"code", "message"}} with
// the status taken from the error code. An infeasible pattern is stored
// like any other and answered with 422 and the blocked pair.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/corral/pkg/pipeline"
	"github.com/matzehuels/corral/pkg/store"
)

// Defaults for Config fields left zero.
const (
	DefaultAddr            = ":8080"
	DefaultShutdownTimeout = 10 * time.Second
	DefaultRequestTimeout  = time.Minute
	DefaultMaxBodyBytes    = 4 << 20
	DefaultMaxQubits       = 4096
	DefaultMaxPairs        = 1 << 16
)

// Config configures the API server.
type Config struct {
	Addr            string
	ShutdownTimeout time.Duration
	RequestTimeout  time.Duration
	MaxBodyBytes    int64
	MaxQubits       int // largest pattern accepted by POST /v1/realize
	MaxPairs        int // most coupled pairs accepted by POST /v1/realize

	// Defaults applied to requests that leave the caps unset.
	MaxQubitDegree   int
	MaxCouplerDegree int
}

func (c *Config) setDefaults() {
	if c.Addr == "" {
		c.Addr = DefaultAddr
	}
	if c.ShutdownTimeout == 0 {
		c.ShutdownTimeout = DefaultShutdownTimeout
	}
	if c.RequestTimeout == 0 {
		c.RequestTimeout = DefaultRequestTimeout
	}
	if c.MaxBodyBytes == 0 {
		c.MaxBodyBytes = DefaultMaxBodyBytes
	}
	if c.MaxQubits == 0 {
		c.MaxQubits = DefaultMaxQubits
	}
	if c.MaxPairs == 0 {
		c.MaxPairs = DefaultMaxPairs
	}
	if c.MaxQubitDegree == 0 {
		c.MaxQubitDegree = pipeline.DefaultMaxQubitDegree
	}
	if c.MaxCouplerDegree == 0 {
		c.MaxCouplerDegree = pipeline.DefaultMaxCouplerDegree
	}
}

// Server serves the API. It is safe for concurrent use.
type Server struct {
	cfg    Config
	runner *pipeline.Runner
	store  store.Store
	logger *log.Logger
	router chi.Router
}

// New creates a server that realizes through runner and records results
// in st.
func New(cfg Config, runner *pipeline.Runner, st store.Store, logger *log.Logger) *Server {
	cfg.setDefaults()
	if logger == nil {
		logger = log.Default()
	}
	s := &Server{
		cfg:    cfg,
		runner: runner,
		store:  st,
		logger: logger,
	}
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(s.cfg.RequestTimeout))

	r.Get("/healthz", s.handleHealth)
	r.Route("/v1", func(r chi.Router) {
		r.Get("/topologies", s.handleTopologies)
		r.Post("/realize", s.handleRealize)
		r.Get("/realizations", s.handleList)
		r.Route("/realizations/{id}", func(r chi.Router) {
			r.Get("/", s.handleGet)
			r.Get("/svg", s.handleSVG)
		})
	})
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, r, notFound("no route for %s %s", r.Method, r.URL.Path))
	})
	return r
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe serves on the configured address until ctx is cancelled,
// then shuts down gracefully within the shutdown timeout.
func (s *Server) ListenAndServe(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", s.cfg.Addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is cancelled.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("serving API", "addr", ln.Addr().String())
		errc <- srv.Serve(ln)
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down", "timeout", s.cfg.ShutdownTimeout)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	if err := <-errc; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
