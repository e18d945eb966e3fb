// Package server exposes the layout pipeline over HTTP.
//
// Routes:
//
//	GET    /healthz                      build info and uptime
//	POST   /api/v1/render                graph in, artifact out (?format=svg|png|pdf|json)
//	GET    /api/v1/diagrams              stored diagrams, newest first
//	POST   /api/v1/diagrams              render and store, returns the diagram
//	GET    /api/v1/diagrams/{id}         stored diagram with graph and layout
//	GET    /api/v1/diagrams/{id}/svg     stored SVG
//	DELETE /api/v1/diagrams/{id}         remove a diagram
//
// Request bodies are flow graph JSON, a dose CSV or the alternate JSON
// format; the "input" query parameter forces a kind, otherwise it is
// detected from the content. Layout and render options come from query
// parameters named like the pipeline options (width, height, ordering,
// style, ...). Errors are JSON objects carrying the error code, with the
// HTTP status derived from it.
package server

import (
	"context"
	stderrors "errors"
	"net"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/sankey/pkg/pipeline"
	"github.com/matzehuels/sankey/pkg/render/sankey/ordering"
	"github.com/matzehuels/sankey/pkg/storage"
)

// Defaults for [Config].
const (
	DefaultAddr            = ":8080"
	DefaultMaxBodyBytes    = 10 << 20
	DefaultRequestTimeout  = 60 * time.Second
	DefaultShutdownTimeout = 10 * time.Second

	// DefaultMaxExactDepth caps the exact_depth query parameter.
	DefaultMaxExactDepth = ordering.DefaultMaxLayerSize
)

// Config configures a Server. Zero fields take the defaults above.
type Config struct {
	Addr            string
	MaxBodyBytes    int64
	RequestTimeout  time.Duration
	ShutdownTimeout time.Duration
	MaxExactDepth   int // larger exact_depth requests are clamped

	// Defaults seeds the options of every request before query parameters
	// are applied, e.g. from a config file.
	Defaults pipeline.Options
}

func (c Config) withDefaults() Config {
	if c.Addr == "" {
		c.Addr = DefaultAddr
	}
	if c.MaxBodyBytes <= 0 {
		c.MaxBodyBytes = DefaultMaxBodyBytes
	}
	if c.RequestTimeout <= 0 {
		c.RequestTimeout = DefaultRequestTimeout
	}
	if c.ShutdownTimeout <= 0 {
		c.ShutdownTimeout = DefaultShutdownTimeout
	}
	if c.MaxExactDepth <= 0 {
		c.MaxExactDepth = DefaultMaxExactDepth
	}
	return c
}

// Server is the HTTP API.
type Server struct {
	runner  *pipeline.Runner
	store   storage.Store
	logger  *log.Logger
	cfg     Config
	started time.Time
	router  chi.Router
}

// New builds a server around runner and store. A nil store disables the
// diagram routes' persistence by using an in-memory store.
func New(runner *pipeline.Runner, store storage.Store, logger *log.Logger, cfg Config) *Server {
	if store == nil {
		store = storage.NewMemoryStore()
	}
	if logger == nil {
		logger = runner.Logger
	}
	s := &Server{
		runner:  runner,
		store:   store,
		logger:  logger,
		cfg:     cfg.withDefaults(),
		started: time.Now(),
	}
	s.router = s.routes()
	return s
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler { return s.router }

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.recoverer)
	r.Use(s.observe)
	r.Use(middleware.Timeout(s.cfg.RequestTimeout))

	r.Get("/healthz", s.handleHealth)

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/render", s.handleRender)
		r.Route("/diagrams", func(r chi.Router) {
			r.Get("/", s.handleListDiagrams)
			r.Post("/", s.handleCreateDiagram)
			r.Get("/{id}", s.handleGetDiagram)
			r.Get("/{id}/svg", s.handleGetDiagramSVG)
			r.Delete("/{id}", s.handleDeleteDiagram)
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, s.logger, notFound("no route for %s %s", r.Method, r.URL.Path))
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusMethodNotAllowed, errorBody{Error: errorDetail{
			Code:    "METHOD_NOT_ALLOWED",
			Message: r.Method + " not allowed on " + r.URL.Path,
		}})
	})
	return r
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully
// within the configured shutdown timeout.
func (s *Server) ListenAndServe(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve is ListenAndServe on an existing listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return context.WithoutCancel(ctx) },
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.logger.Info("listening", "addr", ln.Addr().String())
		if err := srv.Serve(ln); err != nil && !stderrors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
		defer cancel()
		s.logger.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
