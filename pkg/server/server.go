// Package server exposes the transpiler and live preview sessions over HTTP.
//
// # Routes
//
//	GET    /healthz                liveness, build version, session count
//	GET    /v1/grammars            grammar and format names
//	POST   /v1/transpile           {text, grammar, format, ...} → artifact bytes
//	POST   /v1/display             raw HTML body → sanitised fragment (?placeholder=)
//	GET    /v1/sessions            live sessions
//	POST   /v1/sessions            {grammar, formats, ...} → {id, generation}
//	PUT    /v1/sessions/{id}       raw text body → {generation}
//	GET    /v1/sessions/{id}       latest published artifact (?format=)
//	DELETE /v1/sessions/{id}
//
// Errors are JSON objects {"code", "message"} with the status derived from
// the error code (see [errors.HTTPStatus]).
//
// [errors.HTTPStatus]: github.com/matzehuels/docmark/pkg/errors.HTTPStatus
package server

import (
	"context"
	stderrors "errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/docmark/pkg/errors"
	"github.com/matzehuels/docmark/pkg/pipeline"
	"github.com/matzehuels/docmark/pkg/preview"
)

// Default server settings.
const (
	DefaultAddr            = ":8080"
	DefaultCleanupInterval = time.Minute
	DefaultShutdownTimeout = 10 * time.Second
	DefaultRequestTimeout  = 30 * time.Second
)

// Config configures a Server.
type Config struct {
	// Addr is the listen address. Empty means DefaultAddr.
	Addr string

	// MaxBodyBytes bounds request bodies. Zero means errors.MaxInputBytes
	// plus room for the JSON envelope.
	MaxBodyBytes int64

	// CleanupInterval is how often idle preview sessions are removed.
	CleanupInterval time.Duration

	// RequestTimeout bounds the handling of one request.
	RequestTimeout time.Duration

	Logger *log.Logger
}

// Server is the docmark HTTP API.
type Server struct {
	cfg      Config
	runner   *pipeline.Runner
	sessions *preview.Manager
	logger   *log.Logger
	router   chi.Router
}

// New creates a server rendering with runner and keeping sessions in
// sessions.
func New(runner *pipeline.Runner, sessions *preview.Manager, cfg Config) *Server {
	if cfg.Addr == "" {
		cfg.Addr = DefaultAddr
	}
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = errors.MaxInputBytes + 64<<10
	}
	if cfg.CleanupInterval <= 0 {
		cfg.CleanupInterval = DefaultCleanupInterval
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = DefaultRequestTimeout
	}
	if cfg.Logger == nil {
		cfg.Logger = runner.Logger
	}

	s := &Server{
		cfg:      cfg,
		runner:   runner,
		sessions: sessions,
		logger:   cfg.Logger,
	}
	s.router = s.routes()
	return s
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(s.logger))
	r.Use(middleware.Recoverer)
	r.Use(securityHeaders)
	r.Use(middleware.Timeout(s.cfg.RequestTimeout))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, errors.New(errors.ErrCodeNotFound, "no route for %s %s", r.Method, r.URL.Path))
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeErrorStatus(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", r.Method+" is not allowed here")
	})

	r.Get("/healthz", s.handleHealth)

	r.Route("/v1", func(r chi.Router) {
		r.Get("/grammars", s.handleGrammars)
		r.Post("/transpile", s.handleTranspile)
		r.Post("/display", s.handleDisplay)

		r.Route("/sessions", func(r chi.Router) {
			r.Get("/", s.handleListSessions)
			r.Post("/", s.handleCreateSession)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", s.handleGetSession)
				r.Put("/", s.handleUpdateSession)
				r.Delete("/", s.handleDeleteSession)
			})
		})
	})
	return r
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
// Idle preview sessions are cleaned up in the background while it runs.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	janitorCtx, stopJanitor := context.WithCancel(ctx)
	defer stopJanitor()
	go s.sessions.Run(janitorCtx, s.cfg.CleanupInterval)

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", s.cfg.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if stderrors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), DefaultShutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
