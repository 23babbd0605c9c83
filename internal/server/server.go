// Package server serves the Wallie site: localized pages, static assets,
// lead intake, health and metrics.
package server

import (
	"context"
	stderrors "errors"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/cruderly/wallie/pkg/i18n"
	"github.com/cruderly/wallie/pkg/leads"
	"github.com/cruderly/wallie/pkg/site"
)

// Options holds the collaborators of a Server.
type Options struct {
	Site    *site.Site
	Catalog *i18n.Catalog
	Leads   *leads.Service
	Metrics http.Handler // nil hides /metrics
	Logger  *log.Logger

	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

// Server is the site's HTTP server.
type Server struct {
	opts    Options
	handler http.Handler
	logger  *log.Logger
	closers []io.Closer
}

// New builds the router. Site, Catalog and Leads are required.
func New(opts Options) *Server {
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}
	if opts.ShutdownTimeout <= 0 {
		opts.ShutdownTimeout = 10 * time.Second
	}
	s := &Server{opts: opts, logger: opts.Logger}
	s.handler = s.routes()
	return s
}

func (s *Server) routes() http.Handler {
	router := chi.NewRouter()
	router.Use(requestID)
	router.Use(middleware.RealIP)
	router.Use(logRequests(s.logger))
	router.Use(middleware.Recoverer)
	router.Use(securityHeaders)
	router.Use(middleware.Compress(5, "text/html", "text/css", "application/javascript", "application/json", "image/svg+xml"))
	router.Use(localeRedirect)
	router.Use(middleware.StripSlashes)
	router.Use(middleware.GetHead)

	router.Get("/healthz", s.handleHealth)
	if s.opts.Metrics != nil {
		router.Method(http.MethodGet, "/metrics", s.opts.Metrics)
	}

	assets := site.Static()
	static := http.StripPrefix("/static/", http.FileServer(http.FS(assets)))
	router.Handle("/static/*", staticHeaders(assets, static))

	router.Route("/api", func(r chi.Router) {
		r.Post("/leads", s.handleLead)
	})

	router.Get("/{locale}", s.handlePage)
	router.Get("/{locale}/{page}", s.handlePage)

	router.NotFound(s.handleNotFound)
	return router
}

// Handler returns the root handler, for tests and embedding.
func (s *Server) Handler() http.Handler { return s.handler }

// ListenAndServe listens on addr and serves until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is cancelled, then shuts down
// gracefully within the shutdown timeout.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	httpServer := &http.Server{
		Handler:           s.handler,
		ReadTimeout:       s.opts.ReadTimeout,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      s.opts.WriteTimeout,
		IdleTimeout:       2 * time.Minute,
		MaxHeaderBytes:    1 << 20,
	}

	serverErr := make(chan error, 1)
	go func() {
		s.logger.Info("serving", "addr", ln.Addr().String())
		if err := httpServer.Serve(ln); err != nil && !stderrors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case <-ctx.Done():
		s.logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.opts.ShutdownTimeout)
		defer cancel()
		err := httpServer.Shutdown(shutdownCtx)
		<-serverErr
		return err
	case err := <-serverErr:
		return err
	}
}
