// Package web provides the HTTP API for catalog imports and search.
package web

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"
	"github.com/rs/cors"
	"github.com/unrolled/secure"

	"github.com/JonMunkholm/catalog/internal/config"
	"github.com/JonMunkholm/catalog/internal/core"
	"github.com/JonMunkholm/catalog/internal/jobs"
	"github.com/JonMunkholm/catalog/internal/observability"
	webmw "github.com/JonMunkholm/catalog/internal/web/middleware"
)

// CatalogService is what the handlers need from *core.Service.
type CatalogService interface {
	ProcessImport(ctx context.Context, familiesPath, productsPath string) (core.ImportSummary, error)
	Search(ctx context.Context, filters map[string]string) (core.SearchResult, error)
	ReportPath(name string) (string, bool)
}

// JobQueue enqueues background imports. *jobs.Client implements it.
type JobQueue interface {
	EnqueueImport(ctx context.Context, payload jobs.ImportPayload) (string, error)
}

// JobStatusReader reads background import state. *jobs.StatusReader
// implements it.
type JobStatusReader interface {
	Status(id string) (jobs.ImportStatus, error)
}

// Options configures a Server. Metrics, Jobs, JobStatus and Ping are optional.
type Options struct {
	Config    *config.Config
	Service   CatalogService
	Limiter   *core.ImportLimiter
	Metrics   *observability.Metrics
	Jobs      JobQueue
	JobStatus JobStatusReader
	// Ping checks the database for /healthz.
	Ping func(ctx context.Context) error
}

// Server is the HTTP server for the catalog API.
type Server struct {
	cfg       *config.Config
	service   CatalogService
	limiter   *core.ImportLimiter
	metrics   *observability.Metrics
	jobs      JobQueue
	jobStatus JobStatusReader
	ping      func(ctx context.Context) error
	router    *chi.Mux
	server    *http.Server
}

func NewServer(opts Options) *Server {
	limiter := opts.Limiter
	if limiter == nil {
		limiter = core.NewImportLimiter(opts.Config.Upload.MaxConcurrent, opts.Config.Upload.MaxWaitTime)
	}
	s := &Server{
		cfg:       opts.Config,
		service:   opts.Service,
		limiter:   limiter,
		metrics:   opts.Metrics,
		jobs:      opts.Jobs,
		jobStatus: opts.JobStatus,
		ping:      opts.Ping,
		router:    chi.NewRouter(),
	}
	s.setupMiddleware()
	s.setupRoutes()
	return s
}

func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(webmw.TrustedRealIP(s.cfg.Security.TrustedProxies))
	s.router.Use(webmw.Logger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(secure.New(secure.Options{
		FrameDeny:             true,
		ContentTypeNosniff:    true,
		BrowserXssFilter:      true,
		ContentSecurityPolicy: "default-src 'none'; frame-ancestors 'none'",
		ReferrerPolicy:        "strict-origin-when-cross-origin",
		STSSeconds:            31536000,
		STSIncludeSubdomains:  true,
		SSLProxyHeaders:       map[string]string{"X-Forwarded-Proto": "https"},
		IsDevelopment:         s.cfg.Security.Development,
	}).Handler)
	if len(s.cfg.Security.AllowedOrigins) > 0 {
		s.router.Use(cors.New(cors.Options{
			AllowedOrigins: s.cfg.Security.AllowedOrigins,
			AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
			AllowedHeaders: []string{"Content-Type", "X-API-Key", "X-Request-ID"},
			ExposedHeaders: []string{"X-Request-ID", "Retry-After"},
			MaxAge:         300,
		}).Handler)
	}
	s.router.Use(s.metrics.Middleware)
	if s.cfg.Rate.Enabled {
		s.router.Use(s.rateLimit(s.cfg.Rate.RequestsPerMinute))
	}
}

func (s *Server) setupRoutes() {
	s.router.Get("/healthz", s.handleHealth)
	s.router.Handle("/metrics", s.metrics.Handler())

	s.router.Route("/api", func(r chi.Router) {
		// Imports carry their own timeout (UPLOAD_TIMEOUT) and a stricter
		// rate limit.
		r.Group(func(r chi.Router) {
			if s.cfg.Rate.Enabled {
				r.Use(s.rateLimit(s.cfg.Rate.ImportLimit))
			}
			r.Use(webmw.APIKeyAuth(&s.cfg.Security))
			r.Post("/import", s.handleImport)
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.Timeout(s.cfg.Server.RequestTimeout))
			r.Get("/import/jobs/{id}", s.handleImportJob)
			r.Get("/search", s.handleSearch)
			r.Get("/reports/{name}", s.handleReport)
		})
	})
}

// rateLimit limits requests per client IP over a one-minute window.
func (s *Server) rateLimit(perMinute int) func(http.Handler) http.Handler {
	return httprate.Limit(perMinute, time.Minute,
		httprate.WithKeyFuncs(httprate.KeyByIP),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Retry-After", "60")
			s.respondError(w, r, errRateLimited, http.StatusTooManyRequests)
		}),
	)
}

// Start begins listening for HTTP requests.
func (s *Server) Start(addr string) error {
	s.server = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  s.cfg.Server.ReadTimeout,
		WriteTimeout: s.cfg.Server.WriteTimeout,
		IdleTimeout:  s.cfg.Server.IdleTimeout,
	}

	slog.Info("starting server", "addr", addr)
	return s.server.ListenAndServe()
}

// Shutdown stops accepting requests and waits for in-flight imports.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	err := s.server.Shutdown(ctx)

	if active := s.limiter.ActiveCount(); active > 0 {
		slog.Info("waiting for imports to finish", "active", active)
	}
	if drainErr := s.limiter.WaitForDrain(ctx); drainErr != nil {
		slog.Warn("imports still running at shutdown", "active", s.limiter.ActiveCount())
		if err == nil {
			err = drainErr
		}
	}
	return err
}

// Router returns the underlying chi router for testing.
func (s *Server) Router() *chi.Mux {
	return s.router
}
