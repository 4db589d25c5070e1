// Package server hosts the built reader site with its JSON API and live
// reading sessions.
package server

import (
	"context"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/ziadkadry99/mangaview/internal/session"
	"github.com/ziadkadry99/mangaview/internal/site"
)

// Config holds server configuration.
type Config struct {
	Addr            string
	SiteDir         string   // Directory of the generated site.
	AllowAll        bool     // Allow all CORS origins (dev mode).
	AllowedOrigins  []string // Extra CORS origins.
	LiveSession     bool     // Serve /ws/read.
	Covers          bool     // Whether cover thumbnails were generated.
	Session         session.Options
	Clock           clock.Clock // Timer source for live sessions; nil uses the wall clock.
	RequestTimeout  time.Duration
	ShutdownTimeout time.Duration
}

// Server serves the reader site.
type Server struct {
	cfg        Config
	log        *zap.Logger
	catalog    atomic.Pointer[site.Catalog]
	sessions   atomic.Int64
	router     chi.Router
	httpServer *http.Server
}

// New creates a Server for the given catalog.
func New(cfg Config, catalog *site.Catalog, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = 60 * time.Second
	}
	if catalog == nil {
		catalog = site.NewCatalog(nil)
	}
	s := &Server{cfg: cfg, log: log}
	s.catalog.Store(catalog)
	s.router = s.buildRouter()
	return s
}

// buildRouter creates and configures the chi router with all routes.
func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(s.log))
	r.Use(middleware.Recoverer)

	// CORS
	corsOpts := cors.Options{
		AllowedOrigins:   append([]string{"http://localhost:*", "http://127.0.0.1:*"}, s.cfg.AllowedOrigins...),
		AllowedMethods:   []string{"GET", "HEAD", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}
	if s.cfg.AllowAll {
		corsOpts.AllowedOrigins = []string{"*"}
	}
	r.Use(cors.Handler(corsOpts))

	// Long-lived connections stay outside the request timeout.
	if s.cfg.LiveSession {
		r.Get("/ws/read", s.handleRead)
	}

	r.Group(func(r chi.Router) {
		r.Use(middleware.Timeout(s.cfg.RequestTimeout))

		r.Get("/healthz", s.handleHealth)
		r.Route("/api/series", func(r chi.Router) {
			r.Get("/", s.handleListSeries)
			r.Get("/{slug}", s.handleGetSeries)
		})
		if s.cfg.SiteDir != "" {
			r.Handle("/*", http.FileServer(http.Dir(s.cfg.SiteDir)))
		}
	})

	return r
}

// requestLogger logs one line per request at debug level.
func requestLogger(log *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)
			log.Debug("request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Int("bytes", ww.BytesWritten()),
				zap.Duration("took", time.Since(start)),
				zap.String("request_id", middleware.GetReqID(r.Context())))
		})
	}
}

// Router returns the chi router.
func (s *Server) Router() chi.Router { return s.router }

// Catalog returns the series currently served.
func (s *Server) Catalog() *site.Catalog { return s.catalog.Load() }

// SetCatalog swaps in the catalog of a fresh build. Open sessions keep the
// anchors they started with until the page announces itself again.
func (s *Server) SetCatalog(c *site.Catalog) {
	if c != nil {
		s.catalog.Store(c)
	}
}

// Sessions reports the number of open live sessions.
func (s *Server) Sessions() int64 { return s.sessions.Load() }

// Start begins listening on the configured address.
func (s *Server) Start() error {
	s.httpServer = &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	s.log.Info("mangaview server listening", zap.String("addr", s.cfg.Addr))
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer != nil {
		return s.httpServer.Shutdown(ctx)
	}
	return nil
}
