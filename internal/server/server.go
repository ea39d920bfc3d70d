package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	log "github.com/sirupsen/logrus"

	"zerosugar/explorer/internal/config"
	"zerosugar/explorer/internal/menu"
	"zerosugar/explorer/internal/render"
	"zerosugar/explorer/internal/service"
	"zerosugar/explorer/internal/upload"
)

// Server serves the catalog pages, the prediction form and the live hover
// menu.
type Server struct {
	cfg        config.ServerConfig
	service    *service.Service
	renderer   *render.Renderer
	predictor  upload.Predictor
	clock      clock.Clock
	hideDelay  time.Duration
	pages      *service.PageCache
	router     chi.Router
	httpServer *http.Server
}

type Option func(*Server)

// WithClock replaces the wall clock driving the hover menu timers.
func WithClock(clk clock.Clock) Option {
	return func(s *Server) {
		s.clock = clk
	}
}

// WithHideDelay overrides the hover menu hide delay.
func WithHideDelay(d time.Duration) Option {
	return func(s *Server) {
		if d > 0 {
			s.hideDelay = d
		}
	}
}

func New(cfg config.ServerConfig, svc *service.Service, renderer *render.Renderer, predictor upload.Predictor, opts ...Option) *Server {
	s := &Server{
		cfg:       cfg,
		service:   svc,
		renderer:  renderer,
		predictor: predictor,
		clock:     clock.New(),
		hideDelay: menu.DefaultHideDelay,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.pages = service.NewPageCache(s.clock, cfg.PageTTLDuration())

	s.router = s.buildRouter()
	s.httpServer = &http.Server{
		Addr:              cfg.Addr(),
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	return s
}

func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)

	corsOpts := cors.Options{
		AllowedOrigins: []string{"http://localhost:*", "http://127.0.0.1:*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}
	if s.cfg.AllowAllOrigins {
		corsOpts.AllowedOrigins = []string{"*"}
	}
	r.Use(cors.Handler(corsOpts))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Handle("/assets/*", http.StripPrefix("/assets/", http.FileServer(http.FS(render.Assets()))))

	// The websocket route has no timeout; it lives as long as the page.
	r.Get("/ws/menu", s.handleMenu)

	r.Group(func(r chi.Router) {
		r.Use(middleware.Timeout(60 * time.Second))

		r.Get("/", s.handleProducts)
		r.Get("/search", s.handleSearch)
		r.Get("/category", s.handleCategory)
		r.Get("/sweetener", s.handleSweetener)
		r.Get("/detail", s.handleDetail)
		r.Post("/predict", s.handlePredict)
		r.Get("/export.xlsx", s.handleExport)
	})

	return r
}

// Router exposes the handler, mostly for tests.
func (s *Server) Router() http.Handler { return s.router }

// Start listens on the configured address until Shutdown is called.
func (s *Server) Start() error {
	log.Infof("🚀 Listening on %s", s.cfg.Addr())
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	log.Info("Shutting down HTTP server...")
	return s.httpServer.Shutdown(ctx)
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()

		next.ServeHTTP(ww, r)

		entry := log.WithFields(log.Fields{
			"request_id": middleware.GetReqID(r.Context()),
			"method":     r.Method,
			"path":       r.URL.Path,
			"status":     ww.Status(),
			"bytes":      ww.BytesWritten(),
			"duration":   time.Since(start).Round(time.Millisecond),
		})
		if ww.Status() >= http.StatusInternalServerError {
			entry.Warn("request failed")
			return
		}
		entry.Debug("request served")
	})
}
