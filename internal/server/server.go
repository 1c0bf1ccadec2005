// Package server exposes the converter as a browser form and a small JSON
// API.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dgnsrekt/tonetts/internal/convert"
	"github.com/dgnsrekt/tonetts/internal/store"
)

// Config controls the HTTP server.
type Config struct {
	Addr       string        // listen address, default ":8080"
	PruneAfter time.Duration // remove outputs older than this; 0 keeps them
	Timeout    time.Duration // per-request conversion timeout, default 1m
}

// Server serves the form and API.
type Server struct {
	cfg      Config
	conv     *convert.Converter
	store    *store.Store
	logger   *log.Logger
	registry *prometheus.Registry
}

// New creates a Server around an existing converter and output store.
func New(cfg Config, conv *convert.Converter, st *store.Store, logger *log.Logger) *Server {
	if cfg.Addr == "" {
		cfg.Addr = ":8080"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = time.Minute
	}
	if logger == nil {
		logger = log.Default()
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	convert.RegisterMetrics(reg)

	return &Server{
		cfg:      cfg,
		conv:     conv,
		store:    st,
		logger:   logger.WithPrefix("server"),
		registry: reg,
	}
}

// Router builds the HTTP handler.
func (s *Server) Router() *chi.Mux {
	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(requestLogger(s.logger))
	router.Use(middleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-Id"},
		ExposedHeaders: []string{"Content-Disposition"},
		MaxAge:         300,
	}))

	router.Get("/", s.formPage)
	router.Post("/", s.formSubmit)
	router.Get("/audio/{name}", s.serveAudio(false))
	router.Get("/download/{name}", s.serveAudio(true))

	router.Route("/api", func(router chi.Router) {
		router.Get("/tones", s.apiTones)
		router.Get("/languages", s.apiLanguages)
		router.Post("/convert", s.apiConvert)
	})

	router.Handle("/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))
	router.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok"))
	})

	return router
}

// Run listens on the configured address until ctx is done, then shuts
// down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	if s.cfg.PruneAfter > 0 {
		go s.pruneLoop(ctx)
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", s.cfg.Addr, "output", s.store.Dir())
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("listen: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	s.logger.Info("shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

func (s *Server) pruneLoop(ctx context.Context) {
	interval := s.cfg.PruneAfter / 2
	if interval < time.Minute {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := s.store.Prune(s.cfg.PruneAfter)
			if err != nil {
				s.logger.Warn("prune failed", "err", err)
				continue
			}
			if n > 0 {
				s.logger.Debug("pruned outputs", "removed", n)
			}
		}
	}
}

func requestLogger(logger *log.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			logger.Info("request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", status,
				"bytes", ww.BytesWritten(),
				"took", time.Since(start).Round(time.Microsecond),
				"request_id", middleware.GetReqID(r.Context()),
			)
		})
	}
}
