// Package server exposes the public HTTP surface: the REST endpoints,
// the websocket upgrade path, and the Prometheus scrape endpoint.
package server

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/solindex/trending-data/internal/analysis"
	"github.com/solindex/trending-data/internal/config"
	"github.com/solindex/trending-data/internal/model"
	"github.com/solindex/trending-data/internal/settings"
)

// TrendingSource serves trending sets and single-token lookups.
type TrendingSource interface {
	Current(ctx context.Context) (model.TrendingSet, bool)
	Lookup(ctx context.Context, address string) (model.Snapshot, error)
}

// HistoryRecorder persists per-token history rows. Recording is
// best-effort; a failed write never fails the request that produced it.
type HistoryRecorder interface {
	RecordVerification(ctx context.Context, address string, v model.Verification) error
	UpdateAnalysis(ctx context.Context, address string, a model.Analysis) error
}

// Pinger reports backing-store connectivity for the health endpoint.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Server wires the REST, websocket, and metrics routes onto one handler.
type Server struct {
	trending  TrendingSource
	analyzer  analysis.Annotator
	settings  *settings.Store
	recorder  HistoryRecorder
	db        Pinger
	wsHandler http.HandlerFunc
	logger    *slog.Logger
	router    chi.Router
}

// Options carries the optional collaborators. Nil fields disable the
// corresponding routes.
type Options struct {
	Analyzer  analysis.Annotator
	Settings  *settings.Store
	Recorder  HistoryRecorder
	DB        Pinger
	WSHandler http.HandlerFunc
}

// New builds a Server over the given trending source.
func New(src TrendingSource, opts Options, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	s := &Server{
		trending:  src,
		analyzer:  opts.Analyzer,
		settings:  opts.Settings,
		recorder:  opts.Recorder,
		db:        opts.DB,
		wsHandler: opts.WSHandler,
		logger:    logger,
	}
	s.router = s.routes()
	return s
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// HTTPServer builds an http.Server for the configured listener.
func (s *Server) HTTPServer(cfg config.HTTPConfig) *http.Server {
	return &http.Server{
		Addr:         cfg.Addr,
		Handler:      s.router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(requestLogger(s.logger))

	r.Get("/health", s.handleHealth)
	r.Get("/metrics", promhttp.Handler().ServeHTTP)

	r.Route("/api", func(r chi.Router) {
		r.Get("/tokens/trending", s.handleTrending)
		r.Get("/tokens/{address}", s.handleLookup)
		if s.analyzer != nil {
			r.Get("/tokens/{address}/analysis", s.handleAnalysis)
		}
		if s.recorder != nil {
			r.Post("/tokens/{address}/verification", s.handleVerification)
		}
		if s.settings != nil {
			r.Get("/settings", s.handleGetSettings)
			r.Put("/settings", s.handlePutSettings)
		}
	})

	if s.wsHandler != nil {
		r.Get("/ws", s.wsHandler)
	}

	return r
}
