// Package server exposes the calculator over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"edge-calculator/internal/alerts"
	"edge-calculator/internal/config"
	"edge-calculator/internal/metrics"
	"edge-calculator/internal/positions"
)

// PositionStore is the subset of the position database the API needs.
type PositionStore interface {
	AddPosition(pos positions.Position) (positions.Position, error)
	GetPosition(id string) (positions.Position, error)
	GetAllPositions() ([]positions.Position, error)
	GetPositionsByEvent(eventID string) ([]positions.Position, error)
	DeletePosition(id string) error
	UpdateStake(id string, stake float64) error
	Ping() error
}

// Server wires the HTTP API to the calculator.
type Server struct {
	cfg      *config.Config
	log      *logrus.Entry
	store    PositionStore
	notifier *alerts.Notifier
	validate *validator.Validate
	limiter  *rate.Limiter
	router   chi.Router
}

// New creates a server. store may be nil, in which case position routes answer 503.
func New(cfg *config.Config, log *logrus.Logger, store PositionStore, notifier *alerts.Notifier) *Server {
	s := &Server{
		cfg:      cfg,
		log:      log.WithField("component", "server"),
		store:    store,
		notifier: notifier,
		validate: validator.New(),
		limiter:  rate.NewLimiter(rate.Limit(cfg.RateLimitRPS), cfg.RateLimitBurst),
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
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(s.cfg.RequestTimeout))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.cfg.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/health", s.handleHealth)
	r.Handle("/metrics", metrics.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(s.rateLimit)

		r.Post("/convert", s.handleConvert)
		r.Post("/devig", s.handleDevig)
		r.Post("/consensus", s.handleConsensus)
		r.Post("/evaluate", s.handleEvaluate)
		r.Post("/optimize", s.handleOptimize)
		r.Post("/combine", s.handleCombine)
		r.Post("/middle", s.handleMiddle)

		r.Route("/positions", func(r chi.Router) {
			r.Use(s.requireStore)
			r.Post("/", s.handleCreatePosition)
			r.Get("/", s.handleListPositions)
			r.Post("/hedges", s.handleFindHedges)
			r.Get("/{id}", s.handleGetPosition)
			r.Patch("/{id}", s.handleUpdatePosition)
			r.Delete("/{id}", s.handleDeletePosition)
			r.Get("/{id}/hedge", s.handleHedgePosition)
		})
	})

	return r
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:         ":" + s.cfg.Port,
		Handler:      s.router,
		ReadTimeout:  s.cfg.RequestTimeout,
		WriteTimeout: s.cfg.RequestTimeout + time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.WithField("addr", srv.Addr).Info("API listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.log.Info("Shutting down gracefully")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown error: %w", err)
	}
	return nil
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	status := map[string]string{
		"status":  "healthy",
		"service": "edge-calculator",
	}
	code := http.StatusOK

	if s.store != nil {
		if err := s.store.Ping(); err != nil {
			status["status"] = "degraded"
			status["positions"] = err.Error()
			code = http.StatusServiceUnavailable
		}
	}

	respondJSON(w, code, status)
}
