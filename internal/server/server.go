// Package server exposes the latest scrape over HTTP.
//
// The server owns one scraper and refreshes it on a fixed interval from a single
// goroutine. Handlers read a copy of the last successful result under a lock, so
// requests never trigger or wait on a fetch.
package server

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/pfrederiksen/afad-quakes/internal/export"
	"github.com/pfrederiksen/afad-quakes/internal/quake"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Source produces a fresh, ordered record set. *scraper.Scraper satisfies it.
type Source interface {
	Scrape(ctx context.Context) ([]quake.Record, error)
}

// Config holds the listen address and refresh interval.
type Config struct {
	Addr    string
	Refresh time.Duration // zero scrapes once at startup only
}

// Server exposes health, readiness, metrics and earthquake HTTP endpoints.
type Server struct {
	httpServer *http.Server
	source     Source
	refresh    time.Duration
	clock      clockwork.Clock
	logger     *slog.Logger

	mu        sync.RWMutex
	records   []quake.Record
	scrapedAt time.Time
	lastErr   error
}

// NewServer creates a server with /healthz, /readyz, /metrics and /earthquakes routes.
func NewServer(cfg Config, src Source, gatherer prometheus.Gatherer, clock clockwork.Clock, logger *slog.Logger) *Server {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if logger == nil {
		logger = slog.Default()
	}

	mux := http.NewServeMux()
	s := &Server{
		httpServer: &http.Server{
			Addr:         cfg.Addr,
			Handler:      mux,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		source:  src,
		refresh: cfg.Refresh,
		clock:   clock,
		logger:  logger,
	}

	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)
	mux.HandleFunc("GET /earthquakes", s.handleEarthquakes)
	mux.Handle("GET /metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

// Run scrapes once, then again on every refresh tick, until ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	s.Refresh(ctx)

	if s.refresh <= 0 {
		<-ctx.Done()
		return nil
	}

	ticker := s.clock.NewTicker(s.refresh)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("refresh loop stopping", "reason", ctx.Err())
			return nil
		case <-ticker.Chan():
			s.Refresh(ctx)
		}
	}
}

// Refresh runs one scrape. A failure is logged and recorded; the previous
// result stays in place.
func (s *Server) Refresh(ctx context.Context) {
	records, err := s.source.Scrape(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()

	s.lastErr = err
	if err != nil {
		s.logger.Warn("refresh failed, serving previous result", "error", err)
		return
	}
	s.records = records
	s.scrapedAt = s.clock.Now()
}

// CheckReadiness returns nil once a scrape has succeeded.
func (s *Server) CheckReadiness(_ context.Context) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.scrapedAt.IsZero() {
		if s.lastErr != nil {
			return s.lastErr
		}
		return quake.ErrNotScraped
	}
	return nil
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if err := s.CheckReadiness(r.Context()); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{
			"status": "not ready",
			"error":  err.Error(),
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

func (s *Server) handleEarthquakes(w http.ResponseWriter, _ *http.Request) {
	s.mu.RLock()
	records, scrapedAt := s.records, s.scrapedAt
	s.mu.RUnlock()

	if scrapedAt.IsZero() {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": quake.ErrNotScraped.Error()})
		return
	}

	body, err := export.JSONString(records)
	if err != nil {
		s.logger.Error("encoding earthquakes", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "encoding failed"})
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Last-Modified", scrapedAt.UTC().Format(http.TimeFormat))
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(body)) //nolint:errcheck // client went away
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // best-effort health response
}
