// Package server exposes scan reports over HTTP.
//
// The server runs the scan pipeline on demand: each report request walks
// the configured root and probes whatever it finds, with the probe cache
// absorbing repeat work between requests.
package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/zomglings/busybody/pkg/errors"
	"github.com/zomglings/busybody/pkg/pipeline"
)

// Server handles report requests.
type Server struct {
	runner *pipeline.Runner
	opts   pipeline.Options
	logger *log.Logger
}

// New creates a server that scans with the given runner and options.
func New(runner *pipeline.Runner, opts pipeline.Options, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	return &Server{runner: runner, opts: opts, logger: logger}
}

// Handler returns the HTTP handler with all routes mounted.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)

	r.Get("/healthz", s.handleHealth)
	r.Get("/api/report", s.handleReport)

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	report, err := s.runner.Execute(r.Context(), s.opts)
	if err != nil {
		s.logger.Error("scan failed", "err", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{
			"error": errors.UserMessage(err),
		})
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// logRequests logs one line per request with method, path, status, and
// duration.
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start).Round(time.Millisecond))
	})
}
