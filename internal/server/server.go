// Package server exposes the judging pipeline over HTTP.
package server

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	m "github.com/go-chi/chi/v5/middleware"

	"github.com/ppiankov/verdict/internal/metrics"
	"github.com/ppiankov/verdict/internal/model"
	"github.com/ppiankov/verdict/internal/pipeline"
)

// maxBodyBytes caps request bodies; statements are short free text
const maxBodyBytes = 1 << 20

// Server holds the HTTP handlers and their collaborators
type Server struct {
	pipeline *pipeline.Pipeline
	metrics  *metrics.Metrics
	logger   *slog.Logger
	version  string
}

// New creates a server around a pipeline. Metrics may be nil.
func New(p *pipeline.Pipeline, mt *metrics.Metrics, logger *slog.Logger, version string) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		pipeline: p,
		metrics:  mt,
		logger:   logger.With(slog.String("component", "server")),
		version:  version,
	}
}

// Routes builds the router
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(m.RequestID, m.RealIP, s.requestLogger, m.Recoverer)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, errResp{
			Error:   "Endpoint not found",
			Message: "The requested endpoint does not exist",
		})
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusMethodNotAllowed, errResp{
			Error:   "Method not allowed",
			Message: r.Method + " is not supported for " + r.URL.Path,
		})
	})

	r.Get("/", s.index)
	r.Get("/health", s.health)
	r.Post("/verdict", s.verdict)
	r.Post("/api/genai_reason", s.genaiReason)
	r.Post("/api/judge", s.judge)
	r.Method(http.MethodGet, "/metrics", s.metrics.Handler())

	return r
}

// HTTPServer wraps the routes in an http.Server configured from cfg
func (s *Server) HTTPServer(cfg model.ServerConfig) *http.Server {
	return &http.Server{
		Addr:              cfg.Addr,
		Handler:           s.Routes(),
		ReadTimeout:       cfg.ReadTimeout,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      cfg.WriteTimeout,
	}
}

// requestLogger logs one structured line per request and counts it
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := m.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}

		s.metrics.ObserveRequest(route, status)
		s.logger.InfoContext(r.Context(), "request",
			"method", r.Method,
			"path", r.URL.Path,
			"route", route,
			"status", status,
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start),
			"request_id", m.GetReqID(r.Context()))
	})
}
