// Package api provides the HTTP server for lingo. It exposes the
// progression engine to UI screens as a small JSON API.
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"slices"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/lingo-quest/lingo/internal/app/profile"
	"github.com/lingo-quest/lingo/internal/domain"
	"github.com/lingo-quest/lingo/internal/health"
	"github.com/lingo-quest/lingo/internal/infra/metrics"
)

// Version is reported by GET /api/version.
var Version = "0.1.0"

// Server is the lingo HTTP API server.
type Server struct {
	profile        *profile.Service
	health         *health.Checker
	log            *zap.Logger
	corsOrigins    []string
	metricsEnabled bool
}

// NewServer creates a new API server. health may be nil.
func NewServer(p *profile.Service, h *health.Checker, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	return &Server{profile: p, health: h, log: log, corsOrigins: []string{"*"}}
}

// EnableMetrics enables the /metrics Prometheus endpoint.
func (s *Server) EnableMetrics() { s.metricsEnabled = true }

// SetCORSOrigins restricts the allowed browser origins. "*" allows all.
func (s *Server) SetCORSOrigins(origins []string) {
	if len(origins) > 0 {
		s.corsOrigins = origins
	}
}

// Handler returns the chi router with all routes mounted.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(s.corsMiddleware)
	r.Use(s.observe)

	r.Get("/health", s.handleHealth)

	r.Get("/api/version", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{
			"version": Version,
		})
	})

	r.Route("/api/progression", func(r chi.Router) {
		r.Get("/level", s.handleLevel)
		r.Get("/hearts", s.handleHearts)
		r.Get("/stars", s.handleStars)
		r.Post("/hearts/consume", s.handleConsumeHeart)
		r.Post("/stars/consume", s.handleConsumeStar)
		r.Post("/recover", s.handleRecover)

		r.Post("/xp", s.handleAddXP)
		r.Post("/sessions", s.handleCompleteSession)
		r.Get("/history", s.handleHistory)
		r.Get("/streak", s.handleStreak)

		r.Get("/allocation", s.handleGetAllocation)
		r.Put("/allocation", s.handlePutAllocation)
		r.Get("/templates", s.handleTemplates)
		r.Post("/templates/{name}", s.handleApplyTemplate)

		r.Get("/next-question", s.handleNextQuestion)
		r.Get("/snapshot", s.handleSnapshot)
	})

	// Prometheus metrics endpoint
	if s.metricsEnabled {
		r.Handle("/metrics", promhttp.Handler())
	}

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if s.health == nil {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
		return
	}
	status, code := "ok", http.StatusOK
	if !s.health.IsHealthy() {
		status, code = "degraded", http.StatusServiceUnavailable
	}
	writeJSON(w, code, map[string]any{
		"status": status,
		"checks": s.health.Statuses(),
	})
}

// ─── Helpers ────────────────────────────────────────────────────────────────

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]any{
		"error": map[string]any{
			"message": msg,
			"type":    errorType(status),
		},
	})
}

// writeDomainError maps a domain error to its HTTP status.
func (s *Server) writeDomainError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		s.log.Error("request failed",
			zap.String("path", r.URL.Path),
			zap.String("request_id", middleware.GetReqID(r.Context())),
			zap.Error(err))
	}
	writeError(w, status, err.Error())
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrInsufficientHearts),
		errors.Is(err, domain.ErrInsufficientStars):
		return http.StatusConflict
	case errors.Is(err, domain.ErrInvalidAllocation),
		errors.Is(err, domain.ErrNonPositiveXP),
		errors.Is(err, domain.ErrXPGrantTooLarge):
		return http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrUnknownStrategy),
		errors.Is(err, domain.ErrInvalidRank):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrUnknownTemplate):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func errorType(status int) string {
	switch status {
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return "invalid_request"
	case http.StatusNotFound:
		return "not_found"
	case http.StatusConflict:
		return "insufficient_resource"
	default:
		return "error"
	}
}

// corsMiddleware adds CORS headers for the configured origins.
func (s *Server) corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		switch {
		case slices.Contains(s.corsOrigins, "*"):
			w.Header().Set("Access-Control-Allow-Origin", "*")
		case origin != "" && slices.Contains(s.corsOrigins, origin):
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Add("Vary", "Origin")
		}
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// observe records request latency by route pattern.
func (s *Server) observe(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rc := chi.RouteContext(r.Context()); rc != nil && rc.RoutePattern() != "" {
			route = rc.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		metrics.RequestLatency.
			WithLabelValues(r.Method, route, strconv.Itoa(status)).
			Observe(time.Since(start).Seconds())
	})
}
