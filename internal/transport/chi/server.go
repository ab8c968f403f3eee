// Package chi exposes the search gateway over HTTP.
package chi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/retailgrid/agentsearch/internal/domain"
	"github.com/retailgrid/agentsearch/internal/domain/answer"
	domusage "github.com/retailgrid/agentsearch/internal/domain/usage"
	healthuc "github.com/retailgrid/agentsearch/internal/usecase/health"
	searchuc "github.com/retailgrid/agentsearch/internal/usecase/search"
	usageuc "github.com/retailgrid/agentsearch/internal/usecase/usage"
)

const maxRequestBytes = 1 << 20

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Server is the HTTP API server.
type Server struct {
	search        *searchuc.Service
	usage         *usageuc.Service
	health        *healthuc.Service
	logger        *zap.Logger
	stream        StreamConfig
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server. usage may be nil when usage metering
// is disabled.
func NewServer(
	search *searchuc.Service,
	usage *usageuc.Service,
	health *healthuc.Service,
	stream StreamConfig,
	logger *zap.Logger,
) *Server {
	s := &Server{
		search: search,
		usage:  usage,
		health: health,
		stream: stream.withDefaults(),
		logger: logger,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrUnknownSearchType, http.StatusBadRequest, codeValidationFailed),
		sentinelHandler(domain.ErrEmptyQuery, http.StatusBadRequest, codeValidationFailed),
		sentinelHandler(domain.ErrRetrieverUnavailable, http.StatusServiceUnavailable, codeRetrieverUnavailable),
	}
	return s
}

// Routes registers all API routes on the given router.
func (s *Server) Routes(r chi.Router) {
	r.Post("/search/{type}", s.Search)
	r.Post("/search/{type}/stream", s.SearchStream)
	r.Get("/search/{type}/stream", s.SearchStream)
	r.Get("/health", s.HealthCheck)
	r.Get("/metrics", s.Metrics)
	r.Get("/usage", s.GetUsage)
}

// Search handles POST /search/{type}.
func (s *Server) Search(w http.ResponseWriter, r *http.Request) {
	searchType := chi.URLParam(r, "type")

	var req searchRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBytes)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	resp, err := s.search.Search(r.Context(), searchType, req.Query)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, responseToDTO(&resp))
}

// GetUsage handles GET /usage.
func (s *Server) GetUsage(w http.ResponseWriter, r *http.Request) {
	if s.usage == nil {
		writeError(w, http.StatusNotImplemented, codeNotImplemented, "usage metering is disabled")
		return
	}

	searchType, err := answer.ParseSearchType(defaultStr(r.URL.Query().Get("type"), string(answer.TypeAgentic)))
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	period, err := domusage.ParsePeriod(r.URL.Query().Get("period"))
	if err != nil {
		writeError(w, http.StatusBadRequest, codeValidationFailed, err.Error())
		return
	}

	report, err := s.usage.GetReport(r.Context(), searchType, period)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, reportToDTO(&report))
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, healthResponse{
		Status: string(report.Status),
		Checks: checks,
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorResponse{
		Code:    code,
		Message: message,
	})
}

// safeDomainMessage returns a sentinel error message for the client without exposing internals.
func safeDomainMessage(err error) string {
	sentinels := []error{
		domain.ErrUnknownSearchType,
		domain.ErrEmptyQuery,
		domain.ErrRetrieverUnavailable,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code string) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	s.logger.Warn("domain error", zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	s.logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
}

func defaultStr(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}
