package chi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kkalanta/CreateWebMapsWithPopups/internal/domain"
	healthuc "github.com/kkalanta/CreateWebMapsWithPopups/internal/usecase/health"
	webmapuc "github.com/kkalanta/CreateWebMapsWithPopups/internal/usecase/webmap"
)

const maxRequestBody = 1 << 20

// WebMapCreator runs the create-web-map workflow.
type WebMapCreator interface {
	Create(ctx context.Context, req webmapuc.Request) (webmapuc.Result, error)
}

// HealthChecker aggregates component health.
type HealthChecker interface {
	Check(ctx context.Context) healthuc.Report
}

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Server exposes the web map workflow over HTTP.
type Server struct {
	webmaps       WebMapCreator
	health        HealthChecker
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(webmaps WebMapCreator, health HealthChecker, logger *zap.Logger) *Server {
	s := &Server{
		webmaps: webmaps,
		health:  health,
		logger:  logger,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrInvalidArgument, http.StatusBadRequest, ErrorCodeValidationFailed),
		sentinelHandler(domain.ErrNotFound, http.StatusNotFound, ErrorCodeNotFound),
		sentinelHandler(domain.ErrInvariantViolation, http.StatusUnprocessableEntity, ErrorCodeInvariantViolation),
		sentinelHandler(domain.ErrPortal, http.StatusBadGateway, ErrorCodePortalError),
	}
	return s
}

// Routes mounts the API on r.
func (s *Server) Routes(r chi.Router) {
	r.Get("/health", s.HealthCheck)
	r.Get("/metrics", s.Metrics)
	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/webmaps", s.CreateWebMap)
	})
}

// CreateWebMap handles POST /api/v1/webmaps.
func (s *Server) CreateWebMap(w http.ResponseWriter, r *http.Request) {
	var req CreateWebMapRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBody)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, ErrorCodeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	if req.Project == "" {
		writeError(w, http.StatusBadRequest, ErrorCodeValidationFailed, "Project name is required")
		return
	}

	res, err := s.webmaps.Create(r.Context(), webmapuc.Request{
		Project:    req.Project,
		LayerNames: req.Layers,
		Tags:       req.Tags,
	})
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, webMapToResponse(res))
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	httpStatus := http.StatusOK
	if report.Status == healthuc.Unhealthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, HealthResponse{
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

func writeError(w http.ResponseWriter, status int, code ErrorCode, message string) {
	writeJSON(w, status, ErrorResponse{
		Code:    code,
		Message: message,
	})
}

// safeDomainMessage returns a client-facing message without portal internals.
// Not-found and invariant errors name only the missing layer or item.
func safeDomainMessage(err error) string {
	var nf *domain.NotFoundError
	if errors.As(err, &nf) {
		return nf.Error()
	}
	var iv *domain.InvariantViolationError
	if errors.As(err, &iv) {
		return iv.Error()
	}
	sentinels := []error{
		domain.ErrInvalidArgument,
		domain.ErrNotFound,
		domain.ErrInvariantViolation,
		domain.ErrPortal,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code ErrorCode) errorHandler {
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
	writeError(w, http.StatusInternalServerError, ErrorCodeInternalError, "internal error")
}

func webMapToResponse(res webmapuc.Result) CreateWebMapResponse {
	popups := make([]PopupResponse, len(res.Popups))
	for i, p := range res.Popups {
		unmatched := make([]string, len(p.Unmatched))
		for j, u := range p.Unmatched {
			unmatched[j] = u.FieldName
		}
		popups[i] = PopupResponse{
			Layer:           p.Layer,
			Kind:            p.Kind.String(),
			UnmatchedFields: unmatched,
		}
	}
	return CreateWebMapResponse{ID: res.WebMapID, Popups: popups}
}
