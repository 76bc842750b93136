// Package chi exposes the search API over HTTP.
package chi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/makerly/tplsearch/internal/domain"
	"github.com/makerly/tplsearch/internal/domain/search/query"
	"github.com/makerly/tplsearch/internal/domain/search/sortmode"
	"github.com/makerly/tplsearch/internal/metrics"
	enrichuc "github.com/makerly/tplsearch/internal/usecase/enrich"
	healthuc "github.com/makerly/tplsearch/internal/usecase/health"
	searchuc "github.com/makerly/tplsearch/internal/usecase/search"
)

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Server holds the HTTP handlers for the search API.
type Server struct {
	search          *searchuc.Service
	enrich          *enrichuc.Service
	health          *healthuc.Service
	logger          *zap.Logger
	defaultPageSize int
	errorHandlers   []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(
	search *searchuc.Service,
	enrich *enrichuc.Service,
	health *healthuc.Service,
	defaultPageSize int,
	logger *zap.Logger,
) *Server {
	s := &Server{
		search:          search,
		enrich:          enrich,
		health:          health,
		logger:          logger,
		defaultPageSize: defaultPageSize,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrInvalidQuery, http.StatusBadRequest, codeValidationFailed),
		sentinelHandler(domain.ErrEmbeddingProvider, http.StatusBadGateway, codeEmbeddingProvider),
		sentinelHandler(domain.ErrStore, http.StatusServiceUnavailable, codeStoreUnavailable),
	}
	return s
}

// Routes mounts all API routes on the given router.
func (s *Server) Routes(r chi.Router) {
	r.Post("/v1/search", s.SearchTemplates)
	r.Get("/health", s.HealthCheck)
	r.Get("/metrics", s.Metrics)
}

// SearchTemplates handles POST /v1/search.
func (s *Server) SearchTemplates(w http.ResponseWriter, r *http.Request) {
	var req searchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	// Absent pagination fields get server defaults; explicit invalid values
	// are rejected during query construction.
	if req.Page == 0 {
		req.Page = 1
	}
	if req.PageSize == 0 {
		req.PageSize = s.defaultPageSize
	}

	q, err := query.New(
		req.Query,
		sortmode.Mode(req.SortMode),
		query.Filters{TenantID: req.TenantID, CategoryID: req.CategoryID},
		req.Page,
		req.PageSize,
		req.FacetsOnly,
	)
	if err != nil {
		metrics.SearchesTotal.WithLabelValues(req.SortMode, "invalid").Inc()
		s.handleDomainError(w, err)
		return
	}

	resp, err := s.search.Search(r.Context(), &q)
	if err != nil {
		metrics.SearchesTotal.WithLabelValues(string(q.SortMode()), "error").Inc()
		s.handleDomainError(w, err)
		return
	}
	metrics.SearchesTotal.WithLabelValues(string(q.SortMode()), "ok").Inc()

	// Decoration is cosmetic. A display lookup failure degrades the page
	// instead of failing the search.
	decorations := map[string]enrichuc.Decoration{}
	if len(resp.Items) > 0 {
		ids := make([]string, len(resp.Items))
		for i := range resp.Items {
			c := resp.Items[i].Candidate()
			ids[i] = c.ItemID()
		}
		decorations, err = s.enrich.Decorate(r.Context(), ids)
		if err != nil {
			s.logger.Warn("display decoration failed", zap.Error(err))
			decorations = map[string]enrichuc.Decoration{}
		}
	}

	items := make([]searchItem, len(resp.Items))
	for i := range resp.Items {
		items[i] = rankedToItem(&resp.Items[i], decorations)
	}

	writeJSON(w, http.StatusOK, searchResponse{
		Items:      items,
		Total:      resp.Total,
		Page:       resp.Page,
		PageSize:   q.PageSize(),
		TotalPages: resp.TotalPages,
		Facets:     facetsToItems(resp.Facets),
	})
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
		domain.ErrInvalidQuery,
		domain.ErrEmbeddingProvider,
		domain.ErrStore,
		domain.ErrNotFound,
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
