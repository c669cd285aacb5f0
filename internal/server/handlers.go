package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"wikibrief/internal/core"
)

// HealthResponse is the /healthz payload.
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

// ErrorResponse carries a machine-readable failure reason.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// SuggestResponse is the /api/suggest payload.
type SuggestResponse struct {
	Query       string   `json:"query"`
	Suggestions []string `json:"suggestions"`
}

// handleHealth handles the /healthz endpoint
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	checks := make(map[string]string)

	if _, err := s.store.Stats(); err != nil {
		checks["cache"] = "error"
		s.respondJSON(w, http.StatusServiceUnavailable, HealthResponse{
			Status: "unhealthy",
			Checks: checks,
		})
		return
	}
	checks["cache"] = "ok"

	s.respondJSON(w, http.StatusOK, HealthResponse{
		Status: "ok",
		Checks: checks,
	})
}

// handleLookup resolves and enriches the q parameter. Every fatal reason
// in the pipeline's error contract maps to its own status and error code
// so callers can tell them apart.
func (s *Server) handleLookup(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	if query == "" {
		s.respondJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:   "missing_query",
			Message: "q parameter is required",
		})
		return
	}

	result, err := s.pipeline.ResolveAndEnrich(r.Context(), query)
	if err != nil {
		s.respondLookupError(w, query, err)
		return
	}

	s.respondJSON(w, http.StatusOK, result)
}

// handleSuggest returns up to five candidate titles for autocomplete.
func (s *Server) handleSuggest(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	if query == "" {
		s.respondJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:   "missing_query",
			Message: "q parameter is required",
		})
		return
	}

	titles, err := s.pipeline.Suggest(r.Context(), query)
	if err != nil {
		s.respondJSON(w, http.StatusBadGateway, ErrorResponse{
			Error:   "source_unavailable",
			Message: err.Error(),
		})
		return
	}
	if titles == nil {
		titles = []string{}
	}

	s.respondJSON(w, http.StatusOK, SuggestResponse{
		Query:       query,
		Suggestions: titles,
	})
}

// respondLookupError maps pipeline errors to HTTP statuses.
func (s *Server) respondLookupError(w http.ResponseWriter, query string, err error) {
	var sourceErr *core.SourceError
	var summarizerErr *core.SummarizerError

	switch {
	case errors.Is(err, core.ErrNoResults):
		s.respondJSON(w, http.StatusNotFound, ErrorResponse{
			Error:   "no_results",
			Message: "no article matches the query",
		})
	case errors.Is(err, core.ErrAmbiguous):
		s.respondJSON(w, http.StatusConflict, ErrorResponse{
			Error:   "ambiguous",
			Message: "the query could not be resolved to a single article",
		})
	case errors.As(err, &summarizerErr):
		s.respondJSON(w, http.StatusBadGateway, ErrorResponse{
			Error:   "summarizer_failed",
			Message: summarizerErr.Error(),
		})
	case errors.As(err, &sourceErr):
		s.respondJSON(w, http.StatusBadGateway, ErrorResponse{
			Error:   "source_unavailable",
			Message: sourceErr.Error(),
		})
	default:
		s.log.Error("lookup failed", "query", query, "error", err.Error())
		s.respondJSON(w, http.StatusInternalServerError, ErrorResponse{
			Error:   "internal",
			Message: "internal server error",
		})
	}
}

// respondJSON writes a JSON response
func (s *Server) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.log.Error("Failed to encode JSON response", "error", err.Error())
	}
}
