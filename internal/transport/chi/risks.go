package chi

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	risksuc "github.com/simglobe/simglobe/internal/usecase/risks"
)

// ListRisks handles GET /api/risks.
func (s *Server) ListRisks(w http.ResponseWriter, r *http.Request) {
	category, err := queryString(r, "category")
	if err != nil {
		writeParamError(w, "category", err)
		return
	}
	limit, err := queryLimit(r, defaultLimit)
	if err != nil {
		writeParamError(w, "limit", err)
		return
	}

	markets, err := s.risks.List(r.Context(), s.validator.Sanitize(category), limit)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	items := marketsToResponse(markets)
	writeJSON(w, http.StatusOK, marketListResponse{
		Markets:   items,
		Count:     len(items),
		Timestamp: s.now().UTC(),
	})
}

// GetRisk handles GET /api/risks/{marketId}.
func (s *Server) GetRisk(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "marketId")
	if err := s.validator.Var("marketId", id, "marketid"); err != nil {
		s.handleDomainError(w, err)
		return
	}

	m, err := s.risks.Get(r.Context(), id)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, marketToResponse(m, true))
}

// SearchRisks handles GET /api/risks/search/{query}.
func (s *Server) SearchRisks(w http.ResponseWriter, r *http.Request) {
	query := s.validator.Sanitize(chi.URLParam(r, "query"))
	if err := s.validator.Var("query", query, "required"); err != nil {
		s.handleDomainError(w, err)
		return
	}
	limit, err := queryLimit(r, risksuc.DefaultSearchLimit)
	if err != nil {
		writeParamError(w, "limit", err)
		return
	}

	markets, err := s.risks.Search(r.Context(), query, limit)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	items := marketsToResponse(markets)
	writeJSON(w, http.StatusOK, marketSearchResponse{
		Markets: items,
		Query:   query,
		Count:   len(items),
	})
}
