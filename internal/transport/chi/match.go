package chi

import (
	"net/http"
	"strings"

	"github.com/simglobe/simglobe/internal/domain"
	"github.com/simglobe/simglobe/internal/domain/product"
)

// MatchProduct handles POST /api/match/product.
func (s *Server) MatchProduct(w http.ResponseWriter, r *http.Request) {
	var req matchProductRequest
	if !s.decodeBody(w, r, &req) {
		return
	}
	p, err := s.productFromPayload(req.Product)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	matches, err := s.products.MatchProduct(r.Context(), p, s.risksFromPayload(req.Risks))
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	items := matchesToResponse(matches)
	writeJSON(w, http.StatusOK, matchListResponse{Matches: items, Count: len(items)})
}

// MatchRisk handles POST /api/match/risk.
func (s *Server) MatchRisk(w http.ResponseWriter, r *http.Request) {
	var req matchRiskRequest
	if !s.decodeBody(w, r, &req) {
		return
	}

	products := make([]product.Product, len(req.Products))
	for i, pp := range req.Products {
		p, err := s.productFromPayload(pp)
		if err != nil {
			s.handleDomainError(w, err)
			return
		}
		products[i] = p
	}

	items := matchesToResponse(s.products.MatchRisk(s.riskFromPayload(req.Risk), products))
	writeJSON(w, http.StatusOK, matchListResponse{Matches: items, Count: len(items)})
}

// AssessProduct handles POST /api/products/assess.
func (s *Server) AssessProduct(w http.ResponseWriter, r *http.Request) {
	var req productPayload
	if !s.decodeBody(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		s.handleDomainError(w, domain.NewValidationError("name", "is required"))
		return
	}
	p, err := s.productFromPayload(req)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	a, err := s.products.Assess(r.Context(), p)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	risks := make([]matchResponse, len(a.Matches))
	for i, m := range a.Matches {
		risks[i] = matchToResponse(m)
		risks[i].Impact = a.Impacts[i]
	}

	writeJSON(w, http.StatusOK, assessmentResponse{
		ProductID:      a.Product.ID(),
		Name:           a.Product.Name(),
		Category:       a.Product.Category(),
		RiskScore:      a.RiskScore,
		RiskLevel:      a.RiskLevel,
		Reasoning:      a.Reasoning,
		SuggestedHedge: a.Hedge.Suggested,
		Risks:          risks,
	})
}
