package chi

import (
	"net/http"

	"github.com/simglobe/simglobe/internal/domain"
	domanalysis "github.com/simglobe/simglobe/internal/domain/analysis"
	analysisuc "github.com/simglobe/simglobe/internal/usecase/analysis"
)

// Analyze handles POST /api/analyze.
func (s *Server) Analyze(w http.ResponseWriter, r *http.Request) {
	var req analyzeRequest
	if !s.decodeBody(w, r, &req) {
		return
	}

	productIDs := make([]string, 0, len(req.ProductIDs))
	for _, id := range req.ProductIDs {
		if id = s.validator.Sanitize(id); id != "" {
			productIDs = append(productIDs, id)
		}
	}
	page := s.validator.Sanitize(req.Page)
	if page == "" {
		page = domanalysis.PageGeneral
	}

	res, err := s.analysis.Analyze(r.Context(), domanalysis.StoreRequest{
		StoreID:    s.validator.Sanitize(req.StoreID),
		ProductIDs: productIDs,
		Page:       page,
	})
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, analyzeResponse{
		StoreID:          req.StoreID,
		Page:             page,
		RiskScore:        res.RiskScore,
		Recommendations:  res.Recommendations,
		AffectedProducts: res.AffectedProducts,
		HedgeAmount:      res.SuggestedHedge,
		Reasoning:        res.Reasoning,
		AnalyzedAt:       s.now().UTC(),
	})
}

// AnalyzeProduct handles POST /api/analyze/product.
func (s *Server) AnalyzeProduct(w http.ResponseWriter, r *http.Request) {
	var req analyzeProductRequest
	if !s.decodeBody(w, r, &req) {
		return
	}

	res, err := s.analysis.AnalyzeProduct(r.Context(), domanalysis.ProductRequest{
		ProductID: s.validator.Sanitize(req.ProductID),
		Name:      s.validator.Sanitize(req.ProductName),
		Category:  s.validator.Sanitize(req.ProductCategory),
		StoreID:   s.validator.Sanitize(req.StoreID),
	})
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, productAnalysisResponse{
		ProductID:             req.ProductID,
		RiskScore:             res.RiskScore,
		SupplyChainRisks:      res.SupplyChainRisks,
		PricingRecommendation: res.PricingRecommendation,
		HedgeAmount:           res.SuggestedHedge,
		Reasoning:             res.Reasoning,
	})
}

// AnalysisSummary handles GET /api/analyze/summary.
func (s *Server) AnalysisSummary(w http.ResponseWriter, r *http.Request) {
	res, err := s.analysis.Summary(r.Context())
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, summaryResponse{
		Summary:          res.Text,
		KeyRisks:         res.KeyRisks,
		OverallRiskLevel: res.OverallRiskLevel,
		GeneratedAt:      s.now().UTC(),
	})
}

// AnalystUsage handles GET /api/analyze/usage?period=day|month.
func (s *Server) AnalystUsage(w http.ResponseWriter, r *http.Request) {
	period, err := queryString(r, "period")
	if err != nil {
		writeParamError(w, "period", err)
		return
	}

	p := analysisuc.Period(period)
	switch p {
	case "":
		p = analysisuc.PeriodDay
	case analysisuc.PeriodDay, analysisuc.PeriodMonth:
	default:
		s.handleDomainError(w, domain.NewValidationError("period", "must be day or month"))
		return
	}

	u := s.analysis.Usage(p)
	writeJSON(w, http.StatusOK, usageResponse{
		Provider:  u.Provider,
		Period:    string(u.Period),
		Limit:     u.Limit,
		Used:      u.Used,
		Remaining: u.Remaining,
		Exhausted: u.Exhausted,
		Start:     u.Start,
		ResetsAt:  u.ResetsAt,
	})
}
