package analysis

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	domanalysis "github.com/simglobe/simglobe/internal/domain/analysis"
)

// Number of markets each analysis looks at.
const (
	storeMarkets   = 5
	productMarkets = 5
	summaryMarkets = 3
)

// Service fetches current markets and asks the analyst about them.
type Service struct {
	markets MarketLister
	analyst Analyst
	usage   UsageReader
}

// New creates a Service.
func New(markets MarketLister, analyst Analyst) *Service {
	return &Service{markets: markets, analyst: analyst}
}

// WithUsage sets the source of analyst usage reports.
func (s *Service) WithUsage(u UsageReader) *Service {
	s.usage = u
	return s
}

// Analyze returns a store-wide analysis. The page defaults to general.
func (s *Service) Analyze(ctx context.Context, req domanalysis.StoreRequest) (domanalysis.StoreAnalysis, error) {
	if req.Page == "" {
		req.Page = domanalysis.PageGeneral
	}
	if req.ProductIDs == nil {
		req.ProductIDs = []string{}
	}

	markets, err := s.markets.List(ctx, "", storeMarkets)
	if err != nil {
		return domanalysis.StoreAnalysis{}, fmt.Errorf("list markets: %w", err)
	}
	out, err := s.analyst.Analyze(ctx, req, markets)
	if err != nil {
		return domanalysis.StoreAnalysis{}, fmt.Errorf("analyze store %s: %w", req.StoreID, err)
	}
	return out, nil
}

// AnalyzeProduct returns a product analysis.
func (s *Service) AnalyzeProduct(ctx context.Context, req domanalysis.ProductRequest) (domanalysis.ProductAnalysis, error) {
	markets, err := s.markets.List(ctx, "", productMarkets)
	if err != nil {
		return domanalysis.ProductAnalysis{}, fmt.Errorf("list markets: %w", err)
	}
	out, err := s.analyst.AnalyzeProduct(ctx, req, markets)
	if err != nil {
		return domanalysis.ProductAnalysis{}, fmt.Errorf("analyze product %s: %w", req.ProductID, err)
	}
	return out, nil
}

// Summary returns a briefing over the top markets.
func (s *Service) Summary(ctx context.Context) (domanalysis.Summary, error) {
	markets, err := s.markets.List(ctx, "", summaryMarkets)
	if err != nil {
		return domanalysis.Summary{}, fmt.Errorf("list markets: %w", err)
	}
	out, err := s.analyst.Summarize(ctx, markets)
	if err != nil {
		return domanalysis.Summary{}, fmt.Errorf("summarize: %w", err)
	}
	return out, nil
}

// Usage reports analyst requests for the period. Without a budget every window is unlimited.
func (s *Service) Usage(period Period) Usage {
	if s.usage == nil {
		return NewBudget("", 0, 0, BudgetActionWarn, zap.NewNop()).Usage(period)
	}
	return s.usage.Usage(period)
}
