package analysis

import (
	"context"
	"time"

	domanalysis "github.com/simglobe/simglobe/internal/domain/analysis"
	"github.com/simglobe/simglobe/internal/domain/market"
)

// Generator produces free text from a prompt.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Analyst turns market events into merchant advice.
type Analyst interface {
	Analyze(ctx context.Context, req domanalysis.StoreRequest, markets []market.Market) (domanalysis.StoreAnalysis, error)
	AnalyzeProduct(ctx context.Context, req domanalysis.ProductRequest, markets []market.Market) (domanalysis.ProductAnalysis, error)
	Summarize(ctx context.Context, markets []market.Market) (domanalysis.Summary, error)
}

// MarketLister lists the current relevant markets.
type MarketLister interface {
	List(ctx context.Context, category string, limit int) ([]market.Market, error)
}

// BudgetStore persists request counters per provider and usage window.
type BudgetStore interface {
	Add(ctx context.Context, provider string, period Period, at time.Time, n int64) error
	Count(ctx context.Context, provider string, period Period, at time.Time) (int64, error)
}

// UsageReader reports analyst request usage.
type UsageReader interface {
	Usage(period Period) Usage
}
