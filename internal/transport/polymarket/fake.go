package polymarket

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/simglobe/simglobe/internal/domain"
	"github.com/simglobe/simglobe/internal/domain/market"
)

// Fake serves a fixed set of demo markets. It never fails except for unknown IDs.
type Fake struct {
	markets []market.Market
}

// NewFake creates the demo market source.
func NewFake() *Fake {
	return &Fake{markets: demoMarkets()}
}

// Markets returns the first limit demo markets.
func (f *Fake) Markets(_ context.Context, limit int) ([]market.Market, error) {
	return head(f.markets, limit), nil
}

// Market returns a demo market by ID.
func (f *Fake) Market(_ context.Context, id string) (market.Market, error) {
	for _, m := range f.markets {
		if m.ID() == id {
			return m, nil
		}
	}
	return market.Market{}, fmt.Errorf("market %s: %w", id, domain.ErrNotFound)
}

// Search returns demo markets whose question contains query, ignoring case.
func (f *Fake) Search(_ context.Context, query string, limit int) ([]market.Market, error) {
	q := strings.ToLower(query)
	var out []market.Market
	for _, m := range f.markets {
		if strings.Contains(strings.ToLower(m.Question()), q) {
			out = append(out, m)
		}
	}
	return head(out, limit), nil
}

func head(in []market.Market, limit int) []market.Market {
	if limit < 0 || limit >= len(in) {
		return append([]market.Market(nil), in...)
	}
	return append([]market.Market(nil), in[:limit]...)
}

func demoMarkets() []market.Market {
	yesNo := []string{"Yes", "No"}
	end := func(s string) time.Time {
		t, _ := time.Parse(time.RFC3339, s)
		return t
	}
	return []market.Market{
		market.New("mock-port-strike",
			"Will there be a port strike at LA/Long Beach in Q1 2026?",
			"This market resolves to Yes if there is any work stoppage at the Port of Los Angeles or Port of Long Beach lasting more than 24 hours.",
			"Economics", yesNo, []float64{0.78, 0.22}, 245000, end("2026-03-31T23:59:59Z")),
		market.New("mock-inflation",
			"Will US inflation exceed 4% in January 2026?",
			"This market resolves to Yes if the Bureau of Labor Statistics reports CPI inflation above 4% year-over-year for January 2026.",
			"Economics", yesNo, []float64{0.45, 0.55}, 180000, end("2026-02-15T23:59:59Z")),
		market.New("mock-supply-chain",
			"Will there be major supply chain disruptions in Q1 2026?",
			"This market resolves to Yes if there are significant global supply chain disruptions affecting major shipping routes.",
			"Business", yesNo, []float64{0.62, 0.38}, 120000, end("2026-03-31T23:59:59Z")),
		market.New("mock-fed-rate",
			"Will the Fed raise interest rates in March 2026?",
			"This market resolves to Yes if the Federal Reserve increases the federal funds rate at their March 2026 meeting.",
			"Finance", yesNo, []float64{0.35, 0.65}, 350000, end("2026-03-20T23:59:59Z")),
		market.New("mock-tariffs",
			"Will new tariffs be imposed on Chinese goods in 2026?",
			"This market resolves to Yes if the US government announces new tariffs on goods imported from China during 2026.",
			"Politics", yesNo, []float64{0.55, 0.45}, 95000, end("2026-12-31T23:59:59Z")),
		market.New("mock-oil-price",
			"Will oil prices exceed $100/barrel in Q1 2026?",
			"This market resolves to Yes if WTI crude oil closes above $100 per barrel at any point in Q1 2026.",
			"Economics", yesNo, []float64{0.28, 0.72}, 210000, end("2026-03-31T23:59:59Z")),
	}
}
