package risks

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/simglobe/simglobe/internal/domain/market"
)

// Filter selects the markets relevant to an online merchant.
type Filter struct {
	Categories []string
	Keywords   []string
}

// DefaultFilter returns the categories and question keywords merchants care about.
func DefaultFilter() Filter {
	return Filter{
		Categories: []string{"Economics", "Business", "Politics", "World Events", "Finance"},
		Keywords: []string{
			"port", "shipping", "supply chain", "inflation", "tariff",
			"trade", "strike", "oil", "gas", "recession", "fed",
			"interest rate", "dollar", "china", "manufacturing",
		},
	}
}

// Relevant reports whether the market belongs to a relevant category and its
// question mentions at least one relevant keyword.
func (f Filter) Relevant(m market.Market) bool {
	if !slices.Contains(f.Categories, m.Category()) {
		return false
	}
	q := strings.ToLower(m.Question())
	for _, kw := range f.Keywords {
		if strings.Contains(q, strings.ToLower(kw)) {
			return true
		}
	}
	return false
}

// Curated narrows a broad live listing to relevant markets, most active first.
type Curated struct {
	MarketSource
	filter     Filter
	fetchLimit int
}

// NewCurated wraps a source. Every listing pulls fetchLimit markets upstream before filtering.
func NewCurated(src MarketSource, filter Filter, fetchLimit int) *Curated {
	if fetchLimit <= 0 {
		fetchLimit = DefaultFetchLimit
	}
	return &Curated{MarketSource: src, filter: filter, fetchLimit: fetchLimit}
}

// Markets returns up to limit relevant markets sorted by volume.
func (c *Curated) Markets(ctx context.Context, limit int) ([]market.Market, error) {
	all, err := c.MarketSource.Markets(ctx, max(c.fetchLimit, limit))
	if err != nil {
		return nil, fmt.Errorf("fetch markets: %w", err)
	}

	out := make([]market.Market, 0, len(all))
	for _, m := range all {
		if c.filter.Relevant(m) {
			out = append(out, m)
		}
	}
	slices.SortStableFunc(out, func(a, b market.Market) int {
		switch {
		case a.Volume() > b.Volume():
			return -1
		case a.Volume() < b.Volume():
			return 1
		default:
			return 0
		}
	})
	return head(out, limit), nil
}

// HealthCheck probes the wrapped source when it supports it.
func (c *Curated) HealthCheck(ctx context.Context) error {
	if hc, ok := c.MarketSource.(healthChecker); ok {
		return hc.HealthCheck(ctx)
	}
	return nil
}

func head(in []market.Market, limit int) []market.Market {
	if limit >= 0 && limit < len(in) {
		return in[:limit]
	}
	return in
}
