package briefing

import (
	"context"
	"fmt"
	"time"

	"github.com/simglobe/simglobe/internal/domain/market"
)

// MarketCount is how many markets a briefing covers.
const MarketCount = 3

const cacheKey = "latest"

// MarketBrief is one market mentioned in a briefing.
type MarketBrief struct {
	ID          string        `json:"id"`
	Title       string        `json:"title"`
	Probability float64       `json:"probability"`
	Impact      market.Impact `json:"impact"`
}

// Briefing is a spoken market update.
type Briefing struct {
	Transcript  string        `json:"transcript"`
	Markets     []MarketBrief `json:"markets"`
	GeneratedAt time.Time     `json:"generatedAt"`
}

// Service builds market briefings.
type Service struct {
	markets MarketLister
	cache   Cache
}

// New creates a Service. cache can be nil.
func New(markets MarketLister, cache Cache) *Service {
	return &Service{markets: markets, cache: cache}
}

// Transcript returns the briefing for now, served from cache unless refresh is set.
func (s *Service) Transcript(ctx context.Context, now time.Time, refresh bool) (Briefing, error) {
	if s.cache != nil && !refresh {
		if b, ok := s.cache.Get(ctx, cacheKey); ok {
			return b, nil
		}
	}

	markets, err := s.markets.List(ctx, "", MarketCount)
	if err != nil {
		return Briefing{}, fmt.Errorf("list markets: %w", err)
	}

	b := Briefing{
		Transcript:  Script(markets, now),
		Markets:     make([]MarketBrief, len(markets)),
		GeneratedAt: now,
	}
	for i, m := range markets {
		b.Markets[i] = MarketBrief{
			ID:          m.ID(),
			Title:       m.Question(),
			Probability: m.Probability(),
			Impact:      ImpactOf(m),
		}
	}

	if s.cache != nil {
		s.cache.Set(ctx, cacheKey, b)
	}
	return b, nil
}
