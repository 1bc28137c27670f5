package products

import (
	"context"
	"fmt"
	"math"

	domanalysis "github.com/simglobe/simglobe/internal/domain/analysis"
	"github.com/simglobe/simglobe/internal/domain/match"
	"github.com/simglobe/simglobe/internal/domain/product"
	"github.com/simglobe/simglobe/internal/domain/risk"
	"github.com/simglobe/simglobe/internal/usecase/relevance"
)

const (
	// DefaultEventLimit is the number of current risk events products are matched against.
	DefaultEventLimit = 10
	// baselineScore is reported for products with no matched risk.
	baselineScore = 25
)

// Assessment is the risk profile of one product against the current risk feed.
type Assessment struct {
	Product   product.Product
	Matches   []match.Match
	Impacts   []string // aligned with Matches
	RiskScore int
	RiskLevel string
	Reasoning string
	Hedge     relevance.Hedge
}

// Service links catalog products to risk events.
type Service struct {
	engine *relevance.Engine
	events EventSource
	limit  int
}

// New creates a Service. events supplies the risk feed when callers pass none.
func New(engine *relevance.Engine, events EventSource) *Service {
	return &Service{engine: engine, events: events, limit: DefaultEventLimit}
}

// MatchProduct ranks risks for the product. A nil risks slice means the current feed.
func (s *Service) MatchProduct(ctx context.Context, p product.Product, risks []risk.Event) ([]match.Match, error) {
	if risks == nil {
		var err error
		if risks, err = s.currentEvents(ctx); err != nil {
			return nil, err
		}
	}
	return s.engine.ForProduct(p, risks), nil
}

// MatchRisk ranks products for the risk.
func (s *Service) MatchRisk(r risk.Event, products []product.Product) []match.Match {
	return s.engine.ForRisk(r, products)
}

// SuggestHedge sizes a hedge for the product from its matches.
func (s *Service) SuggestHedge(p product.Product, matches []match.Match) relevance.Hedge {
	return s.engine.SuggestHedge(p, matches)
}

// Assess scores a product against the current risk feed. A missing category is
// inferred from the name and a missing description falls back to the name.
func (s *Service) Assess(ctx context.Context, p product.Product) (Assessment, error) {
	p = p.WithInferredCategory()
	if p.Description() == "" {
		p = p.WithDescription(p.Name())
	}

	matches, err := s.MatchProduct(ctx, p, nil)
	if err != nil {
		return Assessment{}, err
	}

	a := Assessment{
		Product:   p,
		Matches:   matches,
		Impacts:   make([]string, len(matches)),
		RiskScore: baselineScore,
		Reasoning: "No significant market risks detected for this product.",
	}
	for i, m := range matches {
		a.Impacts[i] = relevance.DescribeMatch(m)
	}
	if len(matches) > 0 {
		a.RiskScore = int(math.Round(averageProbability(matches) * 100))
		a.Reasoning = exposureSentence(len(matches))
		a.Hedge = s.engine.SuggestHedge(p, matches)
	}
	a.RiskLevel = LevelOf(a.RiskScore)
	return a, nil
}

// LevelOf maps a 0-100 risk score onto a level.
func LevelOf(score int) string {
	switch {
	case score >= 70:
		return domanalysis.LevelHigh
	case score >= 40:
		return domanalysis.LevelMedium
	default:
		return domanalysis.LevelLow
	}
}

func (s *Service) currentEvents(ctx context.Context) ([]risk.Event, error) {
	events, err := s.events.Events(ctx, s.limit)
	if err != nil {
		return nil, fmt.Errorf("current risk events: %w", err)
	}
	return events, nil
}

func exposureSentence(n int) string {
	plural := "s"
	if n == 1 {
		plural = ""
	}
	return fmt.Sprintf("This product is exposed to %d market risk%s based on its supply chain.", n, plural)
}

func averageProbability(matches []match.Match) float64 {
	if len(matches) == 0 {
		return 0
	}
	sum := 0.0
	for _, m := range matches {
		sum += m.Risk().Probability()
	}
	return sum / float64(len(matches))
}
