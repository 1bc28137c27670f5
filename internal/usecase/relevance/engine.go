package relevance

import (
	"cmp"
	"fmt"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/simglobe/simglobe/internal/domain/match"
	"github.com/simglobe/simglobe/internal/domain/product"
	"github.com/simglobe/simglobe/internal/domain/risk"
)

// minTokenLen is the exclusive lower bound on token length for the direct-overlap pass.
const minTokenLen = 3

// Impact thresholds for the risk -> products direction.
const (
	highImpactScore       = 20
	highImpactProbability = 0.6
	medImpactScore        = 10
	medImpactProbability  = 0.4
)

// Weights are the per-evidence score contributions.
type Weights struct {
	Keyword  int
	Category int
	Direct   int
}

// HedgeBounds shape the hedge fraction: Base + avgProbability*Span.
type HedgeBounds struct {
	Base float64
	Span float64
}

// Config holds the tunable heuristic constants of the engine.
type Config struct {
	Weights Weights
	Hedge   HedgeBounds
}

// DefaultConfig returns the prototype constants: 10/15/5 and a 20%..50% hedge.
func DefaultConfig() Config {
	return Config{
		Weights: Weights{Keyword: 10, Category: 15, Direct: 5},
		Hedge:   HedgeBounds{Base: 0.2, Span: 0.3},
	}
}

// Engine links products to risk events and sizes hedges.
// Stateless after construction; safe for concurrent use.
type Engine struct {
	cfg Config
}

// New creates an engine. Non-positive weights fall back to the defaults.
func New(cfg Config) *Engine {
	def := DefaultConfig()
	if cfg.Weights.Keyword <= 0 {
		cfg.Weights.Keyword = def.Weights.Keyword
	}
	if cfg.Weights.Category <= 0 {
		cfg.Weights.Category = def.Weights.Category
	}
	if cfg.Weights.Direct <= 0 {
		cfg.Weights.Direct = def.Weights.Direct
	}
	if cfg.Hedge.Base < 0 || cfg.Hedge.Span < 0 || cfg.Hedge.Base+cfg.Hedge.Span > 1 ||
		(cfg.Hedge.Base == 0 && cfg.Hedge.Span == 0) {
		cfg.Hedge = def.Hedge
	}
	return &Engine{cfg: cfg}
}

// Config returns the effective configuration.
func (e *Engine) Config() Config { return e.cfg }

// ForProduct returns the risks with positive evidence for the product, ranked by score.
// Impact level is not computed in this direction.
func (e *Engine) ForProduct(p product.Product, risks []risk.Event) []match.Match {
	productText := productText(p)

	var matches []match.Match
	for _, r := range risks {
		riskText := riskText(r)
		score, reasons := e.linkScore(p, r, productText, riskText)
		s, rs := e.directScore(productText, riskText)
		score += s
		reasons = append(reasons, rs...)

		if score > 0 {
			matches = append(matches, match.New(p, r, score, reasons, match.ImpactNone))
		}
	}

	rank(matches)
	return matches
}

// ForRisk returns the products with positive evidence for the risk, ranked by score,
// each with an impact level derived from score and risk probability.
func (e *Engine) ForRisk(r risk.Event, products []product.Product) []match.Match {
	riskText := riskText(r)

	var matches []match.Match
	for _, p := range products {
		productText := productText(p)
		score, reasons := e.linkScore(p, r, productText, riskText)
		s, rs := e.directScore(riskText, productText)
		score += s
		reasons = append(reasons, rs...)

		if score > 0 {
			level := impactLevel(score, r.Probability())
			matches = append(matches, match.New(p, r, score, reasons, level))
		}
	}

	rank(matches)
	return matches
}

// linkScore runs the keyword-linkage and category-linkage passes.
func (e *Engine) linkScore(p product.Product, r risk.Event, productText, riskText string) (int, []string) {
	score := 0
	var reasons []string

	for _, link := range keywordTable {
		if !strings.Contains(productText, link.keyword) {
			continue
		}
		for _, term := range link.related {
			if strings.Contains(riskText, term) {
				score += e.cfg.Weights.Keyword
				reasons = append(reasons, fmt.Sprintf(`"%s" links to "%s"`, link.keyword, term))
			}
		}
	}

	if slices.Contains(categoryTable[p.Category()], r.Category()) {
		score += e.cfg.Weights.Category
		reasons = append(reasons, fmt.Sprintf(`Category "%s" affected by %s`, p.Category(), r.Category()))
	}

	return score, reasons
}

// directScore adds evidence for every token of from (longer than minTokenLen runes)
// found as a substring of in. Repeated tokens count each time.
func (e *Engine) directScore(from, in string) (int, []string) {
	score := 0
	var reasons []string
	for _, tok := range strings.Fields(from) {
		if utf8.RuneCountInString(tok) <= minTokenLen {
			continue
		}
		if strings.Contains(in, tok) {
			score += e.cfg.Weights.Direct
			reasons = append(reasons, fmt.Sprintf(`Direct match: "%s"`, tok))
		}
	}
	return score, reasons
}

func impactLevel(score int, probability float64) match.ImpactLevel {
	switch {
	case score >= highImpactScore && probability >= highImpactProbability:
		return match.ImpactHigh
	case score >= medImpactScore && probability >= medImpactProbability:
		return match.ImpactMedium
	default:
		return match.ImpactLow
	}
}

// rank sorts by score descending; equal scores keep input order.
func rank(matches []match.Match) {
	slices.SortStableFunc(matches, func(a, b match.Match) int {
		return cmp.Compare(b.Score(), a.Score())
	})
}

func productText(p product.Product) string {
	return strings.ToLower(p.Name() + " " + p.Category() + " " + p.Description())
}

func riskText(r risk.Event) string {
	return strings.ToLower(r.Title() + " " + r.Description() + " " + r.Category())
}
