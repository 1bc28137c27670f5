package match

import (
	"github.com/simglobe/simglobe/internal/domain/product"
	"github.com/simglobe/simglobe/internal/domain/risk"
)

// ImpactLevel is a coarse severity label derived from match score and risk probability.
type ImpactLevel string

// Impact levels. ImpactNone means the level was not computed.
const (
	ImpactNone   ImpactLevel = ""
	ImpactLow    ImpactLevel = "low"
	ImpactMedium ImpactLevel = "medium"
	ImpactHigh   ImpactLevel = "high"
)

// IsValid checks if the level is one of the computed values.
func (l ImpactLevel) IsValid() bool {
	return l == ImpactLow || l == ImpactMedium || l == ImpactHigh
}

// Match is a scored association between one product and one risk event.
type Match struct {
	product product.Product
	risk    risk.Event
	score   int
	reasons []string
	impact  ImpactLevel
}

// New creates a match. Reasons are deduplicated keeping first-seen order.
func New(p product.Product, r risk.Event, score int, reasons []string, impact ImpactLevel) Match {
	return Match{
		product: p,
		risk:    r,
		score:   score,
		reasons: Dedupe(reasons),
		impact:  impact,
	}
}

// Product returns the matched product.
func (m Match) Product() product.Product { return m.product }

// Risk returns the matched risk event.
func (m Match) Risk() risk.Event { return m.risk }

// Score returns the accumulated evidence score.
func (m Match) Score() int { return m.score }

// Reasons returns the human-readable evidence strings.
func (m Match) Reasons() []string { return m.reasons }

// Impact returns the impact level, ImpactNone when not computed.
func (m Match) Impact() ImpactLevel { return m.impact }

// Dedupe drops repeated strings, preserving the order of first occurrence.
func Dedupe(in []string) []string {
	if len(in) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}
