package relevance

import (
	"math"

	"github.com/shopspring/decimal"

	"github.com/simglobe/simglobe/internal/domain/match"
	"github.com/simglobe/simglobe/internal/domain/product"
)

// Hedge is a suggested amount to set aside against the risks matched to one product.
// Amounts are in the product's price currency.
type Hedge struct {
	ExposedValue       float64
	AverageProbability float64
	Fraction           float64
	Suggested          int64
}

var maxSuggested = decimal.NewFromInt(math.MaxInt64)

// SuggestHedge sizes a hedge for the product from its matches.
// Invalid prices and exposures past the float range yield a zero hedge.
// The suggestion is never negative and saturates at math.MaxInt64.
func (e *Engine) SuggestHedge(p product.Product, matches []match.Match) Hedge {
	avg := averageProbability(matches)
	fraction := e.cfg.Hedge.Base + avg*e.cfg.Hedge.Span

	exposed := decimal.Zero
	if price, ok := p.Price(); ok && validAmount(price) {
		exposed = decimal.NewFromFloat(price).Mul(decimal.NewFromInt(int64(p.UnitsAtRisk())))
	}
	exposedValue := exposed.InexactFloat64()
	if !validAmount(exposedValue) {
		exposed, exposedValue = decimal.Zero, 0
	}

	suggested := exposed.Mul(decimal.NewFromFloat(fraction)).Round(0)
	switch {
	case suggested.IsNegative():
		suggested = decimal.Zero
	case suggested.GreaterThan(maxSuggested):
		suggested = maxSuggested
	}

	return Hedge{
		ExposedValue:       exposedValue,
		AverageProbability: avg,
		Fraction:           fraction,
		Suggested:          suggested.IntPart(),
	}
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

func validAmount(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0) && v >= 0
}
