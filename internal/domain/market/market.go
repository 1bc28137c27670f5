package market

import (
	"strings"
	"time"
	"unicode"

	"github.com/simglobe/simglobe/internal/domain/risk"
)

// Market is a prediction-market question as reported by the market data provider,
// already normalized to numbers.
type Market struct {
	id          string
	question    string
	description string
	category    string
	outcomes    []string
	prices      []float64
	volume      float64
	endDate     time.Time
}

// New creates a market. prices are aligned with outcomes; the first one is the YES price.
func New(id, question, description, category string, outcomes []string, prices []float64, volume float64, endDate time.Time) Market {
	return Market{
		id:          id,
		question:    question,
		description: description,
		category:    category,
		outcomes:    outcomes,
		prices:      prices,
		volume:      volume,
		endDate:     endDate,
	}
}

// ID returns the provider market identifier.
func (m Market) ID() string { return m.id }

// Question returns the market question.
func (m Market) Question() string { return m.question }

// Description returns the resolution criteria.
func (m Market) Description() string { return m.description }

// Category returns the provider category (Economics, Politics, ...).
func (m Market) Category() string { return m.category }

// Outcomes returns the outcome labels.
func (m Market) Outcomes() []string { return m.outcomes }

// Prices returns the outcome prices.
func (m Market) Prices() []float64 { return m.prices }

// Volume returns the traded volume.
func (m Market) Volume() float64 { return m.volume }

// EndDate returns the resolution date, zero when unknown.
func (m Market) EndDate() time.Time { return m.endDate }

// Probability returns the YES price clamped to [0,1], 0 when no price is known.
func (m Market) Probability() float64 {
	if len(m.prices) == 0 {
		return 0
	}
	return risk.ClampProbability(m.prices[0])
}

// Impact returns the business impact label from probability and volume.
func (m Market) Impact() Impact {
	return ImpactOf(m.Probability(), m.volume)
}

// RiskCategory maps the market onto an engine risk category by the wording of its question.
func (m Market) RiskCategory() string {
	return Classify(m.question)
}

// ToRiskEvent converts the market into an engine risk event.
func (m Market) ToRiskEvent() risk.Event {
	return risk.New(m.id, m.question, m.description, m.RiskCategory(), m.Probability(), m.volume)
}

// Events converts markets into risk events, keeping order.
func Events(markets []Market) []risk.Event {
	out := make([]risk.Event, len(markets))
	for i, m := range markets {
		out[i] = m.ToRiskEvent()
	}
	return out
}

// Impact is the coarse business impact of a market.
type Impact string

// Impact labels.
const (
	ImpactLow    Impact = "low"
	ImpactMedium Impact = "medium"
	ImpactHigh   Impact = "high"
)

// ImpactOf requires both conviction and liquidity for the higher labels.
func ImpactOf(probability, volume float64) Impact {
	switch {
	case probability >= 0.70 && volume >= 100_000,
		probability >= 0.60 && volume >= 200_000:
		return ImpactHigh
	case probability >= 0.40 && volume >= 50_000,
		probability >= 0.50 && volume >= 30_000:
		return ImpactMedium
	default:
		return ImpactLow
	}
}

var (
	tariffTerms   = []string{"tariff", "trade", "customs", "import"}
	shippingTerms = []string{"port", "shipping", "strike", "supply chain", "freight"}
)

// Classify picks Tariffs, Shipping or Economic for free text. Tariff wording wins.
// Terms match at the start of a word, so "ports" counts and "reports" does not.
func Classify(text string) string {
	lower := " " + strings.Join(strings.FieldsFunc(strings.ToLower(text), isSeparator), " ")
	for _, t := range tariffTerms {
		if strings.Contains(lower, " "+t) {
			return risk.CategoryTariffs
		}
	}
	for _, t := range shippingTerms {
		if strings.Contains(lower, " "+t) {
			return risk.CategoryShipping
		}
	}
	return risk.CategoryEconomic
}

func isSeparator(r rune) bool {
	return !unicode.IsLetter(r) && !unicode.IsDigit(r)
}
