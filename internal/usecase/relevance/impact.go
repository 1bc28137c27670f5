package relevance

import (
	"github.com/simglobe/simglobe/internal/domain/match"
	"github.com/simglobe/simglobe/internal/domain/risk"
)

const (
	highBand   = 0.7
	mediumBand = 0.4
)

type phrasing struct {
	high, medium, low string
}

var impactPhrases = map[string]phrasing{
	risk.CategoryShipping: {
		high:   "High risk of 2-3 week shipping delays",
		medium: "Possible 1-2 week shipping delays",
		low:    "Minor shipping disruptions possible",
	},
	risk.CategoryTariffs: {
		high:   "Likely 10-15% cost increase",
		medium: "Potential 5-10% cost increase",
		low:    "Minimal tariff impact expected",
	},
	risk.CategoryEconomic: {
		high:   "Significant demand/pricing impact",
		medium: "Moderate market volatility",
		low:    "Low economic impact",
	},
}

const genericImpact = "Potential supply chain impact"

// DescribeImpact returns a one-line description of the expected operational effect of r.
func DescribeImpact(r risk.Event) string {
	ph, ok := impactPhrases[r.Category()]
	if !ok {
		return genericImpact
	}
	switch p := r.Probability(); {
	case p >= highBand:
		return ph.high
	case p >= mediumBand:
		return ph.medium
	default:
		return ph.low
	}
}

// DescribeMatch describes the impact of the matched risk on the matched product.
func DescribeMatch(m match.Match) string {
	return DescribeImpact(m.Risk())
}
