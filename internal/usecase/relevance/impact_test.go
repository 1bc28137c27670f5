package relevance

import (
	"testing"

	"github.com/simglobe/simglobe/internal/domain/match"
	"github.com/simglobe/simglobe/internal/domain/product"
	"github.com/simglobe/simglobe/internal/domain/risk"
)

func TestDescribeImpact(t *testing.T) {
	tests := []struct {
		category string
		p        float64
		want     string
	}{
		{risk.CategoryShipping, 0.78, "High risk of 2-3 week shipping delays"},
		{risk.CategoryShipping, 0.7, "High risk of 2-3 week shipping delays"},
		{risk.CategoryShipping, 0.5, "Possible 1-2 week shipping delays"},
		{risk.CategoryShipping, 0.1, "Minor shipping disruptions possible"},
		{risk.CategoryTariffs, 0.9, "Likely 10-15% cost increase"},
		{risk.CategoryTariffs, 0.4, "Potential 5-10% cost increase"},
		{risk.CategoryTariffs, 0.39, "Minimal tariff impact expected"},
		{risk.CategoryEconomic, 0.71, "Significant demand/pricing impact"},
		{risk.CategoryEconomic, 0.55, "Moderate market volatility"},
		{risk.CategoryEconomic, 0, "Low economic impact"},
		{"Weather", 0.95, "Potential supply chain impact"},
		{"", 0.2, "Potential supply chain impact"},
	}
	for _, tc := range tests {
		r := risk.New("r", "", "", tc.category, tc.p, 0)
		if got := DescribeImpact(r); got != tc.want {
			t.Errorf("DescribeImpact(%s, %v) = %q, want %q", tc.category, tc.p, got, tc.want)
		}
	}
}

func TestDescribeMatch(t *testing.T) {
	r := risk.New("r", "", "", risk.CategoryTariffs, 0.8, 0)
	m := match.New(product.New("p", "", "", ""), r, 15, nil, match.ImpactHigh)
	if got := DescribeMatch(m); got != "Likely 10-15% cost increase" {
		t.Errorf("DescribeMatch() = %q", got)
	}
}
