package analysis

import (
	"context"
	"fmt"
	"math"

	domanalysis "github.com/simglobe/simglobe/internal/domain/analysis"
	"github.com/simglobe/simglobe/internal/domain/market"
)

const demoSummaryText = "Current market conditions show elevated risk levels. " +
	"Port strike probability at 78% could significantly impact shipping timelines. " +
	"Inflation concerns remain moderate. Consider reviewing inventory levels and pricing strategy."

// Demo derives deterministic advice from market probabilities without calling a model.
type Demo struct{}

// NewDemo creates the demo analyst.
func NewDemo() *Demo { return &Demo{} }

// Analyze scores the store by the most likely market event.
func (Demo) Analyze(_ context.Context, req domanalysis.StoreRequest, markets []market.Market) (domanalysis.StoreAnalysis, error) {
	question, p := "Market uncertainty", 0.5
	if len(markets) > 0 {
		top := markets[0]
		for _, m := range markets[1:] {
			if m.Probability() > top.Probability() {
				top = m
			}
		}
		question, p = top.Question(), top.Probability()
	}

	score := percent(p)
	hedge := score * 50

	recs := []domanalysis.Recommendation{
		{
			Action: "Increase prices on Summer Collection by 12%",
			Reason: "Port strike will delay restocks by 3 weeks",
			Impact: "+$2,300 margin preservation",
		},
		{
			Action: `Delay "Back to School" campaign launch`,
			Reason: "Supply chain uncertainty",
			Impact: "-$500 wasted ad spend",
		},
		{
			Action: fmt.Sprintf("Hedge $%d on prediction markets", hedge),
			Reason: "Protect against worst-case scenario",
			Impact: fmt.Sprintf("$%d insurance", hedge),
		},
	}
	if req.Page == domanalysis.PageCampaigns {
		recs[0] = domanalysis.Recommendation{
			Action: "Pause high-budget campaigns temporarily",
			Reason: "Market volatility detected",
			Impact: "-$1,000 potential wasted spend",
		}
	}

	return domanalysis.StoreAnalysis{
		RiskScore:        score,
		Recommendations:  recs,
		AffectedProducts: []string{"prod_123", "prod_456"},
		SuggestedHedge:   float64(hedge),
		Reasoning:        fmt.Sprintf("The %s poses significant risk to your supply chain.", question),
	}, nil
}

// AnalyzeProduct scores the product by the average market probability.
func (Demo) AnalyzeProduct(_ context.Context, req domanalysis.ProductRequest, markets []market.Market) (domanalysis.ProductAnalysis, error) {
	score := percent(averageProbability(markets))

	pricing := "Current pricing is appropriate given market conditions"
	if score > 50 {
		pricing = "Consider increasing price by 8-12% to offset potential supply chain costs"
	}
	name := req.Name
	if name == "" {
		name = "This product"
	}

	return domanalysis.ProductAnalysis{
		RiskScore: score,
		SupplyChainRisks: []domanalysis.SupplyChainRisk{
			{Risk: "Shipping delays from port congestion", Probability: 78},
			{Risk: "Raw material cost increase", Probability: 45},
		},
		PricingRecommendation: pricing,
		SuggestedHedge:        float64(score * 10),
		Reasoning:             name + " may be affected by current market events, particularly supply chain disruptions.",
	}, nil
}

// Summarize returns a canned briefing with the leading market questions.
func (Demo) Summarize(_ context.Context, markets []market.Market) (domanalysis.Summary, error) {
	return domanalysis.Summary{
		Text:             demoSummaryText,
		KeyRisks:         keyRisks(markets),
		OverallRiskLevel: domanalysis.LevelOf(averageProbability(markets)),
	}, nil
}

func averageProbability(markets []market.Market) float64 {
	if len(markets) == 0 {
		return 0
	}
	sum := 0.0
	for _, m := range markets {
		sum += m.Probability()
	}
	return sum / float64(len(markets))
}

func keyRisks(markets []market.Market) []string {
	out := make([]string, 0, 2)
	for _, m := range markets {
		if len(out) == 2 {
			break
		}
		out = append(out, m.Question())
	}
	return out
}

func percent(p float64) int {
	return int(math.Round(p * 100))
}
