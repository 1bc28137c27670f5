package analysis

import (
	"fmt"
	"strings"

	domanalysis "github.com/simglobe/simglobe/internal/domain/analysis"
	"github.com/simglobe/simglobe/internal/domain/market"
)

func storePrompt(req domanalysis.StoreRequest, markets []market.Market) string {
	var b strings.Builder
	b.WriteString("You are a business analyst for an e-commerce store. ")
	b.WriteString("Analyze how prediction market events could impact business operations.\n\n")
	fmt.Fprintf(&b, "Store ID: %s\n", req.StoreID)
	fmt.Fprintf(&b, "Current page context: %s\n", req.Page)
	if len(req.ProductIDs) > 0 {
		fmt.Fprintf(&b, "Product IDs: %s\n", strings.Join(req.ProductIDs, ", "))
	}
	b.WriteString("\nCurrent Market Events:\n")
	writeMarkets(&b, markets, " probability")
	b.WriteString(`
Provide analysis as JSON:
{
  "riskScore": <0-100>,
  "recommendations": [
    {"action": "<specific action>", "reason": "<why>", "impact": "<estimated $ impact>"}
  ],
  "affectedProducts": ["<product IDs at risk>"],
  "suggestedHedge": <$ amount>,
  "reasoning": "<brief explanation>"
}

`)
	fmt.Fprintf(&b, "Be specific and actionable. Focus on the %s page context.", req.Page)
	return b.String()
}

func productPrompt(req domanalysis.ProductRequest, markets []market.Market) string {
	name := req.Name
	if name == "" {
		name = req.ProductID
	}
	category := req.Category
	if category == "" {
		category = "Unknown"
	}

	var b strings.Builder
	b.WriteString("Analyze supply chain and pricing risks for this product:\n\n")
	fmt.Fprintf(&b, "Product: %s\nCategory: %s\n\nMarket Events:\n", name, category)
	writeMarkets(&b, markets, "")
	b.WriteString(`
Respond as JSON:
{
  "riskScore": <0-100>,
  "supplyChainRisks": [{"risk": "<description>", "probability": <0-100>}],
  "pricingRecommendation": "<suggestion>",
  "suggestedHedge": <$ amount>,
  "reasoning": "<explanation>"
}`)
	return b.String()
}

func summaryPrompt(markets []market.Market) string {
	var b strings.Builder
	b.WriteString("Summarize these prediction market events for an e-commerce merchant in 2-3 sentences:\n")
	writeMarkets(&b, markets, "")
	b.WriteString("\nFocus on business implications.")
	return b.String()
}

func writeMarkets(b *strings.Builder, markets []market.Market, suffix string) {
	for _, m := range markets {
		fmt.Fprintf(b, "- %s: %d%%%s\n", m.Question(), percent(m.Probability()), suffix)
	}
}
