package analysis

import "time"

// Page names the merchant admin page an analysis is requested for.
const (
	PageGeneral   = "general"
	PageCampaigns = "campaigns"
)

// Risk levels reported by summaries and assessments.
const (
	LevelLow    = "low"
	LevelMedium = "medium"
	LevelHigh   = "high"
)

// StoreRequest asks for a store-wide risk analysis.
type StoreRequest struct {
	StoreID    string
	ProductIDs []string
	Page       string
}

// ProductRequest asks for a single product risk analysis.
type ProductRequest struct {
	ProductID string
	Name      string
	Category  string
	StoreID   string
}

// Recommendation is one suggested merchant action.
type Recommendation struct {
	Action string `json:"action"`
	Reason string `json:"reason"`
	Impact string `json:"impact"`
}

// StoreAnalysis is the analyst verdict for a store.
type StoreAnalysis struct {
	RiskScore        int              `json:"riskScore"`
	Recommendations  []Recommendation `json:"recommendations"`
	AffectedProducts []string         `json:"affectedProducts"`
	SuggestedHedge   float64          `json:"suggestedHedge"`
	Reasoning        string           `json:"reasoning"`
}

// SupplyChainRisk is a named risk with its likelihood in percent.
type SupplyChainRisk struct {
	Risk        string `json:"risk"`
	Probability int    `json:"probability"`
}

// ProductAnalysis is the analyst verdict for one product.
type ProductAnalysis struct {
	RiskScore             int               `json:"riskScore"`
	SupplyChainRisks      []SupplyChainRisk `json:"supplyChainRisks"`
	PricingRecommendation string            `json:"pricingRecommendation"`
	SuggestedHedge        float64           `json:"suggestedHedge"`
	Reasoning             string            `json:"reasoning"`
}

// Summary is a short merchant briefing over several markets.
type Summary struct {
	Text             string   `json:"summary"`
	KeyRisks         []string `json:"keyRisks"`
	OverallRiskLevel string   `json:"overallRiskLevel"`
}

// LevelOf maps an average probability onto a risk level.
func LevelOf(avgProbability float64) string {
	switch {
	case avgProbability >= 0.6:
		return LevelHigh
	case avgProbability >= 0.4:
		return LevelMedium
	default:
		return LevelLow
	}
}

// Period selects an analyst usage window. Windows are aligned to UTC.
type Period string

// Usage periods.
const (
	PeriodDay   Period = "day"
	PeriodMonth Period = "month"
)

// Window returns the bounds of the period containing t. Anything but PeriodDay is a month.
func (p Period) Window(t time.Time) (start, end time.Time) {
	t = t.UTC()
	if p == PeriodDay {
		start = time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
		return start, start.AddDate(0, 0, 1)
	}
	start = time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 1, 0)
}
