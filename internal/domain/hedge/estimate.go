package hedge

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Currency is the settlement unit of hedge amounts.
const Currency = "USDC"

// Estimate is a portfolio-level hedge recommendation.
type Estimate struct {
	RiskScore      float64
	PortfolioValue decimal.Decimal
	Percentage     decimal.Decimal
	Amount         decimal.Decimal
}

// Reasoning explains the estimate in one sentence.
func (e Estimate) Reasoning() string {
	return fmt.Sprintf("Based on risk score of %s%%, recommended hedge is %s%% of portfolio value.",
		decimal.NewFromFloat(e.RiskScore).String(), e.Percentage.String())
}

// Tier returns the share of portfolio value to hedge for a 0-100 risk score.
func Tier(riskScore float64) decimal.Decimal {
	switch {
	case riskScore >= 70:
		return decimal.NewFromInt(15)
	case riskScore >= 50:
		return decimal.NewFromInt(10)
	case riskScore >= 30:
		return decimal.NewFromInt(5)
	default:
		return decimal.NewFromInt(2)
	}
}

// EstimateFor sizes a hedge as a tiered percentage of portfolio value, rounded to whole units.
func EstimateFor(riskScore float64, portfolioValue decimal.Decimal) Estimate {
	pct := Tier(riskScore)
	return Estimate{
		RiskScore:      riskScore,
		PortfolioValue: portfolioValue,
		Percentage:     pct,
		Amount:         portfolioValue.Mul(pct).Div(decimal.NewFromInt(100)).Round(0),
	}
}
