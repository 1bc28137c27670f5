package analysis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"regexp"

	"go.uber.org/zap"

	domanalysis "github.com/simglobe/simglobe/internal/domain/analysis"
	"github.com/simglobe/simglobe/internal/domain/market"
	logpkg "github.com/simglobe/simglobe/internal/logger"
	"github.com/simglobe/simglobe/internal/metrics"
)

// jsonBlock matches from the first '{' to the last '}' of a model reply.
var jsonBlock = regexp.MustCompile(`\{[\s\S]*\}`)

var errNoJSON = errors.New("no JSON object in reply")

// LLM asks a generative model for advice and falls back to the demo analyst
// when the model fails or replies with something unparsable.
type LLM struct {
	gen      Generator
	demo     *Demo
	provider string
	budget   *Budget
	logger   *zap.Logger
}

// NewLLM creates a model-backed analyst.
func NewLLM(gen Generator, provider string, logger *zap.Logger) *LLM {
	return &LLM{gen: gen, demo: NewDemo(), provider: provider, logger: logger}
}

// WithBudget caps model requests. Requests over a rejecting budget get the demo analysis.
func (a *LLM) WithBudget(b *Budget) *LLM {
	a.budget = b
	return a
}

type storeReply struct {
	RiskScore        float64                      `json:"riskScore"`
	Recommendations  []domanalysis.Recommendation `json:"recommendations"`
	AffectedProducts []string                     `json:"affectedProducts"`
	SuggestedHedge   float64                      `json:"suggestedHedge"`
	Reasoning        string                       `json:"reasoning"`
}

type productReply struct {
	RiskScore        float64 `json:"riskScore"`
	SupplyChainRisks []struct {
		Risk        string  `json:"risk"`
		Probability float64 `json:"probability"`
	} `json:"supplyChainRisks"`
	PricingRecommendation string  `json:"pricingRecommendation"`
	SuggestedHedge        float64 `json:"suggestedHedge"`
	Reasoning             string  `json:"reasoning"`
}

// Analyze asks the model for a store analysis.
func (a *LLM) Analyze(ctx context.Context, req domanalysis.StoreRequest, markets []market.Market) (domanalysis.StoreAnalysis, error) {
	var reply storeReply
	if err := a.ask(ctx, "analyze", storePrompt(req, markets), &reply); err != nil {
		// unparsable replies fall back to the general page
		if errors.Is(err, errNoJSON) || isSyntaxError(err) {
			req.Page = domanalysis.PageGeneral
		}
		return a.demo.Analyze(ctx, req, markets)
	}

	return domanalysis.StoreAnalysis{
		RiskScore:        clampScore(reply.RiskScore),
		Recommendations:  reply.Recommendations,
		AffectedProducts: reply.AffectedProducts,
		SuggestedHedge:   math.Max(0, reply.SuggestedHedge),
		Reasoning:        reply.Reasoning,
	}, nil
}

// AnalyzeProduct asks the model for a product analysis.
func (a *LLM) AnalyzeProduct(ctx context.Context, req domanalysis.ProductRequest, markets []market.Market) (domanalysis.ProductAnalysis, error) {
	var reply productReply
	if err := a.ask(ctx, "analyze_product", productPrompt(req, markets), &reply); err != nil {
		return a.demo.AnalyzeProduct(ctx, req, markets)
	}

	risks := make([]domanalysis.SupplyChainRisk, 0, len(reply.SupplyChainRisks))
	for _, r := range reply.SupplyChainRisks {
		risks = append(risks, domanalysis.SupplyChainRisk{Risk: r.Risk, Probability: clampScore(r.Probability)})
	}
	return domanalysis.ProductAnalysis{
		RiskScore:             clampScore(reply.RiskScore),
		SupplyChainRisks:      risks,
		PricingRecommendation: reply.PricingRecommendation,
		SuggestedHedge:        math.Max(0, reply.SuggestedHedge),
		Reasoning:             reply.Reasoning,
	}, nil
}

// Summarize asks the model for a short briefing. Key risks and the level are computed locally.
func (a *LLM) Summarize(ctx context.Context, markets []market.Market) (domanalysis.Summary, error) {
	text, err := a.gen.Generate(ctx, summaryPrompt(markets))
	if err != nil {
		a.fallback(ctx, "summarize", err)
		return a.demo.Summarize(ctx, markets)
	}
	return domanalysis.Summary{
		Text:             text,
		KeyRisks:         keyRisks(markets),
		OverallRiskLevel: domanalysis.LevelOf(averageProbability(markets)),
	}, nil
}

func (a *LLM) ask(ctx context.Context, op, prompt string, out any) error {
	if a.budget != nil {
		if err := a.budget.Check(ctx); err != nil {
			a.fallback(ctx, op, err)
			return err
		}
		defer a.budget.Record(1)
	}

	text, err := a.gen.Generate(ctx, prompt)
	if err != nil {
		a.fallback(ctx, op, err)
		return err
	}
	if err := decodeReply(text, out); err != nil {
		a.fallback(ctx, op, err)
		return err
	}
	return nil
}

func (a *LLM) fallback(ctx context.Context, op string, err error) {
	metrics.ProviderFallbacksTotal.WithLabelValues(a.provider, op).Inc()
	logpkg.FromContextOr(ctx, a.logger).Warn("Analyst failed, serving demo analysis",
		zap.String("provider", a.provider),
		zap.String("operation", op),
		zap.Error(err),
	)
}

// decodeReply parses the first JSON object embedded in a model reply.
func decodeReply(text string, out any) error {
	block := jsonBlock.FindString(text)
	if block == "" {
		return errNoJSON
	}
	if err := json.Unmarshal([]byte(block), out); err != nil {
		return fmt.Errorf("decode reply: %w", err)
	}
	return nil
}

func isSyntaxError(err error) bool {
	var se *json.SyntaxError
	var te *json.UnmarshalTypeError
	return errors.As(err, &se) || errors.As(err, &te)
}

func clampScore(v float64) int {
	if math.IsNaN(v) {
		return 0
	}
	return int(math.Round(math.Min(100, math.Max(0, v))))
}
