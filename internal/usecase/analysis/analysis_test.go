package analysis

import (
	"context"
	"errors"
	"os"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	domanalysis "github.com/simglobe/simglobe/internal/domain/analysis"
	"github.com/simglobe/simglobe/internal/domain/market"
	"github.com/simglobe/simglobe/internal/metrics"
)

func TestMain(m *testing.M) {
	metrics.RegisterProviderMetrics()
	os.Exit(m.Run())
}

// --- Mocks ---

type mockGenerator struct {
	reply   string
	err     error
	prompts []string
}

func (m *mockGenerator) Generate(_ context.Context, prompt string) (string, error) {
	m.prompts = append(m.prompts, prompt)
	return m.reply, m.err
}

type mockLister struct {
	markets []market.Market
	err     error
	limits  []int
}

func (m *mockLister) List(_ context.Context, _ string, limit int) ([]market.Market, error) {
	m.limits = append(m.limits, limit)
	if m.err != nil {
		return nil, m.err
	}
	if limit < len(m.markets) {
		return m.markets[:limit], nil
	}
	return m.markets, nil
}

func mk(id, question string, p float64) market.Market {
	return market.New(id, question, "", "Economics", []string{"Yes", "No"}, []float64{p, 1 - p}, 1000, time.Time{})
}

func demoMarkets() []market.Market {
	return []market.Market{
		mk("mock-port-strike", "Will there be a port strike at LA/Long Beach in Q1 2026?", 0.78),
		mk("mock-inflation", "Will US inflation exceed 4% in January 2026?", 0.45),
		mk("mock-supply-chain", "Will there be major supply chain disruptions in Q1 2026?", 0.62),
	}
}

// --- Demo analyst ---

func TestDemo_Analyze(t *testing.T) {
	got, err := NewDemo().Analyze(context.Background(), domanalysis.StoreRequest{StoreID: "s1", Page: "general"}, demoMarkets())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.RiskScore != 78 {
		t.Errorf("riskScore = %d, want 78", got.RiskScore)
	}
	if got.SuggestedHedge != 3900 {
		t.Errorf("suggestedHedge = %v, want 3900", got.SuggestedHedge)
	}
	if len(got.Recommendations) != 3 {
		t.Fatalf("expected 3 recommendations, got %d", len(got.Recommendations))
	}
	if got.Recommendations[0].Action != "Increase prices on Summer Collection by 12%" {
		t.Errorf("unexpected first action: %s", got.Recommendations[0].Action)
	}
	if got.Recommendations[2].Action != "Hedge $3900 on prediction markets" || got.Recommendations[2].Impact != "$3900 insurance" {
		t.Errorf("unexpected hedge recommendation: %+v", got.Recommendations[2])
	}
	want := "The Will there be a port strike at LA/Long Beach in Q1 2026? poses significant risk to your supply chain."
	if got.Reasoning != want {
		t.Errorf("reasoning = %q", got.Reasoning)
	}
}

func TestDemo_AnalyzeCampaignsPage(t *testing.T) {
	got, _ := NewDemo().Analyze(context.Background(), domanalysis.StoreRequest{Page: domanalysis.PageCampaigns}, demoMarkets())
	if got.Recommendations[0].Action != "Pause high-budget campaigns temporarily" {
		t.Errorf("unexpected first action: %s", got.Recommendations[0].Action)
	}
}

func TestDemo_AnalyzeWithoutMarkets(t *testing.T) {
	got, _ := NewDemo().Analyze(context.Background(), domanalysis.StoreRequest{}, nil)
	if got.RiskScore != 50 || got.SuggestedHedge != 2500 {
		t.Errorf("unexpected defaults: %d %v", got.RiskScore, got.SuggestedHedge)
	}
	if !strings.Contains(got.Reasoning, "Market uncertainty") {
		t.Errorf("unexpected reasoning: %s", got.Reasoning)
	}
}

func TestDemo_AnalyzeProduct(t *testing.T) {
	got, _ := NewDemo().AnalyzeProduct(context.Background(), domanalysis.ProductRequest{Name: "Air Max"}, demoMarkets())
	// avg(0.78, 0.45, 0.62) = 0.6167
	if got.RiskScore != 62 {
		t.Errorf("riskScore = %d, want 62", got.RiskScore)
	}
	if got.SuggestedHedge != 620 {
		t.Errorf("suggestedHedge = %v, want 620", got.SuggestedHedge)
	}
	if !strings.HasPrefix(got.PricingRecommendation, "Consider increasing price") {
		t.Errorf("unexpected pricing: %s", got.PricingRecommendation)
	}
	if !strings.HasPrefix(got.Reasoning, "Air Max may be affected") {
		t.Errorf("unexpected reasoning: %s", got.Reasoning)
	}

	low, _ := NewDemo().AnalyzeProduct(context.Background(), domanalysis.ProductRequest{}, []market.Market{mk("x", "q", 0.2)})
	if low.PricingRecommendation != "Current pricing is appropriate given market conditions" {
		t.Errorf("unexpected pricing: %s", low.PricingRecommendation)
	}
	if !strings.HasPrefix(low.Reasoning, "This product") {
		t.Errorf("unexpected reasoning: %s", low.Reasoning)
	}
}

func TestDemo_Summarize(t *testing.T) {
	got, _ := NewDemo().Summarize(context.Background(), demoMarkets())
	if got.OverallRiskLevel != domanalysis.LevelHigh {
		t.Errorf("level = %s, want high", got.OverallRiskLevel)
	}
	if len(got.KeyRisks) != 2 || got.KeyRisks[0] != demoMarkets()[0].Question() {
		t.Errorf("unexpected key risks: %v", got.KeyRisks)
	}

	empty, _ := NewDemo().Summarize(context.Background(), nil)
	if empty.OverallRiskLevel != domanalysis.LevelLow || len(empty.KeyRisks) != 0 {
		t.Errorf("unexpected empty summary: %+v", empty)
	}
}

// --- LLM analyst ---

func TestLLM_AnalyzeParsesEmbeddedJSON(t *testing.T) {
	gen := &mockGenerator{reply: "Sure! Here you go:\n```json\n" +
		`{"riskScore": 71.6, "recommendations": [{"action": "Raise prices", "reason": "Strike", "impact": "+$100"}],` +
		` "affectedProducts": ["p1"], "suggestedHedge": 1200, "reasoning": "Ports."}` + "\n```"}
	a := NewLLM(gen, "test", zap.NewNop())

	got, err := a.Analyze(context.Background(), domanalysis.StoreRequest{
		StoreID: "store-9", ProductIDs: []string{"p1", "p2"}, Page: "products",
	}, demoMarkets())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.RiskScore != 72 || got.SuggestedHedge != 1200 || got.Reasoning != "Ports." {
		t.Errorf("unexpected analysis: %+v", got)
	}
	if len(got.Recommendations) != 1 || got.Recommendations[0].Action != "Raise prices" {
		t.Errorf("unexpected recommendations: %+v", got.Recommendations)
	}

	prompt := gen.prompts[0]
	for _, want := range []string{
		"Store ID: store-9",
		"Current page context: products",
		"Product IDs: p1, p2",
		"- Will there be a port strike at LA/Long Beach in Q1 2026?: 78% probability",
		"Focus on the products page context.",
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
}

func TestLLM_AnalyzeFallsBack(t *testing.T) {
	tests := []struct {
		name     string
		gen      *mockGenerator
		wantPage string
	}{
		{"provider error keeps page", &mockGenerator{err: errors.New("quota")}, domanalysis.PageCampaigns},
		{"no json resets page", &mockGenerator{reply: "I cannot help with that."}, domanalysis.PageGeneral},
		{"broken json resets page", &mockGenerator{reply: `{"riskScore": }`}, domanalysis.PageGeneral},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			a := NewLLM(tc.gen, "test", zap.NewNop())
			got, err := a.Analyze(context.Background(), domanalysis.StoreRequest{Page: domanalysis.PageCampaigns}, demoMarkets())
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got.RiskScore != 78 {
				t.Errorf("expected demo analysis, got riskScore %d", got.RiskScore)
			}
			campaigns := got.Recommendations[0].Action == "Pause high-budget campaigns temporarily"
			if campaigns != (tc.wantPage == domanalysis.PageCampaigns) {
				t.Errorf("fallback used wrong page, first action %q", got.Recommendations[0].Action)
			}
		})
	}
}

func TestLLM_AnalyzeProduct(t *testing.T) {
	gen := &mockGenerator{reply: `{"riskScore": 40, "supplyChainRisks": [{"risk": "Port congestion", "probability": 80.4}],` +
		` "pricingRecommendation": "Hold", "suggestedHedge": 300, "reasoning": "ok"}`}
	a := NewLLM(gen, "test", zap.NewNop())

	got, err := a.AnalyzeProduct(context.Background(), domanalysis.ProductRequest{ProductID: "gid://1"}, demoMarkets())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.RiskScore != 40 || len(got.SupplyChainRisks) != 1 || got.SupplyChainRisks[0].Probability != 80 {
		t.Errorf("unexpected analysis: %+v", got)
	}
	if !strings.Contains(gen.prompts[0], "Product: gid://1\nCategory: Unknown") {
		t.Errorf("unexpected prompt: %s", gen.prompts[0])
	}

	bad := NewLLM(&mockGenerator{reply: "nope"}, "test", zap.NewNop())
	got, _ = bad.AnalyzeProduct(context.Background(), domanalysis.ProductRequest{Name: "Tee"}, demoMarkets())
	if got.RiskScore != 62 {
		t.Errorf("expected demo fallback, got %d", got.RiskScore)
	}
}

func TestLLM_Summarize(t *testing.T) {
	gen := &mockGenerator{reply: "Shipping risk is high."}
	a := NewLLM(gen, "test", zap.NewNop())

	got, err := a.Summarize(context.Background(), demoMarkets())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Text != "Shipping risk is high." || got.OverallRiskLevel != domanalysis.LevelHigh || len(got.KeyRisks) != 2 {
		t.Errorf("unexpected summary: %+v", got)
	}
	if !strings.HasPrefix(gen.prompts[0], "Summarize these prediction market events") {
		t.Errorf("unexpected prompt: %s", gen.prompts[0])
	}

	failing := NewLLM(&mockGenerator{err: errors.New("down")}, "test", zap.NewNop())
	got, _ = failing.Summarize(context.Background(), demoMarkets())
	if got.Text != demoSummaryText {
		t.Errorf("expected demo text, got %q", got.Text)
	}
}

// --- Service ---

func TestService_FetchesMarketsPerOperation(t *testing.T) {
	lister := &mockLister{markets: demoMarkets()}
	svc := New(lister, NewDemo())
	ctx := context.Background()

	got, err := svc.Analyze(ctx, domanalysis.StoreRequest{StoreID: "s"})
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if got.RiskScore != 78 {
		t.Errorf("riskScore = %d", got.RiskScore)
	}
	if _, err := svc.AnalyzeProduct(ctx, domanalysis.ProductRequest{ProductID: "p"}); err != nil {
		t.Fatalf("AnalyzeProduct: %v", err)
	}
	if _, err := svc.Summary(ctx); err != nil {
		t.Fatalf("Summary: %v", err)
	}

	want := []int{5, 5, 3}
	for i, l := range want {
		if lister.limits[i] != l {
			t.Errorf("call %d limit = %d, want %d", i, lister.limits[i], l)
		}
	}
}

func TestService_PropagatesListError(t *testing.T) {
	svc := New(&mockLister{err: errors.New("cache down")}, NewDemo())
	if _, err := svc.Summary(context.Background()); err == nil {
		t.Error("expected error")
	}
}
