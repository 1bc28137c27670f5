package products

import (
	"context"
	"errors"
	"slices"
	"testing"

	"github.com/simglobe/simglobe/internal/domain/product"
	"github.com/simglobe/simglobe/internal/domain/risk"
	"github.com/simglobe/simglobe/internal/usecase/relevance"
)

// --- Mocks ---

type mockEvents struct {
	events []risk.Event
	err    error
	calls  int
}

func (m *mockEvents) Events(_ context.Context, _ int) ([]risk.Event, error) {
	m.calls++
	return m.events, m.err
}

func feed() []risk.Event {
	return []risk.Event{
		risk.New("mock-port-strike", "Will there be a port strike at LA/Long Beach in Q1 2026?", "", risk.CategoryShipping, 0.8, 245000),
		risk.New("mock-tariffs", "Will new tariffs be imposed on Chinese goods in 2026?", "", risk.CategoryTariffs, 0.6, 95000),
	}
}

// --- Tests ---

func TestAssess_InfersCategoryAndScores(t *testing.T) {
	svc := New(relevance.New(relevance.DefaultConfig()), &mockEvents{events: feed()})
	p := product.New("af1", "Nike Air Force 1", "", "").WithPrice(100)

	a, err := svc.Assess(context.Background(), p)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a.Product.Category() != product.CategorySneakers {
		t.Errorf("category = %q, want Sneakers", a.Product.Category())
	}
	if a.Product.Description() != "Nike Air Force 1" {
		t.Errorf("description = %q, want the name", a.Product.Description())
	}
	if len(a.Matches) != 2 {
		t.Fatalf("expected 2 matches, got %d", len(a.Matches))
	}
	if a.RiskScore != 70 || a.RiskLevel != "high" {
		t.Errorf("score = %d level = %s, want 70 high", a.RiskScore, a.RiskLevel)
	}
	if a.Reasoning != "This product is exposed to 2 market risks based on its supply chain." {
		t.Errorf("unexpected reasoning: %s", a.Reasoning)
	}
	// 100 * 10 units * (0.2 + 0.7*0.3)
	if a.Hedge.Suggested != 410 {
		t.Errorf("hedge = %d, want 410", a.Hedge.Suggested)
	}
	if len(a.Impacts) != 2 ||
		!slices.Contains(a.Impacts, "High risk of 2-3 week shipping delays") ||
		!slices.Contains(a.Impacts, "Potential 5-10% cost increase") {
		t.Errorf("unexpected impacts: %v", a.Impacts)
	}
}

func TestAssess_NoMatches(t *testing.T) {
	svc := New(relevance.New(relevance.DefaultConfig()), &mockEvents{events: feed()})

	a, err := svc.Assess(context.Background(), product.New("gc", "Gift card", "", "").WithPrice(50))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(a.Matches) != 0 {
		t.Fatalf("expected no matches, got %d", len(a.Matches))
	}
	if a.RiskScore != 25 || a.RiskLevel != "low" || a.Hedge.Suggested != 0 {
		t.Errorf("unexpected baseline: %d %s %d", a.RiskScore, a.RiskLevel, a.Hedge.Suggested)
	}
	if a.Reasoning != "No significant market risks detected for this product." {
		t.Errorf("unexpected reasoning: %s", a.Reasoning)
	}
}

func TestAssess_SingleRiskSentence(t *testing.T) {
	events := &mockEvents{events: feed()[:1]}
	svc := New(relevance.New(relevance.DefaultConfig()), events)

	a, err := svc.Assess(context.Background(), product.New("s", "Running shoe", "", ""))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a.Reasoning != "This product is exposed to 1 market risk based on its supply chain." {
		t.Errorf("unexpected reasoning: %s", a.Reasoning)
	}
}

func TestMatchProduct_UsesFeedOnlyWhenRisksNil(t *testing.T) {
	events := &mockEvents{events: feed()}
	svc := New(relevance.New(relevance.DefaultConfig()), events)
	p := product.New("af1", "Nike Air Force 1", "Sneakers", "made in China")

	if _, err := svc.MatchProduct(context.Background(), p, []risk.Event{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if events.calls != 0 {
		t.Errorf("feed fetched for explicit empty risks")
	}

	got, err := svc.MatchProduct(context.Background(), p, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if events.calls != 1 || len(got) != 2 {
		t.Errorf("calls = %d matches = %d", events.calls, len(got))
	}
}

func TestMatchProduct_FeedError(t *testing.T) {
	boom := errors.New("boom")
	svc := New(relevance.New(relevance.DefaultConfig()), &mockEvents{err: boom})

	if _, err := svc.MatchProduct(context.Background(), product.New("1", "x", "", ""), nil); !errors.Is(err, boom) {
		t.Errorf("expected wrapped feed error, got %v", err)
	}
}

func TestMatchRisk(t *testing.T) {
	svc := New(relevance.New(relevance.DefaultConfig()), &mockEvents{})
	catalog := []product.Product{
		product.New("af1", "Nike Air Force 1", "Sneakers", "made in Vietnam"),
		product.New("gc", "Gift card", "General", ""),
	}

	got := svc.MatchRisk(feed()[0], catalog)
	if len(got) != 1 || got[0].Product().ID() != "af1" {
		t.Fatalf("unexpected matches: %d", len(got))
	}
	if !got[0].Impact().IsValid() {
		t.Errorf("reverse direction must set impact, got %q", got[0].Impact())
	}
}

func TestLevelOf(t *testing.T) {
	tests := map[int]string{100: "high", 70: "high", 69: "medium", 40: "medium", 39: "low", 0: "low"}
	for score, want := range tests {
		if got := LevelOf(score); got != want {
			t.Errorf("LevelOf(%d) = %s, want %s", score, got, want)
		}
	}
}
