package analysis

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"

	domanalysis "github.com/simglobe/simglobe/internal/domain/analysis"
)

// --- Mocks ---

type mockBudgetStore struct {
	mu      sync.Mutex
	data    map[string]int64
	getErr  error
	incrErr error
}

func newMockBudgetStore() *mockBudgetStore {
	return &mockBudgetStore{data: map[string]int64{}}
}

func counterKey(provider string, period Period, at time.Time) string {
	start, _ := period.Window(at)
	return provider + "/" + string(period) + "/" + start.Format("2006-01-02")
}

func (m *mockBudgetStore) Add(_ context.Context, provider string, period Period, at time.Time, n int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.incrErr != nil {
		return m.incrErr
	}
	m.data[counterKey(provider, period, at)] += n
	return nil
}

func (m *mockBudgetStore) Count(_ context.Context, provider string, period Period, at time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return 0, m.getErr
	}
	return m.data[counterKey(provider, period, at)], nil
}

func fixedBudget(daily, monthly int64, action BudgetAction, now time.Time) *Budget {
	b := NewBudget("gemini", daily, monthly, action, zap.NewNop())
	b.now = func() time.Time { return now }
	b.lastDayReset = truncateToDay(now)
	b.lastMonthReset = truncateToMonth(now)
	return b
}

var budgetClock = time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC)

// --- Tests ---

func TestBudget_RejectWhenExceeded(t *testing.T) {
	b := fixedBudget(3, 0, BudgetActionReject, budgetClock)
	ctx := context.Background()

	b.Record(2)
	if err := b.Check(ctx); err != nil {
		t.Fatalf("below limit: %v", err)
	}
	b.Record(1)
	if err := b.Check(ctx); !errors.Is(err, ErrBudgetExhausted) {
		t.Fatalf("expected ErrBudgetExhausted, got %v", err)
	}
}

func TestBudget_WarnAllows(t *testing.T) {
	b := fixedBudget(1, 1, BudgetActionWarn, budgetClock)
	b.Record(5)
	if err := b.Check(context.Background()); err != nil {
		t.Fatalf("warn action must allow, got %v", err)
	}
}

func TestBudget_MonthlyReject(t *testing.T) {
	b := fixedBudget(0, 10, BudgetActionReject, budgetClock)
	b.Record(10)
	if err := b.Check(context.Background()); !errors.Is(err, ErrBudgetExhausted) {
		t.Fatalf("expected monthly limit to reject, got %v", err)
	}
}

func TestBudget_DayRollover(t *testing.T) {
	now := budgetClock
	b := fixedBudget(2, 0, BudgetActionReject, now)
	b.Record(2)

	now = now.Add(24 * time.Hour)
	b.now = func() time.Time { return now }
	if err := b.Check(context.Background()); err != nil {
		t.Fatalf("expected reset on a new day, got %v", err)
	}
}

func TestBudget_Usage(t *testing.T) {
	b := fixedBudget(100, 0, BudgetActionWarn, budgetClock)
	b.Record(30)

	day := b.Usage(PeriodDay)
	if day.Limit != 100 || day.Used != 30 || day.Remaining != 70 || day.Exhausted {
		t.Errorf("unexpected day usage: %+v", day)
	}
	if !day.Start.Equal(time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC)) ||
		!day.ResetsAt.Equal(time.Date(2026, 1, 11, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("unexpected day window: %v - %v", day.Start, day.ResetsAt)
	}

	month := b.Usage(PeriodMonth)
	if month.Limit != 0 || month.Remaining != -1 || month.Used != 30 {
		t.Errorf("unexpected month usage: %+v", month)
	}
	if !month.ResetsAt.Equal(time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("month resets at %v", month.ResetsAt)
	}

	b.Record(80)
	if day := b.Usage(PeriodDay); day.Remaining != 0 || !day.Exhausted {
		t.Errorf("expected exhausted day, got %+v", day)
	}
}

func TestBudget_WithStoreLoadsAndPersists(t *testing.T) {
	store := newMockBudgetStore()
	dayKey := counterKey("gemini", PeriodDay, budgetClock)
	monthKey := counterKey("gemini", PeriodMonth, budgetClock)
	store.data[dayKey] = 4
	store.data[monthKey] = 40

	b := fixedBudget(5, 0, BudgetActionReject, budgetClock).WithStore(context.Background(), store)
	if got := b.Usage(PeriodDay).Used; got != 4 {
		t.Fatalf("loaded daily used = %d, want 4", got)
	}

	b.Record(1)
	if store.data[dayKey] != 5 || store.data[monthKey] != 41 {
		t.Errorf("store not updated: %v", store.data)
	}
	if err := b.Check(context.Background()); !errors.Is(err, ErrBudgetExhausted) {
		t.Errorf("expected exhausted after persisted usage, got %v", err)
	}
}

func TestBudget_StoreErrorsAreNotFatal(t *testing.T) {
	store := newMockBudgetStore()
	store.getErr = errors.New("down")
	store.incrErr = errors.New("down")

	b := fixedBudget(10, 0, BudgetActionReject, budgetClock).WithStore(context.Background(), store)
	b.Record(3)
	if got := b.Usage(PeriodDay).Used; got != 3 {
		t.Errorf("in-memory usage = %d, want 3", got)
	}
}

func TestLLM_BudgetExhaustedServesDemo(t *testing.T) {
	gen := &mockGenerator{reply: `{"riskScore": 12, "recommendations": [], "reasoning": "model"}`}
	b := fixedBudget(1, 0, BudgetActionReject, budgetClock)
	a := NewLLM(gen, "gemini", zap.NewNop()).WithBudget(b)
	ctx := context.Background()

	first, err := a.Analyze(ctx, domanalysis.StoreRequest{StoreID: "s1"}, demoMarkets())
	if err != nil || first.RiskScore != 12 {
		t.Fatalf("first call should use the model: %d, %v", first.RiskScore, err)
	}

	second, err := a.Analyze(ctx, domanalysis.StoreRequest{StoreID: "s1"}, demoMarkets())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if second.RiskScore != 78 {
		t.Errorf("expected demo analysis once the budget is spent, got %d", second.RiskScore)
	}
	if len(gen.prompts) != 1 {
		t.Errorf("model called %d times, want 1", len(gen.prompts))
	}
}

func TestService_UsageWithoutBudget(t *testing.T) {
	svc := New(&mockLister{}, NewDemo())
	u := svc.Usage(PeriodDay)
	if u.Limit != 0 || u.Remaining != -1 || u.Exhausted {
		t.Errorf("expected unlimited usage, got %+v", u)
	}

	b := fixedBudget(10, 0, BudgetActionWarn, budgetClock)
	b.Record(4)
	if got := svc.WithUsage(b).Usage(PeriodDay); got.Used != 4 || got.Provider != "gemini" {
		t.Errorf("unexpected usage: %+v", got)
	}
}
