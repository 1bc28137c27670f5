package analysis

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	domanalysis "github.com/simglobe/simglobe/internal/domain/analysis"
)

// ErrBudgetExhausted is returned by Budget.Check when a limit is reached and the action is reject.
var ErrBudgetExhausted = errors.New("analyst request budget exhausted")

// BudgetAction defines behavior when the request budget is exceeded.
type BudgetAction string

const (
	// BudgetActionWarn logs a warning but allows the request.
	BudgetActionWarn BudgetAction = "warn"
	// BudgetActionReject skips the model and serves the demo analysis.
	BudgetActionReject BudgetAction = "reject"
)

// Period selects the usage window.
type Period = domanalysis.Period

// Usage periods.
const (
	PeriodDay   = domanalysis.PeriodDay
	PeriodMonth = domanalysis.PeriodMonth
)

// Usage reports analyst requests against one budget window.
// Limit is 0 and Remaining -1 when the window is unlimited.
type Usage struct {
	Provider  string
	Period    Period
	Start     time.Time
	ResetsAt  time.Time
	Limit     int64
	Used      int64
	Remaining int64
	Exhausted bool
}

// Budget counts model requests per UTC day and month.
// Check is in-memory only; Record writes behind to the attached store.
type Budget struct {
	mu             sync.Mutex
	dailyUsed      int64
	monthlyUsed    int64
	dailyLimit     int64
	monthlyLimit   int64
	action         BudgetAction
	provider       string
	lastDayReset   time.Time
	lastMonthReset time.Time
	store          BudgetStore
	now            func() time.Time
	logger         *zap.Logger
}

// NewBudget creates a request budget. A zero limit disables that window.
func NewBudget(provider string, dailyLimit, monthlyLimit int64, action BudgetAction, logger *zap.Logger) *Budget {
	b := &Budget{
		dailyLimit:   dailyLimit,
		monthlyLimit: monthlyLimit,
		action:       action,
		provider:     provider,
		now:          time.Now,
		logger:       logger,
	}
	now := b.now().UTC()
	b.lastDayReset = truncateToDay(now)
	b.lastMonthReset = truncateToMonth(now)
	return b
}

// WithStore attaches a persistence store and loads the current counters from it.
func (b *Budget) WithStore(ctx context.Context, store BudgetStore) *Budget {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.store = store
	now := b.now().UTC()

	if val, err := store.Count(ctx, b.provider, PeriodDay, now); err == nil {
		b.dailyUsed = val
	} else {
		b.logger.Warn("Failed to load daily analyst budget", zap.Error(err))
	}
	if val, err := store.Count(ctx, b.provider, PeriodMonth, now); err == nil {
		b.monthlyUsed = val
	} else {
		b.logger.Warn("Failed to load monthly analyst budget", zap.Error(err))
	}

	b.logger.Info("Analyst budget loaded",
		zap.String("provider", b.provider),
		zap.Int64("daily_used", b.dailyUsed),
		zap.Int64("monthly_used", b.monthlyUsed),
	)
	return b
}

// Check reports whether another model request is allowed.
func (b *Budget) Check(_ context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.resetIfNeeded()

	dailyExceeded := b.dailyLimit > 0 && b.dailyUsed >= b.dailyLimit
	monthlyExceeded := b.monthlyLimit > 0 && b.monthlyUsed >= b.monthlyLimit
	if !dailyExceeded && !monthlyExceeded {
		return nil
	}

	if b.action == BudgetActionReject {
		return ErrBudgetExhausted
	}

	b.logger.Warn("Analyst request budget exceeded",
		zap.String("provider", b.provider),
		zap.Int64("daily_used", b.dailyUsed),
		zap.Int64("daily_limit", b.dailyLimit),
		zap.Int64("monthly_used", b.monthlyUsed),
		zap.Int64("monthly_limit", b.monthlyLimit),
	)
	return nil
}

// Record counts n model requests.
func (b *Budget) Record(n int64) {
	b.mu.Lock()
	b.resetIfNeeded()
	b.dailyUsed += n
	b.monthlyUsed += n
	store := b.store
	now := b.now().UTC()
	b.mu.Unlock()

	if store == nil {
		return
	}

	// The caller's context may already be done once the reply is in.
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := store.Add(ctx, b.provider, PeriodDay, now, n); err != nil {
		b.logger.Warn("Failed to persist daily analyst budget", zap.Error(err))
	}
	if err := store.Add(ctx, b.provider, PeriodMonth, now, n); err != nil {
		b.logger.Warn("Failed to persist monthly analyst budget", zap.Error(err))
	}
}

// Usage reports the window for period. Anything but PeriodDay reports the month.
func (b *Budget) Usage(period Period) Usage {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.resetIfNeeded()
	now := b.now().UTC()

	u := Usage{Provider: b.provider, Period: PeriodMonth}
	if period == PeriodDay {
		u.Period = PeriodDay
		u.Limit, u.Used = b.dailyLimit, b.dailyUsed
	} else {
		u.Limit, u.Used = b.monthlyLimit, b.monthlyUsed
	}
	u.Start, u.ResetsAt = u.Period.Window(now)
	u.Remaining = remaining(u.Limit, u.Used)
	u.Exhausted = u.Limit > 0 && u.Remaining == 0
	return u
}

func remaining(limit, used int64) int64 {
	if limit == 0 {
		return -1
	}
	return max(limit-used, 0)
}

// resetIfNeeded zeroes counters when the day or month rolls over.
func (b *Budget) resetIfNeeded() {
	now := b.now().UTC()
	today := truncateToDay(now)
	thisMonth := truncateToMonth(now)

	if today.After(b.lastDayReset) {
		b.dailyUsed = 0
		b.lastDayReset = today
	}
	if thisMonth.After(b.lastMonthReset) {
		b.monthlyUsed = 0
		b.lastMonthReset = thisMonth
	}
}

func truncateToDay(t time.Time) time.Time {
	start, _ := PeriodDay.Window(t)
	return start
}

func truncateToMonth(t time.Time) time.Time {
	start, _ := PeriodMonth.Window(t)
	return start
}
