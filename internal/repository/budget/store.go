package budget

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/simglobe/simglobe/internal/db"
	"github.com/simglobe/simglobe/internal/domain"
	domanalysis "github.com/simglobe/simglobe/internal/domain/analysis"
)

// store is the consumer interface for budget counters (ISP).
type store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	IncrBy(ctx context.Context, key string, val int64) error
	Expire(ctx context.Context, key string, ttl time.Duration, nx bool) error
}

// Store keeps one request counter per provider and usage window.
// A counter expires grace after its window ends.
type Store struct {
	store store
	grace time.Duration
}

// New creates a budget store.
func New(s store, grace time.Duration) *Store {
	return &Store{store: s, grace: max(grace, 0)}
}

// Add counts n requests against the window of period containing at.
func (s *Store) Add(ctx context.Context, provider string, period domanalysis.Period, at time.Time, n int64) error {
	w := windowOf(provider, period, at)
	if err := s.store.IncrBy(ctx, w.key, n); err != nil {
		return fmt.Errorf("add to %s: %w", w.key, err)
	}

	// NX keeps the expiry set by the window's first request.
	if err := s.store.Expire(ctx, w.key, w.end.Sub(at)+s.grace, true); err != nil {
		return fmt.Errorf("expire %s: %w", w.key, err)
	}
	return nil
}

// Count returns the requests counted in the window of period containing at.
func (s *Store) Count(ctx context.Context, provider string, period domanalysis.Period, at time.Time) (int64, error) {
	w := windowOf(provider, period, at)
	data, err := s.store.Get(ctx, w.key)
	if errors.Is(err, db.ErrKeyNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("count %s: %w", w.key, err)
	}

	n, err := strconv.ParseInt(string(data), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("count %s: %w", w.key, err)
	}
	return n, nil
}

type window struct {
	key string
	end time.Time
}

// windowOf names the counter simglobe:budget:{provider}:daily:YYYY-MM-DD or :monthly:YYYY-MM.
func windowOf(provider string, period domanalysis.Period, at time.Time) window {
	start, end := period.Window(at)
	label, stamp := "monthly", start.Format("2006-01")
	if period == domanalysis.PeriodDay {
		label, stamp = "daily", start.Format("2006-01-02")
	}
	return window{
		key: fmt.Sprintf("%sbudget:%s:%s:%s", domain.KeyPrefix, provider, label, stamp),
		end: end,
	}
}
