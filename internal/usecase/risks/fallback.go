package risks

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/simglobe/simglobe/internal/domain"
	"github.com/simglobe/simglobe/internal/domain/market"
	logpkg "github.com/simglobe/simglobe/internal/logger"
	"github.com/simglobe/simglobe/internal/metrics"
)

// Fallback serves demo markets whenever the live source fails.
type Fallback struct {
	live     MarketSource
	demo     MarketSource
	provider string
	logger   *zap.Logger
}

// NewFallback wraps live with demo.
func NewFallback(live, demo MarketSource, provider string, logger *zap.Logger) *Fallback {
	return &Fallback{live: live, demo: demo, provider: provider, logger: logger}
}

// Markets lists live markets, or demo markets when the live source fails.
func (f *Fallback) Markets(ctx context.Context, limit int) ([]market.Market, error) {
	out, err := f.live.Markets(ctx, limit)
	if err == nil {
		return out, nil
	}
	f.fallback(ctx, "markets", err)
	return f.demo.Markets(ctx, limit)
}

// Market reads a live market, or a demo market with the same ID when the live source fails.
func (f *Fallback) Market(ctx context.Context, id string) (market.Market, error) {
	out, err := f.live.Market(ctx, id)
	if err == nil {
		return out, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		f.fallback(ctx, "market", err)
	}
	return f.demo.Market(ctx, id)
}

// Search queries the live source, or the demo markets when the live source fails.
func (f *Fallback) Search(ctx context.Context, query string, limit int) ([]market.Market, error) {
	out, err := f.live.Search(ctx, query, limit)
	if err == nil {
		return out, nil
	}
	f.fallback(ctx, "search", err)
	return f.demo.Search(ctx, query, limit)
}

// HealthCheck reports the health of the live source.
func (f *Fallback) HealthCheck(ctx context.Context) error {
	if hc, ok := f.live.(healthChecker); ok {
		return hc.HealthCheck(ctx)
	}
	return nil
}

func (f *Fallback) fallback(ctx context.Context, op string, err error) {
	metrics.ProviderFallbacksTotal.WithLabelValues(f.provider, op).Inc()
	logpkg.FromContextOr(ctx, f.logger).Warn("Market provider failed, serving demo markets",
		zap.String("provider", f.provider),
		zap.String("operation", op),
		zap.Error(err),
	)
}
