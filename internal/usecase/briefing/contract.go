package briefing

import (
	"context"

	"github.com/simglobe/simglobe/internal/domain/market"
)

// MarketLister lists the current relevant markets.
type MarketLister interface {
	List(ctx context.Context, category string, limit int) ([]market.Market, error)
}

// Cache keeps the last generated briefing.
type Cache interface {
	Get(ctx context.Context, key string) (Briefing, bool)
	Set(ctx context.Context, key string, v Briefing)
}
