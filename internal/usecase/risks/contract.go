package risks

import (
	"context"

	"github.com/simglobe/simglobe/internal/domain/market"
)

// MarketSource reads prediction markets from a provider.
type MarketSource interface {
	Markets(ctx context.Context, limit int) ([]market.Market, error)
	Market(ctx context.Context, id string) (market.Market, error)
	Search(ctx context.Context, query string, limit int) ([]market.Market, error)
}

// ListCache memoizes market listings.
type ListCache interface {
	GetOrLoad(
		ctx context.Context, key string,
		load func(context.Context) ([]market.Snapshot, error),
	) ([]market.Snapshot, error)
}

// healthChecker is implemented by sources that can probe their upstream.
type healthChecker interface {
	HealthCheck(ctx context.Context) error
}
