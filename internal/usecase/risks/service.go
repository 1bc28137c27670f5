package risks

import (
	"context"
	"fmt"
	"strconv"

	"github.com/simglobe/simglobe/internal/domain/market"
	"github.com/simglobe/simglobe/internal/domain/risk"
)

// Listing defaults.
const (
	DefaultFetchLimit  = 50
	DefaultListLimit   = 10
	DefaultSearchLimit = 5
)

// Service answers risk feed queries.
type Service struct {
	source MarketSource
	cache  ListCache
}

// New creates a Service. cache can be nil.
func New(source MarketSource, cache ListCache) *Service {
	return &Service{source: source, cache: cache}
}

// List returns markets of the given provider category (empty for all), at most limit.
func (s *Service) List(ctx context.Context, category string, limit int) ([]market.Market, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}

	load := func(ctx context.Context) ([]market.Snapshot, error) {
		markets, err := s.source.Markets(ctx, max(DefaultFetchLimit, limit))
		if err != nil {
			return nil, fmt.Errorf("list markets: %w", err)
		}
		out := make([]market.Snapshot, 0, limit)
		for _, m := range markets {
			if category != "" && m.Category() != category {
				continue
			}
			out = append(out, m.Snapshot())
			if len(out) == limit {
				break
			}
		}
		return out, nil
	}

	var (
		snaps []market.Snapshot
		err   error
	)
	if s.cache != nil {
		snaps, err = s.cache.GetOrLoad(ctx, category+":"+strconv.Itoa(limit), load)
	} else {
		snaps, err = load(ctx)
	}
	if err != nil {
		return nil, err
	}

	out := make([]market.Market, len(snaps))
	for i, sn := range snaps {
		out[i] = market.FromSnapshot(sn)
	}
	return out, nil
}

// Get returns one market. Unknown IDs yield domain.ErrNotFound.
func (s *Service) Get(ctx context.Context, id string) (market.Market, error) {
	m, err := s.source.Market(ctx, id)
	if err != nil {
		return market.Market{}, fmt.Errorf("get market %s: %w", id, err)
	}
	return m, nil
}

// Search returns markets whose question matches query.
func (s *Service) Search(ctx context.Context, query string, limit int) ([]market.Market, error) {
	if limit <= 0 {
		limit = DefaultSearchLimit
	}
	out, err := s.source.Search(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("search markets: %w", err)
	}
	return head(out, limit), nil
}

// Events returns the current relevant markets as engine risk events.
func (s *Service) Events(ctx context.Context, limit int) ([]risk.Event, error) {
	markets, err := s.List(ctx, "", limit)
	if err != nil {
		return nil, err
	}
	return market.Events(markets), nil
}
