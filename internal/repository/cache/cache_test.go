package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"go.uber.org/zap"
)

type payload struct {
	Markets []string `json:"markets"`
	Count   int      `json:"count"`
}

func newCounter() *prometheus.CounterVec {
	return prometheus.NewCounterVec(prometheus.CounterOpts{Name: "test_cache_total"}, []string{"cache", "result"})
}

func TestGetOrLoad_MissThenHit(t *testing.T) {
	ms := newMockKVStore()
	counter := newCounter()
	c := New[payload](ms, "risks", time.Minute, counter, zap.NewNop())
	ctx := context.Background()

	loads := 0
	load := func(context.Context) (payload, error) {
		loads++
		return payload{Markets: []string{"mock-port-strike"}, Count: 1}, nil
	}

	first, err := c.GetOrLoad(ctx, "all:10", load)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := c.GetOrLoad(ctx, "all:10", load)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if loads != 1 {
		t.Errorf("loads = %d, want 1", loads)
	}
	if second.Count != first.Count || second.Markets[0] != "mock-port-strike" {
		t.Errorf("cached value mismatch: %+v", second)
	}
	if ms.ttls["simglobe:risks:all:10"] != time.Minute {
		t.Errorf("ttl = %v, want 1m", ms.ttls["simglobe:risks:all:10"])
	}
	if got := testutil.ToFloat64(counter.WithLabelValues("risks", "hit")); got != 1 {
		t.Errorf("hits = %v, want 1", got)
	}
	if got := testutil.ToFloat64(counter.WithLabelValues("risks", "miss")); got != 1 {
		t.Errorf("misses = %v, want 1", got)
	}
}

func TestGetOrLoad_LoadErrorNotCached(t *testing.T) {
	ms := newMockKVStore()
	c := New[payload](ms, "risks", time.Minute, nil, zap.NewNop())

	_, err := c.GetOrLoad(context.Background(), "k", func(context.Context) (payload, error) {
		return payload{}, errors.New("upstream down")
	})
	if err == nil {
		t.Fatal("expected error")
	}
	if len(ms.setKeys) != 0 {
		t.Errorf("expected nothing cached, got %v", ms.setKeys)
	}
}

func TestGetOrLoad_StoreFailuresDegrade(t *testing.T) {
	ms := newMockKVStore()
	ms.getErr = errors.New("connection refused")
	ms.setErr = errors.New("connection refused")
	c := New[payload](ms, "brief", time.Minute, nil, zap.NewNop())

	got, err := c.GetOrLoad(context.Background(), "k", func(context.Context) (payload, error) {
		return payload{Count: 3}, nil
	})
	if err != nil {
		t.Fatalf("store failure leaked: %v", err)
	}
	if got.Count != 3 {
		t.Errorf("count = %d, want 3", got.Count)
	}
}

func TestGet_CorruptValueIsMiss(t *testing.T) {
	ms := newMockKVStore()
	ms.data["simglobe:risks:k"] = []byte("{not json")
	c := New[payload](ms, "risks", time.Minute, nil, zap.NewNop())

	if _, ok := c.Get(context.Background(), "k"); ok {
		t.Error("expected miss for corrupt value")
	}
}

func TestInvalidate(t *testing.T) {
	ms := newMockKVStore()
	c := New[payload](ms, "brief", time.Minute, nil, zap.NewNop())
	ctx := context.Background()

	c.Set(ctx, "k", payload{Count: 1})
	if err := c.Invalidate(ctx, "k"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := c.Get(ctx, "k"); ok {
		t.Error("expected miss after Invalidate")
	}
}
