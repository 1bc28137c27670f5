package db

import (
	"context"
	"time"
)

// Store is the cache facade shared by the memory and Redis backends.
type Store interface {
	Pinger
	KVStore
	Counter
	Close()
}

// Pinger checks backend connectivity.
type Pinger interface {
	Ping(ctx context.Context) error
}

// KVStore provides simple key-value operations with expiry.
type KVStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Del(ctx context.Context, key string) error
}

// Counter provides atomic integer counters stored as decimal strings.
type Counter interface {
	IncrBy(ctx context.Context, key string, val int64) error
	// Expire sets a TTL on key. When nx is true an existing expiry is left untouched.
	Expire(ctx context.Context, key string, ttl time.Duration, nx bool) error
}
