package memory

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dgraph-io/ristretto"

	"github.com/simglobe/simglobe/internal/db"
)

// Compile-time check: Store implements db.Store.
var _ db.Store = (*Store)(nil)

var (
	errClosed     = errors.New("store closed")
	errNotInteger = errors.New("value is not an integer")
)

// Config sizes the in-process cache.
type Config struct {
	// MaxCost is the total byte budget of stored values.
	MaxCost int64
	// NumCounters is the number of admission counters, ~10x the expected item count.
	NumCounters int64
}

// Store implements db.Store on top of a ristretto cache.
type Store struct {
	cache  *ristretto.Cache
	closed atomic.Bool

	// counterMu serializes read-modify-write on counters.
	counterMu sync.Mutex
}

// NewStore creates an in-process store.
func NewStore(cfg Config) (*Store, error) {
	if cfg.MaxCost <= 0 {
		cfg.MaxCost = 64 << 20
	}
	if cfg.NumCounters <= 0 {
		cfg.NumCounters = 100_000
	}

	cache, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: cfg.NumCounters,
		MaxCost:     cfg.MaxCost,
		BufferItems: 64,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create cache: %w", err)
	}
	return &Store{cache: cache}, nil
}

// Ping reports whether the store is still open.
func (s *Store) Ping(_ context.Context) error {
	if s.closed.Load() {
		return &db.Error{Op: db.OpPing, Err: errClosed}
	}
	return nil
}

// Get retrieves a value by key.
func (s *Store) Get(_ context.Context, key string) ([]byte, error) {
	if s.closed.Load() {
		return nil, &db.Error{Op: db.OpGet, Err: errClosed}
	}
	v, ok := s.cache.Get(key)
	if !ok {
		return nil, db.ErrKeyNotFound
	}
	data, ok := v.([]byte)
	if !ok {
		return nil, db.ErrKeyNotFound
	}
	return append([]byte(nil), data...), nil
}

// SetWithTTL stores a copy of value. A non-positive ttl stores without expiry.
// The value is visible to Get once SetWithTTL returns.
func (s *Store) SetWithTTL(_ context.Context, key string, value []byte, ttl time.Duration) error {
	if s.closed.Load() {
		return &db.Error{Op: db.OpSet, Err: errClosed}
	}
	return s.set(db.OpSet, key, append([]byte(nil), value...), ttl)
}

// IncrBy adds val to the integer stored at key, starting from zero. An existing expiry is kept.
func (s *Store) IncrBy(_ context.Context, key string, val int64) error {
	if s.closed.Load() {
		return &db.Error{Op: db.OpIncrBy, Err: errClosed}
	}
	s.counterMu.Lock()
	defer s.counterMu.Unlock()

	var cur int64
	if v, ok := s.cache.Get(key); ok {
		data, _ := v.([]byte)
		n, err := strconv.ParseInt(string(data), 10, 64)
		if err != nil {
			return &db.Error{Op: db.OpIncrBy, Err: errNotInteger}
		}
		cur = n
	}
	ttl, _ := s.cache.GetTTL(key)
	return s.set(db.OpIncrBy, key, []byte(strconv.FormatInt(cur+val, 10)), ttl)
}

// Expire sets a TTL on an existing key. Missing keys are ignored, as in Redis.
func (s *Store) Expire(_ context.Context, key string, ttl time.Duration, nx bool) error {
	if s.closed.Load() {
		return &db.Error{Op: db.OpExpire, Err: errClosed}
	}
	s.counterMu.Lock()
	defer s.counterMu.Unlock()

	v, ok := s.cache.Get(key)
	if !ok {
		return nil
	}
	if cur, _ := s.cache.GetTTL(key); nx && cur > 0 {
		return nil
	}
	data, _ := v.([]byte)
	return s.set(db.OpExpire, key, data, ttl)
}

func (s *Store) set(op, key string, data []byte, ttl time.Duration) error {
	if ttl < 0 {
		ttl = 0
	}
	if !s.cache.SetWithTTL(key, data, int64(len(data))+1, ttl) {
		return &db.Error{Op: op, Err: db.ErrRejected}
	}
	s.cache.Wait()
	return nil
}

// Del deletes a key.
func (s *Store) Del(_ context.Context, key string) error {
	if s.closed.Load() {
		return &db.Error{Op: db.OpDel, Err: errClosed}
	}
	s.cache.Del(key)
	return nil
}

// Close releases the cache goroutines. Further calls fail.
func (s *Store) Close() {
	if s.closed.CompareAndSwap(false, true) {
		s.cache.Close()
	}
}
