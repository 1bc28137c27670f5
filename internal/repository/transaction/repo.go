package transaction

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/simglobe/simglobe/internal/db"
	"github.com/simglobe/simglobe/internal/domain"
	domhedge "github.com/simglobe/simglobe/internal/domain/hedge"
)

// store is the consumer interface for transactions (ISP).
type store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// Repo implements usecase/hedging.Repository. Transactions live until they expire.
type Repo struct {
	store store
	now   func() time.Time
}

// New creates a transaction repository.
func New(s store) *Repo {
	return &Repo{store: s, now: time.Now}
}

// Save stores the transaction until its expiry time. Confirmed transactions are kept
// for at least minRetention so status polling still sees the confirmation.
func (r *Repo) Save(ctx context.Context, t domhedge.Transaction) error {
	data, err := json.Marshal(toJSON(t))
	if err != nil {
		return fmt.Errorf("marshal transaction: %w", err)
	}

	ttl := t.ExpiresAt().Sub(r.now())
	if ttl < minRetention {
		ttl = minRetention
	}

	key := txKey(t.ID())
	if err := r.store.SetWithTTL(ctx, key, data, ttl); err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}
	return nil
}

// Get returns a transaction by ID.
func (r *Repo) Get(ctx context.Context, id string) (domhedge.Transaction, error) {
	key := txKey(id)
	data, err := r.store.Get(ctx, key)
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return domhedge.Transaction{}, fmt.Errorf("transaction %s: %w", id, domain.ErrNotFound)
		}
		return domhedge.Transaction{}, fmt.Errorf("get %s: %w", key, err)
	}

	var j jsonTransaction
	if err := json.Unmarshal(data, &j); err != nil {
		return domhedge.Transaction{}, fmt.Errorf("unmarshal transaction %s: %w", id, err)
	}
	return j.toDomain(), nil
}

const minRetention = time.Minute

func txKey(id string) string {
	return domain.KeyPrefix + "tx:" + id
}
