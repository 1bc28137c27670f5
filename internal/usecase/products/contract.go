package products

import (
	"context"

	"github.com/simglobe/simglobe/internal/domain/risk"
)

// EventSource lists the current risk events.
type EventSource interface {
	Events(ctx context.Context, limit int) ([]risk.Event, error)
}
