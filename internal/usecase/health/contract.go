package health

import "context"

// CachePinger checks cache backend availability.
type CachePinger interface {
	Ping(ctx context.Context) error
}

// Checker checks an upstream provider.
type Checker interface {
	HealthCheck(ctx context.Context) error
}
