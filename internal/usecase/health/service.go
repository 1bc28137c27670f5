package health

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"
)

// Status represents the aggregated health status.
type Status string

const (
	// Healthy indicates all components are operational.
	Healthy Status = "ok"
	// Degraded indicates partial failure.
	Degraded Status = "degraded"
)

// CheckResult represents an individual component health check outcome.
type CheckResult string

const (
	// CheckOK indicates a passing health check.
	CheckOK CheckResult = "ok"
	// CheckError indicates a failing health check.
	CheckError CheckResult = "error"
)

// Component names used in reports.
const (
	ComponentCache   = "cache"
	ComponentMarket  = "market"
	ComponentAnalyst = "analyst"
)

// Report aggregates health check results.
type Report struct {
	Status Status
	Checks map[string]CheckResult
}

// Service coordinates health checks.
type Service struct {
	cache   CachePinger
	market  Checker
	analyst Checker
}

// New creates a Service. market and analyst can be nil.
func New(cache CachePinger, market, analyst Checker) *Service {
	return &Service{cache: cache, market: market, analyst: analyst}
}

// Check runs all component checks concurrently.
func (s *Service) Check(ctx context.Context) Report {
	probes := map[string]func(context.Context) error{
		ComponentCache: s.cache.Ping,
	}
	if s.market != nil {
		probes[ComponentMarket] = s.market.HealthCheck
	}
	if s.analyst != nil {
		probes[ComponentAnalyst] = s.analyst.HealthCheck
	}

	var (
		mu     sync.Mutex
		g      errgroup.Group
		checks = make(map[string]CheckResult, len(probes))
	)
	for name, probe := range probes {
		g.Go(func() error {
			res := CheckOK
			if err := probe(ctx); err != nil {
				res = CheckError
			}
			mu.Lock()
			checks[name] = res
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	status := Healthy
	for _, v := range checks {
		if v == CheckError {
			status = Degraded
			break
		}
	}

	return Report{Status: status, Checks: checks}
}
