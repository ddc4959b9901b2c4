package health

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Status represents the aggregated health status.
type Status string

const (
	// Healthy indicates all components are operational.
	Healthy Status = "ok"
	// Degraded indicates partial failure.
	Degraded Status = "degraded"
	// Unhealthy indicates the portal is unreachable.
	Unhealthy Status = "error"
)

// CheckResult represents an individual component health check outcome.
type CheckResult string

const (
	// CheckOK indicates a passing health check.
	CheckOK CheckResult = "ok"
	// CheckError indicates a failing health check.
	CheckError CheckResult = "error"
)

// Report aggregates health check results.
type Report struct {
	Status Status
	Checks map[string]CheckResult
}

// Service coordinates health checks.
type Service struct {
	portal PortalChecker
	cache  CachePinger
}

// New creates a Service. cache can be nil when caching is disabled.
func New(portal PortalChecker, cache CachePinger) *Service {
	return &Service{portal: portal, cache: cache}
}

// Check runs the component checks concurrently. The portal is required:
// its failure makes the service unhealthy, a cache failure only degrades it.
func (s *Service) Check(ctx context.Context) Report {
	var portalErr, cacheErr error

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		portalErr = s.portal.HealthCheck(gctx)
		return nil
	})
	if s.cache != nil {
		g.Go(func() error {
			cacheErr = s.cache.Ping(gctx)
			return nil
		})
	}
	_ = g.Wait()

	checks := map[string]CheckResult{"portal": result(portalErr)}
	status := Healthy
	if portalErr != nil {
		status = Unhealthy
	}
	if s.cache != nil {
		checks["cache"] = result(cacheErr)
		if cacheErr != nil && status == Healthy {
			status = Degraded
		}
	}

	return Report{Status: status, Checks: checks}
}

func result(err error) CheckResult {
	if err != nil {
		return CheckError
	}
	return CheckOK
}
