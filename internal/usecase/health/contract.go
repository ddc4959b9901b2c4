package health

import "context"

// PortalChecker checks portal availability.
type PortalChecker interface {
	HealthCheck(ctx context.Context) error
}

// CachePinger checks schema cache availability.
type CachePinger interface {
	Ping(ctx context.Context) error
}
