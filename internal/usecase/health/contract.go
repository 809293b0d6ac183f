package health

import "context"

// Pinger checks store availability.
type Pinger interface {
	Ping(ctx context.Context) error
}

// ProviderChecker checks oracle and embedding provider availability.
type ProviderChecker interface {
	HealthCheck(ctx context.Context) error
}
