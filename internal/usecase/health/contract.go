package health

import "context"

// DBPinger checks database availability.
type DBPinger interface {
	Ping(ctx context.Context) error
}

// RetrieverChecker checks upstream retrieval endpoint availability.
type RetrieverChecker interface {
	HealthCheck(ctx context.Context) error
}
