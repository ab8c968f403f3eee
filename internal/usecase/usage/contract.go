package usage

import (
	"context"

	"github.com/retailgrid/agentsearch/internal/domain/answer"
	domusage "github.com/retailgrid/agentsearch/internal/domain/usage"
)

// CounterReader provides read access to persisted usage counters.
type CounterReader interface {
	Counters(ctx context.Context, searchType answer.SearchType, period domusage.Period) (domusage.Counters, error)
}
