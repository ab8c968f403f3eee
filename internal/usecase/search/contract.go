package search

import (
	"context"

	"github.com/retailgrid/agentsearch/internal/domain/activity"
	"github.com/retailgrid/agentsearch/internal/domain/answer"
)

// Retriever fetches the raw payload from an upstream retrieval agent.
type Retriever interface {
	Retrieve(ctx context.Context, query string) (string, error)
}

// Formatter normalizes a raw agent payload into the canonical response.
type Formatter interface {
	Format(ctx context.Context, searchType answer.SearchType, query, raw string) answer.Response
}

// UsageRecorder persists token usage for completed searches.
type UsageRecorder interface {
	RecordSearch(ctx context.Context, searchType answer.SearchType, usage activity.TokenUsage) error
}
