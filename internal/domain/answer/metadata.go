package answer

import (
	"github.com/retailgrid/agentsearch/internal/domain/activity"
	"github.com/retailgrid/agentsearch/internal/domain/reference"
)

// Metadata carries trace-derived diagnostics alongside a result.
type Metadata struct {
	processingTimeMs int64
	totalResults     int
	subQueries       []activity.SubQuery
	tokenUsage       activity.TokenUsage
	sources          []reference.Source
	stats            activity.Stats
}

// NewMetadata creates search metadata.
func NewMetadata(
	processingTimeMs int64, totalResults int,
	subQueries []activity.SubQuery, tokenUsage activity.TokenUsage,
	sources []reference.Source, stats activity.Stats,
) Metadata {
	return Metadata{
		processingTimeMs: processingTimeMs,
		totalResults:     totalResults,
		subQueries:       subQueries,
		tokenUsage:       tokenUsage,
		sources:          sources,
		stats:            stats,
	}
}

// ProcessingTimeMs returns the pipeline processing time in milliseconds.
func (m *Metadata) ProcessingTimeMs() int64 { return m.processingTimeMs }

// TotalResults returns the extracted product count.
func (m *Metadata) TotalResults() int { return m.totalResults }

// SubQueries returns the agent's derived sub-queries.
func (m *Metadata) SubQueries() []activity.SubQuery { return m.subQueries }

// TokenUsage returns the combined token usage.
func (m *Metadata) TokenUsage() activity.TokenUsage { return m.tokenUsage }

// Sources returns the source document references.
func (m *Metadata) Sources() []reference.Source { return m.sources }

// Stats returns the activity trace statistics.
func (m *Metadata) Stats() activity.Stats { return m.stats }
