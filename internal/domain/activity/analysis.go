package activity

import "time"

// TokenUsage aggregates token consumption with a linear cost estimate.
type TokenUsage struct {
	inputTokens   int
	outputTokens  int
	estimatedCost float64
}

// NewTokenUsage creates a token usage aggregate. costPerMillion is the price
// in dollars per one million tokens; the estimate is linear in total tokens.
func NewTokenUsage(inputTokens, outputTokens int, costPerMillion float64) TokenUsage {
	total := inputTokens + outputTokens
	return TokenUsage{
		inputTokens:   inputTokens,
		outputTokens:  outputTokens,
		estimatedCost: float64(total) / 1_000_000 * costPerMillion,
	}
}

// InputTokens returns the consumed token count.
func (u TokenUsage) InputTokens() int { return u.inputTokens }

// OutputTokens returns the produced token count.
func (u TokenUsage) OutputTokens() int { return u.outputTokens }

// TotalTokens returns input + output.
func (u TokenUsage) TotalTokens() int { return u.inputTokens + u.outputTokens }

// EstimatedCost returns the linear cost estimate in dollars.
func (u TokenUsage) EstimatedCost() float64 { return u.estimatedCost }

// Stats summarizes the agent's trace.
type Stats struct {
	planningOperations int
	parallelQueries    int
	documentsSearched  int
}

// NewStats creates trace statistics.
func NewStats(planningOps, parallelQueries, documentsSearched int) Stats {
	return Stats{
		planningOperations: planningOps,
		parallelQueries:    parallelQueries,
		documentsSearched:  documentsSearched,
	}
}

// PlanningOperations returns the count of planning steps.
func (s Stats) PlanningOperations() int { return s.planningOperations }

// ParallelQueries returns the count of search steps.
func (s Stats) ParallelQueries() int { return s.parallelQueries }

// DocumentsSearched returns the summed result counts of search steps.
func (s Stats) DocumentsSearched() int { return s.documentsSearched }

// SubQuery is a single search operation issued by the agent, derived 1:1 from
// a search-kind record with non-empty query text.
type SubQuery struct {
	id          string
	query       string
	purpose     string
	queryTime   time.Time
	resultCount int
	elapsedMs   int
}

// NewSubQuery creates a sub-query record.
func NewSubQuery(id, query, purpose string, queryTime time.Time, resultCount, elapsedMs int) SubQuery {
	return SubQuery{
		id:          id,
		query:       query,
		purpose:     purpose,
		queryTime:   queryTime,
		resultCount: resultCount,
		elapsedMs:   elapsedMs,
	}
}

// ID returns the originating activity identifier.
func (q *SubQuery) ID() string { return q.id }

// Query returns the search text.
func (q *SubQuery) Query() string { return q.query }

// Purpose returns the human-readable purpose tag.
func (q *SubQuery) Purpose() string { return q.purpose }

// QueryTime returns the step timestamp. When the upstream entry carried no
// timestamp this is the analysis wall-clock time; treat it as approximate.
func (q *SubQuery) QueryTime() time.Time { return q.queryTime }

// ResultCount returns the number of results the sub-query produced.
func (q *SubQuery) ResultCount() int { return q.resultCount }

// ElapsedMs returns the sub-query duration in milliseconds.
func (q *SubQuery) ElapsedMs() int { return q.elapsedMs }

// Analysis is the aggregated outcome of classifying an activity trace.
type Analysis struct {
	records        []Record
	subQueries     []SubQuery
	stats          Stats
	planningTokens TokenUsage
	searchTokens   TokenUsage
	totalElapsedMs int
}

// NewAnalysis creates an activity analysis aggregate.
func NewAnalysis(
	records []Record, subQueries []SubQuery, stats Stats,
	planningTokens, searchTokens TokenUsage, totalElapsedMs int,
) Analysis {
	return Analysis{
		records:        records,
		subQueries:     subQueries,
		stats:          stats,
		planningTokens: planningTokens,
		searchTokens:   searchTokens,
		totalElapsedMs: totalElapsedMs,
	}
}

// Records returns the classified trace entries.
func (a *Analysis) Records() []Record { return a.records }

// SubQueries returns the derived sub-queries.
func (a *Analysis) SubQueries() []SubQuery { return a.subQueries }

// Stats returns the trace statistics.
func (a *Analysis) Stats() Stats { return a.stats }

// PlanningTokens returns token usage attributed to query planning.
func (a *Analysis) PlanningTokens() TokenUsage { return a.planningTokens }

// SearchTokens returns token usage attributed to search steps.
func (a *Analysis) SearchTokens() TokenUsage { return a.searchTokens }

// TokenUsage returns the combined planning + search token usage.
func (a *Analysis) TokenUsage() TokenUsage {
	combined := NewTokenUsage(
		a.planningTokens.InputTokens()+a.searchTokens.InputTokens(),
		a.planningTokens.OutputTokens()+a.searchTokens.OutputTokens(),
		0,
	)
	combined.estimatedCost = a.planningTokens.EstimatedCost() + a.searchTokens.EstimatedCost()
	return combined
}

// TotalElapsedMs returns the cumulative elapsed time across all steps.
func (a *Analysis) TotalElapsedMs() int { return a.totalElapsedMs }
