// Package usage models metered consumption of the retrieval agents.
package usage

import (
	"fmt"

	"github.com/retailgrid/agentsearch/internal/domain/answer"
)

// Period is the aggregation granularity.
type Period string

// Aggregation period constants.
const (
	PeriodDay   Period = "day"
	PeriodMonth Period = "month"
	PeriodTotal Period = "total"
)

// ParsePeriod validates a period string; empty defaults to total.
func ParsePeriod(s string) (Period, error) {
	switch Period(s) {
	case PeriodDay, PeriodMonth, PeriodTotal:
		return Period(s), nil
	case "":
		return PeriodTotal, nil
	}
	return "", fmt.Errorf("unknown usage period %q", s)
}

// Counters is a snapshot of metered search consumption.
type Counters struct {
	requests     int64
	inputTokens  int64
	outputTokens int64
}

// NewCounters creates a counters snapshot.
func NewCounters(requests, inputTokens, outputTokens int64) Counters {
	return Counters{requests: requests, inputTokens: inputTokens, outputTokens: outputTokens}
}

// Requests returns the number of completed searches.
func (c Counters) Requests() int64 { return c.requests }

// InputTokens returns the consumed token count.
func (c Counters) InputTokens() int64 { return c.inputTokens }

// OutputTokens returns the produced token count.
func (c Counters) OutputTokens() int64 { return c.outputTokens }

// TotalTokens returns input + output.
func (c Counters) TotalTokens() int64 { return c.inputTokens + c.outputTokens }

// Report is a usage report for one search type and time period.
type Report struct {
	period        Period
	periodStart   int64
	periodEnd     int64
	searchType    answer.SearchType
	counters      Counters
	estimatedCost float64
}

// NewReport creates a usage report. start and end are unix millis; zero for
// the total period.
func NewReport(
	period Period, start, end int64,
	searchType answer.SearchType, counters Counters, estimatedCost float64,
) Report {
	return Report{
		period:        period,
		periodStart:   start,
		periodEnd:     end,
		searchType:    searchType,
		counters:      counters,
		estimatedCost: estimatedCost,
	}
}

// Period returns the aggregation granularity.
func (r *Report) Period() Period { return r.period }

// PeriodStart returns the period start timestamp (unix millis).
func (r *Report) PeriodStart() int64 { return r.periodStart }

// PeriodEnd returns the period end timestamp (unix millis).
func (r *Report) PeriodEnd() int64 { return r.periodEnd }

// SearchType returns the metered retrieval flavor.
func (r *Report) SearchType() answer.SearchType { return r.searchType }

// Counters returns the consumption snapshot.
func (r *Report) Counters() Counters { return r.counters }

// EstimatedCost returns the linear cost estimate in dollars.
func (r *Report) EstimatedCost() float64 { return r.estimatedCost }
