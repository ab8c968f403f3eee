// Package usage builds usage reports from persisted counters.
package usage

import (
	"context"
	"fmt"
	"time"

	"github.com/retailgrid/agentsearch/internal/domain/answer"
	domusage "github.com/retailgrid/agentsearch/internal/domain/usage"
)

// Service handles usage reporting.
type Service struct {
	reader         CounterReader
	costPerMillion float64
}

// New creates a Service. costPerMillion is the token price in dollars per one
// million tokens.
func New(reader CounterReader, costPerMillion float64) *Service {
	return &Service{reader: reader, costPerMillion: costPerMillion}
}

// GetReport builds a usage report for the given search type and period.
func (s *Service) GetReport(
	ctx context.Context, searchType answer.SearchType, period domusage.Period,
) (domusage.Report, error) {
	counters, err := s.reader.Counters(ctx, searchType, period)
	if err != nil {
		return domusage.Report{}, fmt.Errorf("read usage counters: %w", err)
	}

	now := time.Now().UTC()
	var start, end int64

	switch period {
	case domusage.PeriodDay:
		dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
		start = dayStart.UnixMilli()
		end = dayStart.Add(24 * time.Hour).UnixMilli()
	case domusage.PeriodMonth:
		monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
		start = monthStart.UnixMilli()
		end = monthStart.AddDate(0, 1, 0).UnixMilli()
	default:
		// total has no period boundaries
	}

	cost := float64(counters.TotalTokens()) / 1_000_000 * s.costPerMillion
	return domusage.NewReport(period, start, end, searchType, counters, cost), nil
}
