// Package usage persists per-search-type consumption counters in Redis.
package usage

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/retailgrid/agentsearch/internal/db"
	"github.com/retailgrid/agentsearch/internal/domain/activity"
	"github.com/retailgrid/agentsearch/internal/domain/answer"
	domusage "github.com/retailgrid/agentsearch/internal/domain/usage"
)

// store is the consumer interface for counter operations (ISP).
type store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	IncrBy(ctx context.Context, key string, val int64) error
	Expire(ctx context.Context, key string, ttl time.Duration, nx bool) error
}

const keyPrefix = "agentsearch:usage"

// Counter metric names, the last key segment.
const (
	metricRequests     = "requests"
	metricInputTokens  = "input_tokens"
	metricOutputTokens = "output_tokens"
)

// Store implements usage metering on top of the KV store (INCRBY + GET, NX
// TTLs so counters of a window expire without a sweeper).
type Store struct {
	store    store
	dailyTTL time.Duration
	monthTTL time.Duration
	now      func() time.Time
}

// New creates a usage store.
// dailyTTL is the TTL for daily keys (recommended: 48h).
// monthTTL is the TTL for monthly keys (recommended: 62 days).
func New(s store, dailyTTL, monthTTL time.Duration) *Store {
	return &Store{
		store:    s,
		dailyTTL: dailyTTL,
		monthTTL: monthTTL,
		now:      time.Now,
	}
}

// RecordSearch increments the daily, monthly, and lifetime counters for one
// completed search.
func (s *Store) RecordSearch(
	ctx context.Context, searchType answer.SearchType, usage activity.TokenUsage,
) error {
	increments := []struct {
		metric string
		val    int64
	}{
		{metricRequests, 1},
		{metricInputTokens, int64(usage.InputTokens())},
		{metricOutputTokens, int64(usage.OutputTokens())},
	}

	now := s.now().UTC()
	for _, period := range []domusage.Period{domusage.PeriodDay, domusage.PeriodMonth, domusage.PeriodTotal} {
		for _, inc := range increments {
			if inc.val == 0 {
				continue
			}
			key := s.key(searchType, period, now, inc.metric)
			if err := s.store.IncrBy(ctx, key, inc.val); err != nil {
				return fmt.Errorf("usage INCRBY %s: %w", key, err)
			}
			if ttl, expires := s.ttlFor(period); expires {
				// NX: the window TTL is set once and not reset on repeat.
				if err := s.store.Expire(ctx, key, ttl, true); err != nil {
					return fmt.Errorf("usage EXPIRE %s: %w", key, err)
				}
			}
		}
	}
	return nil
}

// Counters returns the consumption snapshot for the period containing now.
// Missing keys read as zero.
func (s *Store) Counters(
	ctx context.Context, searchType answer.SearchType, period domusage.Period,
) (domusage.Counters, error) {
	now := s.now().UTC()

	requests, err := s.get(ctx, s.key(searchType, period, now, metricRequests))
	if err != nil {
		return domusage.Counters{}, err
	}
	in, err := s.get(ctx, s.key(searchType, period, now, metricInputTokens))
	if err != nil {
		return domusage.Counters{}, err
	}
	out, err := s.get(ctx, s.key(searchType, period, now, metricOutputTokens))
	if err != nil {
		return domusage.Counters{}, err
	}

	return domusage.NewCounters(requests, in, out), nil
}

func (s *Store) get(ctx context.Context, key string) (int64, error) {
	data, err := s.store.Get(ctx, key)
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return 0, nil
		}
		return 0, fmt.Errorf("usage GET %s: %w", key, err)
	}

	val, err := strconv.ParseInt(string(data), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("usage GET %s parse: %w", key, err)
	}
	return val, nil
}

// key formats a counter key:
//
//	agentsearch:usage:{type}:daily:{2006-01-02}:{metric}
//	agentsearch:usage:{type}:monthly:{2006-01}:{metric}
//	agentsearch:usage:{type}:total:{metric}
func (s *Store) key(
	searchType answer.SearchType, period domusage.Period, now time.Time, metric string,
) string {
	switch period {
	case domusage.PeriodDay:
		return fmt.Sprintf("%s:%s:daily:%s:%s", keyPrefix, searchType, now.Format("2006-01-02"), metric)
	case domusage.PeriodMonth:
		return fmt.Sprintf("%s:%s:monthly:%s:%s", keyPrefix, searchType, now.Format("2006-01"), metric)
	default:
		return fmt.Sprintf("%s:%s:total:%s", keyPrefix, searchType, metric)
	}
}

// ttlFor returns the window TTL for a period; lifetime counters never expire.
func (s *Store) ttlFor(period domusage.Period) (time.Duration, bool) {
	switch period {
	case domusage.PeriodDay:
		return s.dailyTTL, true
	case domusage.PeriodMonth:
		return s.monthTTL, true
	}
	return 0, false
}
