// Package search orchestrates retrieval against the configured agents and
// normalization of their payloads.
package search

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/retailgrid/agentsearch/internal/domain"
	"github.com/retailgrid/agentsearch/internal/domain/answer"
	"github.com/retailgrid/agentsearch/internal/logger"
	"github.com/retailgrid/agentsearch/internal/metrics"
)

// Service routes a query to the retriever registered for its search type and
// feeds the payload through the formatting pipeline.
type Service struct {
	retrievers map[answer.SearchType]Retriever
	formatter  Formatter
	usage      UsageRecorder
}

// New creates a search service. usage may be nil when usage metering is
// disabled.
func New(formatter Formatter, usage UsageRecorder) *Service {
	return &Service{
		retrievers: make(map[answer.SearchType]Retriever),
		formatter:  formatter,
		usage:      usage,
	}
}

// Register binds a retriever to a search type, replacing any previous binding.
func (s *Service) Register(searchType answer.SearchType, r Retriever) {
	s.retrievers[searchType] = r
}

// Search runs one search end to end. Validation problems (unknown search
// type, empty query, unconfigured retriever) are returned as errors; upstream
// retrieval failures are converted into unsuccessful responses so callers
// always get the canonical envelope for a well-formed request.
func (s *Service) Search(ctx context.Context, searchType, query string) (answer.Response, error) {
	st, err := answer.ParseSearchType(searchType)
	if err != nil {
		return answer.Response{}, err
	}

	query = strings.TrimSpace(query)
	if query == "" {
		return answer.Response{}, domain.ErrEmptyQuery
	}

	r, ok := s.retrievers[st]
	if !ok {
		return answer.Response{}, fmt.Errorf("%w: search type %q", domain.ErrRetrieverUnavailable, st)
	}

	start := time.Now()
	raw, err := r.Retrieve(ctx, query)
	metrics.RetrievalDuration.WithLabelValues(string(st)).Observe(time.Since(start).Seconds())

	if err != nil {
		return s.degraded(ctx, st, query, err), nil
	}
	metrics.RetrievalRequestsTotal.WithLabelValues(string(st), "ok").Inc()

	resp := s.formatter.Format(ctx, st, query, raw)
	s.recordUsage(ctx, &resp)
	return resp, nil
}

// degraded maps retrieval errors onto unsuccessful responses. Pending and
// throttled outcomes keep their distinguishable statuses; everything else is
// a plain failure.
func (s *Service) degraded(
	ctx context.Context, st answer.SearchType, query string, err error,
) answer.Response {
	log := logger.FromContext(ctx)

	switch {
	case errors.Is(err, domain.ErrAgentPending):
		log.Info("agent permissions pending", zap.String("search_type", string(st)))
		metrics.RetrievalRequestsTotal.WithLabelValues(string(st), "pending").Inc()
		return answer.NewPending(st, query)

	case errors.Is(err, domain.ErrRateLimited):
		retryAfter := 0
		var rl *domain.RateLimitedError
		if errors.As(err, &rl) {
			retryAfter = rl.RetryAfterSec
		}
		log.Warn("agent rate limited",
			zap.String("search_type", string(st)),
			zap.Int("retry_after_sec", retryAfter),
		)
		metrics.RetrievalRequestsTotal.WithLabelValues(string(st), "throttled").Inc()
		return answer.NewThrottled(st, query, retryAfter, "")

	case errors.Is(err, domain.ErrAgentNotFound):
		log.Warn("agent not provisioned", zap.String("search_type", string(st)))
		metrics.RetrievalRequestsTotal.WithLabelValues(string(st), "not_found").Inc()
		return answer.NewFailure(st, query,
			"knowledge agent is not provisioned; create the agent before searching", "")
	}

	log.Error("retrieval failed",
		zap.String("search_type", string(st)),
		zap.Error(err),
	)
	metrics.RetrievalRequestsTotal.WithLabelValues(string(st), "error").Inc()
	return answer.NewFailure(st, query, fmt.Sprintf("retrieval failed: %v", err), "")
}

// recordUsage persists token usage for non-throttled responses. Throttled
// upstream calls are excluded from the usage statistics.
func (s *Service) recordUsage(ctx context.Context, resp *answer.Response) {
	if s.usage == nil || resp.Status() == answer.StatusThrottled {
		return
	}
	meta, ok := resp.Metadata()
	if !ok {
		return
	}

	if err := s.usage.RecordSearch(ctx, resp.SearchType(), meta.TokenUsage()); err != nil {
		logger.FromContext(ctx).Warn("record usage", zap.Error(err))
	}
}
