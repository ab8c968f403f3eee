// Package format normalizes heterogeneous retrieval-agent payloads into the
// canonical search response. The pipeline is synchronous and stateless: each
// Format call allocates its own working data, so one Formatter is safe for
// concurrent use.
package format

import (
	"context"

	"go.uber.org/zap"

	"github.com/retailgrid/agentsearch/internal/domain/activity"
	"github.com/retailgrid/agentsearch/internal/domain/answer"
	"github.com/retailgrid/agentsearch/internal/logger"
	"github.com/retailgrid/agentsearch/internal/metrics"
)

// Formatter turns raw agent payloads into canonical responses.
type Formatter struct {
	clock          Clock
	costPerMillion float64
}

// New creates a formatter. costPerMillion is the token price in dollars per
// one million tokens used for cost estimates.
func New(clock Clock, costPerMillion float64) *Formatter {
	return &Formatter{clock: clock, costPerMillion: costPerMillion}
}

// Format normalizes one raw payload. This is the single never-fails boundary
// of the pipeline: any panic inside extraction is recovered and converted to
// a success:false response, never propagated to the caller.
func (f *Formatter) Format(
	ctx context.Context, searchType answer.SearchType, query, raw string,
) (resp answer.Response) {
	start := f.clock.Now()

	defer func() {
		if r := recover(); r != nil {
			logger.FromContext(ctx).Error("format pipeline panic",
				zap.String("search_type", string(searchType)),
				zap.Any("panic", r),
			)
			metrics.FormatRequestsTotal.WithLabelValues(string(searchType), "panic").Inc()
			resp = answer.NewFailure(searchType, query, "internal formatting error", raw)
		}
	}()

	if cls := classifyPayload(raw); cls.class != payloadNormal {
		return f.degraded(ctx, searchType, query, raw, cls)
	}

	in := ingest(raw)

	products, strategy := extractProducts(&in)
	metrics.ExtractionStrategyTotal.WithLabelValues(string(strategy)).Inc()

	analysis := analyzeActivities(in.activities, start, f.costPerMillion)
	sources := collectReferences(in.references)

	freeText := in.fallbackText()
	result := answer.NewResult(
		composeSummary(query, products),
		products,
		extractInsights(freeText),
		deriveRecommendations(query, freeText),
		composeExplanation(searchType, query, len(products)),
	)

	usage := analysis.TokenUsage()
	recordTraceTokens(&analysis)

	metadata := answer.NewMetadata(
		f.clock.Now().Sub(start).Milliseconds(),
		len(products),
		analysis.SubQueries(),
		usage,
		sources,
		analysis.Stats(),
	)

	logger.FromContext(ctx).Debug("payload formatted",
		zap.String("search_type", string(searchType)),
		zap.String("strategy", string(strategy)),
		zap.Int("products", len(products)),
		zap.Int("sub_queries", len(analysis.SubQueries())),
		zap.Int("total_tokens", usage.TotalTokens()),
	)
	metrics.FormatRequestsTotal.WithLabelValues(string(searchType), "ok").Inc()
	metrics.FormatDuration.WithLabelValues(string(searchType)).
		Observe(f.clock.Now().Sub(start).Seconds())

	return answer.NewSuccess(searchType, query, result, metadata, raw)
}

// degraded converts a throttled or failed payload classification into the
// matching response without structural parsing.
func (f *Formatter) degraded(
	ctx context.Context, searchType answer.SearchType, query, raw string, cls classification,
) answer.Response {
	log := logger.FromContext(ctx)

	if cls.class == payloadThrottled {
		log.Warn("upstream throttled",
			zap.String("search_type", string(searchType)),
			zap.Int("retry_after_sec", cls.retryAfterSec),
		)
		metrics.FormatRequestsTotal.WithLabelValues(string(searchType), "throttled").Inc()
		return answer.NewThrottled(searchType, query, cls.retryAfterSec, raw)
	}

	log.Warn("upstream failure payload",
		zap.String("search_type", string(searchType)),
		zap.String("message", cls.message),
	)
	metrics.FormatRequestsTotal.WithLabelValues(string(searchType), "failed").Inc()
	return answer.NewFailure(searchType, query, cls.message, raw)
}

// recordTraceTokens exports trace-reported token counts.
func recordTraceTokens(a *activity.Analysis) {
	planning, search := a.PlanningTokens(), a.SearchTokens()
	metrics.TraceTokensTotal.WithLabelValues("planning", "input").Add(float64(planning.InputTokens()))
	metrics.TraceTokensTotal.WithLabelValues("planning", "output").Add(float64(planning.OutputTokens()))
	metrics.TraceTokensTotal.WithLabelValues("search", "input").Add(float64(search.InputTokens()))
	metrics.TraceTokensTotal.WithLabelValues("search", "output").Add(float64(search.OutputTokens()))
}
