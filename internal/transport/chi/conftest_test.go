package chi

import (
	"context"

	"go.uber.org/zap"

	"github.com/go-chi/chi/v5"

	"github.com/retailgrid/agentsearch/internal/domain/activity"
	"github.com/retailgrid/agentsearch/internal/domain/answer"
	domusage "github.com/retailgrid/agentsearch/internal/domain/usage"
	healthuc "github.com/retailgrid/agentsearch/internal/usecase/health"
	searchuc "github.com/retailgrid/agentsearch/internal/usecase/search"
	usageuc "github.com/retailgrid/agentsearch/internal/usecase/usage"
)

// --- Stubs ---

type stubRetriever struct {
	raw string
	err error
}

func (s *stubRetriever) Retrieve(_ context.Context, _ string) (string, error) {
	return s.raw, s.err
}

type stubFormatter struct {
	summary string
}

func (s *stubFormatter) Format(
	_ context.Context, st answer.SearchType, query, raw string,
) answer.Response {
	result := answer.NewResult(s.summary, nil, nil, nil, "Search completed.")
	meta := answer.NewMetadata(
		12, 1, nil, activity.NewTokenUsage(100, 40, 2.0), nil, activity.NewStats(1, 2, 8),
	)
	return answer.NewSuccess(st, query, result, meta, raw)
}

type stubCounterReader struct {
	counters domusage.Counters
	err      error
}

func (s *stubCounterReader) Counters(
	_ context.Context, _ answer.SearchType, _ domusage.Period,
) (domusage.Counters, error) {
	return s.counters, s.err
}

type stubChecker struct {
	err error
}

func (s *stubChecker) HealthCheck(_ context.Context) error { return s.err }

// --- Helpers ---

type serverOpts struct {
	summary string
	usage   *usageuc.Service
	health  *healthuc.Service
	stream  StreamConfig
}

func newTestRouter(opts serverOpts) *chi.Mux {
	if opts.summary == "" {
		opts.summary = "Found Sun Hat for $24.00."
	}
	if opts.health == nil {
		opts.health = healthuc.New(nil)
	}

	searchSvc := searchuc.New(&stubFormatter{summary: opts.summary}, nil)
	searchSvc.Register(answer.TypeAgentic, &stubRetriever{raw: `{"content":[]}`})

	srv := NewServer(searchSvc, opts.usage, opts.health, opts.stream, zap.NewNop())
	r := chi.NewRouter()
	srv.Routes(r)
	return r
}
