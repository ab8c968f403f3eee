package search

import (
	"context"

	"github.com/retailgrid/agentsearch/internal/domain/activity"
	"github.com/retailgrid/agentsearch/internal/domain/answer"
	"github.com/retailgrid/agentsearch/internal/domain/product"
)

// --- Mocks ---

type mockRetriever struct {
	raw    string
	err    error
	called bool
	query  string
}

func (m *mockRetriever) Retrieve(_ context.Context, query string) (string, error) {
	m.called = true
	m.query = query
	return m.raw, m.err
}

type mockFormatter struct {
	resp    answer.Response
	called  bool
	lastRaw string
}

func (m *mockFormatter) Format(
	_ context.Context, _ answer.SearchType, _, raw string,
) answer.Response {
	m.called = true
	m.lastRaw = raw
	return m.resp
}

type mockUsage struct {
	called    bool
	lastType  answer.SearchType
	lastUsage activity.TokenUsage
	err       error
}

func (m *mockUsage) RecordSearch(
	_ context.Context, searchType answer.SearchType, usage activity.TokenUsage,
) error {
	m.called = true
	m.lastType = searchType
	m.lastUsage = usage
	return m.err
}

func successResponse(st answer.SearchType, query string) answer.Response {
	result := answer.NewResult("found it", []product.Record{}, nil, nil, "")
	meta := answer.NewMetadata(
		5, 0, nil,
		activity.NewTokenUsage(100, 40, 2.0),
		nil,
		activity.NewStats(1, 2, 8),
	)
	return answer.NewSuccess(st, query, result, meta, "{}")
}
