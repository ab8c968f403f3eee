package search

import (
	"context"
	"errors"
	"testing"

	"github.com/retailgrid/agentsearch/internal/domain"
	"github.com/retailgrid/agentsearch/internal/domain/answer"
)

func TestSearch_RoutesToRegisteredRetriever(t *testing.T) {
	retriever := &mockRetriever{raw: `{"content":"hello"}`}
	formatter := &mockFormatter{resp: successResponse(answer.TypeAgentic, "gloves")}
	usage := &mockUsage{}

	svc := New(formatter, usage)
	svc.Register(answer.TypeAgentic, retriever)

	resp, err := svc.Search(context.Background(), "agentic", "gloves")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !resp.Success() {
		t.Fatalf("Success() = false, error = %q", resp.Error())
	}
	if !retriever.called {
		t.Error("retriever not called")
	}
	if retriever.query != "gloves" {
		t.Errorf("retriever query = %q", retriever.query)
	}
	if !formatter.called || formatter.lastRaw != `{"content":"hello"}` {
		t.Errorf("formatter raw = %q", formatter.lastRaw)
	}
	if !usage.called {
		t.Error("usage not recorded for successful search")
	}
	if usage.lastUsage.TotalTokens() != 140 {
		t.Errorf("recorded TotalTokens() = %d", usage.lastUsage.TotalTokens())
	}
}

func TestSearch_UnknownType(t *testing.T) {
	svc := New(&mockFormatter{}, nil)

	_, err := svc.Search(context.Background(), "telepathic", "gloves")
	if !errors.Is(err, domain.ErrUnknownSearchType) {
		t.Fatalf("err = %v, want ErrUnknownSearchType", err)
	}
}

func TestSearch_EmptyQuery(t *testing.T) {
	svc := New(&mockFormatter{}, nil)
	svc.Register(answer.TypeRAG, &mockRetriever{})

	_, err := svc.Search(context.Background(), "rag", "   ")
	if !errors.Is(err, domain.ErrEmptyQuery) {
		t.Fatalf("err = %v, want ErrEmptyQuery", err)
	}
}

func TestSearch_UnconfiguredRetriever(t *testing.T) {
	svc := New(&mockFormatter{}, nil)

	_, err := svc.Search(context.Background(), "rag", "gloves")
	if !errors.Is(err, domain.ErrRetrieverUnavailable) {
		t.Fatalf("err = %v, want ErrRetrieverUnavailable", err)
	}
}

func TestSearch_PendingAgent(t *testing.T) {
	svc := New(&mockFormatter{}, nil)
	svc.Register(answer.TypeAgentic, &mockRetriever{err: domain.ErrAgentPending})

	resp, err := svc.Search(context.Background(), "agentic", "gloves")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Success() {
		t.Fatal("Success() = true for pending agent")
	}
	if resp.Status() != answer.StatusPending {
		t.Errorf("Status() = %q, want pending", resp.Status())
	}
}

func TestSearch_RateLimited(t *testing.T) {
	svc := New(&mockFormatter{}, &mockUsage{})
	svc.Register(answer.TypeAgentic, &mockRetriever{err: domain.NewRateLimited(30)})

	resp, err := svc.Search(context.Background(), "agentic", "gloves")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Status() != answer.StatusThrottled {
		t.Errorf("Status() = %q, want throttled", resp.Status())
	}
	if resp.RetryAfterSec() != 30 {
		t.Errorf("RetryAfterSec() = %d, want 30", resp.RetryAfterSec())
	}
}

func TestSearch_ThrottledExcludedFromUsage(t *testing.T) {
	usage := &mockUsage{}
	svc := New(&mockFormatter{}, usage)
	svc.Register(answer.TypeAgentic, &mockRetriever{err: domain.NewRateLimited(10)})

	if _, err := svc.Search(context.Background(), "agentic", "gloves"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if usage.called {
		t.Error("throttled search must not be recorded in usage")
	}
}

func TestSearch_AgentNotFound(t *testing.T) {
	svc := New(&mockFormatter{}, nil)
	svc.Register(answer.TypeDataverse, &mockRetriever{err: domain.ErrAgentNotFound})

	resp, err := svc.Search(context.Background(), "dataverse", "gloves")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Success() {
		t.Fatal("Success() = true for missing agent")
	}
	if resp.Status() != answer.StatusOK {
		t.Errorf("Status() = %q, missing agent is a hard failure, not pending", resp.Status())
	}
	if resp.Error() == "" {
		t.Error("Error() empty")
	}
}

func TestSearch_GenericRetrievalError(t *testing.T) {
	svc := New(&mockFormatter{}, nil)
	svc.Register(answer.TypeRAG, &mockRetriever{err: errors.New("connection refused")})

	resp, err := svc.Search(context.Background(), "rag", "gloves")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Success() {
		t.Fatal("Success() = true for failed retrieval")
	}
	if resp.Error() == "" {
		t.Error("Error() empty")
	}
}
