package health

import (
	"context"
	"errors"
	"testing"
)

// --- Mocks ---

type mockDBPinger struct {
	err error
}

func (m *mockDBPinger) Ping(_ context.Context) error { return m.err }

type mockRetrieverChecker struct {
	err error
}

func (m *mockRetrieverChecker) HealthCheck(_ context.Context) error { return m.err }

// --- Tests ---

func TestCheck_AllHealthy(t *testing.T) {
	svc := New(&mockDBPinger{})
	svc.AddRetriever("agentic", &mockRetrieverChecker{})
	r := svc.Check(context.Background())

	if r.Status != Healthy {
		t.Errorf("expected %q, got %q", Healthy, r.Status)
	}
	if r.Checks["database"] != CheckOK {
		t.Errorf("expected database %q, got %q", CheckOK, r.Checks["database"])
	}
	if r.Checks["agentic"] != CheckOK {
		t.Errorf("expected agentic %q, got %q", CheckOK, r.Checks["agentic"])
	}
}

func TestCheck_DBError(t *testing.T) {
	svc := New(&mockDBPinger{err: errors.New("conn refused")})
	svc.AddRetriever("agentic", &mockRetrieverChecker{})
	r := svc.Check(context.Background())

	if r.Status != Degraded {
		t.Errorf("expected %q, got %q", Degraded, r.Status)
	}
	if r.Checks["database"] != CheckError {
		t.Errorf("expected database %q, got %q", CheckError, r.Checks["database"])
	}
	if r.Checks["agentic"] != CheckOK {
		t.Errorf("expected agentic %q, got %q", CheckOK, r.Checks["agentic"])
	}
}

func TestCheck_RetrieverError(t *testing.T) {
	svc := New(&mockDBPinger{})
	svc.AddRetriever("rag", &mockRetrieverChecker{err: errors.New("timeout")})
	r := svc.Check(context.Background())

	if r.Status != Degraded {
		t.Errorf("expected %q, got %q", Degraded, r.Status)
	}
	if r.Checks["rag"] != CheckError {
		t.Errorf("expected rag %q, got %q", CheckError, r.Checks["rag"])
	}
}

func TestCheck_MultipleRetrievers(t *testing.T) {
	svc := New(&mockDBPinger{})
	svc.AddRetriever("agentic", &mockRetrieverChecker{})
	svc.AddRetriever("dataverse", &mockRetrieverChecker{err: errors.New("503")})
	r := svc.Check(context.Background())

	if r.Status != Degraded {
		t.Errorf("expected %q, got %q", Degraded, r.Status)
	}
	if r.Checks["agentic"] != CheckOK {
		t.Error("expected agentic ok")
	}
	if r.Checks["dataverse"] != CheckError {
		t.Error("expected dataverse error")
	}
}

func TestCheck_NoDatabase(t *testing.T) {
	svc := New(nil)
	svc.AddRetriever("agentic", &mockRetrieverChecker{})
	r := svc.Check(context.Background())

	if r.Status != Healthy {
		t.Errorf("expected %q, got %q", Healthy, r.Status)
	}
	if _, ok := r.Checks["database"]; ok {
		t.Error("database check should be absent when db is nil")
	}
}
