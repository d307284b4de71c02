package health

import (
	"context"
	"errors"
	"testing"
)

type mockPinger struct {
	err error
}

func (m *mockPinger) Ping(context.Context) error { return m.err }

func TestCheck_MemoryDriverNeedsNoPinger(t *testing.T) {
	svc := New(nil, func() int { return 7 })
	st := svc.Check(context.Background())
	if !st.Healthy {
		t.Error("expected healthy without a pinger")
	}
	if st.Store != "ok" {
		t.Errorf("store: got %q, want ok", st.Store)
	}
	if st.CorpusSize != 7 {
		t.Errorf("corpus size: got %d, want 7", st.CorpusSize)
	}
}

func TestCheck_StoreDown(t *testing.T) {
	svc := New(&mockPinger{err: errors.New("connection refused")}, nil)
	st := svc.Check(context.Background())
	if st.Healthy {
		t.Error("expected unhealthy when the store ping fails")
	}
	if st.Store != "connection refused" {
		t.Errorf("store: got %q", st.Store)
	}
}

func TestCheck_EmptyCorpusIsStillHealthy(t *testing.T) {
	svc := New(&mockPinger{}, func() int { return 0 })
	st := svc.Check(context.Background())
	if !st.Healthy {
		t.Error("an empty corpus must not flip health")
	}
	if st.CorpusSize != 0 {
		t.Errorf("corpus size: got %d, want 0", st.CorpusSize)
	}
}
