package history

import (
	"context"
	"testing"

	"github.com/planscout/planscout/internal/research"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(Config{DataDir: t.TempDir()})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestRecordAttempt_RoundTrip(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	err := s.RecordAttempt(ctx, research.AttemptRecord{
		SessionID:        "s1",
		Query:            "how to paginate",
		Triggered:        true,
		ConfidenceBefore: 50,
		ConfidenceAfter:  85,
		References:       []string{"Documentation: Next.js (/vercel/next.js)"},
	})
	if err != nil {
		t.Fatalf("RecordAttempt: %v", err)
	}

	attempts, err := s.BySession(ctx, "s1", 0)
	if err != nil {
		t.Fatalf("BySession: %v", err)
	}
	if len(attempts) != 1 {
		t.Fatalf("got %d attempts, want 1", len(attempts))
	}

	a := attempts[0]
	if a.ID == "" {
		t.Error("attempt ID is empty, want generated uuid")
	}
	if !a.Triggered || a.ConfidenceBefore != 50 || a.ConfidenceAfter != 85 {
		t.Errorf("attempt = %+v, want triggered 50->85", a)
	}
	if len(a.References) != 1 {
		t.Errorf("References = %v, want the recorded reference", a.References)
	}
}

func TestBySession_FiltersAndLimits(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		if err := s.RecordAttempt(ctx, research.AttemptRecord{SessionID: "s1", Query: "q"}); err != nil {
			t.Fatalf("RecordAttempt: %v", err)
		}
	}
	if err := s.RecordAttempt(ctx, research.AttemptRecord{SessionID: "s2", Query: "other"}); err != nil {
		t.Fatalf("RecordAttempt: %v", err)
	}

	attempts, err := s.BySession(ctx, "s1", 3)
	if err != nil {
		t.Fatalf("BySession: %v", err)
	}
	if len(attempts) != 3 {
		t.Errorf("got %d attempts, want limit 3", len(attempts))
	}
	for _, a := range attempts {
		if a.SessionID != "s1" {
			t.Errorf("attempt from session %q leaked into s1 listing", a.SessionID)
		}
	}
}

func TestBySession_UnknownSessionEmpty(t *testing.T) {
	s := testStore(t)

	attempts, err := s.BySession(context.Background(), "nope", 10)
	if err != nil {
		t.Fatalf("BySession: %v", err)
	}
	if len(attempts) != 0 {
		t.Errorf("got %d attempts for unknown session, want 0", len(attempts))
	}
}

func TestGetStats_Counts(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	records := []research.AttemptRecord{
		{SessionID: "s1", Triggered: true},
		{SessionID: "s1", Triggered: false, Note: "no findings"},
		{SessionID: "s2", Triggered: true},
	}
	for _, r := range records {
		if err := s.RecordAttempt(ctx, r); err != nil {
			t.Fatalf("RecordAttempt: %v", err)
		}
	}

	st, err := s.GetStats(ctx)
	if err != nil {
		t.Fatalf("GetStats: %v", err)
	}
	if st.TotalAttempts != 3 || st.Triggered != 2 || st.Degraded != 1 || st.TotalSessions != 2 {
		t.Errorf("stats = %+v, want 3 attempts, 2 triggered, 1 degraded, 2 sessions", st)
	}
}
