package elections

import (
	"testing"
	"time"

	"csss-site/internal/models"
)

func mustTime(t *testing.T, s string) time.Time {
	t.Helper()
	ts, err := time.Parse(time.RFC3339, s)
	if err != nil {
		t.Fatalf("parse %q: %v", s, err)
	}
	return ts
}

func testElection(t *testing.T) *models.Election {
	t.Helper()
	return &models.Election{
		Slug:            "test-election-1",
		Name:            "Test Election 1",
		Type:            TypeGeneral,
		NominationStart: mustTime(t, "2025-01-01T00:00:00Z"),
		VotingStart:     mustTime(t, "2025-02-01T00:00:00Z"),
		VotingEnd:       mustTime(t, "2025-03-01T00:00:00Z"),
	}
}

func TestPhaseAt(t *testing.T) {
	e := testElection(t)

	cases := []struct {
		now  string
		want Phase
	}{
		{"2024-12-31T23:59:59Z", BeforeNominations},
		{"2025-01-01T00:00:00Z", Nominations}, // boundary: inclusive start
		{"2025-01-15T12:00:00Z", Nominations},
		{"2025-01-31T23:59:59Z", Nominations},
		{"2025-02-01T00:00:00Z", Voting}, // boundary: nomination end is exclusive
		{"2025-02-15T12:00:00Z", Voting},
		{"2025-02-28T23:59:59Z", Voting},
		{"2025-03-01T00:00:00Z", AfterVoting}, // boundary: voting end is exclusive
		{"2025-06-01T00:00:00Z", AfterVoting},
	}
	for _, tc := range cases {
		got := PhaseAt(e, mustTime(t, tc.now))
		if got != tc.want {
			t.Errorf("PhaseAt(%s) = %v, want %v", tc.now, got, tc.want)
		}
	}
}

// TestPhaseAt_Partition: over a dense sweep of instants, every instant
// lands in exactly one phase and phases only ever move forward.
func TestPhaseAt_Partition(t *testing.T) {
	e := testElection(t)

	start := mustTime(t, "2024-12-01T00:00:00Z")
	end := mustTime(t, "2025-04-01T00:00:00Z")

	prev := BeforeNominations
	for now := start; now.Before(end); now = now.Add(6 * time.Hour) {
		got := PhaseAt(e, now)
		if got < prev {
			t.Fatalf("phase went backwards at %s: %v after %v", now, got, prev)
		}
		prev = got
	}
	if prev != AfterVoting {
		t.Errorf("final phase = %v, want AfterVoting", prev)
	}
}

// TestPhaseAt_Deterministic: recomputing never changes the answer.
func TestPhaseAt_Deterministic(t *testing.T) {
	e := testElection(t)
	now := mustTime(t, "2025-01-15T00:00:00Z")
	first := PhaseAt(e, now)
	for i := 0; i < 10; i++ {
		if got := PhaseAt(e, now); got != first {
			t.Fatalf("PhaseAt changed between calls: %v then %v", first, got)
		}
	}
}

func TestPhaseString(t *testing.T) {
	cases := map[Phase]string{
		BeforeNominations: "before_nominations",
		Nominations:       "nominations",
		Voting:            "voting",
		AfterVoting:       "after_voting",
	}
	for p, want := range cases {
		if got := p.String(); got != want {
			t.Errorf("Phase(%d).String() = %q, want %q", p, got, want)
		}
	}
}
