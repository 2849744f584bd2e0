package positions

import "testing"

func TestValidateTables(t *testing.T) {
	if err := ValidateTables(); err != nil {
		t.Fatalf("ValidateTables() error = %v", err)
	}
}

func TestIsValid(t *testing.T) {
	for _, p := range All {
		if !IsValid(string(p)) {
			t.Errorf("IsValid(%q) = false, want true", p)
		}
	}
	for _, s := range []string{"", "PRESIDENT", "supreme-leader", "president "} {
		if IsValid(s) {
			t.Errorf("IsValid(%q) = true, want false", s)
		}
	}
}

// TestElectionAdminSuperset: every site-admin position is also an
// election-admin position, which makes the tiers monotonic.
func TestElectionAdminSuperset(t *testing.T) {
	admin := make(map[Position]bool, len(ElectionAdmin))
	for _, p := range ElectionAdmin {
		admin[p] = true
	}
	for _, p := range SiteAdmin {
		if !admin[p] {
			t.Errorf("site-admin position %q missing from election-admin set", p)
		}
	}
	if !admin[ElectionsOfficer] {
		t.Error("elections officer missing from election-admin set")
	}
}

// TestDefaultListsValid: both default available-position lists only
// name recognized positions.
func TestDefaultListsValid(t *testing.T) {
	for _, list := range [][]Position{DefaultGeneralPositions, DefaultCouncilRepPositions} {
		for _, p := range list {
			if !IsValid(string(p)) {
				t.Errorf("default list names unknown position %q", p)
			}
		}
	}
}

func TestMaxConcurrent(t *testing.T) {
	if got := MaxConcurrent(ExecutiveAtLarge); got != 2 {
		t.Errorf("MaxConcurrent(executive-at-large) = %d, want 2", got)
	}
	if got := MaxConcurrent(President); got != 1 {
		t.Errorf("MaxConcurrent(president) = %d, want 1", got)
	}
	if got := MaxConcurrent(Position("nonsense")); got != 1 {
		t.Errorf("MaxConcurrent(unknown) = %d, want 1", got)
	}
}
