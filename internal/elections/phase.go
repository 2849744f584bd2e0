// Package elections holds the election lifecycle rules and the
// candidacy registration service.
package elections

import (
	"time"

	"csss-site/internal/models"
)

// Phase is an election's lifecycle phase. It is always derived from
// the election's three timestamps against a given instant; nothing is
// stored and recomputing it never mutates data.
type Phase int

const (
	BeforeNominations Phase = iota
	Nominations
	Voting
	AfterVoting
)

func (p Phase) String() string {
	switch p {
	case BeforeNominations:
		return "before_nominations"
	case Nominations:
		return "nominations"
	case Voting:
		return "voting"
	case AfterVoting:
		return "after_voting"
	}
	return "unknown"
}

// PhaseAt classifies now against the election's timestamps. The four
// phases partition time: [−∞, nomination_start), [nomination_start,
// voting_start), [voting_start, voting_end), [voting_end, +∞).
func PhaseAt(e *models.Election, now time.Time) Phase {
	switch {
	case now.Before(e.NominationStart):
		return BeforeNominations
	case now.Before(e.VotingStart):
		return Nominations
	case now.Before(e.VotingEnd):
		return Voting
	default:
		return AfterVoting
	}
}
