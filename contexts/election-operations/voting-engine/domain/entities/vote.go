package entities

import (
	"strings"
	"time"
)

// ElectionScope says which contest a ballot belongs to. A scoped ballot
// targets one election; a global ballot targets the single implicit national
// contest. The zero value is the global scope.
type ElectionScope struct {
	electionID string
}

func ScopedElection(electionID string) ElectionScope {
	return ElectionScope{electionID: strings.TrimSpace(electionID)}
}

func GlobalElection() ElectionScope {
	return ElectionScope{}
}

// ElectionID returns the target election and true for a scoped ballot, and
// ("", false) for the global scope.
func (s ElectionScope) ElectionID() (string, bool) {
	if s.electionID == "" {
		return "", false
	}
	return s.electionID, true
}

func (s ElectionScope) Global() bool {
	return s.electionID == ""
}

func (s ElectionScope) String() string {
	if s.electionID == "" {
		return "global"
	}
	return s.electionID
}

// Vote is an immutable ledger entry. There is no update or delete path; the
// storage uniqueness on (voter, scope) is the one-ballot enforcement point.
type Vote struct {
	VoteID              string
	VoterID             string
	CandidateID         string
	Scope               ElectionScope
	CenterLocation      string
	IPAddress           string
	UserAgent           string
	FingerprintVerified bool
	CastAt              time.Time
}
