package entities

import (
	"sort"
	"strings"
	"time"
)

// Voter is a registered participant. EligibleElections is a snapshot taken at
// registration time; it is never recomputed when elections open or close
// afterwards.
type Voter struct {
	VoterID             string
	FullName            string
	Email               string
	ExtraField          string
	FingerprintTemplate string
	Active              bool
	EligibleElections   []string
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// NormalizeVoterID canonicalizes the business key so lookups and uniqueness
// are case-insensitive.
func NormalizeVoterID(raw string) string {
	return strings.ToUpper(strings.TrimSpace(raw))
}

// EligibleFor reports whether the snapshot contains the election.
func (v Voter) EligibleFor(electionID string) bool {
	electionID = strings.TrimSpace(electionID)
	for _, id := range v.EligibleElections {
		if id == electionID {
			return true
		}
	}
	return false
}

// SameEligibility compares the snapshot with the given set ignoring order and
// duplicates.
func (v Voter) SameEligibility(electionIDs []string) bool {
	current := NormalizeEligibility(v.EligibleElections)
	incoming := NormalizeEligibility(electionIDs)
	if len(current) != len(incoming) {
		return false
	}
	for i := range current {
		if current[i] != incoming[i] {
			return false
		}
	}
	return true
}

// NormalizeEligibility trims, drops empties and duplicates, and sorts.
func NormalizeEligibility(electionIDs []string) []string {
	seen := make(map[string]struct{}, len(electionIDs))
	out := make([]string, 0, len(electionIDs))
	for _, id := range electionIDs {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}
