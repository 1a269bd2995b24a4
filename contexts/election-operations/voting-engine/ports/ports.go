package ports

import (
	"context"
	"time"

	"voteguard/contexts/election-operations/voting-engine/domain/entities"
)

// CandidateCount is one tally row.
type CandidateCount struct {
	CandidateID string
	Votes       int64
}

// VoteLedger is the append-only ballot store. RecordVote is a plain insert;
// the storage unique constraint on (voter, scope) is the enforcement point
// and surfaces as ErrDuplicateVote, never as a pre-check.
type VoteLedger interface {
	RecordVote(ctx context.Context, vote entities.Vote) error
	HasVoted(ctx context.Context, voterID string, scope entities.ElectionScope) (bool, error)
	TallyByCandidate(ctx context.Context, scope entities.ElectionScope) ([]CandidateCount, error)
	CountVotes(ctx context.Context, scope entities.ElectionScope) (int64, error)
}

// VoterRecord is the engine's read model of a registered voter.
type VoterRecord struct {
	VoterID           string
	Active            bool
	EligibleElections []string
}

func (r VoterRecord) EligibleFor(electionID string) bool {
	for _, id := range r.EligibleElections {
		if id == electionID {
			return true
		}
	}
	return false
}

// VoterDirectory projects the voter roll owned by another context.
type VoterDirectory interface {
	FindVoter(ctx context.Context, voterID string) (VoterRecord, error)
	CountActiveVoters(ctx context.Context) (int64, error)
}

// ElectionRecord is the engine's read model of an election. Open already
// folds in the wall-clock status classification; CenterLocation is empty
// until a center has redeemed an activation OTP.
type ElectionRecord struct {
	ElectionID     string
	Name           string
	Open           bool
	CenterLocation string
}

type ElectionDirectory interface {
	FindElection(ctx context.Context, electionID string) (ElectionRecord, error)
}

// CandidateRecord is the engine's read model of a candidate.
type CandidateRecord struct {
	CandidateID string
	ElectionID  string
	FullName    string
	Active      bool
}

type CandidateDirectory interface {
	FindCandidate(ctx context.Context, candidateID string) (CandidateRecord, error)
}

// AuditEmitter records a cast ballot after commit. Implementations absorb
// their own failures; a dead audit sink never voids a recorded vote.
type AuditEmitter interface {
	EmitVoteCast(ctx context.Context, vote entities.Vote)
}

// Transactor runs fn inside one storage transaction; repository calls made
// with the ctx fn receives join that transaction.
type Transactor interface {
	InTx(ctx context.Context, fn func(ctx context.Context) error) error
}

type Clock interface {
	Now() time.Time
}

type IDGenerator interface {
	NewID(ctx context.Context) (string, error)
}
