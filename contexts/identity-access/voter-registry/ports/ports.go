package ports

import (
	"context"
	"time"

	"voteguard/contexts/identity-access/voter-registry/domain/entities"
)

// VoterRepository persists the voter roll. SaveVoter is a strict insert and
// returns ErrVoterAlreadyRegistered on a duplicate VoterID.
type VoterRepository interface {
	SaveVoter(ctx context.Context, voter entities.Voter) error
	GetVoter(ctx context.Context, voterID string) (entities.Voter, error)
	UpdateEligibility(ctx context.Context, voterID string, electionIDs []string, updatedAt time.Time) error
	SetActive(ctx context.Context, voterID string, active bool, updatedAt time.Time) error
	ListVoters(ctx context.Context) ([]entities.Voter, error)
}

// ElectionRef is the registry's read model of an election owned by another
// context.
type ElectionRef struct {
	ElectionID   string
	ElectionCode string
	Name         string
	Open         bool
}

// ElectionCatalog projects elections for eligibility snapshots and center
// authentication. FindByCode returns ErrInvalidElectionCode for unknown codes.
type ElectionCatalog interface {
	ListOpenElections(ctx context.Context) ([]ElectionRef, error)
	FindByCode(ctx context.Context, electionCode string) (ElectionRef, error)
}

// VoteCheck asks the ledger whether a voter has already cast a ballot. An
// empty electionID means the global scope.
type VoteCheck interface {
	HasVoted(ctx context.Context, voterID, electionID string) (bool, error)
}

// BiometricVerifier delegates fingerprint comparison to the external matching
// service. A false result is a clean mismatch; an error means the service
// could not answer.
type BiometricVerifier interface {
	Match(ctx context.Context, template, sample string) (bool, error)
}

// AuditRecorder is fire and forget; implementations never fail the caller.
type AuditRecorder interface {
	Record(ctx context.Context, actorID, action, resource string, detail map[string]any)
}

type Clock interface {
	Now() time.Time
}
