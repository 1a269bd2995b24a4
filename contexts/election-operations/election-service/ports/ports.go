package ports

import (
	"context"
	"time"

	"voteguard/contexts/election-operations/election-service/domain/entities"
)

type ElectionRepository interface {
	SaveElection(ctx context.Context, election entities.Election) error
	GetElection(ctx context.Context, electionID string) (entities.Election, error)
	GetElectionByCode(ctx context.Context, electionCode string) (entities.Election, error)
	ListElections(ctx context.Context) ([]entities.Election, error)
	SetCenterOTP(ctx context.Context, electionID string, otp string, expiresAt time.Time, updatedAt time.Time) error
	// RedeemCenterOTP validates and consumes the stored passcode in one
	// atomic step: the update that sets the center location also clears the
	// passcode, so concurrent redemptions resolve to exactly one winner.
	RedeemCenterOTP(ctx context.Context, electionID string, otp string, centerLocation string, now time.Time) (entities.Election, error)
	UpdateStatus(ctx context.Context, electionID string, status entities.ElectionStatus, updatedAt time.Time) error
	SetActive(ctx context.Context, electionID string, active bool, updatedAt time.Time) error
}

type CandidateRepository interface {
	SaveCandidate(ctx context.Context, candidate entities.Candidate) error
	GetCandidate(ctx context.Context, candidateID string) (entities.Candidate, error)
	ListCandidatesByElection(ctx context.Context, electionID string) ([]entities.Candidate, error)
}

type Clock interface {
	Now() time.Time
}

type IDGenerator interface {
	NewID(ctx context.Context) (string, error)
}

// CodeIssuer produces the operator-facing secrets: the fixed-length election
// code and the short-lived numeric center passcode.
type CodeIssuer interface {
	NewElectionCode(ctx context.Context) (string, error)
	NewCenterOTP(ctx context.Context) (string, error)
}
