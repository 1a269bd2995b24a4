package commands

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	application "voteguard/contexts/election-operations/voting-engine/application"
	"voteguard/contexts/election-operations/voting-engine/domain/entities"
	domainerrors "voteguard/contexts/election-operations/voting-engine/domain/errors"
	"voteguard/contexts/election-operations/voting-engine/ports"
)

// CastVoteCommand is the write-model input for ballot casting. A zero Scope
// targets the global contest.
type CastVoteCommand struct {
	VoterID     string
	CandidateID string
	Scope       entities.ElectionScope
	IPAddress   string
	UserAgent   string
}

// CastVoteUseCase runs the full cast sequence inside one transaction. Every
// precondition is re-checked there, but the real duplicate guard is the
// ledger's unique constraint; a losing concurrent cast surfaces as
// ErrDuplicateVote from the insert itself.
type CastVoteUseCase struct {
	Ledger     ports.VoteLedger
	Voters     ports.VoterDirectory
	Elections  ports.ElectionDirectory
	Candidates ports.CandidateDirectory
	Audit      ports.AuditEmitter
	Tx         ports.Transactor
	Clock      ports.Clock
	IDGen      ports.IDGenerator
	Logger     *slog.Logger
}

func (uc CastVoteUseCase) CastVote(ctx context.Context, cmd CastVoteCommand) (entities.Vote, error) {
	logger := application.ResolveLogger(uc.Logger)
	voterID := strings.ToUpper(strings.TrimSpace(cmd.VoterID))
	candidateID := strings.TrimSpace(cmd.CandidateID)
	if voterID == "" || candidateID == "" {
		logger.Warn("vote cast validation failed",
			"event", "voting_cast_validation_failed",
			"module", "election-operations/voting-engine",
			"layer", "application",
			"voter_id", voterID,
		)
		return entities.Vote{}, domainerrors.ErrInvalidVoteInput
	}

	var vote entities.Vote
	err := uc.Tx.InTx(ctx, func(ctx context.Context) error {
		voter, err := uc.Voters.FindVoter(ctx, voterID)
		if err != nil {
			return err
		}
		if !voter.Active {
			return domainerrors.ErrVoterInactive
		}

		centerLocation := ""
		electionID, scoped := cmd.Scope.ElectionID()
		if scoped {
			election, err := uc.Elections.FindElection(ctx, electionID)
			if err != nil {
				return err
			}
			if !election.Open || election.CenterLocation == "" {
				return domainerrors.ErrElectionNotOpen
			}
			if !voter.EligibleFor(election.ElectionID) {
				return domainerrors.ErrNotEligible
			}
			centerLocation = election.CenterLocation
		}

		candidate, err := uc.Candidates.FindCandidate(ctx, candidateID)
		if err != nil {
			return err
		}
		if !candidate.Active {
			return domainerrors.ErrCandidateInactive
		}
		if scoped && candidate.ElectionID != electionID {
			return domainerrors.ErrCandidateElectionMismatch
		}

		voteID, err := uc.IDGen.NewID(ctx)
		if err != nil {
			return err
		}
		vote = entities.Vote{
			VoteID:              voteID,
			VoterID:             voter.VoterID,
			CandidateID:         candidate.CandidateID,
			Scope:               cmd.Scope,
			CenterLocation:      centerLocation,
			IPAddress:           strings.TrimSpace(cmd.IPAddress),
			UserAgent:           strings.TrimSpace(cmd.UserAgent),
			FingerprintVerified: true,
			CastAt:              uc.now(),
		}
		return uc.Ledger.RecordVote(ctx, vote)
	})
	if err != nil {
		logger.Warn("vote cast rejected",
			"event", castRejectionEvent(err),
			"module", "election-operations/voting-engine",
			"layer", "application",
			"voter_id", voterID,
			"scope", cmd.Scope.String(),
			"error", err.Error(),
		)
		return entities.Vote{}, err
	}

	// Audit runs after commit: a recorded ballot stands whatever the trail
	// does, and the emitter absorbs its own failures.
	if uc.Audit != nil {
		uc.Audit.EmitVoteCast(ctx, vote)
	}

	logger.Info("vote recorded",
		"event", "voting_vote_recorded",
		"module", "election-operations/voting-engine",
		"layer", "application",
		"vote_id", vote.VoteID,
		"voter_id", vote.VoterID,
		"scope", vote.Scope.String(),
	)
	return vote, nil
}

func castRejectionEvent(err error) string {
	switch {
	case errors.Is(err, domainerrors.ErrDuplicateVote):
		return "voting_cast_rejected_duplicate"
	case errors.Is(err, domainerrors.ErrNotEligible):
		return "voting_cast_rejected_ineligible"
	case errors.Is(err, domainerrors.ErrElectionNotOpen):
		return "voting_cast_rejected_closed"
	default:
		return "voting_cast_failed"
	}
}

func (uc CastVoteUseCase) now() time.Time {
	if uc.Clock != nil {
		return uc.Clock.Now()
	}
	return time.Now().UTC()
}
