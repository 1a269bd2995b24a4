package commands

import (
	"context"
	"log/slog"
	"strings"

	application "voteguard/contexts/identity-access/voter-registry/application"
	"voteguard/contexts/identity-access/voter-registry/domain/entities"
	domainerrors "voteguard/contexts/identity-access/voter-registry/domain/errors"
	"voteguard/contexts/identity-access/voter-registry/ports"
)

type AuthenticateCommand struct {
	VoterID           string
	ExtraField        string
	ElectionCode      string
	FingerprintSample string
	IPAddress         string
	UserAgent         string
}

type AuthenticateResult struct {
	VoterID    string
	FullName   string
	ElectionID string
}

// AuthUseCase verifies a voter at an activated center. It issues no session;
// a successful result only attests identity, eligibility, and a live
// fingerprint match at this moment.
type AuthUseCase struct {
	Voters    ports.VoterRepository
	Catalog   ports.ElectionCatalog
	Votes     ports.VoteCheck
	Biometric ports.BiometricVerifier
	Audit     ports.AuditRecorder
	Logger    *slog.Logger
}

func (uc AuthUseCase) AuthenticateAtCenter(ctx context.Context, cmd AuthenticateCommand) (AuthenticateResult, error) {
	logger := application.ResolveLogger(uc.Logger)
	voterID := entities.NormalizeVoterID(cmd.VoterID)
	if voterID == "" || strings.TrimSpace(cmd.FingerprintSample) == "" {
		return AuthenticateResult{}, domainerrors.ErrInvalidVoterInput
	}

	voter, err := uc.Voters.GetVoter(ctx, voterID)
	if err != nil {
		return AuthenticateResult{}, err
	}
	if !voter.Active {
		return AuthenticateResult{}, domainerrors.ErrVoterInactive
	}
	// The secondary field is part of the credential pair; a mismatch reads the
	// same as an unknown voter so the endpoint is not a lookup oracle.
	if !strings.EqualFold(strings.TrimSpace(cmd.ExtraField), voter.ExtraField) {
		logger.Warn("voter credential mismatch",
			"event", "voter_auth_credential_mismatch",
			"module", "identity-access/voter-registry",
			"layer", "application",
			"voter_id", voterID,
		)
		return AuthenticateResult{}, domainerrors.ErrVoterNotFound
	}

	election, err := uc.Catalog.FindByCode(ctx, strings.ToUpper(strings.TrimSpace(cmd.ElectionCode)))
	if err != nil {
		return AuthenticateResult{}, err
	}
	if !election.Open {
		return AuthenticateResult{}, domainerrors.ErrElectionNotOpen
	}
	if !voter.EligibleFor(election.ElectionID) {
		return AuthenticateResult{}, domainerrors.ErrNotEligible
	}

	voted, err := uc.Votes.HasVoted(ctx, voter.VoterID, election.ElectionID)
	if err != nil {
		return AuthenticateResult{}, err
	}
	if voted {
		return AuthenticateResult{}, domainerrors.ErrAlreadyVoted
	}

	match, err := uc.Biometric.Match(ctx, voter.FingerprintTemplate, cmd.FingerprintSample)
	if err != nil {
		logger.Error("biometric verification unavailable",
			"event", "voter_auth_biometric_unavailable",
			"module", "identity-access/voter-registry",
			"layer", "application",
			"voter_id", voter.VoterID,
			"error", err.Error(),
		)
		return AuthenticateResult{}, domainerrors.ErrBiometricUnavailable
	}
	if !match {
		uc.record(ctx, voter.VoterID, "voter.auth.rejected", election.ElectionID, cmd)
		return AuthenticateResult{}, domainerrors.ErrFingerprintMismatch
	}

	uc.record(ctx, voter.VoterID, "voter.auth.succeeded", election.ElectionID, cmd)
	logger.Info("voter authenticated at center",
		"event", "voter_authenticated",
		"module", "identity-access/voter-registry",
		"layer", "application",
		"voter_id", voter.VoterID,
		"election_id", election.ElectionID,
	)
	return AuthenticateResult{
		VoterID:    voter.VoterID,
		FullName:   voter.FullName,
		ElectionID: election.ElectionID,
	}, nil
}

func (uc AuthUseCase) record(ctx context.Context, voterID, action, electionID string, cmd AuthenticateCommand) {
	if uc.Audit == nil {
		return
	}
	uc.Audit.Record(ctx, voterID, action, "election:"+electionID, map[string]any{
		"ip_address": strings.TrimSpace(cmd.IPAddress),
		"user_agent": strings.TrimSpace(cmd.UserAgent),
	})
}
