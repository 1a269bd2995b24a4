package commands

import (
	"context"
	"log/slog"
	"strings"
	"time"

	application "voteguard/contexts/identity-access/voter-registry/application"
	"voteguard/contexts/identity-access/voter-registry/domain/entities"
	domainerrors "voteguard/contexts/identity-access/voter-registry/domain/errors"
	"voteguard/contexts/identity-access/voter-registry/ports"
)

type RegisterVoterCommand struct {
	VoterID             string
	FullName            string
	Email               string
	ExtraField          string
	FingerprintTemplate string
}

// RegisterUseCase owns voter-roll write paths. The eligibility snapshot is
// computed exactly once, at registration; later lifecycle changes on the
// election side never rewrite it.
type RegisterUseCase struct {
	Voters  ports.VoterRepository
	Catalog ports.ElectionCatalog
	Clock   ports.Clock
	Logger  *slog.Logger
}

func (uc RegisterUseCase) RegisterVoter(ctx context.Context, cmd RegisterVoterCommand) (entities.Voter, error) {
	logger := application.ResolveLogger(uc.Logger)
	voterID := entities.NormalizeVoterID(cmd.VoterID)
	fullName := strings.TrimSpace(cmd.FullName)
	if voterID == "" || fullName == "" {
		logger.Warn("voter registration validation failed",
			"event", "voter_register_validation_failed",
			"module", "identity-access/voter-registry",
			"layer", "application",
			"voter_id", voterID,
		)
		return entities.Voter{}, domainerrors.ErrInvalidVoterInput
	}

	open, err := uc.Catalog.ListOpenElections(ctx)
	if err != nil {
		return entities.Voter{}, err
	}
	eligible := make([]string, 0, len(open))
	for _, ref := range open {
		eligible = append(eligible, ref.ElectionID)
	}

	now := uc.now()
	voter := entities.Voter{
		VoterID:             voterID,
		FullName:            fullName,
		Email:               strings.TrimSpace(cmd.Email),
		ExtraField:          strings.TrimSpace(cmd.ExtraField),
		FingerprintTemplate: strings.TrimSpace(cmd.FingerprintTemplate),
		Active:              true,
		EligibleElections:   entities.NormalizeEligibility(eligible),
		CreatedAt:           now,
		UpdatedAt:           now,
	}
	if err := uc.Voters.SaveVoter(ctx, voter); err != nil {
		return entities.Voter{}, err
	}

	logger.Info("voter registered",
		"event", "voter_registered",
		"module", "identity-access/voter-registry",
		"layer", "application",
		"voter_id", voter.VoterID,
		"eligible_count", len(voter.EligibleElections),
	)
	return voter, nil
}

// AssignEligibility replaces an empty snapshot or accepts an identical one.
// Any other reassignment fails loudly; the snapshot is immutable once set.
func (uc RegisterUseCase) AssignEligibility(ctx context.Context, voterID string, electionIDs []string) (entities.Voter, error) {
	logger := application.ResolveLogger(uc.Logger)
	voter, err := uc.Voters.GetVoter(ctx, entities.NormalizeVoterID(voterID))
	if err != nil {
		return entities.Voter{}, err
	}

	incoming := entities.NormalizeEligibility(electionIDs)
	if voter.SameEligibility(incoming) {
		return voter, nil
	}
	if len(voter.EligibleElections) > 0 {
		logger.Warn("eligibility reassignment rejected",
			"event", "voter_eligibility_rejected",
			"module", "identity-access/voter-registry",
			"layer", "application",
			"voter_id", voter.VoterID,
		)
		return entities.Voter{}, domainerrors.ErrEligibilityAlreadyAssigned
	}

	now := uc.now()
	if err := uc.Voters.UpdateEligibility(ctx, voter.VoterID, incoming, now); err != nil {
		return entities.Voter{}, err
	}
	voter.EligibleElections = incoming
	voter.UpdatedAt = now

	logger.Info("voter eligibility assigned",
		"event", "voter_eligibility_assigned",
		"module", "identity-access/voter-registry",
		"layer", "application",
		"voter_id", voter.VoterID,
		"eligible_count", len(incoming),
	)
	return voter, nil
}

func (uc RegisterUseCase) DeactivateVoter(ctx context.Context, voterID string) error {
	logger := application.ResolveLogger(uc.Logger)
	voter, err := uc.Voters.GetVoter(ctx, entities.NormalizeVoterID(voterID))
	if err != nil {
		return err
	}
	if err := uc.Voters.SetActive(ctx, voter.VoterID, false, uc.now()); err != nil {
		return err
	}
	logger.Info("voter deactivated",
		"event", "voter_deactivated",
		"module", "identity-access/voter-registry",
		"layer", "application",
		"voter_id", voter.VoterID,
	)
	return nil
}

func (uc RegisterUseCase) now() time.Time {
	if uc.Clock != nil {
		return uc.Clock.Now()
	}
	return time.Now().UTC()
}
