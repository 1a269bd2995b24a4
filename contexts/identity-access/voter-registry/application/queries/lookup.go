package queries

import (
	"context"

	"voteguard/contexts/identity-access/voter-registry/domain/entities"
	"voteguard/contexts/identity-access/voter-registry/ports"
)

// LookupUseCase serves voter reads and eligibility membership tests.
type LookupUseCase struct {
	Voters ports.VoterRepository
}

func (uc LookupUseCase) GetVoter(ctx context.Context, voterID string) (entities.Voter, error) {
	return uc.Voters.GetVoter(ctx, entities.NormalizeVoterID(voterID))
}

func (uc LookupUseCase) IsEligible(ctx context.Context, voterID, electionID string) (bool, error) {
	voter, err := uc.Voters.GetVoter(ctx, entities.NormalizeVoterID(voterID))
	if err != nil {
		return false, err
	}
	return voter.EligibleFor(electionID), nil
}

func (uc LookupUseCase) ListVoters(ctx context.Context) ([]entities.Voter, error) {
	return uc.Voters.ListVoters(ctx)
}
