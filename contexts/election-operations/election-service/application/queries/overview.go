package queries

import (
	"context"
	"strings"
	"time"

	"voteguard/contexts/election-operations/election-service/domain/entities"
	domainerrors "voteguard/contexts/election-operations/election-service/domain/errors"
	"voteguard/contexts/election-operations/election-service/ports"
)

// ElectionView is an election with its clock-resolved status attached.
type ElectionView struct {
	Election       entities.Election
	EffectiveState entities.ElectionStatus
}

type OverviewUseCase struct {
	Elections  ports.ElectionRepository
	Candidates ports.CandidateRepository
	Clock      ports.Clock
}

func (uc OverviewUseCase) GetElection(ctx context.Context, electionID string) (ElectionView, error) {
	election, err := uc.Elections.GetElection(ctx, strings.TrimSpace(electionID))
	if err != nil {
		return ElectionView{}, err
	}
	return ElectionView{Election: election, EffectiveState: election.StatusAt(uc.now())}, nil
}

func (uc OverviewUseCase) ListElections(ctx context.Context) ([]ElectionView, error) {
	elections, err := uc.Elections.ListElections(ctx)
	if err != nil {
		return nil, err
	}
	now := uc.now()
	views := make([]ElectionView, 0, len(elections))
	for _, election := range elections {
		views = append(views, ElectionView{Election: election, EffectiveState: election.StatusAt(now)})
	}
	return views, nil
}

// ValidateCode resolves a 6-character election code the way the center-setup
// surface does, without exposing the stored OTP.
func (uc OverviewUseCase) ValidateCode(ctx context.Context, code string) (ElectionView, error) {
	normalized := entities.NormalizeElectionCode(code)
	if len(normalized) != entities.ElectionCodeLength {
		return ElectionView{}, domainerrors.ErrInvalidElectionCode
	}
	election, err := uc.Elections.GetElectionByCode(ctx, normalized)
	if err != nil {
		return ElectionView{}, err
	}
	return ElectionView{Election: election, EffectiveState: election.StatusAt(uc.now())}, nil
}

func (uc OverviewUseCase) ListCandidates(ctx context.Context, electionID string) ([]entities.Candidate, error) {
	return uc.Candidates.ListCandidatesByElection(ctx, strings.TrimSpace(electionID))
}

func (uc OverviewUseCase) now() time.Time {
	now := time.Now().UTC()
	if uc.Clock != nil {
		now = uc.Clock.Now().UTC()
	}
	return now
}
