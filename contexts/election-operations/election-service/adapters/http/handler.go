package httpadapter

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"voteguard/contexts/election-operations/election-service/application/commands"
	"voteguard/contexts/election-operations/election-service/application/queries"
	"voteguard/contexts/election-operations/election-service/domain/entities"
	domainerrors "voteguard/contexts/election-operations/election-service/domain/errors"
	httptransport "voteguard/contexts/election-operations/election-service/transport/http"
)

type Handler struct {
	Lifecycle commands.LifecycleUseCase
	Overview  queries.OverviewUseCase
	Logger    *slog.Logger
}

func (h Handler) CreateElectionHandler(ctx context.Context, req httptransport.CreateElectionRequest) (httptransport.ElectionResponse, error) {
	startAt, err := time.Parse(time.RFC3339, req.StartAt)
	if err != nil {
		return httptransport.ElectionResponse{}, domainerrors.ErrInvalidElectionInput
	}
	endAt, err := time.Parse(time.RFC3339, req.EndAt)
	if err != nil {
		return httptransport.ElectionResponse{}, domainerrors.ErrInvalidElectionInput
	}

	election, err := h.Lifecycle.CreateElection(ctx, commands.CreateElectionCommand{
		Name:        req.Name,
		Description: req.Description,
		StartAt:     startAt,
		EndAt:       endAt,
	})
	if err != nil {
		return httptransport.ElectionResponse{}, err
	}
	return electionResponse(election, election.Status), nil
}

func (h Handler) GetElectionHandler(ctx context.Context, electionID string) (httptransport.ElectionResponse, error) {
	view, err := h.Overview.GetElection(ctx, electionID)
	if err != nil {
		return httptransport.ElectionResponse{}, err
	}
	return electionResponse(view.Election, view.EffectiveState), nil
}

func (h Handler) ListElectionsHandler(ctx context.Context) (httptransport.ElectionListResponse, error) {
	views, err := h.Overview.ListElections(ctx)
	if err != nil {
		return httptransport.ElectionListResponse{}, err
	}
	items := make([]httptransport.ElectionResponse, 0, len(views))
	for _, view := range views {
		items = append(items, electionResponse(view.Election, view.EffectiveState))
	}
	return httptransport.ElectionListResponse{Items: items}, nil
}

func (h Handler) GenerateOTPHandler(ctx context.Context, electionID string) (httptransport.GenerateOTPResponse, error) {
	result, err := h.Lifecycle.GenerateCenterOTP(ctx, electionID)
	if err != nil {
		return httptransport.GenerateOTPResponse{}, err
	}
	return httptransport.GenerateOTPResponse{
		OTP:       result.OTP,
		ExpiresAt: result.ExpiresAt.Format(time.RFC3339),
	}, nil
}

func (h Handler) SetupCenterHandler(ctx context.Context, req httptransport.SetupCenterRequest) (httptransport.SetupCenterResponse, error) {
	result, err := h.Lifecycle.ActivateCenter(ctx, commands.ActivateCenterCommand{
		ElectionCode:   req.ElectionCode,
		OTP:            req.OTP,
		CenterLocation: req.CenterLocation,
	})
	if err != nil {
		return httptransport.SetupCenterResponse{}, err
	}
	return httptransport.SetupCenterResponse{
		ElectionID:     result.ElectionID,
		ElectionCode:   result.ElectionCode,
		CenterLocation: result.CenterLocation,
	}, nil
}

func (h Handler) ValidateCodeHandler(ctx context.Context, code string) (httptransport.ValidateCodeResponse, error) {
	view, err := h.Overview.ValidateCode(ctx, code)
	if err != nil {
		if errors.Is(err, domainerrors.ErrElectionNotFound) || errors.Is(err, domainerrors.ErrInvalidElectionCode) {
			return httptransport.ValidateCodeResponse{Valid: false}, nil
		}
		return httptransport.ValidateCodeResponse{}, err
	}
	return httptransport.ValidateCodeResponse{
		Valid:      true,
		ElectionID: view.Election.ElectionID,
		Name:       view.Election.Name,
		Status:     string(view.EffectiveState),
	}, nil
}

func (h Handler) UpdateStatusHandler(ctx context.Context, electionID string, req httptransport.UpdateStatusRequest) (httptransport.ElectionResponse, error) {
	election, err := h.Lifecycle.UpdateStatus(ctx, electionID, entities.ElectionStatus(req.Status))
	if err != nil {
		return httptransport.ElectionResponse{}, err
	}
	return electionResponse(election, election.Status), nil
}

func (h Handler) DeactivateElectionHandler(ctx context.Context, electionID string) error {
	return h.Lifecycle.DeactivateElection(ctx, electionID)
}

func (h Handler) AddCandidateHandler(ctx context.Context, req httptransport.AddCandidateRequest) (httptransport.CandidateResponse, error) {
	candidate, err := h.Lifecycle.AddCandidate(ctx, entities.Candidate{
		ElectionID: req.ElectionID,
		FullName:   req.FullName,
		Party:      req.Party,
		Number:     req.Number,
	})
	if err != nil {
		return httptransport.CandidateResponse{}, err
	}
	return candidateResponse(candidate), nil
}

func (h Handler) ListCandidatesHandler(ctx context.Context, electionID string) (httptransport.CandidateListResponse, error) {
	candidates, err := h.Overview.ListCandidates(ctx, electionID)
	if err != nil {
		return httptransport.CandidateListResponse{}, err
	}
	items := make([]httptransport.CandidateResponse, 0, len(candidates))
	for _, candidate := range candidates {
		items = append(items, candidateResponse(candidate))
	}
	return httptransport.CandidateListResponse{Items: items}, nil
}

func electionResponse(election entities.Election, effective entities.ElectionStatus) httptransport.ElectionResponse {
	return httptransport.ElectionResponse{
		ElectionID:           election.ElectionID,
		Name:                 election.Name,
		Description:          election.Description,
		ElectionCode:         election.ElectionCode,
		StartAt:              election.StartAt.Format(time.RFC3339),
		EndAt:                election.EndAt.Format(time.RFC3339),
		Status:               string(effective),
		ActiveCenterLocation: election.ActiveCenterLocation,
		Active:               election.Active,
	}
}

func candidateResponse(candidate entities.Candidate) httptransport.CandidateResponse {
	return httptransport.CandidateResponse{
		CandidateID: candidate.CandidateID,
		ElectionID:  candidate.ElectionID,
		FullName:    candidate.FullName,
		Party:       candidate.Party,
		Number:      candidate.Number,
		Active:      candidate.Active,
	}
}
