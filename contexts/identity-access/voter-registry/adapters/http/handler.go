package httpadapter

import (
	"context"
	"log/slog"
	"time"

	"voteguard/contexts/identity-access/voter-registry/application/commands"
	"voteguard/contexts/identity-access/voter-registry/application/queries"
	"voteguard/contexts/identity-access/voter-registry/domain/entities"
	httptransport "voteguard/contexts/identity-access/voter-registry/transport/http"
)

type Handler struct {
	Register commands.RegisterUseCase
	Auth     commands.AuthUseCase
	Lookup   queries.LookupUseCase
	Logger   *slog.Logger
}

func (h Handler) RegisterVoterHandler(ctx context.Context, req httptransport.RegisterVoterRequest) (httptransport.VoterResponse, error) {
	voter, err := h.Register.RegisterVoter(ctx, commands.RegisterVoterCommand{
		VoterID:             req.VoterID,
		FullName:            req.FullName,
		Email:               req.Email,
		ExtraField:          req.ExtraField,
		FingerprintTemplate: req.FingerprintTemplate,
	})
	if err != nil {
		return httptransport.VoterResponse{}, err
	}
	return voterResponse(voter), nil
}

func (h Handler) GetVoterHandler(ctx context.Context, voterID string) (httptransport.VoterResponse, error) {
	voter, err := h.Lookup.GetVoter(ctx, voterID)
	if err != nil {
		return httptransport.VoterResponse{}, err
	}
	return voterResponse(voter), nil
}

func (h Handler) ListVotersHandler(ctx context.Context) (httptransport.VoterListResponse, error) {
	voters, err := h.Lookup.ListVoters(ctx)
	if err != nil {
		return httptransport.VoterListResponse{}, err
	}
	items := make([]httptransport.VoterResponse, 0, len(voters))
	for _, voter := range voters {
		items = append(items, voterResponse(voter))
	}
	return httptransport.VoterListResponse{Items: items}, nil
}

func (h Handler) AssignEligibilityHandler(
	ctx context.Context,
	voterID string,
	req httptransport.AssignEligibilityRequest,
) (httptransport.VoterResponse, error) {
	voter, err := h.Register.AssignEligibility(ctx, voterID, req.ElectionIDs)
	if err != nil {
		return httptransport.VoterResponse{}, err
	}
	return voterResponse(voter), nil
}

func (h Handler) CheckEligibilityHandler(ctx context.Context, voterID, electionID string) (httptransport.EligibilityResponse, error) {
	eligible, err := h.Lookup.IsEligible(ctx, voterID, electionID)
	if err != nil {
		return httptransport.EligibilityResponse{}, err
	}
	return httptransport.EligibilityResponse{
		VoterID:    entities.NormalizeVoterID(voterID),
		ElectionID: electionID,
		Eligible:   eligible,
	}, nil
}

func (h Handler) DeactivateVoterHandler(ctx context.Context, voterID string) error {
	return h.Register.DeactivateVoter(ctx, voterID)
}

func (h Handler) AuthenticateHandler(
	ctx context.Context,
	req httptransport.AuthenticateRequest,
	ipAddress string,
	userAgent string,
) (httptransport.AuthenticateResponse, error) {
	result, err := h.Auth.AuthenticateAtCenter(ctx, commands.AuthenticateCommand{
		VoterID:           req.VoterID,
		ExtraField:        req.ExtraField,
		ElectionCode:      req.ElectionCode,
		FingerprintSample: req.FingerprintSample,
		IPAddress:         ipAddress,
		UserAgent:         userAgent,
	})
	if err != nil {
		return httptransport.AuthenticateResponse{}, err
	}
	return httptransport.AuthenticateResponse{
		VoterID:    result.VoterID,
		FullName:   result.FullName,
		ElectionID: result.ElectionID,
	}, nil
}

func voterResponse(voter entities.Voter) httptransport.VoterResponse {
	eligible := voter.EligibleElections
	if eligible == nil {
		eligible = []string{}
	}
	return httptransport.VoterResponse{
		VoterID:           voter.VoterID,
		FullName:          voter.FullName,
		Email:             voter.Email,
		Active:            voter.Active,
		EligibleElections: eligible,
		CreatedAt:         voter.CreatedAt.Format(time.RFC3339),
		UpdatedAt:         voter.UpdatedAt.Format(time.RFC3339),
	}
}
