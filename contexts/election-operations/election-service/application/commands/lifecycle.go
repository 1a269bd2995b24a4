package commands

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	application "voteguard/contexts/election-operations/election-service/application"
	"voteguard/contexts/election-operations/election-service/domain/entities"
	domainerrors "voteguard/contexts/election-operations/election-service/domain/errors"
	"voteguard/contexts/election-operations/election-service/ports"
)

const defaultOTPTTL = 2 * time.Minute

// electionCodeAttempts bounds retries when a freshly generated code collides
// with an existing election.
const electionCodeAttempts = 5

type CreateElectionCommand struct {
	Name        string
	Description string
	StartAt     time.Time
	EndAt       time.Time
}

type GenerateOTPResult struct {
	OTP       string
	ExpiresAt time.Time
}

type ActivateCenterCommand struct {
	ElectionCode   string
	OTP            string
	CenterLocation string
}

type ActivateCenterResult struct {
	ElectionID     string
	ElectionCode   string
	CenterLocation string
}

// LifecycleUseCase owns election write paths: creation, the center-binding
// OTP flow, and the one-way status transitions.
type LifecycleUseCase struct {
	Elections  ports.ElectionRepository
	Candidates ports.CandidateRepository
	Clock      ports.Clock
	IDGen      ports.IDGenerator
	Codes      ports.CodeIssuer
	OTPTTL     time.Duration
	Logger     *slog.Logger
}

func (uc LifecycleUseCase) CreateElection(ctx context.Context, cmd CreateElectionCommand) (entities.Election, error) {
	logger := application.ResolveLogger(uc.Logger)
	name := strings.TrimSpace(cmd.Name)
	if name == "" || cmd.StartAt.IsZero() || cmd.EndAt.IsZero() || !cmd.EndAt.After(cmd.StartAt) {
		logger.Warn("election create validation failed",
			"event", "election_create_validation_failed",
			"module", "election-operations/election-service",
			"layer", "application",
			"name", name,
		)
		return entities.Election{}, domainerrors.ErrInvalidElectionInput
	}

	electionID, err := uc.IDGen.NewID(ctx)
	if err != nil {
		return entities.Election{}, err
	}
	now := uc.now()
	election := entities.Election{
		ElectionID:  electionID,
		Name:        name,
		Description: strings.TrimSpace(cmd.Description),
		StartAt:     cmd.StartAt.UTC(),
		EndAt:       cmd.EndAt.UTC(),
		Status:      entities.StatusUpcoming,
		Active:      true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	for attempt := 0; attempt < electionCodeAttempts; attempt++ {
		code, err := uc.Codes.NewElectionCode(ctx)
		if err != nil {
			return entities.Election{}, err
		}
		election.ElectionCode = entities.NormalizeElectionCode(code)
		err = uc.Elections.SaveElection(ctx, election)
		if err == nil {
			logger.Info("election created",
				"event", "election_created",
				"module", "election-operations/election-service",
				"layer", "application",
				"election_id", election.ElectionID,
				"election_code", election.ElectionCode,
			)
			return election, nil
		}
		if !errors.Is(err, domainerrors.ErrElectionCodeTaken) {
			return entities.Election{}, err
		}
	}
	return entities.Election{}, domainerrors.ErrElectionCodeTaken
}

// GenerateCenterOTP mints a fresh passcode for center setup, overwriting any
// prior unexpired passcode. An election never holds more than one live OTP.
func (uc LifecycleUseCase) GenerateCenterOTP(ctx context.Context, electionID string) (GenerateOTPResult, error) {
	logger := application.ResolveLogger(uc.Logger)
	election, err := uc.Elections.GetElection(ctx, strings.TrimSpace(electionID))
	if err != nil {
		return GenerateOTPResult{}, err
	}

	now := uc.now()
	if !election.Active || election.StatusAt(now) == entities.StatusCompleted {
		logger.Warn("otp generation refused for closed election",
			"event", "election_otp_refused",
			"module", "election-operations/election-service",
			"layer", "application",
			"election_id", election.ElectionID,
		)
		return GenerateOTPResult{}, domainerrors.ErrElectionNotOpen
	}

	otp, err := uc.Codes.NewCenterOTP(ctx)
	if err != nil {
		return GenerateOTPResult{}, err
	}
	expiresAt := now.Add(uc.resolveOTPTTL())
	if err := uc.Elections.SetCenterOTP(ctx, election.ElectionID, otp, expiresAt, now); err != nil {
		return GenerateOTPResult{}, err
	}

	logger.Info("center otp generated",
		"event", "election_otp_generated",
		"module", "election-operations/election-service",
		"layer", "application",
		"election_id", election.ElectionID,
		"expires_at", expiresAt.Format(time.RFC3339),
	)
	return GenerateOTPResult{OTP: otp, ExpiresAt: expiresAt}, nil
}

// ActivateCenter redeems an OTP against an election code and binds the
// supplied center location. Redemption consumes the passcode even when it has
// time left, so a code can never open two centers.
func (uc LifecycleUseCase) ActivateCenter(ctx context.Context, cmd ActivateCenterCommand) (ActivateCenterResult, error) {
	logger := application.ResolveLogger(uc.Logger)
	code := entities.NormalizeElectionCode(cmd.ElectionCode)
	otp := strings.TrimSpace(cmd.OTP)
	location := strings.TrimSpace(cmd.CenterLocation)

	if len(code) != entities.ElectionCodeLength {
		return ActivateCenterResult{}, domainerrors.ErrInvalidElectionCode
	}
	if otp == "" || location == "" {
		return ActivateCenterResult{}, domainerrors.ErrInvalidElectionInput
	}

	election, err := uc.Elections.GetElectionByCode(ctx, code)
	if err != nil {
		if errors.Is(err, domainerrors.ErrElectionNotFound) {
			logger.Warn("center activation with unknown election code",
				"event", "election_center_code_unknown",
				"module", "election-operations/election-service",
				"layer", "application",
				"election_code", code,
			)
			return ActivateCenterResult{}, domainerrors.ErrInvalidElectionCode
		}
		return ActivateCenterResult{}, err
	}

	now := uc.now()
	if !election.Active || election.StatusAt(now) == entities.StatusCompleted {
		return ActivateCenterResult{}, domainerrors.ErrElectionNotOpen
	}

	redeemed, err := uc.Elections.RedeemCenterOTP(ctx, election.ElectionID, otp, location, now)
	if err != nil {
		logger.Warn("center activation rejected",
			"event", "election_center_activation_rejected",
			"module", "election-operations/election-service",
			"layer", "application",
			"election_id", election.ElectionID,
			"error", err.Error(),
		)
		return ActivateCenterResult{}, err
	}

	logger.Info("voting center activated",
		"event", "election_center_activated",
		"module", "election-operations/election-service",
		"layer", "application",
		"election_id", redeemed.ElectionID,
		"center_location", redeemed.ActiveCenterLocation,
	)
	return ActivateCenterResult{
		ElectionID:     redeemed.ElectionID,
		ElectionCode:   redeemed.ElectionCode,
		CenterLocation: redeemed.ActiveCenterLocation,
	}, nil
}

// UpdateStatus applies administrator-triggered transitions; the lifecycle
// only ever moves forward.
func (uc LifecycleUseCase) UpdateStatus(ctx context.Context, electionID string, next entities.ElectionStatus) (entities.Election, error) {
	logger := application.ResolveLogger(uc.Logger)
	election, err := uc.Elections.GetElection(ctx, strings.TrimSpace(electionID))
	if err != nil {
		return entities.Election{}, err
	}
	if !election.CanTransitionTo(next) {
		return entities.Election{}, domainerrors.ErrInvalidTransition
	}

	now := uc.now()
	if err := uc.Elections.UpdateStatus(ctx, election.ElectionID, next, now); err != nil {
		return entities.Election{}, err
	}
	election.Status = next
	election.UpdatedAt = now

	logger.Info("election status updated",
		"event", "election_status_updated",
		"module", "election-operations/election-service",
		"layer", "application",
		"election_id", election.ElectionID,
		"status", string(next),
	)
	return election, nil
}

func (uc LifecycleUseCase) DeactivateElection(ctx context.Context, electionID string) error {
	election, err := uc.Elections.GetElection(ctx, strings.TrimSpace(electionID))
	if err != nil {
		return err
	}
	return uc.Elections.SetActive(ctx, election.ElectionID, false, uc.now())
}

func (uc LifecycleUseCase) AddCandidate(ctx context.Context, candidate entities.Candidate) (entities.Candidate, error) {
	if strings.TrimSpace(candidate.FullName) == "" || strings.TrimSpace(candidate.ElectionID) == "" {
		return entities.Candidate{}, domainerrors.ErrInvalidCandidateInput
	}
	if _, err := uc.Elections.GetElection(ctx, strings.TrimSpace(candidate.ElectionID)); err != nil {
		return entities.Candidate{}, err
	}

	candidateID, err := uc.IDGen.NewID(ctx)
	if err != nil {
		return entities.Candidate{}, err
	}
	now := uc.now()
	candidate.CandidateID = candidateID
	candidate.ElectionID = strings.TrimSpace(candidate.ElectionID)
	candidate.FullName = strings.TrimSpace(candidate.FullName)
	candidate.Party = strings.TrimSpace(candidate.Party)
	candidate.Active = true
	candidate.CreatedAt = now
	candidate.UpdatedAt = now
	if err := uc.Candidates.SaveCandidate(ctx, candidate); err != nil {
		return entities.Candidate{}, err
	}
	return candidate, nil
}

func (uc LifecycleUseCase) now() time.Time {
	now := time.Now().UTC()
	if uc.Clock != nil {
		now = uc.Clock.Now().UTC()
	}
	return now
}

func (uc LifecycleUseCase) resolveOTPTTL() time.Duration {
	if uc.OTPTTL <= 0 {
		return defaultOTPTTL
	}
	return uc.OTPTTL
}
