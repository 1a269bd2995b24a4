package commands_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"voteguard/contexts/identity-access/voter-registry/adapters/memory"
	"voteguard/contexts/identity-access/voter-registry/application/commands"
	"voteguard/contexts/identity-access/voter-registry/domain/entities"
	domainerrors "voteguard/contexts/identity-access/voter-registry/domain/errors"
	"voteguard/contexts/identity-access/voter-registry/ports"
)

func newAuthFixture(t *testing.T) (*memory.Store, commands.AuthUseCase) {
	t.Helper()
	store := memory.NewStore([]entities.Voter{{
		VoterID:             "V1",
		FullName:            "First Voter",
		ExtraField:          "1990-01-01",
		FingerprintTemplate: "template-v1",
		Active:              true,
		EligibleElections:   []string{"E1"},
	}})
	store.SetNow(time.Date(2026, time.March, 3, 9, 0, 0, 0, time.UTC))
	store.SetElectionRef(ports.ElectionRef{ElectionID: "E1", ElectionCode: "ABC123", Open: true})
	uc := commands.AuthUseCase{
		Voters:    store,
		Catalog:   store,
		Votes:     store,
		Biometric: store,
		Audit:     store,
	}
	return store, uc
}

func baseAuthCommand() commands.AuthenticateCommand {
	return commands.AuthenticateCommand{
		VoterID:           "v1",
		ExtraField:        "1990-01-01",
		ElectionCode:      "ABC123",
		FingerprintSample: "sample",
		IPAddress:         "203.0.113.7",
		UserAgent:         "kiosk/1.0",
	}
}

func TestAuthenticateAtCenterSucceeds(t *testing.T) {
	store, uc := newAuthFixture(t)

	result, err := uc.AuthenticateAtCenter(context.Background(), baseAuthCommand())
	if err != nil {
		t.Fatalf("authenticate failed: %v", err)
	}
	if result.VoterID != "V1" || result.ElectionID != "E1" {
		t.Fatalf("unexpected result %+v", result)
	}

	entries := store.AuditEntries()
	if len(entries) != 1 || entries[0].Action != "voter.auth.succeeded" {
		t.Fatalf("expected one success audit entry, got %+v", entries)
	}
}

func TestAuthenticateAtCenterExtraFieldMismatchReadsAsUnknown(t *testing.T) {
	_, uc := newAuthFixture(t)
	cmd := baseAuthCommand()
	cmd.ExtraField = "1991-12-31"

	_, err := uc.AuthenticateAtCenter(context.Background(), cmd)
	if !errors.Is(err, domainerrors.ErrVoterNotFound) {
		t.Fatalf("expected ErrVoterNotFound, got %v", err)
	}
}

func TestAuthenticateAtCenterRejectsIneligibleVoter(t *testing.T) {
	store, uc := newAuthFixture(t)
	store.SetElectionRef(ports.ElectionRef{ElectionID: "E2", ElectionCode: "DEF456", Open: true})
	cmd := baseAuthCommand()
	cmd.ElectionCode = "DEF456"

	_, err := uc.AuthenticateAtCenter(context.Background(), cmd)
	if !errors.Is(err, domainerrors.ErrNotEligible) {
		t.Fatalf("expected ErrNotEligible, got %v", err)
	}
}

func TestAuthenticateAtCenterRejectsRepeatVisit(t *testing.T) {
	store, uc := newAuthFixture(t)
	store.SetVoted("V1", "E1")

	_, err := uc.AuthenticateAtCenter(context.Background(), baseAuthCommand())
	if !errors.Is(err, domainerrors.ErrAlreadyVoted) {
		t.Fatalf("expected ErrAlreadyVoted, got %v", err)
	}
}

func TestAuthenticateAtCenterFingerprintMismatch(t *testing.T) {
	store, uc := newAuthFixture(t)
	store.SetBiometric(false, nil)

	_, err := uc.AuthenticateAtCenter(context.Background(), baseAuthCommand())
	if !errors.Is(err, domainerrors.ErrFingerprintMismatch) {
		t.Fatalf("expected ErrFingerprintMismatch, got %v", err)
	}
	entries := store.AuditEntries()
	if len(entries) != 1 || entries[0].Action != "voter.auth.rejected" {
		t.Fatalf("expected rejection audit entry, got %+v", entries)
	}
}

func TestAuthenticateAtCenterBiometricOutage(t *testing.T) {
	store, uc := newAuthFixture(t)
	store.SetBiometric(false, errors.New("connection refused"))

	_, err := uc.AuthenticateAtCenter(context.Background(), baseAuthCommand())
	if !errors.Is(err, domainerrors.ErrBiometricUnavailable) {
		t.Fatalf("expected ErrBiometricUnavailable, got %v", err)
	}
}

func TestAuthenticateAtCenterClosedElection(t *testing.T) {
	store, uc := newAuthFixture(t)
	store.SetElectionRef(ports.ElectionRef{ElectionID: "E1", ElectionCode: "ABC123", Open: false})

	_, err := uc.AuthenticateAtCenter(context.Background(), baseAuthCommand())
	if !errors.Is(err, domainerrors.ErrElectionNotOpen) {
		t.Fatalf("expected ErrElectionNotOpen, got %v", err)
	}
}
