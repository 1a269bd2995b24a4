package commands_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"voteguard/contexts/identity-access/voter-registry/adapters/memory"
	"voteguard/contexts/identity-access/voter-registry/application/commands"
	"voteguard/contexts/identity-access/voter-registry/application/queries"
	domainerrors "voteguard/contexts/identity-access/voter-registry/domain/errors"
	"voteguard/contexts/identity-access/voter-registry/ports"
)

func newRegisterFixture(t *testing.T) (*memory.Store, commands.RegisterUseCase) {
	t.Helper()
	store := memory.NewStore(nil)
	uc := commands.RegisterUseCase{
		Voters:  store,
		Catalog: store,
		Clock:   store,
	}
	return store, uc
}

func TestRegisterVoterSnapshotsOpenElections(t *testing.T) {
	store, uc := newRegisterFixture(t)
	store.SetNow(time.Date(2026, time.March, 3, 9, 0, 0, 0, time.UTC))
	store.SetElectionRef(ports.ElectionRef{ElectionID: "E1", ElectionCode: "ABC123", Open: true})
	store.SetElectionRef(ports.ElectionRef{ElectionID: "E2", ElectionCode: "DEF456", Open: false})

	voter, err := uc.RegisterVoter(context.Background(), commands.RegisterVoterCommand{
		VoterID:  "v1",
		FullName: "First Voter",
	})
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if voter.VoterID != "V1" {
		t.Fatalf("expected normalized voter id V1, got %q", voter.VoterID)
	}
	if len(voter.EligibleElections) != 1 || voter.EligibleElections[0] != "E1" {
		t.Fatalf("expected snapshot [E1], got %v", voter.EligibleElections)
	}

	// An election opening after registration never widens the snapshot.
	store.SetElectionRef(ports.ElectionRef{ElectionID: "E2", ElectionCode: "DEF456", Open: true})
	lookup := queries.LookupUseCase{Voters: store}
	eligible, err := lookup.IsEligible(context.Background(), "V1", "E2")
	if err != nil {
		t.Fatalf("eligibility check failed: %v", err)
	}
	if eligible {
		t.Fatal("snapshot must not include elections opened after registration")
	}
	eligible, err = lookup.IsEligible(context.Background(), "V1", "E1")
	if err != nil {
		t.Fatalf("eligibility check failed: %v", err)
	}
	if !eligible {
		t.Fatal("expected V1 to stay eligible for E1")
	}
}

func TestRegisterVoterRejectsDuplicate(t *testing.T) {
	store, uc := newRegisterFixture(t)
	store.SetNow(time.Date(2026, time.March, 3, 9, 0, 0, 0, time.UTC))

	if _, err := uc.RegisterVoter(context.Background(), commands.RegisterVoterCommand{
		VoterID:  "V1",
		FullName: "First Voter",
	}); err != nil {
		t.Fatalf("first registration failed: %v", err)
	}
	_, err := uc.RegisterVoter(context.Background(), commands.RegisterVoterCommand{
		VoterID:  " v1 ",
		FullName: "Impostor",
	})
	if !errors.Is(err, domainerrors.ErrVoterAlreadyRegistered) {
		t.Fatalf("expected ErrVoterAlreadyRegistered, got %v", err)
	}
}

func TestAssignEligibilityIsIdempotentForIdenticalSet(t *testing.T) {
	store, uc := newRegisterFixture(t)
	store.SetNow(time.Date(2026, time.March, 3, 9, 0, 0, 0, time.UTC))
	store.SetElectionRef(ports.ElectionRef{ElectionID: "E1", ElectionCode: "ABC123", Open: true})

	if _, err := uc.RegisterVoter(context.Background(), commands.RegisterVoterCommand{
		VoterID:  "V1",
		FullName: "First Voter",
	}); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	voter, err := uc.AssignEligibility(context.Background(), "V1", []string{"E1"})
	if err != nil {
		t.Fatalf("identical reassignment should be a no-op: %v", err)
	}
	if len(voter.EligibleElections) != 1 || voter.EligibleElections[0] != "E1" {
		t.Fatalf("unexpected snapshot %v", voter.EligibleElections)
	}

	_, err = uc.AssignEligibility(context.Background(), "V1", []string{"E1", "E2"})
	if !errors.Is(err, domainerrors.ErrEligibilityAlreadyAssigned) {
		t.Fatalf("expected ErrEligibilityAlreadyAssigned, got %v", err)
	}
}

func TestAssignEligibilityFillsEmptySnapshot(t *testing.T) {
	store, uc := newRegisterFixture(t)
	store.SetNow(time.Date(2026, time.March, 3, 9, 0, 0, 0, time.UTC))

	if _, err := uc.RegisterVoter(context.Background(), commands.RegisterVoterCommand{
		VoterID:  "V1",
		FullName: "First Voter",
	}); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	voter, err := uc.AssignEligibility(context.Background(), "V1", []string{"E2", "E1", "E1"})
	if err != nil {
		t.Fatalf("assign to empty snapshot failed: %v", err)
	}
	if len(voter.EligibleElections) != 2 || voter.EligibleElections[0] != "E1" || voter.EligibleElections[1] != "E2" {
		t.Fatalf("expected deduplicated sorted [E1 E2], got %v", voter.EligibleElections)
	}
}

func TestDeactivateVoterKeepsRecord(t *testing.T) {
	store, uc := newRegisterFixture(t)
	store.SetNow(time.Date(2026, time.March, 3, 9, 0, 0, 0, time.UTC))

	if _, err := uc.RegisterVoter(context.Background(), commands.RegisterVoterCommand{
		VoterID:  "V1",
		FullName: "First Voter",
	}); err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if err := uc.DeactivateVoter(context.Background(), "V1"); err != nil {
		t.Fatalf("deactivate failed: %v", err)
	}
	voter, err := store.GetVoter(context.Background(), "V1")
	if err != nil {
		t.Fatalf("voter must survive deactivation: %v", err)
	}
	if voter.Active {
		t.Fatal("expected voter inactive")
	}
}
