package commands_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"voteguard/contexts/election-operations/voting-engine/adapters/memory"
	"voteguard/contexts/election-operations/voting-engine/application/commands"
	"voteguard/contexts/election-operations/voting-engine/domain/entities"
	domainerrors "voteguard/contexts/election-operations/voting-engine/domain/errors"
	"voteguard/contexts/election-operations/voting-engine/ports"
)

func newCastFixture(t *testing.T) (*memory.Store, commands.CastVoteUseCase) {
	t.Helper()
	store := memory.NewStore()
	store.SetNow(time.Date(2026, time.March, 3, 10, 0, 0, 0, time.UTC))
	store.SetVoter(ports.VoterRecord{
		VoterID:           "V1",
		Active:            true,
		EligibleElections: []string{"E1"},
	})
	store.SetElection(ports.ElectionRecord{
		ElectionID:     "E1",
		Name:           "General Election",
		Open:           true,
		CenterLocation: "Hall A",
	})
	store.SetCandidate(ports.CandidateRecord{
		CandidateID: "C1",
		ElectionID:  "E1",
		FullName:    "First Candidate",
		Active:      true,
	})
	uc := commands.CastVoteUseCase{
		Ledger:     store,
		Voters:     store,
		Elections:  store,
		Candidates: store,
		Audit:      store,
		Tx:         store,
		Clock:      store,
		IDGen:      store,
	}
	return store, uc
}

func scopedCast() commands.CastVoteCommand {
	return commands.CastVoteCommand{
		VoterID:     "v1",
		CandidateID: "C1",
		Scope:       entities.ScopedElection("E1"),
		IPAddress:   "203.0.113.7",
		UserAgent:   "kiosk/1.0",
	}
}

func TestCastVoteRecordsBallotAndAudit(t *testing.T) {
	store, uc := newCastFixture(t)

	vote, err := uc.CastVote(context.Background(), scopedCast())
	if err != nil {
		t.Fatalf("cast failed: %v", err)
	}
	if vote.VoterID != "V1" {
		t.Fatalf("expected normalized voter id, got %q", vote.VoterID)
	}
	if vote.CenterLocation != "Hall A" {
		t.Fatalf("expected center snapshot Hall A, got %q", vote.CenterLocation)
	}
	if !vote.FingerprintVerified {
		t.Fatal("expected fingerprint flag set on the recorded ballot")
	}

	emitted := store.EmittedAudits()
	if len(emitted) != 1 || emitted[0].VoteID != vote.VoteID {
		t.Fatalf("expected one audit emission for the ballot, got %+v", emitted)
	}
}

func TestCastVoteRejectsSecondBallot(t *testing.T) {
	_, uc := newCastFixture(t)

	if _, err := uc.CastVote(context.Background(), scopedCast()); err != nil {
		t.Fatalf("first cast failed: %v", err)
	}
	_, err := uc.CastVote(context.Background(), scopedCast())
	if !errors.Is(err, domainerrors.ErrDuplicateVote) {
		t.Fatalf("expected ErrDuplicateVote, got %v", err)
	}
}

func TestCastVoteConcurrentCastsHaveOneWinner(t *testing.T) {
	store, uc := newCastFixture(t)

	const attempts = 16
	errs := make([]error, attempts)
	var wg sync.WaitGroup
	wg.Add(attempts)
	for i := 0; i < attempts; i++ {
		go func(i int) {
			defer wg.Done()
			_, errs[i] = uc.CastVote(context.Background(), scopedCast())
		}(i)
	}
	wg.Wait()

	winners := 0
	for _, err := range errs {
		switch {
		case err == nil:
			winners++
		case errors.Is(err, domainerrors.ErrDuplicateVote):
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if winners != 1 {
		t.Fatalf("expected exactly one recorded ballot, got %d", winners)
	}
	if got := len(store.EmittedAudits()); got != 1 {
		t.Fatalf("expected one audit emission, got %d", got)
	}
}

func TestCastVoteEligibilityGate(t *testing.T) {
	store, uc := newCastFixture(t)
	store.SetElection(ports.ElectionRecord{
		ElectionID:     "E2",
		Open:           true,
		CenterLocation: "Hall B",
	})
	store.SetCandidate(ports.CandidateRecord{
		CandidateID: "C2",
		ElectionID:  "E2",
		Active:      true,
	})

	cmd := scopedCast()
	cmd.CandidateID = "C2"
	cmd.Scope = entities.ScopedElection("E2")
	_, err := uc.CastVote(context.Background(), cmd)
	if !errors.Is(err, domainerrors.ErrNotEligible) {
		t.Fatalf("expected ErrNotEligible, got %v", err)
	}

	// V1 stays able to vote in E1; E2's rejection never contaminates E1.
	if _, err := uc.CastVote(context.Background(), scopedCast()); err != nil {
		t.Fatalf("eligible cast failed after ineligible attempt: %v", err)
	}
}

func TestCastVoteLifecycleGate(t *testing.T) {
	store, uc := newCastFixture(t)

	store.SetElection(ports.ElectionRecord{
		ElectionID:     "E1",
		Open:           false,
		CenterLocation: "Hall A",
	})
	_, err := uc.CastVote(context.Background(), scopedCast())
	if !errors.Is(err, domainerrors.ErrElectionNotOpen) {
		t.Fatalf("expected ErrElectionNotOpen for closed election, got %v", err)
	}

	// Open election with no activated center is just as closed.
	store.SetElection(ports.ElectionRecord{
		ElectionID: "E1",
		Open:       true,
	})
	_, err = uc.CastVote(context.Background(), scopedCast())
	if !errors.Is(err, domainerrors.ErrElectionNotOpen) {
		t.Fatalf("expected ErrElectionNotOpen without live center, got %v", err)
	}
}

func TestCastVoteCandidateGates(t *testing.T) {
	store, uc := newCastFixture(t)

	cmd := scopedCast()
	cmd.CandidateID = "missing"
	if _, err := uc.CastVote(context.Background(), cmd); !errors.Is(err, domainerrors.ErrCandidateNotFound) {
		t.Fatalf("expected ErrCandidateNotFound, got %v", err)
	}

	store.SetCandidate(ports.CandidateRecord{
		CandidateID: "C1",
		ElectionID:  "E1",
		Active:      false,
	})
	if _, err := uc.CastVote(context.Background(), scopedCast()); !errors.Is(err, domainerrors.ErrCandidateInactive) {
		t.Fatalf("expected ErrCandidateInactive, got %v", err)
	}

	store.SetCandidate(ports.CandidateRecord{
		CandidateID: "C1",
		ElectionID:  "E9",
		Active:      true,
	})
	if _, err := uc.CastVote(context.Background(), scopedCast()); !errors.Is(err, domainerrors.ErrCandidateElectionMismatch) {
		t.Fatalf("expected ErrCandidateElectionMismatch, got %v", err)
	}
}

func TestCastVoteInactiveVoter(t *testing.T) {
	store, uc := newCastFixture(t)
	store.SetVoter(ports.VoterRecord{
		VoterID:           "V1",
		Active:            false,
		EligibleElections: []string{"E1"},
	})

	_, err := uc.CastVote(context.Background(), scopedCast())
	if !errors.Is(err, domainerrors.ErrVoterInactive) {
		t.Fatalf("expected ErrVoterInactive, got %v", err)
	}
}

func TestCastVoteGlobalScopeSkipsElectionChecks(t *testing.T) {
	store, uc := newCastFixture(t)
	store.SetCandidate(ports.CandidateRecord{
		CandidateID: "G1",
		Active:      true,
	})

	cmd := commands.CastVoteCommand{
		VoterID:     "V1",
		CandidateID: "G1",
		Scope:       entities.GlobalElection(),
	}
	vote, err := uc.CastVote(context.Background(), cmd)
	if err != nil {
		t.Fatalf("global cast failed: %v", err)
	}
	if !vote.Scope.Global() {
		t.Fatal("expected global scope on the recorded ballot")
	}

	// One global ballot per voter.
	if _, err := uc.CastVote(context.Background(), cmd); !errors.Is(err, domainerrors.ErrDuplicateVote) {
		t.Fatalf("expected ErrDuplicateVote for second global ballot, got %v", err)
	}

	// A scoped ballot is a different contest; it still goes through.
	if _, err := uc.CastVote(context.Background(), scopedCast()); err != nil {
		t.Fatalf("scoped cast after global failed: %v", err)
	}
}

func TestCastVoteStandsWithoutAuditEmitter(t *testing.T) {
	store, uc := newCastFixture(t)
	uc.Audit = nil

	vote, err := uc.CastVote(context.Background(), scopedCast())
	if err != nil {
		t.Fatalf("cast failed: %v", err)
	}
	voted, err := store.HasVoted(context.Background(), vote.VoterID, vote.Scope)
	if err != nil {
		t.Fatalf("has-voted check failed: %v", err)
	}
	if !voted {
		t.Fatal("expected ballot recorded even with no audit emitter")
	}
}
