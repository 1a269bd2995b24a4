package queries_test

import (
	"context"
	"testing"
	"time"

	"voteguard/contexts/election-operations/voting-engine/adapters/memory"
	"voteguard/contexts/election-operations/voting-engine/application/queries"
	"voteguard/contexts/election-operations/voting-engine/domain/entities"
	"voteguard/contexts/election-operations/voting-engine/ports"
)

func seedLedger(t *testing.T, store *memory.Store, ballots map[string]string) {
	t.Helper()
	castAt := time.Date(2026, time.March, 3, 10, 0, 0, 0, time.UTC)
	i := 0
	for voterID, candidateID := range ballots {
		i++
		err := store.RecordVote(context.Background(), entities.Vote{
			VoteID:      voterID + "-ballot",
			VoterID:     voterID,
			CandidateID: candidateID,
			Scope:       entities.ScopedElection("E1"),
			CastAt:      castAt.Add(time.Duration(i) * time.Second),
		})
		if err != nil {
			t.Fatalf("seed ballot failed: %v", err)
		}
	}
}

func TestTallyOrdersByVotesThenCandidate(t *testing.T) {
	store := memory.NewStore()
	seedLedger(t, store, map[string]string{
		"V1": "C2",
		"V2": "C2",
		"V3": "C1",
		"V4": "C3",
		"V5": "C1",
	})
	uc := queries.TallyUseCase{Ledger: store, Voters: store}

	tally, err := uc.Tally(context.Background(), entities.ScopedElection("E1"))
	if err != nil {
		t.Fatalf("tally failed: %v", err)
	}
	if tally.TotalVotes != 5 {
		t.Fatalf("expected 5 ballots, got %d", tally.TotalVotes)
	}
	want := []ports.CandidateCount{
		{CandidateID: "C1", Votes: 2},
		{CandidateID: "C2", Votes: 2},
		{CandidateID: "C3", Votes: 1},
	}
	if len(tally.Counts) != len(want) {
		t.Fatalf("expected %d rows, got %d", len(want), len(tally.Counts))
	}
	for i, row := range want {
		if tally.Counts[i] != row {
			t.Fatalf("row %d: expected %+v, got %+v", i, row, tally.Counts[i])
		}
	}
}

func TestResultsComputesTurnout(t *testing.T) {
	store := memory.NewStore()
	store.SetVoter(ports.VoterRecord{VoterID: "V1", Active: true})
	store.SetVoter(ports.VoterRecord{VoterID: "V2", Active: true})
	store.SetVoter(ports.VoterRecord{VoterID: "V3", Active: true})
	store.SetVoter(ports.VoterRecord{VoterID: "V4", Active: false})
	seedLedger(t, store, map[string]string{
		"V1": "C1",
		"V2": "C2",
	})
	uc := queries.TallyUseCase{Ledger: store, Voters: store}

	summary, err := uc.Results(context.Background(), entities.ScopedElection("E1"))
	if err != nil {
		t.Fatalf("results failed: %v", err)
	}
	if summary.EligibleVoters != 3 {
		t.Fatalf("expected 3 active voters, got %d", summary.EligibleVoters)
	}
	if summary.TotalVotes != 2 {
		t.Fatalf("expected 2 ballots, got %d", summary.TotalVotes)
	}
	want := float64(2) / float64(3) * 100
	if diff := summary.TurnoutPercent - want; diff > 0.0001 || diff < -0.0001 {
		t.Fatalf("expected turnout %.4f, got %.4f", want, summary.TurnoutPercent)
	}
}

func TestTallyEmptyScope(t *testing.T) {
	store := memory.NewStore()
	uc := queries.TallyUseCase{Ledger: store, Voters: store}

	tally, err := uc.Tally(context.Background(), entities.GlobalElection())
	if err != nil {
		t.Fatalf("tally failed: %v", err)
	}
	if tally.TotalVotes != 0 || len(tally.Counts) != 0 {
		t.Fatalf("expected empty tally, got %+v", tally)
	}
}
