package queries

import (
	"context"
	"sort"

	"voteguard/contexts/election-operations/voting-engine/domain/entities"
	"voteguard/contexts/election-operations/voting-engine/ports"
)

// ElectionTally is the per-candidate count for one scope, highest first.
type ElectionTally struct {
	Scope      entities.ElectionScope
	Counts     []ports.CandidateCount
	TotalVotes int64
}

// ResultsSummary adds turnout on top of the tally. Turnout is computed over
// currently active voters; reads are point-in-time, not a frozen certificate.
type ResultsSummary struct {
	Scope          entities.ElectionScope
	Counts         []ports.CandidateCount
	TotalVotes     int64
	EligibleVoters int64
	TurnoutPercent float64
}

type TallyUseCase struct {
	Ledger ports.VoteLedger
	Voters ports.VoterDirectory
}

func (uc TallyUseCase) Tally(ctx context.Context, scope entities.ElectionScope) (ElectionTally, error) {
	counts, err := uc.Ledger.TallyByCandidate(ctx, scope)
	if err != nil {
		return ElectionTally{}, err
	}
	sortCounts(counts)
	var total int64
	for _, row := range counts {
		total += row.Votes
	}
	return ElectionTally{
		Scope:      scope,
		Counts:     counts,
		TotalVotes: total,
	}, nil
}

func (uc TallyUseCase) Results(ctx context.Context, scope entities.ElectionScope) (ResultsSummary, error) {
	tally, err := uc.Tally(ctx, scope)
	if err != nil {
		return ResultsSummary{}, err
	}
	eligible, err := uc.Voters.CountActiveVoters(ctx)
	if err != nil {
		return ResultsSummary{}, err
	}
	summary := ResultsSummary{
		Scope:          scope,
		Counts:         tally.Counts,
		TotalVotes:     tally.TotalVotes,
		EligibleVoters: eligible,
	}
	if eligible > 0 {
		summary.TurnoutPercent = float64(tally.TotalVotes) / float64(eligible) * 100
	}
	return summary, nil
}

func (uc TallyUseCase) HasVoted(ctx context.Context, voterID string, scope entities.ElectionScope) (bool, error) {
	return uc.Ledger.HasVoted(ctx, voterID, scope)
}

func sortCounts(counts []ports.CandidateCount) {
	sort.Slice(counts, func(i, j int) bool {
		if counts[i].Votes != counts[j].Votes {
			return counts[i].Votes > counts[j].Votes
		}
		return counts[i].CandidateID < counts[j].CandidateID
	})
}
