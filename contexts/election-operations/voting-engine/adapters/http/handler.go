package httpadapter

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"voteguard/contexts/election-operations/voting-engine/application/commands"
	"voteguard/contexts/election-operations/voting-engine/application/queries"
	"voteguard/contexts/election-operations/voting-engine/domain/entities"
	"voteguard/contexts/election-operations/voting-engine/ports"
	httptransport "voteguard/contexts/election-operations/voting-engine/transport/http"
)

type Handler struct {
	Cast   commands.CastVoteUseCase
	Tally  queries.TallyUseCase
	Logger *slog.Logger
}

func scopeFromElectionID(electionID string) entities.ElectionScope {
	electionID = strings.TrimSpace(electionID)
	if electionID == "" {
		return entities.GlobalElection()
	}
	return entities.ScopedElection(electionID)
}

func (h Handler) CastVoteHandler(
	ctx context.Context,
	req httptransport.CastVoteRequest,
	ipAddress string,
	userAgent string,
) (httptransport.VoteResponse, error) {
	vote, err := h.Cast.CastVote(ctx, commands.CastVoteCommand{
		VoterID:     req.VoterID,
		CandidateID: req.CandidateID,
		Scope:       scopeFromElectionID(req.ElectionID),
		IPAddress:   ipAddress,
		UserAgent:   userAgent,
	})
	if err != nil {
		return httptransport.VoteResponse{}, err
	}
	electionID, _ := vote.Scope.ElectionID()
	return httptransport.VoteResponse{
		VoteID:         vote.VoteID,
		VoterID:        vote.VoterID,
		CandidateID:    vote.CandidateID,
		ElectionID:     electionID,
		CenterLocation: vote.CenterLocation,
		CastAt:         vote.CastAt.Format(time.RFC3339),
	}, nil
}

func (h Handler) TallyHandler(ctx context.Context, electionID string) (httptransport.TallyResponse, error) {
	tally, err := h.Tally.Tally(ctx, scopeFromElectionID(electionID))
	if err != nil {
		return httptransport.TallyResponse{}, err
	}
	id, _ := tally.Scope.ElectionID()
	return httptransport.TallyResponse{
		ElectionID: id,
		Counts:     countResponses(tally.Counts),
		TotalVotes: tally.TotalVotes,
	}, nil
}

func (h Handler) ResultsHandler(ctx context.Context, electionID string) (httptransport.ResultsResponse, error) {
	summary, err := h.Tally.Results(ctx, scopeFromElectionID(electionID))
	if err != nil {
		return httptransport.ResultsResponse{}, err
	}
	id, _ := summary.Scope.ElectionID()
	return httptransport.ResultsResponse{
		ElectionID:     id,
		Counts:         countResponses(summary.Counts),
		TotalVotes:     summary.TotalVotes,
		EligibleVoters: summary.EligibleVoters,
		TurnoutPercent: summary.TurnoutPercent,
	}, nil
}

func (h Handler) HasVotedHandler(ctx context.Context, voterID, electionID string) (httptransport.HasVotedResponse, error) {
	voted, err := h.Tally.HasVoted(ctx, strings.ToUpper(strings.TrimSpace(voterID)), scopeFromElectionID(electionID))
	if err != nil {
		return httptransport.HasVotedResponse{}, err
	}
	return httptransport.HasVotedResponse{
		VoterID:    strings.ToUpper(strings.TrimSpace(voterID)),
		ElectionID: strings.TrimSpace(electionID),
		HasVoted:   voted,
	}, nil
}

func countResponses(counts []ports.CandidateCount) []httptransport.CandidateCountResponse {
	out := make([]httptransport.CandidateCountResponse, 0, len(counts))
	for _, row := range counts {
		out = append(out, httptransport.CandidateCountResponse{
			CandidateID: row.CandidateID,
			Votes:       row.Votes,
		})
	}
	return out
}
