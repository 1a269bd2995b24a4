package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"

	voteerrors "voteguard/contexts/election-operations/voting-engine/domain/errors"
	votehttp "voteguard/contexts/election-operations/voting-engine/transport/http"
)

func (s *Server) registerVotingRoutes() {
	s.mux.HandleFunc("POST /api/votes/v1/votes", s.handleCastVote)
	s.mux.HandleFunc("GET /api/votes/v1/elections/{election_id}/tally", s.handleTally)
	s.mux.HandleFunc("GET /api/votes/v1/elections/{election_id}/results", s.handleResults)
	s.mux.HandleFunc("GET /api/votes/v1/tally", s.handleGlobalTally)
	s.mux.HandleFunc("GET /api/votes/v1/results", s.handleGlobalResults)
	s.mux.HandleFunc("GET /api/votes/v1/voters/{voter_id}/has-voted", s.handleHasVoted)
}

func (s *Server) handleCastVote(w http.ResponseWriter, r *http.Request) {
	var req votehttp.CastVoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeVotingError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.voting.Handler.CastVoteHandler(r.Context(), req, resolveClientIP(r), r.UserAgent())
	if err != nil {
		writeVotingDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleTally(w http.ResponseWriter, r *http.Request) {
	resp, err := s.voting.Handler.TallyHandler(r.Context(), r.PathValue("election_id"))
	if err != nil {
		writeVotingDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleResults(w http.ResponseWriter, r *http.Request) {
	resp, err := s.voting.Handler.ResultsHandler(r.Context(), r.PathValue("election_id"))
	if err != nil {
		writeVotingDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGlobalTally(w http.ResponseWriter, r *http.Request) {
	resp, err := s.voting.Handler.TallyHandler(r.Context(), "")
	if err != nil {
		writeVotingDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGlobalResults(w http.ResponseWriter, r *http.Request) {
	resp, err := s.voting.Handler.ResultsHandler(r.Context(), "")
	if err != nil {
		writeVotingDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleHasVoted(w http.ResponseWriter, r *http.Request) {
	resp, err := s.voting.Handler.HasVotedHandler(r.Context(), r.PathValue("voter_id"), r.URL.Query().Get("election_id"))
	if err != nil {
		writeVotingDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func writeVotingDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, voteerrors.ErrDuplicateVote):
		writeVotingError(w, http.StatusConflict, "already_voted", "a ballot has already been recorded for this voter")
	case errors.Is(err, voteerrors.ErrVoterNotFound):
		writeVotingError(w, http.StatusNotFound, "voter_not_found", err.Error())
	case errors.Is(err, voteerrors.ErrElectionNotFound):
		writeVotingError(w, http.StatusNotFound, "election_not_found", err.Error())
	case errors.Is(err, voteerrors.ErrCandidateNotFound):
		writeVotingError(w, http.StatusNotFound, "candidate_not_found", err.Error())
	case errors.Is(err, voteerrors.ErrElectionNotOpen):
		writeVotingError(w, http.StatusConflict, "election_not_open", err.Error())
	case errors.Is(err, voteerrors.ErrCandidateElectionMismatch):
		writeVotingError(w, http.StatusConflict, "candidate_election_mismatch", err.Error())
	case errors.Is(err, voteerrors.ErrVoterInactive):
		writeVotingError(w, http.StatusForbidden, "voter_inactive", err.Error())
	case errors.Is(err, voteerrors.ErrNotEligible):
		writeVotingError(w, http.StatusForbidden, "not_eligible", err.Error())
	case errors.Is(err, voteerrors.ErrCandidateInactive):
		writeVotingError(w, http.StatusConflict, "candidate_inactive", err.Error())
	case errors.Is(err, voteerrors.ErrInvalidVoteInput):
		writeVotingError(w, http.StatusBadRequest, "invalid_request", err.Error())
	default:
		writeVotingError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func writeVotingError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, votehttp.ErrorResponse{
		Code:    code,
		Message: message,
	})
}
