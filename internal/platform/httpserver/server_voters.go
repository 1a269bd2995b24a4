package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"

	votererrors "voteguard/contexts/identity-access/voter-registry/domain/errors"
	voterhttp "voteguard/contexts/identity-access/voter-registry/transport/http"
)

func (s *Server) registerVoterRoutes() {
	s.mux.HandleFunc("POST /api/voters/v1/voters", s.handleRegisterVoter)
	s.mux.HandleFunc("GET /api/voters/v1/voters", s.handleListVoters)
	s.mux.HandleFunc("GET /api/voters/v1/voters/{voter_id}", s.handleGetVoter)
	s.mux.HandleFunc("PUT /api/voters/v1/voters/{voter_id}/eligibility", s.handleAssignEligibility)
	s.mux.HandleFunc("GET /api/voters/v1/voters/{voter_id}/eligibility/{election_id}", s.handleCheckEligibility)
	s.mux.HandleFunc("DELETE /api/voters/v1/voters/{voter_id}", s.handleDeactivateVoter)
	s.mux.HandleFunc("POST /api/voters/v1/authenticate", s.handleAuthenticate)
}

func (s *Server) handleRegisterVoter(w http.ResponseWriter, r *http.Request) {
	var req voterhttp.RegisterVoterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeVoterError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.voters.Handler.RegisterVoterHandler(r.Context(), req)
	if err != nil {
		writeVoterDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleListVoters(w http.ResponseWriter, r *http.Request) {
	resp, err := s.voters.Handler.ListVotersHandler(r.Context())
	if err != nil {
		writeVoterDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetVoter(w http.ResponseWriter, r *http.Request) {
	resp, err := s.voters.Handler.GetVoterHandler(r.Context(), r.PathValue("voter_id"))
	if err != nil {
		writeVoterDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleAssignEligibility(w http.ResponseWriter, r *http.Request) {
	var req voterhttp.AssignEligibilityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeVoterError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.voters.Handler.AssignEligibilityHandler(r.Context(), r.PathValue("voter_id"), req)
	if err != nil {
		writeVoterDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleCheckEligibility(w http.ResponseWriter, r *http.Request) {
	resp, err := s.voters.Handler.CheckEligibilityHandler(r.Context(), r.PathValue("voter_id"), r.PathValue("election_id"))
	if err != nil {
		writeVoterDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleDeactivateVoter(w http.ResponseWriter, r *http.Request) {
	if err := s.voters.Handler.DeactivateVoterHandler(r.Context(), r.PathValue("voter_id")); err != nil {
		writeVoterDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleAuthenticate(w http.ResponseWriter, r *http.Request) {
	var req voterhttp.AuthenticateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeVoterError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.voters.Handler.AuthenticateHandler(r.Context(), req, resolveClientIP(r), r.UserAgent())
	if err != nil {
		writeVoterDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func writeVoterDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, votererrors.ErrVoterNotFound):
		writeVoterError(w, http.StatusNotFound, "voter_not_found", err.Error())
	case errors.Is(err, votererrors.ErrInvalidElectionCode):
		writeVoterError(w, http.StatusNotFound, "invalid_election_code", err.Error())
	case errors.Is(err, votererrors.ErrVoterAlreadyRegistered):
		writeVoterError(w, http.StatusConflict, "voter_already_registered", err.Error())
	case errors.Is(err, votererrors.ErrEligibilityAlreadyAssigned):
		writeVoterError(w, http.StatusConflict, "eligibility_already_assigned", err.Error())
	case errors.Is(err, votererrors.ErrAlreadyVoted):
		writeVoterError(w, http.StatusConflict, "already_voted", "a ballot has already been recorded for this voter")
	case errors.Is(err, votererrors.ErrElectionNotOpen):
		writeVoterError(w, http.StatusConflict, "election_not_open", err.Error())
	case errors.Is(err, votererrors.ErrVoterInactive):
		writeVoterError(w, http.StatusForbidden, "voter_inactive", err.Error())
	case errors.Is(err, votererrors.ErrNotEligible):
		writeVoterError(w, http.StatusForbidden, "not_eligible", err.Error())
	case errors.Is(err, votererrors.ErrFingerprintMismatch):
		writeVoterError(w, http.StatusUnauthorized, "fingerprint_mismatch", err.Error())
	case errors.Is(err, votererrors.ErrBiometricUnavailable):
		writeVoterError(w, http.StatusServiceUnavailable, "biometric_unavailable", err.Error())
	case errors.Is(err, votererrors.ErrInvalidVoterInput):
		writeVoterError(w, http.StatusBadRequest, "invalid_request", err.Error())
	default:
		writeVoterError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func writeVoterError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, voterhttp.ErrorResponse{
		Code:    code,
		Message: message,
	})
}
