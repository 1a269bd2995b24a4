package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"

	electionerrors "voteguard/contexts/election-operations/election-service/domain/errors"
	electionhttp "voteguard/contexts/election-operations/election-service/transport/http"
)

func (s *Server) registerElectionRoutes() {
	s.mux.HandleFunc("POST /api/elections/v1/elections", s.handleCreateElection)
	s.mux.HandleFunc("GET /api/elections/v1/elections", s.handleListElections)
	s.mux.HandleFunc("GET /api/elections/v1/elections/{election_id}", s.handleGetElection)
	s.mux.HandleFunc("POST /api/elections/v1/elections/{election_id}/otp", s.handleGenerateOTP)
	s.mux.HandleFunc("POST /api/elections/v1/centers/setup", s.handleSetupCenter)
	s.mux.HandleFunc("GET /api/elections/v1/codes/{election_code}", s.handleValidateCode)
	s.mux.HandleFunc("PATCH /api/elections/v1/elections/{election_id}/status", s.handleUpdateStatus)
	s.mux.HandleFunc("DELETE /api/elections/v1/elections/{election_id}", s.handleDeactivateElection)
	s.mux.HandleFunc("POST /api/elections/v1/elections/{election_id}/candidates", s.handleAddCandidate)
	s.mux.HandleFunc("GET /api/elections/v1/elections/{election_id}/candidates", s.handleListCandidates)
}

func (s *Server) handleCreateElection(w http.ResponseWriter, r *http.Request) {
	var req electionhttp.CreateElectionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeElectionError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.elections.Handler.CreateElectionHandler(r.Context(), req)
	if err != nil {
		writeElectionDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleListElections(w http.ResponseWriter, r *http.Request) {
	resp, err := s.elections.Handler.ListElectionsHandler(r.Context())
	if err != nil {
		writeElectionDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetElection(w http.ResponseWriter, r *http.Request) {
	resp, err := s.elections.Handler.GetElectionHandler(r.Context(), r.PathValue("election_id"))
	if err != nil {
		writeElectionDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGenerateOTP(w http.ResponseWriter, r *http.Request) {
	resp, err := s.elections.Handler.GenerateOTPHandler(r.Context(), r.PathValue("election_id"))
	if err != nil {
		writeElectionDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleSetupCenter(w http.ResponseWriter, r *http.Request) {
	var req electionhttp.SetupCenterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeElectionError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.elections.Handler.SetupCenterHandler(r.Context(), req)
	if err != nil {
		writeElectionDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleValidateCode(w http.ResponseWriter, r *http.Request) {
	resp, err := s.elections.Handler.ValidateCodeHandler(r.Context(), r.PathValue("election_code"))
	if err != nil {
		writeElectionDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleUpdateStatus(w http.ResponseWriter, r *http.Request) {
	var req electionhttp.UpdateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeElectionError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.elections.Handler.UpdateStatusHandler(r.Context(), r.PathValue("election_id"), req)
	if err != nil {
		writeElectionDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleDeactivateElection(w http.ResponseWriter, r *http.Request) {
	if err := s.elections.Handler.DeactivateElectionHandler(r.Context(), r.PathValue("election_id")); err != nil {
		writeElectionDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleAddCandidate(w http.ResponseWriter, r *http.Request) {
	var req electionhttp.AddCandidateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeElectionError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	if req.ElectionID == "" {
		req.ElectionID = r.PathValue("election_id")
	}
	resp, err := s.elections.Handler.AddCandidateHandler(r.Context(), req)
	if err != nil {
		writeElectionDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleListCandidates(w http.ResponseWriter, r *http.Request) {
	resp, err := s.elections.Handler.ListCandidatesHandler(r.Context(), r.PathValue("election_id"))
	if err != nil {
		writeElectionDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func writeElectionDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, electionerrors.ErrElectionNotFound):
		writeElectionError(w, http.StatusNotFound, "election_not_found", err.Error())
	case errors.Is(err, electionerrors.ErrCandidateNotFound):
		writeElectionError(w, http.StatusNotFound, "candidate_not_found", err.Error())
	case errors.Is(err, electionerrors.ErrInvalidElectionCode):
		writeElectionError(w, http.StatusNotFound, "invalid_election_code", err.Error())
	case errors.Is(err, electionerrors.ErrElectionNotOpen):
		writeElectionError(w, http.StatusConflict, "election_not_open", err.Error())
	case errors.Is(err, electionerrors.ErrOTPMismatch):
		writeElectionError(w, http.StatusUnauthorized, "otp_mismatch", err.Error())
	case errors.Is(err, electionerrors.ErrOTPExpired):
		writeElectionError(w, http.StatusUnauthorized, "otp_expired", err.Error())
	case errors.Is(err, electionerrors.ErrInvalidTransition):
		writeElectionError(w, http.StatusConflict, "invalid_transition", err.Error())
	case errors.Is(err, electionerrors.ErrElectionCodeTaken):
		writeElectionError(w, http.StatusConflict, "election_code_taken", err.Error())
	case errors.Is(err, electionerrors.ErrInvalidElectionInput),
		errors.Is(err, electionerrors.ErrInvalidCandidateInput):
		writeElectionError(w, http.StatusBadRequest, "invalid_request", err.Error())
	default:
		writeElectionError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func writeElectionError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, electionhttp.ErrorResponse{
		Code:    code,
		Message: message,
	})
}
