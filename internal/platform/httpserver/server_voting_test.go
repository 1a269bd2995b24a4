package httpserver

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	electionservice "voteguard/contexts/election-operations/election-service"
	votingengine "voteguard/contexts/election-operations/voting-engine"
	voteports "voteguard/contexts/election-operations/voting-engine/ports"
	voterregistry "voteguard/contexts/identity-access/voter-registry"
	audittrail "voteguard/contexts/trust-compliance/audit-trail"
)

func newTestServer() *Server {
	return New(
		electionservice.NewInMemoryModule(nil, slog.Default()),
		voterregistry.NewInMemoryModule(nil, slog.Default()),
		votingengine.NewInMemoryModule(slog.Default()),
		audittrail.NewInMemoryModule(slog.Default()),
		slog.Default(),
		":0",
	)
}

func seedBallotFixture(server *Server) {
	server.voting.Store.SetVoter(voteports.VoterRecord{
		VoterID:           "VOT-100",
		Active:            true,
		EligibleElections: []string{"election-1"},
	})
	server.voting.Store.SetElection(voteports.ElectionRecord{
		ElectionID:     "election-1",
		Name:           "City Council 2026",
		Open:           true,
		CenterLocation: "Central Hall",
	})
	server.voting.Store.SetCandidate(voteports.CandidateRecord{
		CandidateID: "candidate-1",
		ElectionID:  "election-1",
		FullName:    "Dana Reeve",
		Active:      true,
	})
}

func TestCastVoteEndpointRecordsBallot(t *testing.T) {
	server := newTestServer()
	seedBallotFixture(server)

	body := []byte(`{"voter_id":"VOT-100","candidate_id":"candidate-1","election_id":"election-1"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/votes/v1/votes", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	rr := httptest.NewRecorder()
	server.mux.ServeHTTP(rr, req)

	if rr.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d body=%s", rr.Code, rr.Body.String())
	}
	var resp struct {
		VoteID     string `json:"vote_id"`
		VoterID    string `json:"voter_id"`
		ElectionID string `json:"election_id"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.VoteID == "" {
		t.Fatal("expected a vote id")
	}
	if resp.VoterID != "VOT-100" || resp.ElectionID != "election-1" {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestCastVoteEndpointRejectsSecondBallot(t *testing.T) {
	server := newTestServer()
	seedBallotFixture(server)

	body := []byte(`{"voter_id":"VOT-100","candidate_id":"candidate-1","election_id":"election-1"}`)
	for i, want := range []int{http.StatusCreated, http.StatusConflict} {
		req := httptest.NewRequest(http.MethodPost, "/api/votes/v1/votes", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		rr := httptest.NewRecorder()
		server.mux.ServeHTTP(rr, req)
		if rr.Code != want {
			t.Fatalf("attempt %d: expected %d, got %d body=%s", i+1, want, rr.Code, rr.Body.String())
		}
		if want == http.StatusConflict {
			var resp struct {
				Code string `json:"code"`
			}
			if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
				t.Fatalf("decode error body: %v", err)
			}
			if resp.Code != "already_voted" {
				t.Fatalf("expected code already_voted, got %q", resp.Code)
			}
		}
	}
}

func TestCastVoteEndpointRejectsMalformedBody(t *testing.T) {
	server := newTestServer()

	req := httptest.NewRequest(http.MethodPost, "/api/votes/v1/votes", bytes.NewReader([]byte("{not json")))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	server.mux.ServeHTTP(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d body=%s", rr.Code, rr.Body.String())
	}
}

func TestTallyEndpointCountsBallots(t *testing.T) {
	server := newTestServer()
	seedBallotFixture(server)
	server.voting.Store.SetVoter(voteports.VoterRecord{
		VoterID:           "VOT-200",
		Active:            true,
		EligibleElections: []string{"election-1"},
	})

	for _, voterID := range []string{"VOT-100", "VOT-200"} {
		body := []byte(`{"voter_id":"` + voterID + `","candidate_id":"candidate-1","election_id":"election-1"}`)
		req := httptest.NewRequest(http.MethodPost, "/api/votes/v1/votes", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		rr := httptest.NewRecorder()
		server.mux.ServeHTTP(rr, req)
		if rr.Code != http.StatusCreated {
			t.Fatalf("seeding vote for %s: got %d body=%s", voterID, rr.Code, rr.Body.String())
		}
	}

	req := httptest.NewRequest(http.MethodGet, "/api/votes/v1/elections/election-1/tally", nil)
	rr := httptest.NewRecorder()
	server.mux.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rr.Code, rr.Body.String())
	}
	var resp struct {
		TotalVotes int64 `json:"total_votes"`
		Counts     []struct {
			CandidateID string `json:"candidate_id"`
			Votes       int64  `json:"votes"`
		} `json:"counts"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode tally: %v", err)
	}
	if resp.TotalVotes != 2 {
		t.Fatalf("expected 2 total votes, got %d", resp.TotalVotes)
	}
	if len(resp.Counts) != 1 || resp.Counts[0].CandidateID != "candidate-1" || resp.Counts[0].Votes != 2 {
		t.Fatalf("unexpected counts: %+v", resp.Counts)
	}
}

func TestHasVotedEndpoint(t *testing.T) {
	server := newTestServer()
	seedBallotFixture(server)

	body := []byte(`{"voter_id":"VOT-100","candidate_id":"candidate-1","election_id":"election-1"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/votes/v1/votes", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	server.mux.ServeHTTP(rr, req)
	if rr.Code != http.StatusCreated {
		t.Fatalf("seeding vote: got %d body=%s", rr.Code, rr.Body.String())
	}

	req = httptest.NewRequest(http.MethodGet, "/api/votes/v1/voters/VOT-100/has-voted?election_id=election-1", nil)
	rr = httptest.NewRecorder()
	server.mux.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rr.Code, rr.Body.String())
	}
	var resp struct {
		HasVoted bool `json:"has_voted"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !resp.HasVoted {
		t.Fatal("expected has_voted true")
	}
}
