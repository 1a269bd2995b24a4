package httpserver

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	voterports "voteguard/contexts/identity-access/voter-registry/ports"
)

func TestRegisterVoterEndpointCreatesVoter(t *testing.T) {
	server := newTestServer()

	body := []byte(`{"voter_id":"vot-300","full_name":"Imani Okafor","email":"imani@example.com"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/voters/v1/voters", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	rr := httptest.NewRecorder()
	server.mux.ServeHTTP(rr, req)

	if rr.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d body=%s", rr.Code, rr.Body.String())
	}
	var resp struct {
		VoterID  string `json:"voter_id"`
		FullName string `json:"full_name"`
		Active   bool   `json:"active"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.VoterID != "VOT-300" {
		t.Fatalf("expected normalized voter id VOT-300, got %q", resp.VoterID)
	}
	if !resp.Active {
		t.Fatal("expected new voter to be active")
	}
}

func TestRegisterVoterEndpointRejectsDuplicate(t *testing.T) {
	server := newTestServer()

	body := []byte(`{"voter_id":"VOT-300","full_name":"Imani Okafor"}`)
	for i, want := range []int{http.StatusCreated, http.StatusConflict} {
		req := httptest.NewRequest(http.MethodPost, "/api/voters/v1/voters", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		rr := httptest.NewRecorder()
		server.mux.ServeHTTP(rr, req)
		if rr.Code != want {
			t.Fatalf("attempt %d: expected %d, got %d body=%s", i+1, want, rr.Code, rr.Body.String())
		}
	}
}

func TestGetVoterEndpointReturnsNotFound(t *testing.T) {
	server := newTestServer()

	req := httptest.NewRequest(http.MethodGet, "/api/voters/v1/voters/VOT-999", nil)
	rr := httptest.NewRecorder()
	server.mux.ServeHTTP(rr, req)

	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d body=%s", rr.Code, rr.Body.String())
	}
}

func TestAuthenticateEndpointRejectsUnknownElectionCode(t *testing.T) {
	server := newTestServer()
	server.voters.Store.SetElectionRef(voterports.ElectionRef{
		ElectionID:   "election-1",
		ElectionCode: "ABC123",
		Name:         "City Council 2026",
		Open:         true,
	})

	body := []byte(`{"voter_id":"VOT-300","full_name":"Imani Okafor","extra_field":"1990-01-01","fingerprint_template":"tpl"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/voters/v1/voters", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	server.mux.ServeHTTP(rr, req)
	if rr.Code != http.StatusCreated {
		t.Fatalf("seeding voter: got %d body=%s", rr.Code, rr.Body.String())
	}

	auth := []byte(`{"voter_id":"VOT-300","extra_field":"1990-01-01","election_code":"ZZZ999","fingerprint_sample":"tpl"}`)
	req = httptest.NewRequest(http.MethodPost, "/api/voters/v1/authenticate", bytes.NewReader(auth))
	req.Header.Set("Content-Type", "application/json")
	rr = httptest.NewRecorder()
	server.mux.ServeHTTP(rr, req)

	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d body=%s", rr.Code, rr.Body.String())
	}
	var resp struct {
		Code string `json:"code"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode error body: %v", err)
	}
	if resp.Code != "invalid_election_code" {
		t.Fatalf("expected code invalid_election_code, got %q", resp.Code)
	}
}
