package http

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type RegisterVoterRequest struct {
	VoterID             string `json:"voter_id"`
	FullName            string `json:"full_name"`
	Email               string `json:"email,omitempty"`
	ExtraField          string `json:"extra_field,omitempty"`
	FingerprintTemplate string `json:"fingerprint_template,omitempty"`
}

type VoterResponse struct {
	VoterID           string   `json:"voter_id"`
	FullName          string   `json:"full_name"`
	Email             string   `json:"email,omitempty"`
	Active            bool     `json:"active"`
	EligibleElections []string `json:"eligible_elections"`
	CreatedAt         string   `json:"created_at"`
	UpdatedAt         string   `json:"updated_at"`
}

type VoterListResponse struct {
	Items []VoterResponse `json:"items"`
}

type AssignEligibilityRequest struct {
	ElectionIDs []string `json:"election_ids"`
}

type EligibilityResponse struct {
	VoterID    string `json:"voter_id"`
	ElectionID string `json:"election_id"`
	Eligible   bool   `json:"eligible"`
}

type AuthenticateRequest struct {
	VoterID           string `json:"voter_id"`
	ExtraField        string `json:"extra_field"`
	ElectionCode      string `json:"election_code"`
	FingerprintSample string `json:"fingerprint_sample"`
}

type AuthenticateResponse struct {
	VoterID    string `json:"voter_id"`
	FullName   string `json:"full_name"`
	ElectionID string `json:"election_id"`
}
