package http

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type CreateElectionRequest struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	StartAt     string `json:"start_at"`
	EndAt       string `json:"end_at"`
}

type ElectionResponse struct {
	ElectionID           string `json:"election_id"`
	Name                 string `json:"name"`
	Description          string `json:"description,omitempty"`
	ElectionCode         string `json:"election_code"`
	StartAt              string `json:"start_at"`
	EndAt                string `json:"end_at"`
	Status               string `json:"status"`
	ActiveCenterLocation string `json:"active_center_location,omitempty"`
	Active               bool   `json:"active"`
}

type ElectionListResponse struct {
	Items []ElectionResponse `json:"items"`
}

type GenerateOTPResponse struct {
	OTP       string `json:"otp"`
	ExpiresAt string `json:"expires_at"`
}

type SetupCenterRequest struct {
	ElectionCode   string `json:"election_code"`
	OTP            string `json:"otp"`
	CenterLocation string `json:"center_location"`
}

type SetupCenterResponse struct {
	ElectionID     string `json:"election_id"`
	ElectionCode   string `json:"election_code"`
	CenterLocation string `json:"center_location"`
}

type ValidateCodeResponse struct {
	Valid      bool   `json:"valid"`
	ElectionID string `json:"election_id,omitempty"`
	Name       string `json:"name,omitempty"`
	Status     string `json:"status,omitempty"`
}

type UpdateStatusRequest struct {
	Status string `json:"status"`
}

type AddCandidateRequest struct {
	ElectionID string `json:"election_id"`
	FullName   string `json:"full_name"`
	Party      string `json:"party,omitempty"`
	Number     int    `json:"number"`
}

type CandidateResponse struct {
	CandidateID string `json:"candidate_id"`
	ElectionID  string `json:"election_id"`
	FullName    string `json:"full_name"`
	Party       string `json:"party,omitempty"`
	Number      int    `json:"number"`
	Active      bool   `json:"active"`
}

type CandidateListResponse struct {
	Items []CandidateResponse `json:"items"`
}
