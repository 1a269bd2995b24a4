package http

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// CastVoteRequest casts a ballot. An empty electionId targets the global
// contest.
type CastVoteRequest struct {
	VoterID     string `json:"voterId"`
	CandidateID string `json:"candidateId"`
	ElectionID  string `json:"electionId,omitempty"`
}

type VoteResponse struct {
	VoteID         string `json:"voteId"`
	VoterID        string `json:"voterId"`
	CandidateID    string `json:"candidateId"`
	ElectionID     string `json:"electionId,omitempty"`
	CenterLocation string `json:"centerLocation,omitempty"`
	CastAt         string `json:"castAt"`
}

type CandidateCountResponse struct {
	CandidateID string `json:"candidateId"`
	Votes       int64  `json:"votes"`
}

type TallyResponse struct {
	ElectionID string                   `json:"electionId,omitempty"`
	Counts     []CandidateCountResponse `json:"counts"`
	TotalVotes int64                    `json:"totalVotes"`
}

type ResultsResponse struct {
	ElectionID     string                   `json:"electionId,omitempty"`
	Counts         []CandidateCountResponse `json:"counts"`
	TotalVotes     int64                    `json:"totalVotes"`
	EligibleVoters int64                    `json:"eligibleVoters"`
	TurnoutPercent float64                  `json:"turnoutPercent"`
}

type HasVotedResponse struct {
	VoterID    string `json:"voterId"`
	ElectionID string `json:"electionId,omitempty"`
	HasVoted   bool   `json:"hasVoted"`
}
