package entities

import "time"

type Candidate struct {
	CandidateID string
	ElectionID  string
	FullName    string
	Party       string
	Number      int
	Active      bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
