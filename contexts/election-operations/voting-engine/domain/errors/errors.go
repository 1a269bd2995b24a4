package errors

import "errors"

var (
	ErrInvalidVoteInput          = errors.New("invalid vote input")
	ErrVoterNotFound             = errors.New("voter not found")
	ErrVoterInactive             = errors.New("voter inactive")
	ErrElectionNotFound          = errors.New("election not found")
	ErrElectionNotOpen           = errors.New("election not open")
	ErrNotEligible               = errors.New("voter not eligible for election")
	ErrCandidateNotFound         = errors.New("candidate not found")
	ErrCandidateInactive         = errors.New("candidate inactive")
	ErrCandidateElectionMismatch = errors.New("candidate does not belong to election")
	ErrDuplicateVote             = errors.New("vote already recorded for voter and election")
	ErrVoteNotFound              = errors.New("vote not found")
)
