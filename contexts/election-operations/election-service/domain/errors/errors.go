package errors

import "errors"

var (
	ErrInvalidElectionInput  = errors.New("invalid election input")
	ErrElectionNotFound      = errors.New("election not found")
	ErrInvalidElectionCode   = errors.New("invalid election code")
	ErrElectionNotOpen       = errors.New("election is not open")
	ErrOTPMismatch           = errors.New("center passcode does not match")
	ErrOTPExpired            = errors.New("center passcode has expired")
	ErrInvalidTransition     = errors.New("illegal election status transition")
	ErrElectionCodeTaken     = errors.New("election code already in use")
	ErrCandidateNotFound     = errors.New("candidate not found")
	ErrInvalidCandidateInput = errors.New("invalid candidate input")
)
