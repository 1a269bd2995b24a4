package errors

import "errors"

var (
	ErrInvalidVoterInput          = errors.New("invalid voter input")
	ErrVoterNotFound              = errors.New("voter not found")
	ErrVoterInactive              = errors.New("voter inactive")
	ErrVoterAlreadyRegistered     = errors.New("voter already registered")
	ErrEligibilityAlreadyAssigned = errors.New("eligibility already assigned")
	ErrNotEligible                = errors.New("voter not eligible for election")
	ErrAlreadyVoted               = errors.New("voter already voted")
	ErrInvalidElectionCode        = errors.New("invalid election code")
	ErrElectionNotOpen            = errors.New("election not open")
	ErrFingerprintMismatch        = errors.New("fingerprint mismatch")
	ErrBiometricUnavailable       = errors.New("biometric service unavailable")
)
