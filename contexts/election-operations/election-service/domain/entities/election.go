package entities

import (
	"strings"
	"time"

	domainerrors "voteguard/contexts/election-operations/election-service/domain/errors"
)

type ElectionStatus string

const (
	StatusUpcoming  ElectionStatus = "upcoming"
	StatusActive    ElectionStatus = "active"
	StatusCompleted ElectionStatus = "completed"
)

// ElectionCodeLength is the fixed length of the public election code handed
// to center operators.
const ElectionCodeLength = 6

type Election struct {
	ElectionID           string
	Name                 string
	Description          string
	ElectionCode         string
	CenterOTP            string
	OTPExpiresAt         *time.Time
	ActiveCenterLocation string
	StartAt              time.Time
	EndAt                time.Time
	Status               ElectionStatus
	Active               bool
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

// StatusAt classifies the election against the wall clock. A stored active
// status whose window has elapsed reads as completed, so callers never trust
// a stale flag between background status sweeps.
func (e Election) StatusAt(now time.Time) ElectionStatus {
	if e.Status == StatusCompleted {
		return StatusCompleted
	}
	if !now.Before(e.EndAt) {
		return StatusCompleted
	}
	if e.Status == StatusActive {
		return StatusActive
	}
	return StatusUpcoming
}

// CenterOpen reports whether a voting center has been bound to the election
// through OTP redemption and not yet released.
func (e Election) CenterOpen() bool {
	return strings.TrimSpace(e.ActiveCenterLocation) != ""
}

// ValidateOTP checks a redemption attempt against the stored passcode.
// Expiry is evaluated at redemption time: a request arriving after
// OTPExpiresAt fails even if it was issued inside the window.
func (e Election) ValidateOTP(otp string, now time.Time) error {
	stored := strings.TrimSpace(e.CenterOTP)
	if stored == "" || stored != strings.TrimSpace(otp) {
		return domainerrors.ErrOTPMismatch
	}
	if e.OTPExpiresAt == nil || !now.Before(e.OTPExpiresAt.UTC()) {
		return domainerrors.ErrOTPExpired
	}
	return nil
}

// CanTransitionTo enforces the one-way upcoming -> active -> completed
// lifecycle. No transition is reversible.
func (e Election) CanTransitionTo(next ElectionStatus) bool {
	switch e.Status {
	case StatusUpcoming:
		return next == StatusActive || next == StatusCompleted
	case StatusActive:
		return next == StatusCompleted
	default:
		return false
	}
}

// NormalizeElectionCode maps operator input to the canonical stored form.
func NormalizeElectionCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
