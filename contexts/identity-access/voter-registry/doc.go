// Package voterregistry owns the voter roll: registration with a one-time
// eligibility snapshot, eligibility checks, and center-based authentication
// against the external biometric service.
package voterregistry
