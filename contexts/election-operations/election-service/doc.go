// Package electionservice owns the election lifecycle inside the
// election-operations context.
//
// The module manages election records, candidate rosters, the one-time
// passcode flow that binds a physical voting center to an election, and the
// upcoming/active/completed status classification used by every read path.
// Business rules live in application/domain layers; infrastructure stays
// behind ports and adapters.
package electionservice
