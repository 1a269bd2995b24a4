// Package votingengine owns the ballot write path and the vote ledger: the
// transactional cast-vote coordinator, duplicate suppression at the storage
// layer, and tally/results reads.
package votingengine
