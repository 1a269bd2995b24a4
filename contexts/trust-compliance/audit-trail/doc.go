// Package audittrail owns the append-only audit log and its outbox relay.
// Recording is fire and forget: a broken trail never fails the operation
// being audited.
package audittrail
