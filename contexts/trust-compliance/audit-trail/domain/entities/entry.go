package entities

import "time"

// AuditLogEntry is one append-only trail record. Entries are never updated
// or deleted.
type AuditLogEntry struct {
	EntryID    string
	ActorID    string
	Action     string
	Resource   string
	IPAddress  string
	UserAgent  string
	Detail     map[string]any
	RecordedAt time.Time
}
