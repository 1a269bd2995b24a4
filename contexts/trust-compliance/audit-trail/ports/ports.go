package ports

import (
	"context"
	"time"

	"voteguard/contexts/trust-compliance/audit-trail/domain/entities"

	contractsv1 "voteguard/contracts/gen/events/v1"
)

// EventEnvelope is the canonical cross-service event shape.
type EventEnvelope = contractsv1.Envelope

// AuditRepository persists trail entries. Append-only; there is no update or
// delete operation.
type AuditRepository interface {
	AppendEntry(ctx context.Context, entry entities.AuditLogEntry) error
	ListRecent(ctx context.Context, limit int) ([]entities.AuditLogEntry, error)
}

type OutboxMessage struct {
	OutboxID     string
	EventType    string
	PartitionKey string
	Payload      []byte
	CreatedAt    time.Time
}

type OutboxWriter interface {
	AppendOutbox(ctx context.Context, envelope EventEnvelope) error
}

type OutboxRepository interface {
	ListPendingOutbox(ctx context.Context, limit int) ([]OutboxMessage, error)
	MarkOutboxPublished(ctx context.Context, outboxID string, publishedAt time.Time) error
}

type EventPublisher interface {
	Publish(ctx context.Context, topic string, event EventEnvelope) error
}

type Clock interface {
	Now() time.Time
}

type IDGenerator interface {
	NewID(ctx context.Context) (string, error)
}
