package commands

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"time"

	application "voteguard/contexts/trust-compliance/audit-trail/application"
	"voteguard/contexts/trust-compliance/audit-trail/domain/entities"
	"voteguard/contexts/trust-compliance/audit-trail/ports"
)

const auditEventType = "audit.entry.recorded"

type RecordCommand struct {
	ActorID   string
	Action    string
	Resource  string
	IPAddress string
	UserAgent string
	Detail    map[string]any
}

// Recorder writes trail entries and queues their bus events. Every failure
// on this path is logged and absorbed; callers cannot fail because the trail
// did.
type Recorder struct {
	Entries ports.AuditRepository
	Outbox  ports.OutboxWriter
	Clock   ports.Clock
	IDGen   ports.IDGenerator
	Logger  *slog.Logger
}

func (r Recorder) Record(ctx context.Context, cmd RecordCommand) {
	logger := application.ResolveLogger(r.Logger)
	action := strings.TrimSpace(cmd.Action)
	if action == "" {
		logger.Warn("audit record dropped, empty action",
			"event", "audit_record_dropped",
			"module", "trust-compliance/audit-trail",
			"layer", "application",
		)
		return
	}

	entryID, err := r.IDGen.NewID(ctx)
	if err != nil {
		logger.Error("audit entry id generation failed",
			"event", "audit_record_failed",
			"module", "trust-compliance/audit-trail",
			"layer", "application",
			"action", action,
			"error", err.Error(),
		)
		return
	}
	entry := entities.AuditLogEntry{
		EntryID:    entryID,
		ActorID:    strings.TrimSpace(cmd.ActorID),
		Action:     action,
		Resource:   strings.TrimSpace(cmd.Resource),
		IPAddress:  strings.TrimSpace(cmd.IPAddress),
		UserAgent:  strings.TrimSpace(cmd.UserAgent),
		Detail:     cmd.Detail,
		RecordedAt: r.now(),
	}

	if err := r.Entries.AppendEntry(ctx, entry); err != nil {
		logger.Error("audit entry append failed",
			"event", "audit_record_failed",
			"module", "trust-compliance/audit-trail",
			"layer", "application",
			"action", action,
			"actor_id", entry.ActorID,
			"error", err.Error(),
		)
		return
	}

	if r.Outbox != nil {
		if err := r.appendOutbox(ctx, entry); err != nil {
			logger.Error("audit outbox append failed",
				"event", "audit_outbox_append_failed",
				"module", "trust-compliance/audit-trail",
				"layer", "application",
				"entry_id", entry.EntryID,
				"error", err.Error(),
			)
		}
	}

	logger.Info("audit entry recorded",
		"event", "audit_entry_recorded",
		"module", "trust-compliance/audit-trail",
		"layer", "application",
		"entry_id", entry.EntryID,
		"action", entry.Action,
	)
}

func (r Recorder) appendOutbox(ctx context.Context, entry entities.AuditLogEntry) error {
	data, err := json.Marshal(map[string]any{
		"entry_id":    entry.EntryID,
		"actor_id":    entry.ActorID,
		"action":      entry.Action,
		"resource":    entry.Resource,
		"detail":      entry.Detail,
		"recorded_at": entry.RecordedAt.Format(time.RFC3339),
	})
	if err != nil {
		return err
	}
	return r.Outbox.AppendOutbox(ctx, ports.EventEnvelope{
		EventID:       entry.EntryID,
		EventType:     auditEventType,
		OccurredAt:    entry.RecordedAt,
		SourceService: "voteguard-audit-trail",
		SchemaVersion: 1,
		PartitionKey:  entry.ActorID,
		Data:          data,
	})
}

func (r Recorder) now() time.Time {
	if r.Clock != nil {
		return r.Clock.Now()
	}
	return time.Now().UTC()
}
