package postgresadapter

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"time"

	"voteguard/contexts/trust-compliance/audit-trail/domain/entities"
	domainerrors "voteguard/contexts/trust-compliance/audit-trail/domain/errors"
	"voteguard/contexts/trust-compliance/audit-trail/ports"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	outboxStatusPending   = "pending"
	outboxStatusPublished = "published"
)

type Repository struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewRepository(db *gorm.DB, logger *slog.Logger) *Repository {
	if logger == nil {
		logger = slog.Default()
	}
	return &Repository{
		db:     db,
		logger: logger,
	}
}

func (r *Repository) AppendEntry(ctx context.Context, entry entities.AuditLogEntry) error {
	row, err := entryModelFromEntity(entry)
	if err != nil {
		return r.logError("audit_repo_encode_failed", err, "entry_id", entry.EntryID)
	}
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return r.logError("audit_repo_append_failed", err, "entry_id", entry.EntryID)
	}
	return nil
}

func (r *Repository) ListRecent(ctx context.Context, limit int) ([]entities.AuditLogEntry, error) {
	if limit <= 0 {
		limit = 50
	}
	var rows []entryModel
	if err := r.db.WithContext(ctx).
		Order("recorded_at DESC").
		Limit(limit).
		Find(&rows).
		Error; err != nil {
		return nil, r.logError("audit_repo_list_failed", err)
	}
	items := make([]entities.AuditLogEntry, 0, len(rows))
	for _, row := range rows {
		entry, err := row.toEntity()
		if err != nil {
			return nil, r.logError("audit_repo_decode_failed", err, "entry_id", row.ID)
		}
		items = append(items, entry)
	}
	return items, nil
}

func (r *Repository) AppendOutbox(ctx context.Context, envelope ports.EventEnvelope) error {
	payload, err := json.Marshal(envelope)
	if err != nil {
		return err
	}
	row := outboxModel{
		OutboxID:     strings.TrimSpace(envelope.EventID),
		EventType:    strings.TrimSpace(envelope.EventType),
		PartitionKey: strings.TrimSpace(envelope.PartitionKey),
		Payload:      payload,
		Status:       outboxStatusPending,
		CreatedAt:    envelope.OccurredAt.UTC(),
	}
	if row.OutboxID == "" {
		row.OutboxID = uuid.NewString()
	}
	if row.CreatedAt.IsZero() {
		row.CreatedAt = time.Now().UTC()
	}

	createResult := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "outbox_id"}},
			DoNothing: true,
		}).
		Create(&row)
	if createResult.Error != nil {
		return r.logError("audit_repo_outbox_append_failed", createResult.Error,
			"outbox_id", row.OutboxID,
		)
	}
	return nil
}

func (r *Repository) ListPendingOutbox(ctx context.Context, limit int) ([]ports.OutboxMessage, error) {
	if limit <= 0 {
		limit = 100
	}
	var rows []outboxModel
	if err := r.db.WithContext(ctx).
		Where("status = ?", outboxStatusPending).
		Order("created_at ASC").
		Limit(limit).
		Find(&rows).
		Error; err != nil {
		return nil, r.logError("audit_repo_outbox_list_failed", err)
	}
	items := make([]ports.OutboxMessage, 0, len(rows))
	for _, row := range rows {
		items = append(items, ports.OutboxMessage{
			OutboxID:     row.OutboxID,
			EventType:    row.EventType,
			PartitionKey: row.PartitionKey,
			Payload:      append([]byte(nil), row.Payload...),
			CreatedAt:    row.CreatedAt.UTC(),
		})
	}
	return items, nil
}

func (r *Repository) MarkOutboxPublished(ctx context.Context, outboxID string, publishedAt time.Time) error {
	result := r.db.WithContext(ctx).
		Model(&outboxModel{}).
		Where("outbox_id = ?", strings.TrimSpace(outboxID)).
		Updates(map[string]any{
			"status":       outboxStatusPublished,
			"published_at": publishedAt.UTC(),
		})
	if result.Error != nil {
		return r.logError("audit_repo_outbox_mark_failed", result.Error, "outbox_id", outboxID)
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrEntryNotFound
	}
	return nil
}

func (r *Repository) logError(event string, err error, attrs ...any) error {
	fields := make([]any, 0, len(attrs)+8)
	fields = append(fields,
		"event", event,
		"module", "trust-compliance/audit-trail",
		"layer", "adapter",
		"error", err.Error(),
	)
	fields = append(fields, attrs...)
	r.logger.Error("audit repository operation failed", fields...)
	return err
}

type entryModel struct {
	ID         string          `gorm:"column:id;primaryKey"`
	ActorID    string          `gorm:"column:actor_id"`
	Action     string          `gorm:"column:action"`
	Resource   string          `gorm:"column:resource"`
	IPAddress  string          `gorm:"column:ip_address"`
	UserAgent  string          `gorm:"column:user_agent"`
	Detail     json.RawMessage `gorm:"column:detail;type:jsonb"`
	RecordedAt time.Time       `gorm:"column:recorded_at"`
}

func (entryModel) TableName() string {
	return "audit_logs"
}

func entryModelFromEntity(entry entities.AuditLogEntry) (entryModel, error) {
	detail := json.RawMessage("{}")
	if entry.Detail != nil {
		encoded, err := json.Marshal(entry.Detail)
		if err != nil {
			return entryModel{}, err
		}
		detail = encoded
	}
	return entryModel{
		ID:         strings.TrimSpace(entry.EntryID),
		ActorID:    entry.ActorID,
		Action:     entry.Action,
		Resource:   entry.Resource,
		IPAddress:  entry.IPAddress,
		UserAgent:  entry.UserAgent,
		Detail:     detail,
		RecordedAt: entry.RecordedAt.UTC(),
	}, nil
}

func (m entryModel) toEntity() (entities.AuditLogEntry, error) {
	var detail map[string]any
	if len(m.Detail) > 0 {
		if err := json.Unmarshal(m.Detail, &detail); err != nil {
			return entities.AuditLogEntry{}, err
		}
	}
	return entities.AuditLogEntry{
		EntryID:    m.ID,
		ActorID:    m.ActorID,
		Action:     m.Action,
		Resource:   m.Resource,
		IPAddress:  m.IPAddress,
		UserAgent:  m.UserAgent,
		Detail:     detail,
		RecordedAt: m.RecordedAt.UTC(),
	}, nil
}

type outboxModel struct {
	OutboxID     string          `gorm:"column:outbox_id;primaryKey"`
	EventType    string          `gorm:"column:event_type"`
	PartitionKey string          `gorm:"column:partition_key"`
	Payload      json.RawMessage `gorm:"column:payload;type:jsonb"`
	Status       string          `gorm:"column:status"`
	CreatedAt    time.Time       `gorm:"column:created_at"`
	PublishedAt  *time.Time      `gorm:"column:published_at"`
}

func (outboxModel) TableName() string {
	return "audit_outbox"
}

type SystemClock struct{}

func (SystemClock) Now() time.Time {
	return time.Now().UTC()
}

type UUIDGenerator struct{}

func (UUIDGenerator) NewID(_ context.Context) (string, error) {
	return uuid.NewString(), nil
}

// Models lists the gorm models this adapter owns, for startup migration.
func Models() []any {
	return []any{&entryModel{}, &outboxModel{}}
}

var _ ports.AuditRepository = (*Repository)(nil)
var _ ports.OutboxWriter = (*Repository)(nil)
var _ ports.OutboxRepository = (*Repository)(nil)
var _ ports.Clock = SystemClock{}
var _ ports.IDGenerator = UUIDGenerator{}
