package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"voteguard/contexts/trust-compliance/audit-trail/domain/entities"
	domainerrors "voteguard/contexts/trust-compliance/audit-trail/domain/errors"
	"voteguard/contexts/trust-compliance/audit-trail/ports"
)

// Store is the in-memory audit backend used for local runs and tests. Append
// and publish failures can be injected to exercise the absorb-everything
// contract.
type Store struct {
	mu         sync.RWMutex
	entries    []entities.AuditLogEntry
	outbox     []outboxRow
	published  []ports.EventEnvelope
	appendErr  error
	publishErr error
	now        time.Time
	idSeq      int
}

type outboxRow struct {
	message   ports.OutboxMessage
	published bool
}

func NewStore() *Store {
	return &Store{}
}

func (s *Store) SetNow(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

// SetAppendError makes subsequent AppendEntry calls fail.
func (s *Store) SetAppendError(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.appendErr = err
}

// SetPublishError makes subsequent Publish calls fail.
func (s *Store) SetPublishError(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.publishErr = err
}

func (s *Store) Entries() []entities.AuditLogEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]entities.AuditLogEntry, len(s.entries))
	copy(out, s.entries)
	return out
}

func (s *Store) Published() []ports.EventEnvelope {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]ports.EventEnvelope, len(s.published))
	copy(out, s.published)
	return out
}

func (s *Store) AppendEntry(_ context.Context, entry entities.AuditLogEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.appendErr != nil {
		return s.appendErr
	}
	s.entries = append(s.entries, entry)
	return nil
}

func (s *Store) ListRecent(_ context.Context, limit int) ([]entities.AuditLogEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]entities.AuditLogEntry, 0, limit)
	for i := len(s.entries) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, s.entries[i])
	}
	return out, nil
}

func (s *Store) AppendOutbox(_ context.Context, envelope ports.EventEnvelope) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	payload, err := json.Marshal(envelope)
	if err != nil {
		return err
	}
	s.outbox = append(s.outbox, outboxRow{
		message: ports.OutboxMessage{
			OutboxID:     envelope.EventID,
			EventType:    envelope.EventType,
			PartitionKey: envelope.PartitionKey,
			Payload:      payload,
			CreatedAt:    envelope.OccurredAt,
		},
	})
	return nil
}

func (s *Store) ListPendingOutbox(_ context.Context, limit int) ([]ports.OutboxMessage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]ports.OutboxMessage, 0, limit)
	for _, row := range s.outbox {
		if row.published {
			continue
		}
		out = append(out, row.message)
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (s *Store) MarkOutboxPublished(_ context.Context, outboxID string, _ time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.outbox {
		if s.outbox[i].message.OutboxID == outboxID {
			s.outbox[i].published = true
			return nil
		}
	}
	return domainerrors.ErrEntryNotFound
}

func (s *Store) Publish(_ context.Context, _ string, event ports.EventEnvelope) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.publishErr != nil {
		return s.publishErr
	}
	s.published = append(s.published, event)
	return nil
}

func (s *Store) Now() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.now.IsZero() {
		return time.Now().UTC()
	}
	return s.now
}

func (s *Store) NewID(_ context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.idSeq++
	return fmt.Sprintf("audit-%d", s.idSeq), nil
}

var _ ports.AuditRepository = (*Store)(nil)
var _ ports.OutboxWriter = (*Store)(nil)
var _ ports.OutboxRepository = (*Store)(nil)
var _ ports.EventPublisher = (*Store)(nil)
var _ ports.Clock = (*Store)(nil)
var _ ports.IDGenerator = (*Store)(nil)
