package commands_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"voteguard/contexts/trust-compliance/audit-trail/adapters/memory"
	"voteguard/contexts/trust-compliance/audit-trail/application/commands"
)

func newRecorder(store *memory.Store) commands.Recorder {
	return commands.Recorder{
		Entries: store,
		Outbox:  store,
		Clock:   store,
		IDGen:   store,
	}
}

func TestRecordAppendsEntryAndOutbox(t *testing.T) {
	store := memory.NewStore()
	store.SetNow(time.Date(2026, time.March, 3, 10, 0, 0, 0, time.UTC))
	recorder := newRecorder(store)

	recorder.Record(context.Background(), commands.RecordCommand{
		ActorID:  "V1",
		Action:   "vote.cast",
		Resource: "election:E1",
		Detail:   map[string]any{"candidate_id": "C1"},
	})

	entries := store.Entries()
	if len(entries) != 1 {
		t.Fatalf("expected one entry, got %d", len(entries))
	}
	if entries[0].Action != "vote.cast" || entries[0].ActorID != "V1" {
		t.Fatalf("unexpected entry %+v", entries[0])
	}

	pending, err := store.ListPendingOutbox(context.Background(), 10)
	if err != nil {
		t.Fatalf("list pending failed: %v", err)
	}
	if len(pending) != 1 || pending[0].EventType != "audit.entry.recorded" {
		t.Fatalf("expected one pending outbox row, got %+v", pending)
	}
}

func TestRecordAbsorbsStorageFailure(t *testing.T) {
	store := memory.NewStore()
	store.SetAppendError(errors.New("disk full"))
	recorder := newRecorder(store)

	// Must not panic or surface the failure in any way.
	recorder.Record(context.Background(), commands.RecordCommand{
		ActorID: "V1",
		Action:  "vote.cast",
	})

	if len(store.Entries()) != 0 {
		t.Fatal("expected no entry recorded")
	}
	pending, err := store.ListPendingOutbox(context.Background(), 10)
	if err != nil {
		t.Fatalf("list pending failed: %v", err)
	}
	if len(pending) != 0 {
		t.Fatal("expected no outbox row when the entry append failed")
	}
}

func TestRecordDropsEmptyAction(t *testing.T) {
	store := memory.NewStore()
	recorder := newRecorder(store)

	recorder.Record(context.Background(), commands.RecordCommand{ActorID: "V1"})

	if len(store.Entries()) != 0 {
		t.Fatal("expected entry without action to be dropped")
	}
}
