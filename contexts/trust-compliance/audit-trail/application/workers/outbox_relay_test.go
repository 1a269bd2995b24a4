package workers_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"voteguard/contexts/trust-compliance/audit-trail/adapters/memory"
	"voteguard/contexts/trust-compliance/audit-trail/application/commands"
	"voteguard/contexts/trust-compliance/audit-trail/application/workers"
)

func seedOutbox(t *testing.T, store *memory.Store, actions ...string) {
	t.Helper()
	store.SetNow(time.Date(2026, time.March, 3, 10, 0, 0, 0, time.UTC))
	recorder := commands.Recorder{
		Entries: store,
		Outbox:  store,
		Clock:   store,
		IDGen:   store,
	}
	for _, action := range actions {
		recorder.Record(context.Background(), commands.RecordCommand{
			ActorID: "V1",
			Action:  action,
		})
	}
}

func TestRunOncePublishesPendingRows(t *testing.T) {
	store := memory.NewStore()
	seedOutbox(t, store, "vote.cast", "voter.auth.succeeded")
	relay := workers.OutboxRelay{
		Outbox:    store,
		Publisher: store,
		Clock:     store,
	}

	if err := relay.RunOnce(context.Background()); err != nil {
		t.Fatalf("relay cycle failed: %v", err)
	}

	if got := len(store.Published()); got != 2 {
		t.Fatalf("expected 2 published events, got %d", got)
	}
	pending, err := store.ListPendingOutbox(context.Background(), 10)
	if err != nil {
		t.Fatalf("list pending failed: %v", err)
	}
	if len(pending) != 0 {
		t.Fatalf("expected all rows marked published, %d still pending", len(pending))
	}
}

func TestRunOnceStopsOnPublishFailure(t *testing.T) {
	store := memory.NewStore()
	seedOutbox(t, store, "vote.cast")
	store.SetPublishError(errors.New("broker down"))
	relay := workers.OutboxRelay{
		Outbox:    store,
		Publisher: store,
		Clock:     store,
	}

	if err := relay.RunOnce(context.Background()); err == nil {
		t.Fatal("expected relay cycle to surface the publish failure")
	}

	// Row stays pending for the next cycle.
	pending, err := store.ListPendingOutbox(context.Background(), 10)
	if err != nil {
		t.Fatalf("list pending failed: %v", err)
	}
	if len(pending) != 1 {
		t.Fatalf("expected row kept pending, got %d", len(pending))
	}

	store.SetPublishError(nil)
	if err := relay.RunOnce(context.Background()); err != nil {
		t.Fatalf("retry cycle failed: %v", err)
	}
	if got := len(store.Published()); got != 1 {
		t.Fatalf("expected 1 published event after retry, got %d", got)
	}
}

func TestRunOnceNoopOnEmptyOutbox(t *testing.T) {
	store := memory.NewStore()
	relay := workers.OutboxRelay{
		Outbox:    store,
		Publisher: store,
	}
	if err := relay.RunOnce(context.Background()); err != nil {
		t.Fatalf("empty cycle failed: %v", err)
	}
}
