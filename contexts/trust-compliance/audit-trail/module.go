package audittrail

import (
	"log/slog"

	"voteguard/contexts/trust-compliance/audit-trail/adapters/memory"
	"voteguard/contexts/trust-compliance/audit-trail/application/commands"
	"voteguard/contexts/trust-compliance/audit-trail/application/queries"
	"voteguard/contexts/trust-compliance/audit-trail/application/workers"
	"voteguard/contexts/trust-compliance/audit-trail/ports"
)

type Module struct {
	Recorder commands.Recorder
	Recent   queries.RecentUseCase
	Relay    workers.OutboxRelay
	Store    *memory.Store
}

type Dependencies struct {
	Entries   ports.AuditRepository
	Outbox    ports.OutboxWriter
	Pending   ports.OutboxRepository
	Publisher ports.EventPublisher
	Clock     ports.Clock
	IDGen     ports.IDGenerator
	BatchSize int
	Logger    *slog.Logger
}

func NewModule(deps Dependencies) Module {
	return Module{
		Recorder: commands.Recorder{
			Entries: deps.Entries,
			Outbox:  deps.Outbox,
			Clock:   deps.Clock,
			IDGen:   deps.IDGen,
			Logger:  deps.Logger,
		},
		Recent: queries.RecentUseCase{
			Entries: deps.Entries,
		},
		Relay: workers.OutboxRelay{
			Outbox:    deps.Pending,
			Publisher: deps.Publisher,
			Clock:     deps.Clock,
			BatchSize: deps.BatchSize,
			Logger:    deps.Logger,
		},
	}
}

func NewInMemoryModule(logger *slog.Logger) Module {
	store := memory.NewStore()
	module := NewModule(Dependencies{
		Entries:   store,
		Outbox:    store,
		Pending:   store,
		Publisher: store,
		Clock:     store,
		IDGen:     store,
		Logger:    logger,
	})
	module.Store = store
	return module
}
