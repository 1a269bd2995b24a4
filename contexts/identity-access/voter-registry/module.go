package voterregistry

import (
	"log/slog"

	httpadapter "voteguard/contexts/identity-access/voter-registry/adapters/http"
	"voteguard/contexts/identity-access/voter-registry/adapters/memory"
	"voteguard/contexts/identity-access/voter-registry/application/commands"
	"voteguard/contexts/identity-access/voter-registry/application/queries"
	"voteguard/contexts/identity-access/voter-registry/domain/entities"
	"voteguard/contexts/identity-access/voter-registry/ports"
)

type Module struct {
	Handler httpadapter.Handler
	Store   *memory.Store
}

type Dependencies struct {
	Voters    ports.VoterRepository
	Catalog   ports.ElectionCatalog
	Votes     ports.VoteCheck
	Biometric ports.BiometricVerifier
	Audit     ports.AuditRecorder
	Clock     ports.Clock
	Logger    *slog.Logger
}

func NewModule(deps Dependencies) Module {
	register := commands.RegisterUseCase{
		Voters:  deps.Voters,
		Catalog: deps.Catalog,
		Clock:   deps.Clock,
		Logger:  deps.Logger,
	}
	auth := commands.AuthUseCase{
		Voters:    deps.Voters,
		Catalog:   deps.Catalog,
		Votes:     deps.Votes,
		Biometric: deps.Biometric,
		Audit:     deps.Audit,
		Logger:    deps.Logger,
	}
	lookup := queries.LookupUseCase{
		Voters: deps.Voters,
	}
	return Module{
		Handler: httpadapter.Handler{
			Register: register,
			Auth:     auth,
			Lookup:   lookup,
			Logger:   deps.Logger,
		},
	}
}

func NewInMemoryModule(seed []entities.Voter, logger *slog.Logger) Module {
	store := memory.NewStore(seed)
	module := NewModule(Dependencies{
		Voters:    store,
		Catalog:   store,
		Votes:     store,
		Biometric: store,
		Audit:     store,
		Clock:     store,
		Logger:    logger,
	})
	module.Store = store
	return module
}
