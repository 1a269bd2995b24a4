package electionservice

import (
	"log/slog"
	"time"

	httpadapter "voteguard/contexts/election-operations/election-service/adapters/http"
	"voteguard/contexts/election-operations/election-service/adapters/memory"
	"voteguard/contexts/election-operations/election-service/application/commands"
	"voteguard/contexts/election-operations/election-service/application/queries"
	"voteguard/contexts/election-operations/election-service/domain/entities"
	"voteguard/contexts/election-operations/election-service/ports"
)

type Module struct {
	Handler httpadapter.Handler
	Store   *memory.Store
}

type Dependencies struct {
	Elections  ports.ElectionRepository
	Candidates ports.CandidateRepository
	Clock      ports.Clock
	IDGen      ports.IDGenerator
	Codes      ports.CodeIssuer
	OTPTTL     time.Duration
	Logger     *slog.Logger
}

func NewModule(deps Dependencies) Module {
	lifecycle := commands.LifecycleUseCase{
		Elections:  deps.Elections,
		Candidates: deps.Candidates,
		Clock:      deps.Clock,
		IDGen:      deps.IDGen,
		Codes:      deps.Codes,
		OTPTTL:     deps.OTPTTL,
		Logger:     deps.Logger,
	}
	overview := queries.OverviewUseCase{
		Elections:  deps.Elections,
		Candidates: deps.Candidates,
		Clock:      deps.Clock,
	}
	return Module{
		Handler: httpadapter.Handler{
			Lifecycle: lifecycle,
			Overview:  overview,
			Logger:    deps.Logger,
		},
	}
}

func NewInMemoryModule(seed []entities.Election, logger *slog.Logger) Module {
	store := memory.NewStore(seed)
	module := NewModule(Dependencies{
		Elections:  store,
		Candidates: store,
		Clock:      store,
		IDGen:      store,
		Codes:      store,
		OTPTTL:     2 * time.Minute,
		Logger:     logger,
	})
	module.Store = store
	return module
}
