package votingengine

import (
	"log/slog"

	httpadapter "voteguard/contexts/election-operations/voting-engine/adapters/http"
	"voteguard/contexts/election-operations/voting-engine/adapters/memory"
	"voteguard/contexts/election-operations/voting-engine/application/commands"
	"voteguard/contexts/election-operations/voting-engine/application/queries"
	"voteguard/contexts/election-operations/voting-engine/ports"
)

type Module struct {
	Handler httpadapter.Handler
	Store   *memory.Store
}

type Dependencies struct {
	Ledger     ports.VoteLedger
	Voters     ports.VoterDirectory
	Elections  ports.ElectionDirectory
	Candidates ports.CandidateDirectory
	Audit      ports.AuditEmitter
	Tx         ports.Transactor
	Clock      ports.Clock
	IDGen      ports.IDGenerator
	Logger     *slog.Logger
}

func NewModule(deps Dependencies) Module {
	cast := commands.CastVoteUseCase{
		Ledger:     deps.Ledger,
		Voters:     deps.Voters,
		Elections:  deps.Elections,
		Candidates: deps.Candidates,
		Audit:      deps.Audit,
		Tx:         deps.Tx,
		Clock:      deps.Clock,
		IDGen:      deps.IDGen,
		Logger:     deps.Logger,
	}
	tally := queries.TallyUseCase{
		Ledger: deps.Ledger,
		Voters: deps.Voters,
	}
	return Module{
		Handler: httpadapter.Handler{
			Cast:   cast,
			Tally:  tally,
			Logger: deps.Logger,
		},
	}
}

func NewInMemoryModule(logger *slog.Logger) Module {
	store := memory.NewStore()
	module := NewModule(Dependencies{
		Ledger:     store,
		Voters:     store,
		Elections:  store,
		Candidates: store,
		Audit:      store,
		Tx:         store,
		Clock:      store,
		IDGen:      store,
		Logger:     logger,
	})
	module.Store = store
	return module
}
