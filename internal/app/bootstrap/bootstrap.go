package bootstrap

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	electionservice "voteguard/contexts/election-operations/election-service"
	electionpg "voteguard/contexts/election-operations/election-service/adapters/postgres"
	votingengine "voteguard/contexts/election-operations/voting-engine"
	votepg "voteguard/contexts/election-operations/voting-engine/adapters/postgres"
	voterregistry "voteguard/contexts/identity-access/voter-registry"
	"voteguard/contexts/identity-access/voter-registry/adapters/biometric"
	registrypg "voteguard/contexts/identity-access/voter-registry/adapters/postgres"
	audittrail "voteguard/contexts/trust-compliance/audit-trail"
	auditpg "voteguard/contexts/trust-compliance/audit-trail/adapters/postgres"
	auditworkers "voteguard/contexts/trust-compliance/audit-trail/application/workers"
	"voteguard/internal/platform/config"
	"voteguard/internal/platform/db"
	"voteguard/internal/platform/httpserver"
	"voteguard/internal/platform/messaging"
)

// Package bootstrap is the composition root.
// Keep construction/wiring here so module code stays framework-agnostic.

type APIApp struct {
	server   *httpserver.Server
	postgres *db.Postgres
	logger   *slog.Logger
}

type WorkerApp struct {
	postgres     *db.Postgres
	auditRelay   auditworkers.OutboxRelay
	relayEnabled bool
	pollInterval time.Duration
	logger       *slog.Logger
}

func BuildAPI() (*APIApp, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logger := slog.Default().With("service", cfg.ServiceName, "process", "api")
	if strings.TrimSpace(cfg.PostgresDSN) == "" {
		return nil, errors.New("POSTGRES_DSN is required")
	}

	pg, err := db.Connect(cfg.PostgresDSN)
	if err != nil {
		return nil, err
	}

	var models []any
	models = append(models, electionpg.Models()...)
	models = append(models, registrypg.Models()...)
	models = append(models, votepg.Models()...)
	models = append(models, auditpg.Models()...)
	if err := pg.Migrate(models...); err != nil {
		return nil, err
	}

	electionRepo := electionpg.NewRepository(pg.DB, logger)
	electionModule := electionservice.NewModule(electionservice.Dependencies{
		Elections:  electionRepo,
		Candidates: electionRepo,
		Clock:      electionpg.SystemClock{},
		IDGen:      electionpg.UUIDGenerator{},
		Codes:      electionpg.RandomCodeIssuer{},
		OTPTTL:     cfg.CenterOTPTTL,
		Logger:     logger,
	})

	auditRepo := auditpg.NewRepository(pg.DB, logger)
	auditModule := audittrail.NewModule(audittrail.Dependencies{
		Entries:   auditRepo,
		Outbox:    auditRepo,
		Pending:   auditRepo,
		Clock:     auditpg.SystemClock{},
		IDGen:     auditpg.UUIDGenerator{},
		BatchSize: cfg.OutboxBatchSize,
		Logger:    logger,
	})

	voteRepo := votepg.NewRepository(pg.DB, logger)
	registryRepo := registrypg.NewRepository(pg.DB, logger)

	votingModule := votingengine.NewModule(votingengine.Dependencies{
		Ledger:     voteRepo,
		Voters:     voterDirectory{voters: registryRepo},
		Elections:  electionDirectory{overview: electionModule.Handler.Overview},
		Candidates: candidateDirectory{candidates: electionRepo},
		Audit:      trailEmitter{recorder: auditModule.Recorder},
		Tx:         voteRepo,
		Clock:      votepg.SystemClock{},
		IDGen:      votepg.UUIDGenerator{},
		Logger:     logger,
	})

	registryModule := voterregistry.NewModule(voterregistry.Dependencies{
		Voters:    registryRepo,
		Catalog:   electionCatalog{overview: electionModule.Handler.Overview},
		Votes:     ledgerVoteCheck{tally: votingModule.Handler.Tally},
		Biometric: biometric.NewClient(cfg.BiometricServiceURL, logger),
		Audit:     trailRecorder{recorder: auditModule.Recorder},
		Clock:     registrypg.SystemClock{},
		Logger:    logger,
	})

	server := httpserver.New(
		electionModule,
		registryModule,
		votingModule,
		auditModule,
		logger,
		normalizeAddr(cfg.HTTPPort),
	)
	return &APIApp{
		server:   server,
		postgres: pg,
		logger:   logger,
	}, nil
}

func BuildWorker() (*WorkerApp, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logger := slog.Default().With("service", cfg.ServiceName, "process", "worker")
	if strings.TrimSpace(cfg.PostgresDSN) == "" {
		return nil, errors.New("POSTGRES_DSN is required")
	}

	pg, err := db.Connect(cfg.PostgresDSN)
	if err != nil {
		return nil, err
	}

	kafka, err := messaging.NewKafka(cfg.KafkaBrokers, logger)
	if err != nil {
		return nil, err
	}

	auditRepo := auditpg.NewRepository(pg.DB, logger)
	return &WorkerApp{
		postgres: pg,
		auditRelay: auditworkers.OutboxRelay{
			Outbox:    auditRepo,
			Publisher: kafka,
			Clock:     auditpg.SystemClock{},
			BatchSize: cfg.OutboxBatchSize,
			Logger:    logger,
		},
		relayEnabled: cfg.EnableAuditRelay,
		pollInterval: cfg.OutboxPollInterval,
		logger:       logger,
	}, nil
}

func (a *APIApp) Run(_ context.Context) error {
	if a.logger != nil {
		a.logger.Info("api app started",
			"event", "bootstrap_api_started",
			"module", "internal/app/bootstrap",
			"layer", "platform",
		)
	}
	return a.server.Start()
}

func (a *APIApp) Close() error {
	if a.postgres != nil {
		return a.postgres.Close()
	}
	return nil
}

func (w *WorkerApp) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	w.logger.Info("worker app started",
		"event", "bootstrap_worker_started",
		"module", "internal/app/bootstrap",
		"layer", "platform",
		"poll_interval", w.pollInterval.String(),
		"audit_relay_enabled", w.relayEnabled,
	)

	for {
		if w.relayEnabled {
			if err := w.auditRelay.RunOnce(ctx); err != nil {
				return err
			}
		}
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

func (w *WorkerApp) Close() error {
	if w.postgres != nil {
		return w.postgres.Close()
	}
	return nil
}

func normalizeAddr(port string) string {
	value := strings.TrimSpace(port)
	if value == "" {
		return ":8080"
	}
	if strings.HasPrefix(value, ":") {
		return value
	}
	return ":" + value
}
