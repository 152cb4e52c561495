package bootstrap

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	adminauthority "faucet/contexts/identity-access/admin-authority"
	adminpostgres "faucet/contexts/identity-access/admin-authority/adapters/postgres"
	adminerrors "faucet/contexts/identity-access/admin-authority/domain/errors"
	faucetengine "faucet/contexts/treasury-core/faucet-engine"
	faucetpostgres "faucet/contexts/treasury-core/faucet-engine/adapters/postgres"
	faucetworkers "faucet/contexts/treasury-core/faucet-engine/application/workers"
	"faucet/internal/platform/config"
	"faucet/internal/platform/db"
	"faucet/internal/platform/httpserver"
	"faucet/internal/platform/messaging"
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
	auditRelay   faucetworkers.AuditRelay
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
	if cfg.AdminPrincipal == "" {
		return nil, errors.New("FAUCET_ADMIN_PRINCIPAL is required")
	}

	pg, err := db.Connect(cfg.PostgresDSN)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	adminRepo := adminpostgres.NewRepository(pg.DB, logger)
	adminModule := adminauthority.NewModule(adminauthority.Dependencies{
		Tokens:      adminRepo,
		Clock:       adminpostgres.SystemClock{},
		IDGenerator: adminpostgres.UUIDGenerator{},
		Logger:      logger,
	})
	// The token survives restarts; only the very first boot issues it.
	if _, err := adminModule.Authority.Initialize(ctx, cfg.AdminPrincipal); err != nil &&
		!errors.Is(err, adminerrors.ErrAlreadyIssued) {
		return nil, err
	}

	faucetRepo := faucetpostgres.NewRepository(pg.DB, logger)
	if err := faucetRepo.InitCooldown(ctx, cfg.ClaimDelayUS); err != nil {
		return nil, err
	}

	faucetModule := faucetengine.NewModule(faucetengine.Dependencies{
		Repository:      faucetRepo,
		Ledger:          faucetRepo,
		AdminGuard:      adminModule.Authority,
		Audit:           faucetRepo,
		Clock:           faucetpostgres.SystemClock{},
		IDGenerator:     faucetpostgres.UUIDGenerator{},
		TreasuryAccount: cfg.TreasuryAccount,
		Logger:          logger,
	})

	server := httpserver.New(faucetModule, logger, normalizeAddr(cfg.HTTPPort))
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

	broker := messaging.NewBroker(logger)
	faucetRepo := faucetpostgres.NewRepository(pg.DB, logger)
	return &WorkerApp{
		postgres: pg,
		auditRelay: faucetworkers.AuditRelay{
			Outbox:    faucetRepo,
			Publisher: broker,
			Clock:     faucetpostgres.SystemClock{},
			Topic:     cfg.AuditTopic,
			BatchSize: 100,
			Logger:    logger,
		},
		relayEnabled: cfg.EnableAuditRelay,
		pollInterval: 2 * time.Second,
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
