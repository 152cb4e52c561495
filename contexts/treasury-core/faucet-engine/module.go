package faucetengine

import (
	"log/slog"
	"strings"

	httpadapter "faucet/contexts/treasury-core/faucet-engine/adapters/http"
	"faucet/contexts/treasury-core/faucet-engine/adapters/memory"
	"faucet/contexts/treasury-core/faucet-engine/application"
	"faucet/contexts/treasury-core/faucet-engine/ports"
)

// DefaultTreasuryAccount custodies deposited assets when no explicit account
// is configured. The treasury is owned by the faucet system, not the admin.
const DefaultTreasuryAccount = "faucet-treasury"

type Module struct {
	Handler httpadapter.Handler
	Service *application.Service
	Store   *memory.Store
}

type Dependencies struct {
	Repository      ports.Repository
	Ledger          ports.TransferLedger
	AdminGuard      ports.AdminGuard
	Audit           ports.AuditWriter
	Clock           ports.Clock
	IDGenerator     ports.IDGenerator
	TreasuryAccount string
	Logger          *slog.Logger
}

func NewModule(deps Dependencies) Module {
	treasury := strings.TrimSpace(deps.TreasuryAccount)
	if treasury == "" {
		treasury = DefaultTreasuryAccount
	}
	service := &application.Service{
		Repo:            deps.Repository,
		Ledger:          deps.Ledger,
		Admin:           deps.AdminGuard,
		Audit:           deps.Audit,
		Clock:           deps.Clock,
		IDGen:           deps.IDGenerator,
		TreasuryAccount: treasury,
		Logger:          deps.Logger,
	}
	return Module{
		Handler: httpadapter.Handler{
			Service: service,
			Logger:  deps.Logger,
		},
		Service: service,
	}
}

// NewInMemoryModule wires the engine onto the in-memory store. The admin
// guard stays injected because the capability record lives in another context.
func NewInMemoryModule(guard ports.AdminGuard, logger *slog.Logger) Module {
	store := memory.NewStore()
	module := NewModule(Dependencies{
		Repository:  store,
		Ledger:      store,
		AdminGuard:  guard,
		Audit:       store,
		Clock:       store,
		IDGenerator: store,
		Logger:      logger,
	})
	module.Store = store
	return module
}
