package adminauthority

import (
	"log/slog"

	"faucet/contexts/identity-access/admin-authority/adapters/memory"
	"faucet/contexts/identity-access/admin-authority/application"
	"faucet/contexts/identity-access/admin-authority/ports"
)

type Module struct {
	Authority application.Authority
	Store     *memory.Store
}

type Dependencies struct {
	Tokens      ports.TokenStore
	Clock       ports.Clock
	IDGenerator ports.IDGenerator
	Logger      *slog.Logger
}

func NewModule(deps Dependencies) Module {
	return Module{
		Authority: application.Authority{
			Tokens: deps.Tokens,
			Clock:  deps.Clock,
			IDGen:  deps.IDGenerator,
			Logger: deps.Logger,
		},
	}
}

func NewInMemoryModule(logger *slog.Logger) Module {
	store := memory.NewStore()
	module := NewModule(Dependencies{
		Tokens:      store,
		Clock:       store,
		IDGenerator: store,
		Logger:      logger,
	})
	module.Store = store
	return module
}
