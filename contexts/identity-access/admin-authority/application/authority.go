package application

import (
	"context"
	"log/slog"
	"strings"

	"faucet/contexts/identity-access/admin-authority/domain/entities"
	domainerrors "faucet/contexts/identity-access/admin-authority/domain/errors"
	"faucet/contexts/identity-access/admin-authority/ports"
)

type Authority struct {
	Tokens ports.TokenStore
	Clock  ports.Clock
	IDGen  ports.IDGenerator
	Logger *slog.Logger
}

// Initialize issues the single admin token to holder. It fails if a token
// already exists so the capability cannot be minted twice.
func (a Authority) Initialize(ctx context.Context, holder string) (entities.AdminToken, error) {
	holder = strings.TrimSpace(holder)
	if holder == "" {
		return entities.AdminToken{}, domainerrors.ErrInvalidHolder
	}

	tokenID, err := a.IDGen.NewID(ctx)
	if err != nil {
		return entities.AdminToken{}, err
	}
	token := entities.AdminToken{
		TokenID:  strings.TrimSpace(tokenID),
		Holder:   holder,
		IssuedAt: a.Clock.Now().UTC(),
	}
	if err := a.Tokens.IssueToken(ctx, token); err != nil {
		return entities.AdminToken{}, err
	}

	ResolveLogger(a.Logger).Info("admin token issued",
		"event", "admin_token_issued",
		"module", "identity-access/admin-authority",
		"layer", "application",
		"token_id", token.TokenID,
		"holder", token.Holder,
	)
	return token, nil
}

// IsAdmin reports whether principal currently holds the admin token.
func (a Authority) IsAdmin(ctx context.Context, principal string) (bool, error) {
	token, err := a.Tokens.GetToken(ctx)
	if err != nil {
		return false, err
	}
	return token.Holder == strings.TrimSpace(principal), nil
}

// RequireAdmin fails with ErrNotAdmin unless principal holds the admin token.
func (a Authority) RequireAdmin(ctx context.Context, principal string) error {
	ok, err := a.IsAdmin(ctx, principal)
	if err != nil {
		return err
	}
	if !ok {
		return domainerrors.ErrNotAdmin
	}
	return nil
}

func ResolveLogger(logger *slog.Logger) *slog.Logger {
	if logger == nil {
		return slog.Default()
	}
	return logger
}
