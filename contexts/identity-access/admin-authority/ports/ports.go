package ports

import (
	"context"
	"time"

	"faucet/contexts/identity-access/admin-authority/domain/entities"
)

type TokenStore interface {
	IssueToken(ctx context.Context, token entities.AdminToken) error
	GetToken(ctx context.Context) (entities.AdminToken, error)
}

type Clock interface {
	Now() time.Time
}

type IDGenerator interface {
	NewID(ctx context.Context) (string, error)
}
