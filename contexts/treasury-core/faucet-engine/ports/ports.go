package ports

import (
	"context"
	"time"

	"faucet/contexts/treasury-core/faucet-engine/domain/entities"
	"faucet/contexts/treasury-core/faucet-engine/domain/valueobjects"
	contractsv1 "faucet/contracts/gen/events/v1"
)

// Repository owns the faucet's four logical tables: asset configs, quota
// configs, the single cooldown row, and per-wallet claim records.
type Repository interface {
	UpsertClaimAmount(ctx context.Context, config entities.AssetConfig) error
	GetClaimAmount(ctx context.Context, asset valueobjects.AssetID) (uint64, bool, error)

	UpsertQuota(ctx context.Context, config entities.QuotaConfig) error
	GetQuota(ctx context.Context, asset valueobjects.AssetID) (uint64, bool, error)

	GetCooldown(ctx context.Context) (entities.CooldownState, error)
	SetDelay(ctx context.Context, delay uint64) error
	// TryPassCooldown atomically checks the gate against now and advances
	// last_claim_at on success. Failure leaves the state untouched and
	// returns domain ErrRateLimited.
	TryPassCooldown(ctx context.Context, now uint64) (entities.CooldownState, error)

	ClaimsConsumed(ctx context.Context, wallet string, asset valueobjects.AssetID) (uint64, error)
	// RecordClaim is an atomic read-check-increment of the per-(wallet, asset)
	// counter. It fails with domain ErrMaxClaimsReached when the counter has
	// already reached quota, and never decrements.
	RecordClaim(ctx context.Context, wallet string, asset valueobjects.AssetID, quota uint64, now time.Time) error
}

// TransferLedger is the external balance store. The faucet treats it as
// opaque: balances keyed by (account, asset), transfers that fail on
// insufficient balance with domain ErrInsufficientFunds.
type TransferLedger interface {
	Balance(ctx context.Context, account string, asset valueobjects.AssetID) (uint64, error)
	Transfer(ctx context.Context, from string, to string, asset valueobjects.AssetID, amount uint64) error
}

// AdminGuard gates configuration writes on the capability token holder.
type AdminGuard interface {
	RequireAdmin(ctx context.Context, principal string) error
}

type EventEnvelope = contractsv1.Envelope

// AuditWriter is the append-only audit sink, backed by the outbox table.
type AuditWriter interface {
	AppendOutbox(ctx context.Context, envelope EventEnvelope) error
}

type OutboxMessage struct {
	OutboxID     string
	EventType    string
	PartitionKey string
	Payload      []byte
	CreatedAt    time.Time
}

type OutboxRepository interface {
	ListPendingOutbox(ctx context.Context, limit int) ([]OutboxMessage, error)
	MarkOutboxPublished(ctx context.Context, outboxID string, publishedAt time.Time) error
}

type AuditPublisher interface {
	Publish(ctx context.Context, topic string, envelope EventEnvelope) error
}

type Clock interface {
	Now() time.Time
}

type IDGenerator interface {
	NewID(ctx context.Context) (string, error)
}
