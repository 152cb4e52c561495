package entities

import (
	"time"

	"faucet/contexts/treasury-core/faucet-engine/domain/valueobjects"
)

const (
	// MinClaimAmount is the smallest configurable claim amount in base units.
	// Rejecting dust-sized configurations keeps claims meaningful.
	MinClaimAmount uint64 = 100

	// MinClaimDelay is the floor for the global claim cooldown, in microseconds.
	MinClaimDelay uint64 = 100_000

	// DefaultMaxClaims applies to any asset without an explicit quota entry.
	DefaultMaxClaims uint64 = 1
)

// AssetConfig is a registry entry mapping an asset to its claim amount.
// Absence of an entry means "not claimable"; a configured amount is never zero.
type AssetConfig struct {
	AssetID     valueobjects.AssetID
	ClaimAmount uint64
	UpdatedAt   time.Time
}

// QuotaConfig is an explicit per-asset claim quota. Zero is a legal value and
// disables claiming for that asset; it is distinct from an absent entry, which
// falls back to DefaultMaxClaims.
type QuotaConfig struct {
	AssetID   valueobjects.AssetID
	MaxClaims uint64
	UpdatedAt time.Time
}

// CooldownState is the single global rate-limit record.
// LastClaimAt only ever advances; Delay never drops below MinClaimDelay.
type CooldownState struct {
	LastClaimAt uint64
	Delay       uint64
}

// WalletClaimRecord is one wallet's consumed-claims counter for one asset.
// Counters are created lazily on first claim and only increase.
type WalletClaimRecord struct {
	Wallet         string
	AssetID        valueobjects.AssetID
	ClaimsConsumed uint64
	UpdatedAt      time.Time
}

// Receipt is returned to the caller after a successful claim.
type Receipt struct {
	ReceiptID string
	Wallet    string
	AssetID   valueobjects.AssetID
	Amount    uint64
	ClaimedAt time.Time
}

// Deposit records an accepted treasury deposit.
type Deposit struct {
	DepositID   string
	Depositor   string
	AssetID     valueobjects.AssetID
	Amount      uint64
	DepositedAt time.Time
}
