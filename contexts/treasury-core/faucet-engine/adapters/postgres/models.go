package postgresadapter

import (
	"encoding/json"
	"time"

	"faucet/contexts/treasury-core/faucet-engine/ports"
)

type assetConfigModel struct {
	AssetID     string    `gorm:"column:asset_id;primaryKey"`
	ClaimAmount uint64    `gorm:"column:claim_amount"`
	UpdatedAt   time.Time `gorm:"column:updated_at"`
}

func (assetConfigModel) TableName() string {
	return "faucet_asset_configs"
}

type quotaConfigModel struct {
	AssetID   string    `gorm:"column:asset_id;primaryKey"`
	MaxClaims uint64    `gorm:"column:max_claims"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (quotaConfigModel) TableName() string {
	return "faucet_quota_configs"
}

type cooldownStateModel struct {
	ID          int    `gorm:"column:id;primaryKey"`
	LastClaimAt uint64 `gorm:"column:last_claim_at"`
	Delay       uint64 `gorm:"column:delay"`
}

func (cooldownStateModel) TableName() string {
	return "faucet_cooldown_state"
}

type walletClaimModel struct {
	Wallet         string    `gorm:"column:wallet;primaryKey"`
	AssetID        string    `gorm:"column:asset_id;primaryKey"`
	ClaimsConsumed uint64    `gorm:"column:claims_consumed"`
	UpdatedAt      time.Time `gorm:"column:updated_at"`
}

func (walletClaimModel) TableName() string {
	return "faucet_wallet_claims"
}

type ledgerBalanceModel struct {
	Account string `gorm:"column:account;primaryKey"`
	AssetID string `gorm:"column:asset_id;primaryKey"`
	Balance uint64 `gorm:"column:balance"`
}

func (ledgerBalanceModel) TableName() string {
	return "faucet_ledger_balances"
}

type auditOutboxModel struct {
	OutboxID     string     `gorm:"column:outbox_id;primaryKey"`
	EventType    string     `gorm:"column:event_type"`
	PartitionKey string     `gorm:"column:partition_key"`
	Payload      []byte     `gorm:"column:payload"`
	Status       string     `gorm:"column:status"`
	CreatedAt    time.Time  `gorm:"column:created_at"`
	PublishedAt  *time.Time `gorm:"column:published_at"`
}

func (auditOutboxModel) TableName() string {
	return "faucet_audit_outbox"
}

func marshalEnvelope(envelope ports.EventEnvelope) ([]byte, error) {
	return json.Marshal(envelope)
}
