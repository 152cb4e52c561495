package application

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"sync"
	"time"

	"faucet/contexts/treasury-core/faucet-engine/domain/entities"
	domainerrors "faucet/contexts/treasury-core/faucet-engine/domain/errors"
	"faucet/contexts/treasury-core/faucet-engine/domain/services"
	"faucet/contexts/treasury-core/faucet-engine/domain/valueobjects"
	"faucet/contexts/treasury-core/faucet-engine/ports"
)

// Service orchestrates claim authorization: the cooldown gate, the per-wallet
// quota ledger, the asset registry, and the treasury transfer.
//
// Every public operation runs under a single mutex, so one call's reads and
// writes are never interleaved with another's. Adapters are additionally safe
// on their own, but the mutex is what makes the multi-step claim sequence
// all-or-nothing relative to concurrent callers.
type Service struct {
	mu sync.Mutex

	Repo            ports.Repository
	Ledger          ports.TransferLedger
	Admin           ports.AdminGuard
	Audit           ports.AuditWriter
	Clock           ports.Clock
	IDGen           ports.IDGenerator
	TreasuryAccount string
	Logger          *slog.Logger
}

// SetClaimDelay updates the global cooldown delay. Admin-only; the delay floor
// keeps the gate from being configured into a no-op.
func (s *Service) SetClaimDelay(ctx context.Context, actor string, delay uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.Admin.RequireAdmin(ctx, actor); err != nil {
		return err
	}
	if delay < entities.MinClaimDelay {
		return domainerrors.ErrInvalidDelay
	}
	if err := s.Repo.SetDelay(ctx, delay); err != nil {
		return err
	}

	ResolveLogger(s.Logger).Info("claim delay updated",
		"event", "faucet_claim_delay_updated",
		"module", "treasury-core/faucet-engine",
		"layer", "application",
		"actor", strings.TrimSpace(actor),
		"delay_us", delay,
	)
	return nil
}

// SetClaimAmount inserts or replaces the registry entry for asset. Admin-only;
// amounts below MinClaimAmount are rejected and zero is never stored, so an
// absent entry is the only way an asset reads as unclaimable.
func (s *Service) SetClaimAmount(ctx context.Context, actor string, asset valueobjects.AssetID, amount uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.Admin.RequireAdmin(ctx, actor); err != nil {
		return err
	}
	if amount < entities.MinClaimAmount {
		return domainerrors.ErrBelowMinimum
	}
	if err := s.Repo.UpsertClaimAmount(ctx, entities.AssetConfig{
		AssetID:     asset,
		ClaimAmount: amount,
		UpdatedAt:   s.now(),
	}); err != nil {
		return err
	}

	ResolveLogger(s.Logger).Info("claim amount configured",
		"event", "faucet_claim_amount_configured",
		"module", "treasury-core/faucet-engine",
		"layer", "application",
		"actor", strings.TrimSpace(actor),
		"asset_id", asset.String(),
		"amount", amount,
	)
	return nil
}

// SetMaxClaims inserts or replaces the explicit quota entry for asset.
// Admin-only. Zero is legal and disables claiming for the asset; it stays
// distinct from "no entry", which falls back to the default quota of one.
func (s *Service) SetMaxClaims(ctx context.Context, actor string, asset valueobjects.AssetID, maxClaims uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.Admin.RequireAdmin(ctx, actor); err != nil {
		return err
	}
	if err := s.Repo.UpsertQuota(ctx, entities.QuotaConfig{
		AssetID:   asset,
		MaxClaims: maxClaims,
		UpdatedAt: s.now(),
	}); err != nil {
		return err
	}

	ResolveLogger(s.Logger).Info("claim quota configured",
		"event", "faucet_claim_quota_configured",
		"module", "treasury-core/faucet-engine",
		"layer", "application",
		"actor", strings.TrimSpace(actor),
		"asset_id", asset.String(),
		"max_claims", maxClaims,
	)
	return nil
}

// Deposit accepts funds from any principal into the treasury. Only assets the
// admin has already registered are accepted. Deposits never touch the cooldown
// gate or the claim ledger.
func (s *Service) Deposit(ctx context.Context, depositor string, asset valueobjects.AssetID, amount uint64) (entities.Deposit, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	depositor = strings.TrimSpace(depositor)
	if depositor == "" {
		return entities.Deposit{}, domainerrors.ErrInvalidInput
	}
	if amount == 0 {
		return entities.Deposit{}, domainerrors.ErrZeroDeposit
	}
	if _, configured, err := s.Repo.GetClaimAmount(ctx, asset); err != nil {
		return entities.Deposit{}, err
	} else if !configured {
		return entities.Deposit{}, domainerrors.ErrAssetNotConfigured
	}

	if err := s.Ledger.Transfer(ctx, depositor, s.TreasuryAccount, asset, amount); err != nil {
		return entities.Deposit{}, err
	}

	depositID, err := s.IDGen.NewID(ctx)
	if err != nil {
		return entities.Deposit{}, err
	}
	deposit := entities.Deposit{
		DepositID:   strings.TrimSpace(depositID),
		Depositor:   depositor,
		AssetID:     asset,
		Amount:      amount,
		DepositedAt: s.now(),
	}
	if err := s.appendAuditEvent(ctx, "faucet.deposited", deposit.DepositedAt, asset, map[string]any{
		"deposit_id": deposit.DepositID,
		"depositor":  deposit.Depositor,
		"asset_id":   asset.String(),
		"amount":     amount,
	}); err != nil {
		return entities.Deposit{}, err
	}

	ResolveLogger(s.Logger).Info("treasury deposit accepted",
		"event", "faucet_deposit_accepted",
		"module", "treasury-core/faucet-engine",
		"layer", "application",
		"depositor", depositor,
		"asset_id", asset.String(),
		"amount", amount,
	)
	return deposit, nil
}

// Claim pays out the configured amount of asset to wallet, subject to the
// global cooldown and the wallet's lifetime quota for the asset.
//
// The cooldown gate is checked and committed before the quota, registry, and
// balance checks run. A claim that fails one of the later checks has already
// consumed the global cooldown slot; that ordering is part of the contract and
// is exercised explicitly in tests.
func (s *Service) Claim(ctx context.Context, wallet string, asset valueobjects.AssetID) (entities.Receipt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	wallet = strings.TrimSpace(wallet)
	if wallet == "" {
		return entities.Receipt{}, domainerrors.ErrInvalidInput
	}

	claimedAt := s.now()
	if _, err := s.Repo.TryPassCooldown(ctx, uint64(claimedAt.UnixMicro())); err != nil {
		return entities.Receipt{}, err
	}

	maxClaims, configured, err := s.Repo.GetQuota(ctx, asset)
	if err != nil {
		return entities.Receipt{}, err
	}
	quota := services.EffectiveQuota(maxClaims, configured)

	consumed, err := s.Repo.ClaimsConsumed(ctx, wallet, asset)
	if err != nil {
		return entities.Receipt{}, err
	}
	if consumed >= quota {
		return entities.Receipt{}, domainerrors.ErrMaxClaimsReached
	}

	amount, configured, err := s.Repo.GetClaimAmount(ctx, asset)
	if err != nil {
		return entities.Receipt{}, err
	}
	if !configured {
		return entities.Receipt{}, domainerrors.ErrAssetNotConfigured
	}

	balance, err := s.Ledger.Balance(ctx, s.TreasuryAccount, asset)
	if err != nil {
		return entities.Receipt{}, err
	}
	if balance < amount {
		return entities.Receipt{}, domainerrors.ErrInsufficientFunds
	}

	if err := s.Ledger.Transfer(ctx, s.TreasuryAccount, wallet, asset, amount); err != nil {
		return entities.Receipt{}, err
	}
	if err := s.Repo.RecordClaim(ctx, wallet, asset, quota, claimedAt); err != nil {
		return entities.Receipt{}, err
	}

	receiptID, err := s.IDGen.NewID(ctx)
	if err != nil {
		return entities.Receipt{}, err
	}
	receipt := entities.Receipt{
		ReceiptID: strings.TrimSpace(receiptID),
		Wallet:    wallet,
		AssetID:   asset,
		Amount:    amount,
		ClaimedAt: claimedAt,
	}
	if err := s.appendAuditEvent(ctx, "faucet.claimed", claimedAt, asset, map[string]any{
		"receipt_id": receipt.ReceiptID,
		"claimer":    wallet,
		"asset_id":   asset.String(),
		"amount":     amount,
	}); err != nil {
		return entities.Receipt{}, err
	}

	ResolveLogger(s.Logger).Info("claim paid out",
		"event", "faucet_claim_paid",
		"module", "treasury-core/faucet-engine",
		"layer", "application",
		"wallet", wallet,
		"asset_id", asset.String(),
		"amount", amount,
	)
	return receipt, nil
}

// GetClaimDelay returns the current global cooldown delay in microseconds.
func (s *Service) GetClaimDelay(ctx context.Context) (uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	state, err := s.Repo.GetCooldown(ctx)
	if err != nil {
		return 0, err
	}
	return state.Delay, nil
}

// GetClaimAmount returns the configured claim amount, or 0 when the asset has
// no registry entry.
func (s *Service) GetClaimAmount(ctx context.Context, asset valueobjects.AssetID) (uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	amount, configured, err := s.Repo.GetClaimAmount(ctx, asset)
	if err != nil {
		return 0, err
	}
	if !configured {
		return 0, nil
	}
	return amount, nil
}

// GetMaxClaims returns the asset's quota: the explicit entry when present
// (zero included), otherwise the default of one claim per wallet.
func (s *Service) GetMaxClaims(ctx context.Context, asset valueobjects.AssetID) (uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	maxClaims, configured, err := s.Repo.GetQuota(ctx, asset)
	if err != nil {
		return 0, err
	}
	return services.EffectiveQuota(maxClaims, configured), nil
}

// GetUserClaimCount returns how many claims wallet has consumed for asset,
// 0 when the wallet has never claimed it.
func (s *Service) GetUserClaimCount(ctx context.Context, wallet string, asset valueobjects.AssetID) (uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.Repo.ClaimsConsumed(ctx, strings.TrimSpace(wallet), asset)
}

// GetTreasuryBalance returns the treasury's balance for asset, 0 when the
// ledger holds no entry.
func (s *Service) GetTreasuryBalance(ctx context.Context, asset valueobjects.AssetID) (uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.Ledger.Balance(ctx, s.TreasuryAccount, asset)
}

func (s *Service) appendAuditEvent(ctx context.Context, eventType string, occurredAt time.Time, asset valueobjects.AssetID, payload map[string]any) error {
	if s.Audit == nil {
		return nil
	}
	eventID, err := s.IDGen.NewID(ctx)
	if err != nil {
		return err
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	return s.Audit.AppendOutbox(ctx, ports.EventEnvelope{
		EventID:          strings.TrimSpace(eventID),
		EventType:        eventType,
		OccurredAt:       occurredAt.UTC(),
		SourceService:    "faucet-engine",
		TraceID:          strings.TrimSpace(eventID),
		SchemaVersion:    1,
		PartitionKeyPath: "asset_id",
		PartitionKey:     asset.String(),
		Data:             data,
	})
}

func (s *Service) now() time.Time {
	if s.Clock == nil {
		return time.Now().UTC()
	}
	return s.Clock.Now().UTC()
}
