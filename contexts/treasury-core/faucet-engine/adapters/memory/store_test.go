package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"faucet/contexts/treasury-core/faucet-engine/domain/entities"
	domainerrors "faucet/contexts/treasury-core/faucet-engine/domain/errors"
	"faucet/contexts/treasury-core/faucet-engine/domain/valueobjects"
)

func testAsset(t *testing.T, raw string) valueobjects.AssetID {
	t.Helper()
	asset, err := valueobjects.ParseAssetID(raw)
	if err != nil {
		t.Fatalf("parse asset id: %v", err)
	}
	return asset
}

func TestTryPassCooldownAdvancesOnlyOnSuccess(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	state, err := store.TryPassCooldown(ctx, 1_000_000)
	if err != nil {
		t.Fatalf("first pass failed: %v", err)
	}
	if state.LastClaimAt != 1_000_000 {
		t.Fatalf("expected last_claim_at=1000000, got %d", state.LastClaimAt)
	}

	if _, err := store.TryPassCooldown(ctx, 1_050_000); !errors.Is(err, domainerrors.ErrRateLimited) {
		t.Fatalf("expected ErrRateLimited inside the window, got %v", err)
	}
	current, err := store.GetCooldown(ctx)
	if err != nil {
		t.Fatalf("get cooldown failed: %v", err)
	}
	if current.LastClaimAt != 1_000_000 {
		t.Fatalf("failed pass must not advance the gate, got %d", current.LastClaimAt)
	}

	if _, err := store.TryPassCooldown(ctx, 1_000_000+entities.MinClaimDelay); err != nil {
		t.Fatalf("pass at exact boundary failed: %v", err)
	}
}

func TestRecordClaimStopsAtQuotaAndNeverDecrements(t *testing.T) {
	store := NewStore()
	ctx := context.Background()
	asset := testAsset(t, "type:0x1::moon::MOON")
	now := time.Date(2026, time.March, 1, 9, 0, 0, 0, time.UTC)

	if err := store.RecordClaim(ctx, "wallet-1", asset, 2, now); err != nil {
		t.Fatalf("first record failed: %v", err)
	}
	if err := store.RecordClaim(ctx, "wallet-1", asset, 2, now); err != nil {
		t.Fatalf("second record failed: %v", err)
	}
	if err := store.RecordClaim(ctx, "wallet-1", asset, 2, now); !errors.Is(err, domainerrors.ErrMaxClaimsReached) {
		t.Fatalf("expected ErrMaxClaimsReached, got %v", err)
	}

	consumed, err := store.ClaimsConsumed(ctx, "wallet-1", asset)
	if err != nil {
		t.Fatalf("claims consumed failed: %v", err)
	}
	if consumed != 2 {
		t.Fatalf("expected consumed=2, got %d", consumed)
	}
}

func TestClaimsConsumedDefaultsToZeroForUnknownWallet(t *testing.T) {
	store := NewStore()

	consumed, err := store.ClaimsConsumed(context.Background(), "wallet-unknown", testAsset(t, "type:0x1::moon::MOON"))
	if err != nil {
		t.Fatalf("claims consumed failed: %v", err)
	}
	if consumed != 0 {
		t.Fatalf("expected 0 for unknown wallet, got %d", consumed)
	}
}

func TestTransferFailsOnInsufficientBalanceWithoutMutation(t *testing.T) {
	store := NewStore()
	ctx := context.Background()
	asset := testAsset(t, "type:0x1::moon::MOON")
	store.Credit("alice", asset, 100)

	if err := store.Transfer(ctx, "alice", "bob", asset, 101); !errors.Is(err, domainerrors.ErrInsufficientFunds) {
		t.Fatalf("expected ErrInsufficientFunds, got %v", err)
	}
	if balance, _ := store.Balance(ctx, "alice", asset); balance != 100 {
		t.Fatalf("failed transfer must not debit, got %d", balance)
	}
	if balance, _ := store.Balance(ctx, "bob", asset); balance != 0 {
		t.Fatalf("failed transfer must not credit, got %d", balance)
	}

	if err := store.Transfer(ctx, "alice", "bob", asset, 60); err != nil {
		t.Fatalf("transfer failed: %v", err)
	}
	if balance, _ := store.Balance(ctx, "alice", asset); balance != 40 {
		t.Fatalf("expected alice=40, got %d", balance)
	}
	if balance, _ := store.Balance(ctx, "bob", asset); balance != 60 {
		t.Fatalf("expected bob=60, got %d", balance)
	}
}

func TestQuotaAbsenceIsDistinctFromExplicitZero(t *testing.T) {
	store := NewStore()
	ctx := context.Background()
	asset := testAsset(t, "type:0x1::frozen::FRZ")

	if _, configured, err := store.GetQuota(ctx, asset); err != nil || configured {
		t.Fatalf("expected unconfigured quota, configured=%v err=%v", configured, err)
	}

	if err := store.UpsertQuota(ctx, entities.QuotaConfig{AssetID: asset, MaxClaims: 0}); err != nil {
		t.Fatalf("upsert zero quota failed: %v", err)
	}
	maxClaims, configured, err := store.GetQuota(ctx, asset)
	if err != nil {
		t.Fatalf("get quota failed: %v", err)
	}
	if !configured || maxClaims != 0 {
		t.Fatalf("explicit zero must round-trip as configured, got configured=%v max=%d", configured, maxClaims)
	}
}
