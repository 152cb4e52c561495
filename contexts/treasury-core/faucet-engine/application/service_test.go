package application

import (
	"context"
	"errors"
	"testing"
	"time"

	"faucet/contexts/treasury-core/faucet-engine/adapters/memory"
	"faucet/contexts/treasury-core/faucet-engine/domain/entities"
	domainerrors "faucet/contexts/treasury-core/faucet-engine/domain/errors"
	"faucet/contexts/treasury-core/faucet-engine/domain/valueobjects"
)

type staticGuard struct {
	admin string
}

func (g staticGuard) RequireAdmin(_ context.Context, principal string) error {
	if principal != g.admin {
		return domainerrors.ErrNotAdmin
	}
	return nil
}

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	return c.now
}

func (c *fakeClock) advance(d time.Duration) {
	c.now = c.now.Add(d)
}

func newTestService(t *testing.T) (*Service, *memory.Store, *fakeClock) {
	t.Helper()
	store := memory.NewStore()
	clock := &fakeClock{now: time.Date(2026, time.March, 1, 9, 0, 0, 0, time.UTC)}
	return &Service{
		Repo:            store,
		Ledger:          store,
		Admin:           staticGuard{admin: "admin-1"},
		Audit:           store,
		Clock:           clock,
		IDGen:           store,
		TreasuryAccount: "treasury",
	}, store, clock
}

func mustAsset(t *testing.T, raw string) valueobjects.AssetID {
	t.Helper()
	asset, err := valueobjects.ParseAssetID(raw)
	if err != nil {
		t.Fatalf("parse asset id: %v", err)
	}
	return asset
}

func TestSetClaimAmountRejectsBelowMinimumAndLeavesRegistryUntouched(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()
	asset := mustAsset(t, "type:0x1::moon::MOON")

	if err := svc.SetClaimAmount(ctx, "admin-1", asset, entities.MinClaimAmount-1); !errors.Is(err, domainerrors.ErrBelowMinimum) {
		t.Fatalf("expected ErrBelowMinimum, got %v", err)
	}
	amount, err := svc.GetClaimAmount(ctx, asset)
	if err != nil {
		t.Fatalf("get claim amount failed: %v", err)
	}
	if amount != 0 {
		t.Fatalf("expected unconfigured asset to read 0, got %d", amount)
	}
}

func TestConfigWritesRequireAdminToken(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()
	asset := mustAsset(t, "type:0x1::moon::MOON")

	if err := svc.SetClaimAmount(ctx, "intruder", asset, 500); !errors.Is(err, domainerrors.ErrNotAdmin) {
		t.Fatalf("expected ErrNotAdmin for set_claim_amount, got %v", err)
	}
	if err := svc.SetMaxClaims(ctx, "intruder", asset, 5); !errors.Is(err, domainerrors.ErrNotAdmin) {
		t.Fatalf("expected ErrNotAdmin for set_max_claims, got %v", err)
	}
	if err := svc.SetClaimDelay(ctx, "intruder", 2_000_000); !errors.Is(err, domainerrors.ErrNotAdmin) {
		t.Fatalf("expected ErrNotAdmin for set_claim_delay, got %v", err)
	}
}

func TestSetClaimDelayEnforcesFloor(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	if err := svc.SetClaimDelay(ctx, "admin-1", entities.MinClaimDelay-1); !errors.Is(err, domainerrors.ErrInvalidDelay) {
		t.Fatalf("expected ErrInvalidDelay, got %v", err)
	}
	if err := svc.SetClaimDelay(ctx, "admin-1", entities.MinClaimDelay); err != nil {
		t.Fatalf("delay at floor should be accepted: %v", err)
	}
}

func TestClaimFailsForUnconfiguredAsset(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Claim(ctx, "wallet-1", mustAsset(t, "type:0x1::ghost::GHOST"))
	if !errors.Is(err, domainerrors.ErrAssetNotConfigured) {
		t.Fatalf("expected ErrAssetNotConfigured, got %v", err)
	}
}

func TestDepositRejectsZeroAndUnregisteredAsset(t *testing.T) {
	svc, store, _ := newTestService(t)
	ctx := context.Background()
	asset := mustAsset(t, "type:0x1::moon::MOON")
	store.Credit("depositor-1", asset, 10_000)

	if _, err := svc.Deposit(ctx, "depositor-1", asset, 0); !errors.Is(err, domainerrors.ErrZeroDeposit) {
		t.Fatalf("expected ErrZeroDeposit, got %v", err)
	}
	if _, err := svc.Deposit(ctx, "depositor-1", asset, 100); !errors.Is(err, domainerrors.ErrAssetNotConfigured) {
		t.Fatalf("expected ErrAssetNotConfigured for unregistered asset, got %v", err)
	}

	balance, err := svc.GetTreasuryBalance(ctx, asset)
	if err != nil {
		t.Fatalf("treasury balance failed: %v", err)
	}
	if balance != 0 {
		t.Fatalf("failed deposits must not move funds, treasury holds %d", balance)
	}
}

func TestClaimScenarioQuotaCooldownAndBalances(t *testing.T) {
	svc, store, clock := newTestService(t)
	ctx := context.Background()
	asset := mustAsset(t, "type:0x1::moon::MOON")

	if err := svc.SetClaimAmount(ctx, "admin-1", asset, 500); err != nil {
		t.Fatalf("set claim amount failed: %v", err)
	}
	if err := svc.SetMaxClaims(ctx, "admin-1", asset, 2); err != nil {
		t.Fatalf("set max claims failed: %v", err)
	}
	if err := svc.SetClaimDelay(ctx, "admin-1", 1_000_000); err != nil {
		t.Fatalf("set claim delay failed: %v", err)
	}

	store.Credit("depositor-1", asset, 10_000)
	if _, err := svc.Deposit(ctx, "depositor-1", asset, 10_000); err != nil {
		t.Fatalf("deposit failed: %v", err)
	}

	receipt, err := svc.Claim(ctx, "wallet-1", asset)
	if err != nil {
		t.Fatalf("first claim failed: %v", err)
	}
	if receipt.Amount != 500 {
		t.Fatalf("expected claim amount 500, got %d", receipt.Amount)
	}
	if balance, _ := svc.GetTreasuryBalance(ctx, asset); balance != 9_500 {
		t.Fatalf("expected treasury 9500 after first claim, got %d", balance)
	}
	if count, _ := svc.GetUserClaimCount(ctx, "wallet-1", asset); count != 1 {
		t.Fatalf("expected claim count 1, got %d", count)
	}

	clock.advance(500 * time.Millisecond)
	if _, err := svc.Claim(ctx, "wallet-1", asset); !errors.Is(err, domainerrors.ErrRateLimited) {
		t.Fatalf("expected ErrRateLimited at t=500ms, got %v", err)
	}

	clock.advance(500 * time.Millisecond)
	if _, err := svc.Claim(ctx, "wallet-1", asset); err != nil {
		t.Fatalf("claim at t=1s failed: %v", err)
	}
	if balance, _ := svc.GetTreasuryBalance(ctx, asset); balance != 9_000 {
		t.Fatalf("expected treasury 9000 after second claim, got %d", balance)
	}
	if count, _ := svc.GetUserClaimCount(ctx, "wallet-1", asset); count != 2 {
		t.Fatalf("expected claim count 2, got %d", count)
	}

	clock.advance(time.Second)
	if _, err := svc.Claim(ctx, "wallet-1", asset); !errors.Is(err, domainerrors.ErrMaxClaimsReached) {
		t.Fatalf("expected ErrMaxClaimsReached on third claim, got %v", err)
	}
	if count, _ := svc.GetUserClaimCount(ctx, "wallet-1", asset); count != 2 {
		t.Fatalf("failed claim must not change count, got %d", count)
	}
}

func TestDefaultQuotaIsOneClaimPerWallet(t *testing.T) {
	svc, store, clock := newTestService(t)
	ctx := context.Background()
	asset := mustAsset(t, "type:0x1::sun::SUN")

	if err := svc.SetClaimAmount(ctx, "admin-1", asset, 200); err != nil {
		t.Fatalf("set claim amount failed: %v", err)
	}
	store.Credit("treasury", asset, 1_000)

	if _, err := svc.Claim(ctx, "wallet-1", asset); err != nil {
		t.Fatalf("first claim failed: %v", err)
	}
	clock.advance(time.Second)
	if _, err := svc.Claim(ctx, "wallet-1", asset); !errors.Is(err, domainerrors.ErrMaxClaimsReached) {
		t.Fatalf("expected ErrMaxClaimsReached under default quota, got %v", err)
	}
	clock.advance(time.Second)
	if _, err := svc.Claim(ctx, "wallet-2", asset); err != nil {
		t.Fatalf("another wallet should still claim: %v", err)
	}
}

func TestExplicitZeroQuotaDisablesClaiming(t *testing.T) {
	svc, store, _ := newTestService(t)
	ctx := context.Background()
	asset := mustAsset(t, "type:0x1::frozen::FRZ")

	if err := svc.SetClaimAmount(ctx, "admin-1", asset, 300); err != nil {
		t.Fatalf("set claim amount failed: %v", err)
	}
	if err := svc.SetMaxClaims(ctx, "admin-1", asset, 0); err != nil {
		t.Fatalf("explicit zero quota must be accepted: %v", err)
	}
	store.Credit("treasury", asset, 1_000)

	if quota, _ := svc.GetMaxClaims(ctx, asset); quota != 0 {
		t.Fatalf("explicit zero quota must not fall back to default, got %d", quota)
	}
	if _, err := svc.Claim(ctx, "wallet-1", asset); !errors.Is(err, domainerrors.ErrMaxClaimsReached) {
		t.Fatalf("expected ErrMaxClaimsReached with zero quota, got %v", err)
	}
}

func TestFailedClaimStillConsumesCooldownSlot(t *testing.T) {
	// The gate commits before the quota and registry checks run, so a claim
	// failing for an unconfigured asset still throttles the next caller.
	svc, store, clock := newTestService(t)
	ctx := context.Background()
	configured := mustAsset(t, "type:0x1::moon::MOON")
	ghost := mustAsset(t, "type:0x1::ghost::GHOST")

	if err := svc.SetClaimAmount(ctx, "admin-1", configured, 500); err != nil {
		t.Fatalf("set claim amount failed: %v", err)
	}
	store.Credit("treasury", configured, 10_000)

	if _, err := svc.Claim(ctx, "wallet-1", ghost); !errors.Is(err, domainerrors.ErrAssetNotConfigured) {
		t.Fatalf("expected ErrAssetNotConfigured, got %v", err)
	}
	if _, err := svc.Claim(ctx, "wallet-2", configured); !errors.Is(err, domainerrors.ErrRateLimited) {
		t.Fatalf("expected the failed claim to have consumed the slot, got %v", err)
	}

	clock.advance(time.Second)
	if _, err := svc.Claim(ctx, "wallet-2", configured); err != nil {
		t.Fatalf("claim after cooldown failed: %v", err)
	}
}

func TestCooldownIsGlobalAcrossAssetsAndWallets(t *testing.T) {
	svc, store, clock := newTestService(t)
	ctx := context.Background()
	first := mustAsset(t, "type:0x1::moon::MOON")
	second := mustAsset(t, "type:0x1::sun::SUN")

	for _, asset := range []valueobjects.AssetID{first, second} {
		if err := svc.SetClaimAmount(ctx, "admin-1", asset, 500); err != nil {
			t.Fatalf("set claim amount failed: %v", err)
		}
		store.Credit("treasury", asset, 10_000)
	}

	if _, err := svc.Claim(ctx, "wallet-1", first); err != nil {
		t.Fatalf("claim of first asset failed: %v", err)
	}
	if _, err := svc.Claim(ctx, "wallet-2", second); !errors.Is(err, domainerrors.ErrRateLimited) {
		t.Fatalf("expected cross-asset throttling, got %v", err)
	}
	clock.advance(time.Second)
	if _, err := svc.Claim(ctx, "wallet-2", second); err != nil {
		t.Fatalf("claim after cooldown failed: %v", err)
	}
}

func TestClaimFailsOnInsufficientTreasuryFunds(t *testing.T) {
	svc, store, _ := newTestService(t)
	ctx := context.Background()
	asset := mustAsset(t, "type:0x1::moon::MOON")

	if err := svc.SetClaimAmount(ctx, "admin-1", asset, 500); err != nil {
		t.Fatalf("set claim amount failed: %v", err)
	}
	store.Credit("treasury", asset, 499)

	if _, err := svc.Claim(ctx, "wallet-1", asset); !errors.Is(err, domainerrors.ErrInsufficientFunds) {
		t.Fatalf("expected ErrInsufficientFunds, got %v", err)
	}
	if count, _ := svc.GetUserClaimCount(ctx, "wallet-1", asset); count != 0 {
		t.Fatalf("failed claim must not record a claim, got %d", count)
	}
}

func TestViewsAreIdempotent(t *testing.T) {
	svc, store, _ := newTestService(t)
	ctx := context.Background()
	asset := mustAsset(t, "type:0x1::moon::MOON")

	if err := svc.SetClaimAmount(ctx, "admin-1", asset, 500); err != nil {
		t.Fatalf("set claim amount failed: %v", err)
	}
	store.Credit("treasury", asset, 1_000)

	for i := 0; i < 3; i++ {
		if amount, _ := svc.GetClaimAmount(ctx, asset); amount != 500 {
			t.Fatalf("claim amount view changed on read %d: %d", i, amount)
		}
		if quota, _ := svc.GetMaxClaims(ctx, asset); quota != 1 {
			t.Fatalf("quota view changed on read %d: %d", i, quota)
		}
		if balance, _ := svc.GetTreasuryBalance(ctx, asset); balance != 1_000 {
			t.Fatalf("treasury view changed on read %d: %d", i, balance)
		}
		if delay, _ := svc.GetClaimDelay(ctx); delay != entities.MinClaimDelay {
			t.Fatalf("delay view changed on read %d: %d", i, delay)
		}
	}
}

func TestClaimWritesAuditEventToOutbox(t *testing.T) {
	svc, store, _ := newTestService(t)
	ctx := context.Background()
	asset := mustAsset(t, "type:0x1::moon::MOON")

	if err := svc.SetClaimAmount(ctx, "admin-1", asset, 500); err != nil {
		t.Fatalf("set claim amount failed: %v", err)
	}
	store.Credit("treasury", asset, 1_000)
	if _, err := svc.Claim(ctx, "wallet-1", asset); err != nil {
		t.Fatalf("claim failed: %v", err)
	}

	pending, err := store.ListPendingOutbox(ctx, 10)
	if err != nil {
		t.Fatalf("list outbox failed: %v", err)
	}
	found := false
	for _, msg := range pending {
		if msg.EventType == "faucet.claimed" && msg.PartitionKey == asset.String() {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected faucet.claimed audit event in outbox")
	}
}
