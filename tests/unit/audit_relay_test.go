package unit

import (
	"context"
	"testing"
	"time"

	faucetengine "faucet/contexts/treasury-core/faucet-engine"
	"faucet/contexts/treasury-core/faucet-engine/adapters/memory"
	"faucet/contexts/treasury-core/faucet-engine/application/workers"
	faucethttp "faucet/contexts/treasury-core/faucet-engine/transport/http"
	contractsv1 "faucet/contracts/gen/events/v1"
	"faucet/internal/platform/messaging"
)

func TestAuditRelayPublishesPendingOutboxEvents(t *testing.T) {
	module, store, _ := newFaucetFixture(t)
	ctx := context.Background()
	const asset = "type:0x1::moon::moon"

	if _, err := module.Handler.SetClaimAmountHandler(ctx, asset, faucethttp.SetClaimAmountRequest{
		ActorID: "admin-1",
		Amount:  500,
	}); err != nil {
		t.Fatalf("set claim amount failed: %v", err)
	}
	store.Credit(faucetengine.DefaultTreasuryAccount, asset, 1_000)
	if _, err := module.Handler.ClaimHandler(ctx, faucethttp.ClaimRequest{Wallet: "wallet-1", AssetID: asset}); err != nil {
		t.Fatalf("claim failed: %v", err)
	}

	pending, err := store.ListPendingOutbox(ctx, 10)
	if err != nil {
		t.Fatalf("list pending failed: %v", err)
	}
	if len(pending) != 1 {
		t.Fatalf("expected one pending audit event, got %d", len(pending))
	}

	broker := messaging.NewBroker(nil)
	received := make(chan contractsv1.Envelope, 1)
	subCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	if err := broker.Subscribe(subCtx, "faucet.audit", "audit-test", func(_ context.Context, event contractsv1.Envelope) error {
		received <- event
		return nil
	}); err != nil {
		t.Fatalf("subscribe failed: %v", err)
	}

	relay := workers.AuditRelay{
		Outbox:    store,
		Publisher: broker,
		Topic:     "faucet.audit",
	}
	if err := relay.RunOnce(ctx); err != nil {
		t.Fatalf("relay run failed: %v", err)
	}

	select {
	case event := <-received:
		if event.EventType != "faucet.claimed" {
			t.Fatalf("expected faucet.claimed event, got %q", event.EventType)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("audit event never reached the subscriber")
	}

	pending, err = store.ListPendingOutbox(ctx, 10)
	if err != nil {
		t.Fatalf("list pending after relay failed: %v", err)
	}
	if len(pending) != 0 {
		t.Fatalf("expected outbox drained, got %d pending", len(pending))
	}
}

func TestAuditRelayRunOnceIsIdempotentOnEmptyOutbox(t *testing.T) {
	store := memory.NewStore()
	relay := workers.AuditRelay{
		Outbox:    store,
		Publisher: messaging.NewBroker(nil),
		Topic:     "faucet.audit",
	}
	if err := relay.RunOnce(context.Background()); err != nil {
		t.Fatalf("relay on empty outbox failed: %v", err)
	}
}
