package unit

import (
	"context"
	"errors"
	"testing"

	adminauthority "faucet/contexts/identity-access/admin-authority"
	admindomainerrors "faucet/contexts/identity-access/admin-authority/domain/errors"
)

func TestAdminTokenIssuedExactlyOnce(t *testing.T) {
	module := adminauthority.NewInMemoryModule(nil)
	ctx := context.Background()

	token, err := module.Authority.Initialize(ctx, "admin-1")
	if err != nil {
		t.Fatalf("first issuance failed: %v", err)
	}
	if token.Holder != "admin-1" {
		t.Fatalf("expected holder admin-1, got %q", token.Holder)
	}
	if token.TokenID == "" {
		t.Fatalf("expected a generated token id")
	}

	if _, err := module.Authority.Initialize(ctx, "admin-2"); !errors.Is(err, admindomainerrors.ErrAlreadyIssued) {
		t.Fatalf("expected ErrAlreadyIssued on second issuance, got %v", err)
	}
}

func TestRequireAdminBeforeInitialization(t *testing.T) {
	module := adminauthority.NewInMemoryModule(nil)

	err := module.Authority.RequireAdmin(context.Background(), "admin-1")
	if !errors.Is(err, admindomainerrors.ErrNotInitialized) {
		t.Fatalf("expected ErrNotInitialized, got %v", err)
	}
}

func TestRequireAdminDistinguishesHolder(t *testing.T) {
	module := adminauthority.NewInMemoryModule(nil)
	ctx := context.Background()

	if _, err := module.Authority.Initialize(ctx, "admin-1"); err != nil {
		t.Fatalf("issuance failed: %v", err)
	}

	if err := module.Authority.RequireAdmin(ctx, "admin-1"); err != nil {
		t.Fatalf("holder must pass the capability check: %v", err)
	}
	if err := module.Authority.RequireAdmin(ctx, "intruder"); !errors.Is(err, admindomainerrors.ErrNotAdmin) {
		t.Fatalf("expected ErrNotAdmin for non-holder, got %v", err)
	}

	ok, err := module.Authority.IsAdmin(ctx, "intruder")
	if err != nil {
		t.Fatalf("IsAdmin failed: %v", err)
	}
	if ok {
		t.Fatalf("non-holder must not be admin")
	}
}
