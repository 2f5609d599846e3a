package launchpad

import (
	"context"
	"errors"
	"testing"

	"pass-breeding/internal/domain/passes"
)

type testMinter struct {
	calls []string
	err   error
}

func (m *testMinter) MintBatch(ctx context.Context, caller, to string, count int) ([]passes.Pass, error) {
	if m.err != nil {
		return nil, m.err
	}
	m.calls = append(m.calls, caller+"->"+to)
	out := make([]passes.Pass, 0, count)
	for i := 0; i < count; i++ {
		out = append(out, passes.Pass{ID: passes.PassID(i + 1), Channel: passes.ChannelLaunchpad})
	}
	return out, nil
}

func TestPurchase_MintsAsLaunchpadAccount(t *testing.T) {
	m := &testMinter{}
	svc := NewService(m, " launchpad ", 5, nil)

	out, err := svc.Purchase(context.Background(), "bob", 3)
	if err != nil {
		t.Fatalf("Purchase error: %v", err)
	}
	if len(out) != 3 {
		t.Fatalf("expected 3 passes, got %d", len(out))
	}
	if len(m.calls) != 1 || m.calls[0] != "launchpad->bob" {
		t.Fatalf("unexpected calls: %v", m.calls)
	}
}

func TestPurchase_Validation(t *testing.T) {
	m := &testMinter{}
	svc := NewService(m, "launchpad", 5, nil)
	ctx := context.Background()

	if _, err := svc.Purchase(ctx, "", 1); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for empty buyer, got %v", err)
	}
	if _, err := svc.Purchase(ctx, "bob", 0); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for count 0, got %v", err)
	}
	if _, err := svc.Purchase(ctx, "bob", 6); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput above max per purchase, got %v", err)
	}
	if len(m.calls) != 0 {
		t.Fatalf("expected no mint calls, got %v", m.calls)
	}
}

func TestPurchase_PropagatesMintErrors(t *testing.T) {
	m := &testMinter{err: passes.ErrLaunchpadCap}
	svc := NewService(m, "launchpad", 0, nil)

	if _, err := svc.Purchase(context.Background(), "bob", 100); !errors.Is(err, passes.ErrLaunchpadCap) {
		t.Fatalf("expected ErrLaunchpadCap, got %v", err)
	}
}
