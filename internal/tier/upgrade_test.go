package tier

import (
	"errors"
	"testing"
)

func TestNextUpgradeFollowsCanonicalOrder(t *testing.T) {
	tiers := InOrder()
	for i, cur := range tiers {
		step, err := NextUpgrade(cur.ID)
		if err != nil {
			t.Fatalf("%s: %v", cur.ID, err)
		}
		if step.Reason == "" {
			t.Errorf("%s: empty upgrade reason", cur.ID)
		}
		if i == len(tiers)-1 {
			if step.NextTier != "" {
				t.Errorf("top tier points at %q", step.NextTier)
			}
			continue
		}
		if step.NextTier != tiers[i+1].ID {
			t.Errorf("%s: next is %q, want %q", cur.ID, step.NextTier, tiers[i+1].ID)
		}
	}
}

func TestNextUpgradeUnknownTier(t *testing.T) {
	if _, err := NextUpgrade("platinum"); !errors.Is(err, ErrUnknownTier) {
		t.Fatalf("expected ErrUnknownTier, got %v", err)
	}
}

func TestCheapestTierLifting(t *testing.T) {
	got, ok := CheapestTierLifting(LimitInvoicesPerMonth, 0)
	if !ok || got.ID != BusinessStarter {
		t.Fatalf("invoices from zero: got %v ok=%v", got.ID, ok)
	}

	got, ok = CheapestTierLifting(LimitInvoicesPerMonth, 50)
	if !ok || got.ID != BusinessPro {
		t.Fatalf("invoices past starter ceiling: got %v ok=%v", got.ID, ok)
	}

	got, ok = CheapestTierLifting(LimitAIQueriesPerMonth, 1000)
	if !ok || got.ID != BusinessEnterprise {
		t.Fatalf("ai queries past business pro: got %v ok=%v", got.ID, ok)
	}
}
