package tier

import (
	"errors"
	"testing"
)

func TestCheckLimitUnlimitedSentinelPropagates(t *testing.T) {
	enterprise, _ := Get(BusinessEnterprise)

	for _, usage := range []int64{0, 1, 999999} {
		result, err := enterprise.CheckLimit(LimitAIQueriesPerMonth, usage)
		if err != nil {
			t.Fatalf("check at usage %d: %v", usage, err)
		}
		if !result.Allowed {
			t.Errorf("usage %d: unlimited limit denied", usage)
		}
		if result.Remaining != Unlimited {
			t.Errorf("usage %d: remaining = %d, want sentinel", usage, result.Remaining)
		}
	}
}

func TestCheckLimitZeroCeilingAlwaysBlocks(t *testing.T) {
	free, _ := Get(PersonalFree)

	result, err := free.CheckLimit(LimitAIQueriesPerMonth, 0)
	if err != nil {
		t.Fatal(err)
	}
	if result.Allowed {
		t.Error("zero ceiling allowed usage")
	}
	if result.Remaining != 0 {
		t.Errorf("remaining = %d, want 0", result.Remaining)
	}
}

func TestCheckLimitBoundary(t *testing.T) {
	pro, _ := Get(PersonalPro) // aiQueriesPerMonth: 200

	cases := []struct {
		usage         int64
		wantAllowed   bool
		wantRemaining int64
	}{
		{0, true, 200},
		{199, true, 1},
		{200, false, 0}, // equal to max blocks
		{201, false, 0}, // past max floors at zero
	}

	for _, tc := range cases {
		result, err := pro.CheckLimit(LimitAIQueriesPerMonth, tc.usage)
		if err != nil {
			t.Fatalf("usage %d: %v", tc.usage, err)
		}
		if result.Allowed != tc.wantAllowed {
			t.Errorf("usage %d: allowed = %v, want %v", tc.usage, result.Allowed, tc.wantAllowed)
		}
		if result.Remaining != tc.wantRemaining {
			t.Errorf("usage %d: remaining = %d, want %d", tc.usage, result.Remaining, tc.wantRemaining)
		}
	}
}

func TestCheckLimitAcrossCatalog(t *testing.T) {
	// allowed == (max - usage > 0) for every finite limit in the catalog.
	for _, tr := range InOrder() {
		for _, l := range allLimits() {
			max, err := tr.LimitFor(l)
			if err != nil {
				t.Fatalf("%s/%s: %v", tr.ID, l, err)
			}
			for _, usage := range []int64{0, 1, max - 1, max, max + 1} {
				if usage < 0 {
					continue
				}
				result, err := tr.CheckLimit(l, usage)
				if err != nil {
					t.Fatalf("%s/%s usage %d: %v", tr.ID, l, usage, err)
				}
				if max == Unlimited {
					if !result.Allowed || result.Remaining != Unlimited {
						t.Errorf("%s/%s usage %d: unlimited got %+v", tr.ID, l, usage, result)
					}
					continue
				}
				wantAllowed := max-usage > 0
				wantRemaining := max - usage
				if wantRemaining < 0 {
					wantRemaining = 0
				}
				if result.Allowed != wantAllowed || result.Remaining != wantRemaining {
					t.Errorf("%s/%s usage %d: got %+v, want allowed=%v remaining=%d",
						tr.ID, l, usage, result, wantAllowed, wantRemaining)
				}
			}
		}
	}
}

func TestLimitForUnknownKey(t *testing.T) {
	free, _ := Get(PersonalFree)
	if _, err := free.LimitFor("starsPerMonth"); !errors.Is(err, ErrUnknownLimit) {
		t.Fatalf("expected ErrUnknownLimit, got %v", err)
	}
}
