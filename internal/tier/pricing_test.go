package tier

import (
	"math"
	"testing"
)

func TestFormatPrice(t *testing.T) {
	free, _ := Get(PersonalFree)
	if got := FormatPrice(free); got != "Free" {
		t.Errorf("free tier: got %q", got)
	}

	pro, _ := Get(PersonalPro)
	if got := FormatPrice(pro); got != "$7.99/month" {
		t.Errorf("personal pro: got %q", got)
	}

	enterprise, _ := Get(BusinessEnterprise)
	if got := FormatPrice(enterprise); got != "$99.99/month" {
		t.Errorf("enterprise: got %q", got)
	}
}

func TestAnnualSavings(t *testing.T) {
	free, _ := Get(PersonalFree)
	if got := AnnualSavings(free); got != 0 {
		t.Errorf("free tier savings = %v", got)
	}

	pro, _ := Get(PersonalPro)
	want := 7.99*12 - 7.99*12*0.8
	if got := AnnualSavings(pro); math.Abs(got-want) > 1e-9 {
		t.Errorf("personal pro savings = %v, want %v", got, want)
	}
}

func TestTrialDays(t *testing.T) {
	if _, err := TrialDays(PersonalFree); err == nil {
		t.Error("free tier should not be trialable")
	}

	for _, id := range []ID{PersonalPro, BusinessStarter, BusinessPro} {
		days, err := TrialDays(id)
		if err != nil {
			t.Fatalf("%s: %v", id, err)
		}
		if days != 14 {
			t.Errorf("%s: %d days, want 14", id, days)
		}
	}

	days, err := TrialDays(BusinessEnterprise)
	if err != nil {
		t.Fatal(err)
	}
	if days != 30 {
		t.Errorf("enterprise: %d days, want 30", days)
	}
}
