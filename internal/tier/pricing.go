package tier

import "fmt"

const annualDiscount = 0.8

// FormatPrice renders the tier price for display.
func FormatPrice(t Tier) string {
	if t.Price == 0 {
		return "Free"
	}
	return fmt.Sprintf("$%.2f/%s", t.Price, t.BillingPeriod)
}

// AnnualSavings returns the amount saved per year on annual billing,
// assuming the fixed 20% annual discount. Display helper only.
func AnnualSavings(t Tier) float64 {
	if t.Price == 0 {
		return 0
	}
	annual := t.Price * 12 * annualDiscount
	return t.Price*12 - annual
}
