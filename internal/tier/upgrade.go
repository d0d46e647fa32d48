package tier

// Upgrade is the recommended next step from a tier. NextTier is empty on
// the top tier.
type Upgrade struct {
	NextTier ID     `json:"nextTier,omitempty"`
	Reason   string `json:"reason"`
}

// upgradePath must follow the catalog's canonical order; validate.go
// cross-checks it so a catalog reorder cannot silently skew it.
var upgradePath = map[ID]Upgrade{
	PersonalFree: {
		NextTier: PersonalPro,
		Reason:   "Unlock AI insights, forecasting, and advanced reports",
	},
	PersonalPro: {
		NextTier: BusinessStarter,
		Reason:   "Add business features: VAT, invoicing, client management",
	},
	BusinessStarter: {
		NextTier: BusinessPro,
		Reason:   "Enable team collaboration and multi-currency support",
	},
	BusinessPro: {
		NextTier: BusinessEnterprise,
		Reason:   "Get unlimited access, API, and dedicated support",
	},
	BusinessEnterprise: {
		Reason: "You're on the highest tier!",
	},
}

// NextUpgrade returns the single recommended next tier and the
// conversion-prompt copy for it.
func NextUpgrade(current ID) (Upgrade, error) {
	step, ok := upgradePath[current]
	if !ok {
		return Upgrade{}, ErrUnknownTier
	}
	return step, nil
}
