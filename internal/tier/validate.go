package tier

import "fmt"

// Validate checks catalog consistency at load time:
//
//   - every ordered id resolves, every catalog entry is ordered
//   - all tiers carry the full closed feature and limit key sets
//   - within a product line, features and limits never regress on upgrade
//   - the upgrade path agrees with canonical order
func Validate() error {
	if len(order) != len(catalog) {
		return fmt.Errorf("tier catalog: order lists %d tiers, catalog has %d", len(order), len(catalog))
	}

	featureKeys := allFeatures()
	limitKeys := allLimits()

	for _, id := range order {
		t, ok := catalog[id]
		if !ok {
			return fmt.Errorf("tier catalog: ordered tier %q missing from catalog", id)
		}
		if t.ID != id {
			return fmt.Errorf("tier catalog: entry %q carries id %q", id, t.ID)
		}
		for _, f := range featureKeys {
			if _, ok := t.Features[f]; !ok {
				return fmt.Errorf("tier catalog: %q missing feature %q", id, f)
			}
		}
		for _, l := range limitKeys {
			if _, ok := t.Limits[l]; !ok {
				return fmt.Errorf("tier catalog: %q missing limit %q", id, l)
			}
		}
	}

	if err := validateMonotonic(featureKeys, limitKeys); err != nil {
		return err
	}

	return validateUpgradePath()
}

func validateMonotonic(features []Feature, limits []Limit) error {
	for _, line := range []ProductLine{LinePersonal, LineBusiness} {
		var prev *Tier
		for _, id := range order {
			t := catalog[id]
			if t.ProductLine != line {
				continue
			}
			if prev != nil {
				for _, f := range features {
					if prev.Features[f] && !t.Features[f] {
						return fmt.Errorf("tier catalog: feature %q regresses from %q to %q", f, prev.ID, t.ID)
					}
				}
				for _, l := range limits {
					was, now := prev.Limits[l], t.Limits[l]
					if was == Unlimited && now != Unlimited {
						return fmt.Errorf("tier catalog: limit %q regresses from unlimited at %q to %d at %q", l, prev.ID, now, t.ID)
					}
					if was != Unlimited && now != Unlimited && now < was {
						return fmt.Errorf("tier catalog: limit %q regresses from %d at %q to %d at %q", l, was, prev.ID, now, t.ID)
					}
				}
			}
			tt := t
			prev = &tt
		}
	}
	return nil
}

func validateUpgradePath() error {
	for i, id := range order {
		step, ok := upgradePath[id]
		if !ok {
			return fmt.Errorf("tier catalog: no upgrade path entry for %q", id)
		}
		if i == len(order)-1 {
			if step.NextTier != "" {
				return fmt.Errorf("tier catalog: top tier %q must not point at %q", id, step.NextTier)
			}
			continue
		}
		if step.NextTier != order[i+1] {
			return fmt.Errorf("tier catalog: upgrade path from %q points at %q, canonical next is %q", id, step.NextTier, order[i+1])
		}
	}
	return nil
}

func allFeatures() []Feature {
	return []Feature{
		FeatureBudgetTracking,
		FeatureAIInsights,
		FeatureCashflowForecasting,
		FeatureBusinessMode,
		FeatureVATCalculation,
		FeatureInvoiceManagement,
		FeatureReceiptOCR,
		FeatureAdvancedReports,
		FeatureExportData,
		FeatureMultiCurrency,
		FeatureTeamCollaboration,
		FeatureAPIAccess,
		FeaturePrioritySupport,
		FeatureWhiteLabel,
		FeatureCustomIntegrations,
		FeatureDedicatedAccountManager,
	}
}

func allLimits() []Limit {
	return []Limit{
		LimitMaxBankAccounts,
		LimitMaxBudgets,
		LimitMaxGoals,
		LimitAIQueriesPerMonth,
		LimitOCRScansPerMonth,
		LimitInvoicesPerMonth,
		LimitReportsPerMonth,
		LimitTeamMembers,
		LimitAPICallsPerMonth,
	}
}
