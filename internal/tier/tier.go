// Package tier holds the static subscription tier catalog: every plan's
// price, feature flags, and monthly usage limits, in canonical ascending
// order. The catalog is pure data; all lookups are read-only and safe for
// concurrent use.
package tier

import (
	"errors"
	"maps"
)

var (
	ErrUnknownTier    = errors.New("unknown_tier")
	ErrUnknownFeature = errors.New("unknown_feature")
	ErrUnknownLimit   = errors.New("unknown_limit")
)

// ID identifies a tier in the closed catalog set.
type ID string

const (
	PersonalFree       ID = "personal_free"
	PersonalPro        ID = "personal_pro"
	BusinessStarter    ID = "business_starter"
	BusinessPro        ID = "business_pro"
	BusinessEnterprise ID = "business_enterprise"
)

// ProductLine separates the personal and business plan families.
type ProductLine string

const (
	LinePersonal ProductLine = "personal"
	LineBusiness ProductLine = "business"
)

// Feature is a boolean capability switch.
type Feature string

const (
	FeatureBudgetTracking          Feature = "budgetTracking"
	FeatureAIInsights              Feature = "aiInsights"
	FeatureCashflowForecasting     Feature = "cashflowForecasting"
	FeatureBusinessMode            Feature = "businessMode"
	FeatureVATCalculation          Feature = "vatCalculation"
	FeatureInvoiceManagement       Feature = "invoiceManagement"
	FeatureReceiptOCR              Feature = "receiptOCR"
	FeatureAdvancedReports         Feature = "advancedReports"
	FeatureExportData              Feature = "exportData"
	FeatureMultiCurrency           Feature = "multiCurrency"
	FeatureTeamCollaboration       Feature = "teamCollaboration"
	FeatureAPIAccess               Feature = "apiAccess"
	FeaturePrioritySupport         Feature = "prioritySupport"
	FeatureWhiteLabel              Feature = "whiteLabel"
	FeatureCustomIntegrations      Feature = "customIntegrations"
	FeatureDedicatedAccountManager Feature = "dedicatedAccountManager"
)

// Limit is a numeric usage ceiling. Unlimited is the reserved sentinel.
type Limit string

const (
	LimitMaxBankAccounts   Limit = "maxBankAccounts"
	LimitMaxBudgets        Limit = "maxBudgets"
	LimitMaxGoals          Limit = "maxGoals"
	LimitAIQueriesPerMonth Limit = "aiQueriesPerMonth"
	LimitOCRScansPerMonth  Limit = "ocrScansPerMonth"
	LimitInvoicesPerMonth  Limit = "invoicesPerMonth"
	LimitReportsPerMonth   Limit = "reportsPerMonth"
	LimitTeamMembers       Limit = "teamMembers"
	LimitAPICallsPerMonth  Limit = "apiCallsPerMonth"
)

// Unlimited marks a limit with no ceiling. It propagates through limit
// checks as-is and is never converted to a finite number.
const Unlimited int64 = -1

// Tier is one immutable catalog entry.
type Tier struct {
	ID            ID
	Name          string
	ProductLine   ProductLine
	Price         float64
	BillingPeriod string
	Features      map[Feature]bool
	Limits        map[Limit]int64
	Description   string
	Popular       bool
}

// order is the canonical ascending capability order. It is fixed here, not
// derived from price, and everything else (upgrade paths, cheapest-unlock
// scans) hangs off it.
var order = []ID{
	PersonalFree,
	PersonalPro,
	BusinessStarter,
	BusinessPro,
	BusinessEnterprise,
}

var catalog = map[ID]Tier{
	PersonalFree: {
		ID:            PersonalFree,
		Name:          "Personal Free",
		ProductLine:   LinePersonal,
		Price:         0,
		BillingPeriod: "forever",
		Features: map[Feature]bool{
			FeatureBudgetTracking:          true,
			FeatureAIInsights:              false,
			FeatureCashflowForecasting:     false,
			FeatureBusinessMode:            false,
			FeatureVATCalculation:          false,
			FeatureInvoiceManagement:       false,
			FeatureReceiptOCR:              false,
			FeatureAdvancedReports:         false,
			FeatureExportData:              true,
			FeatureMultiCurrency:           false,
			FeatureTeamCollaboration:       false,
			FeatureAPIAccess:               false,
			FeaturePrioritySupport:         false,
			FeatureWhiteLabel:              false,
			FeatureCustomIntegrations:      false,
			FeatureDedicatedAccountManager: false,
		},
		Limits: map[Limit]int64{
			LimitMaxBankAccounts:   2,
			LimitMaxBudgets:        5,
			LimitMaxGoals:          3,
			LimitAIQueriesPerMonth: 0,
			LimitOCRScansPerMonth:  0,
			LimitInvoicesPerMonth:  0,
			LimitReportsPerMonth:   1,
			LimitTeamMembers:       0,
			LimitAPICallsPerMonth:  0,
		},
		Description: "Free personal finance tracking - Perfect to get started",
	},
	PersonalPro: {
		ID:            PersonalPro,
		Name:          "Personal Pro",
		ProductLine:   LinePersonal,
		Price:         7.99,
		BillingPeriod: "month",
		Features: map[Feature]bool{
			FeatureBudgetTracking:          true,
			FeatureAIInsights:              true,
			FeatureCashflowForecasting:     true,
			FeatureBusinessMode:            false,
			FeatureVATCalculation:          false,
			FeatureInvoiceManagement:       false,
			FeatureReceiptOCR:              true,
			FeatureAdvancedReports:         true,
			FeatureExportData:              true,
			FeatureMultiCurrency:           false,
			FeatureTeamCollaboration:       false,
			FeatureAPIAccess:               false,
			FeaturePrioritySupport:         false,
			FeatureWhiteLabel:              false,
			FeatureCustomIntegrations:      false,
			FeatureDedicatedAccountManager: false,
		},
		Limits: map[Limit]int64{
			LimitMaxBankAccounts:   10,
			LimitMaxBudgets:        Unlimited,
			LimitMaxGoals:          Unlimited,
			LimitAIQueriesPerMonth: 200,
			LimitOCRScansPerMonth:  100,
			LimitInvoicesPerMonth:  0,
			LimitReportsPerMonth:   Unlimited,
			LimitTeamMembers:       0,
			LimitAPICallsPerMonth:  0,
		},
		Description: "AI-powered personal finance - Your smart money assistant",
		Popular:     true,
	},
	BusinessStarter: {
		ID:            BusinessStarter,
		Name:          "Business Starter",
		ProductLine:   LineBusiness,
		Price:         24.99,
		BillingPeriod: "month",
		Features: map[Feature]bool{
			FeatureBudgetTracking:          true,
			FeatureAIInsights:              true,
			FeatureCashflowForecasting:     true,
			FeatureBusinessMode:            true,
			FeatureVATCalculation:          true,
			FeatureInvoiceManagement:       true,
			FeatureReceiptOCR:              true,
			FeatureAdvancedReports:         true,
			FeatureExportData:              true,
			FeatureMultiCurrency:           false,
			FeatureTeamCollaboration:       false,
			FeatureAPIAccess:               false,
			FeaturePrioritySupport:         false,
			FeatureWhiteLabel:              false,
			FeatureCustomIntegrations:      false,
			FeatureDedicatedAccountManager: false,
		},
		Limits: map[Limit]int64{
			LimitMaxBankAccounts:   5,
			LimitMaxBudgets:        Unlimited,
			LimitMaxGoals:          Unlimited,
			LimitAIQueriesPerMonth: 300,
			LimitOCRScansPerMonth:  150,
			LimitInvoicesPerMonth:  50,
			LimitReportsPerMonth:   Unlimited,
			LimitTeamMembers:       0,
			LimitAPICallsPerMonth:  0,
		},
		Description: "Complete business banking - Run your business like a pro",
	},
	BusinessPro: {
		ID:            BusinessPro,
		Name:          "Business Pro",
		ProductLine:   LineBusiness,
		Price:         49.99,
		BillingPeriod: "month",
		Features: map[Feature]bool{
			FeatureBudgetTracking:          true,
			FeatureAIInsights:              true,
			FeatureCashflowForecasting:     true,
			FeatureBusinessMode:            true,
			FeatureVATCalculation:          true,
			FeatureInvoiceManagement:       true,
			FeatureReceiptOCR:              true,
			FeatureAdvancedReports:         true,
			FeatureExportData:              true,
			FeatureMultiCurrency:           true,
			FeatureTeamCollaboration:       true,
			FeatureAPIAccess:               false,
			FeaturePrioritySupport:         true,
			FeatureWhiteLabel:              false,
			FeatureCustomIntegrations:      false,
			FeatureDedicatedAccountManager: false,
		},
		Limits: map[Limit]int64{
			LimitMaxBankAccounts:   Unlimited,
			LimitMaxBudgets:        Unlimited,
			LimitMaxGoals:          Unlimited,
			LimitAIQueriesPerMonth: 1000,
			LimitOCRScansPerMonth:  500,
			LimitInvoicesPerMonth:  200,
			LimitReportsPerMonth:   Unlimited,
			LimitTeamMembers:       3,
			LimitAPICallsPerMonth:  0,
		},
		Description: "Advanced business management - Scale your operations",
		Popular:     true,
	},
	BusinessEnterprise: {
		ID:            BusinessEnterprise,
		Name:          "Business Enterprise",
		ProductLine:   LineBusiness,
		Price:         99.99,
		BillingPeriod: "month",
		Features: map[Feature]bool{
			FeatureBudgetTracking:          true,
			FeatureAIInsights:              true,
			FeatureCashflowForecasting:     true,
			FeatureBusinessMode:            true,
			FeatureVATCalculation:          true,
			FeatureInvoiceManagement:       true,
			FeatureReceiptOCR:              true,
			FeatureAdvancedReports:         true,
			FeatureExportData:              true,
			FeatureMultiCurrency:           true,
			FeatureTeamCollaboration:       true,
			FeatureAPIAccess:               true,
			FeaturePrioritySupport:         true,
			FeatureWhiteLabel:              true,
			FeatureCustomIntegrations:      true,
			FeatureDedicatedAccountManager: true,
		},
		Limits: map[Limit]int64{
			LimitMaxBankAccounts:   Unlimited,
			LimitMaxBudgets:        Unlimited,
			LimitMaxGoals:          Unlimited,
			LimitAIQueriesPerMonth: Unlimited,
			LimitOCRScansPerMonth:  Unlimited,
			LimitInvoicesPerMonth:  Unlimited,
			LimitReportsPerMonth:   Unlimited,
			LimitTeamMembers:       Unlimited,
			LimitAPICallsPerMonth:  100000,
		},
		Description: "Enterprise-grade solution - Built for scale",
	},
}

func init() {
	if err := Validate(); err != nil {
		panic(err)
	}
}

// Get returns the tier for the given id. The feature and limit maps
// are copies; callers cannot reach the catalog through them.
func Get(id ID) (Tier, error) {
	t, ok := catalog[id]
	if !ok {
		return Tier{}, ErrUnknownTier
	}
	return t.clone(), nil
}

// IsValid reports whether id belongs to the catalog.
func IsValid(id ID) bool {
	_, ok := catalog[id]
	return ok
}

// InOrder returns all tiers ascending by capability.
func InOrder() []Tier {
	tiers := make([]Tier, 0, len(order))
	for _, id := range order {
		tiers = append(tiers, catalog[id].clone())
	}
	return tiers
}

// Lowest returns the first tier in canonical order, the default for new
// and cancelled users.
func Lowest() Tier {
	return catalog[order[0]].clone()
}

// Highest returns the last tier in canonical order.
func Highest() Tier {
	return catalog[order[len(order)-1]].clone()
}

func (t Tier) clone() Tier {
	c := t
	c.Features = maps.Clone(t.Features)
	c.Limits = maps.Clone(t.Limits)
	return c
}

// Rank returns the position of id in canonical order.
func Rank(id ID) (int, error) {
	for i, candidate := range order {
		if candidate == id {
			return i, nil
		}
	}
	return 0, ErrUnknownTier
}

func (t Tier) IsPersonal() bool { return t.ProductLine == LinePersonal }
func (t Tier) IsBusiness() bool { return t.ProductLine == LineBusiness }
