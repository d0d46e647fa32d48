// Package domain defines the access gateway contract: the single
// choke-point every paid operation consults before doing work.
package domain

import (
	"context"

	"github.com/quidflow/quidflow/internal/tier"
)

// FeatureDecision is the outcome of a feature gate. Denial is a normal
// result, not an error; SuggestedUpgrade carries the cheapest tier that
// would unlock the feature.
type FeatureDecision struct {
	Allowed          bool    `json:"allowed"`
	CurrentTier      tier.ID `json:"currentTier"`
	SuggestedUpgrade tier.ID `json:"suggestedUpgrade,omitempty"`
}

// LimitDecision is the outcome of a usage-limit gate. On denial,
// SuggestedUpgrade carries the cheapest tier whose ceiling admits the
// usage.
type LimitDecision struct {
	Allowed          bool    `json:"allowed"`
	Remaining        int64   `json:"remaining"`
	CurrentTier      tier.ID `json:"currentTier"`
	SuggestedUpgrade tier.ID `json:"suggestedUpgrade,omitempty"`
}

// AccessSummary is the UI-facing "what can I do right now" projection.
type AccessSummary struct {
	Tier               tier.ID `json:"tier"`
	BusinessMode       bool    `json:"businessMode"`
	VATCalculation     bool    `json:"vatCalculation"`
	AIInsights         bool    `json:"aiInsights"`
	CashflowForecast   bool    `json:"cashflowForecasting"`
	InvoiceManagement  bool    `json:"invoiceManagement"`
	ReceiptOCR         bool    `json:"receiptOCR"`
	AdvancedReports    bool    `json:"advancedReports"`
	ExportData         bool    `json:"exportData"`
	RemainingAIQueries int64   `json:"remainingAIQueries"`
	RemainingOCRScans  int64   `json:"remainingOCRScans"`
	RemainingInvoices  int64   `json:"remainingInvoices"`
	RemainingReports   int64   `json:"remainingReports"`
}

// Service is the access gateway. All methods are pure read-and-decide:
// callers increment usage themselves after the gated action succeeds.
type Service interface {
	CheckFeature(ctx context.Context, feature tier.Feature) (FeatureDecision, error)
	// CheckLimit decides against a caller-supplied usage count.
	CheckLimit(ctx context.Context, limit tier.Limit, currentUsage int64) (LimitDecision, error)
	// CheckUsage reads the live counter for the current period first.
	CheckUsage(ctx context.Context, limit tier.Limit) (LimitDecision, error)
	Summary(ctx context.Context) (AccessSummary, error)
}
