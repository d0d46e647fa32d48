package service

import (
	"context"

	"github.com/quidflow/quidflow/internal/cache"
	"github.com/quidflow/quidflow/internal/clock"
	entitlementdomain "github.com/quidflow/quidflow/internal/entitlement/domain"
	subscriptiondomain "github.com/quidflow/quidflow/internal/subscription/domain"
	"github.com/quidflow/quidflow/internal/tier"
	usagedomain "github.com/quidflow/quidflow/internal/usage/domain"
	"github.com/quidflow/quidflow/internal/usercontext"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Service struct {
	log   *zap.Logger
	clock clock.Clock

	subscriptionsvc subscriptiondomain.Service
	usagesvc        usagedomain.Service
	resolverCache   cache.AccessResolverCache
}

type ServiceParam struct {
	fx.In

	Log   *zap.Logger
	Clock clock.Clock

	Subscriptionsvc subscriptiondomain.Service
	Usagesvc        usagedomain.Service
	ResolverCache   cache.AccessResolverCache
}

func NewService(p ServiceParam) entitlementdomain.Service {
	return &Service{
		log:   p.Log.Named("entitlement.service"),
		clock: p.Clock,

		subscriptionsvc: p.Subscriptionsvc,
		usagesvc:        p.Usagesvc,
		resolverCache:   p.ResolverCache,
	}
}

// CheckFeature implements domain.Service.
func (s *Service) CheckFeature(ctx context.Context, feature tier.Feature) (entitlementdomain.FeatureDecision, error) {
	current, err := s.resolveTier(ctx)
	if err != nil {
		return entitlementdomain.FeatureDecision{}, err
	}

	allowed, err := current.HasFeature(feature)
	if err != nil {
		return entitlementdomain.FeatureDecision{}, err
	}

	decision := entitlementdomain.FeatureDecision{
		Allowed:     allowed,
		CurrentTier: current.ID,
	}
	if !allowed {
		if unlock, ok := tier.CheapestTierUnlocking(feature); ok {
			decision.SuggestedUpgrade = unlock.ID
		}
	}
	return decision, nil
}

// CheckLimit implements domain.Service.
func (s *Service) CheckLimit(ctx context.Context, limit tier.Limit, currentUsage int64) (entitlementdomain.LimitDecision, error) {
	current, err := s.resolveTier(ctx)
	if err != nil {
		return entitlementdomain.LimitDecision{}, err
	}

	check, err := current.CheckLimit(limit, currentUsage)
	if err != nil {
		return entitlementdomain.LimitDecision{}, err
	}
	decision := entitlementdomain.LimitDecision{
		Allowed:     check.Allowed,
		Remaining:   check.Remaining,
		CurrentTier: current.ID,
	}
	if !decision.Allowed {
		if lift, ok := tier.CheapestTierLifting(limit, currentUsage); ok {
			decision.SuggestedUpgrade = lift.ID
		}
	}
	return decision, nil
}

// CheckUsage implements domain.Service.
func (s *Service) CheckUsage(ctx context.Context, limit tier.Limit) (entitlementdomain.LimitDecision, error) {
	userID, ok := usercontext.UserIDFromContext(ctx)
	if !ok {
		return entitlementdomain.LimitDecision{}, subscriptiondomain.ErrInvalidUser
	}

	usage, err := s.usagesvc.Current(ctx, userID, limit)
	if err != nil {
		return entitlementdomain.LimitDecision{}, err
	}
	return s.CheckLimit(ctx, limit, usage)
}

// Summary implements domain.Service.
func (s *Service) Summary(ctx context.Context) (entitlementdomain.AccessSummary, error) {
	userID, ok := usercontext.UserIDFromContext(ctx)
	if !ok {
		return entitlementdomain.AccessSummary{}, subscriptiondomain.ErrInvalidUser
	}

	current, err := s.resolveTier(ctx)
	if err != nil {
		return entitlementdomain.AccessSummary{}, err
	}

	usage, err := s.usagesvc.Snapshot(ctx, userID)
	if err != nil {
		return entitlementdomain.AccessSummary{}, err
	}

	summary := entitlementdomain.AccessSummary{Tier: current.ID}
	summary.BusinessMode, _ = current.HasFeature(tier.FeatureBusinessMode)
	summary.VATCalculation, _ = current.HasFeature(tier.FeatureVATCalculation)
	summary.AIInsights, _ = current.HasFeature(tier.FeatureAIInsights)
	summary.CashflowForecast, _ = current.HasFeature(tier.FeatureCashflowForecasting)
	summary.InvoiceManagement, _ = current.HasFeature(tier.FeatureInvoiceManagement)
	summary.ReceiptOCR, _ = current.HasFeature(tier.FeatureReceiptOCR)
	summary.AdvancedReports, _ = current.HasFeature(tier.FeatureAdvancedReports)
	summary.ExportData, _ = current.HasFeature(tier.FeatureExportData)
	summary.RemainingAIQueries = remaining(current, tier.LimitAIQueriesPerMonth, usage)
	summary.RemainingOCRScans = remaining(current, tier.LimitOCRScansPerMonth, usage)
	summary.RemainingInvoices = remaining(current, tier.LimitInvoicesPerMonth, usage)
	summary.RemainingReports = remaining(current, tier.LimitReportsPerMonth, usage)
	return summary, nil
}

// resolveTier returns the effective tier for the request's user. Access
// resolves live from the catalog by tier id; the record's feature
// snapshot is never consulted. A trial past its end date falls back to
// the lowest tier until the record is cleaned up.
func (s *Service) resolveTier(ctx context.Context) (tier.Tier, error) {
	userID, ok := usercontext.UserIDFromContext(ctx)
	if !ok {
		return tier.Tier{}, subscriptiondomain.ErrInvalidUser
	}

	record, cached := s.resolverCache.GetCurrentSubscription(userID)
	if !cached {
		var err error
		record, err = s.subscriptionsvc.GetOrCreate(ctx)
		if err != nil {
			return tier.Tier{}, err
		}
		s.resolverCache.SetCurrentSubscription(userID, record)
	}

	if record.Status == subscriptiondomain.StatusTrial && record.EndDate != nil && record.EndDate.Before(s.clock.Now()) {
		s.log.Debug("trial expired, resolving as free tier",
			zap.String("user_id", userID),
			zap.String("trial_tier", string(record.Tier)),
		)
		return tier.Lowest(), nil
	}

	return tier.Get(record.Tier)
}

func remaining(t tier.Tier, limit tier.Limit, usage map[tier.Limit]int64) int64 {
	check, err := t.CheckLimit(limit, usage[limit])
	if err != nil {
		return 0
	}
	return check.Remaining
}
