package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/quidflow/quidflow/internal/cache"
	"github.com/quidflow/quidflow/internal/clock"
	entitlementdomain "github.com/quidflow/quidflow/internal/entitlement/domain"
	subscriptiondomain "github.com/quidflow/quidflow/internal/subscription/domain"
	"github.com/quidflow/quidflow/internal/tier"
	"github.com/quidflow/quidflow/internal/usercontext"
	"go.uber.org/zap"
	"gorm.io/datatypes"
)

// Manual mocks

type mockSubscriptionService struct {
	record       subscriptiondomain.Subscription
	err          error
	getOrCreates int
}

func (m *mockSubscriptionService) GetOrCreate(ctx context.Context) (subscriptiondomain.Subscription, error) {
	m.getOrCreates++
	return m.record, m.err
}
func (m *mockSubscriptionService) ChangeTier(ctx context.Context, req subscriptiondomain.ChangeTierRequest) (subscriptiondomain.Subscription, error) {
	return m.record, nil
}
func (m *mockSubscriptionService) StartTrial(ctx context.Context, req subscriptiondomain.StartTrialRequest) (subscriptiondomain.Subscription, error) {
	return m.record, nil
}
func (m *mockSubscriptionService) Cancel(ctx context.Context) (subscriptiondomain.Subscription, error) {
	return m.record, nil
}
func (m *mockSubscriptionService) History(ctx context.Context) ([]subscriptiondomain.Subscription, error) {
	return nil, nil
}

type mockUsageService struct {
	counts map[tier.Limit]int64
}

func (m *mockUsageService) Increment(ctx context.Context, userID string, metric tier.Limit) error {
	if m.counts == nil {
		m.counts = map[tier.Limit]int64{}
	}
	m.counts[metric]++
	return nil
}
func (m *mockUsageService) Current(ctx context.Context, userID string, metric tier.Limit) (int64, error) {
	return m.counts[metric], nil
}
func (m *mockUsageService) Snapshot(ctx context.Context, userID string) (map[tier.Limit]int64, error) {
	return m.counts, nil
}

func record(tierID tier.ID, status subscriptiondomain.Status) subscriptiondomain.Subscription {
	t, _ := tier.Get(tierID)
	raw, _ := json.Marshal(t.Features)
	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	return subscriptiondomain.Subscription{
		ID:        1,
		UserID:    "user-1",
		Tier:      tierID,
		Status:    status,
		Features:  datatypes.JSON(raw),
		StartDate: start,
		CreatedAt: start,
		UpdatedAt: start,
	}
}

func newGateway(sub *mockSubscriptionService, usage *mockUsageService) (*Service, *clock.FakeClock) {
	fake := clock.NewFakeClock(time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC))
	svc := NewService(ServiceParam{
		Log:             zap.NewNop(),
		Clock:           fake,
		Subscriptionsvc: sub,
		Usagesvc:        usage,
		ResolverCache:   cache.NewAccessResolverCache(),
	}).(*Service)
	return svc, fake
}

func userCtx(userID string) context.Context {
	return usercontext.WithUserID(context.Background(), userID)
}

func TestCheckFeatureDeniedSuggestsCheapestUnlock(t *testing.T) {
	sub := &mockSubscriptionService{record: record(tier.PersonalFree, subscriptiondomain.StatusActive)}
	svc, _ := newGateway(sub, &mockUsageService{})

	decision, err := svc.CheckFeature(userCtx("user-1"), tier.FeatureAIInsights)
	if err != nil {
		t.Fatal(err)
	}
	if decision.Allowed {
		t.Error("free tier should not have AI insights")
	}
	if decision.CurrentTier != tier.PersonalFree {
		t.Errorf("current tier = %q", decision.CurrentTier)
	}
	if decision.SuggestedUpgrade != tier.PersonalPro {
		t.Errorf("suggested upgrade = %q, want %q", decision.SuggestedUpgrade, tier.PersonalPro)
	}
}

func TestCheckFeatureAllowedOmitsSuggestion(t *testing.T) {
	sub := &mockSubscriptionService{record: record(tier.BusinessStarter, subscriptiondomain.StatusActive)}
	svc, _ := newGateway(sub, &mockUsageService{})

	decision, err := svc.CheckFeature(userCtx("user-1"), tier.FeatureVATCalculation)
	if err != nil {
		t.Fatal(err)
	}
	if !decision.Allowed {
		t.Error("business starter should have VAT calculation")
	}
	if decision.SuggestedUpgrade != "" {
		t.Errorf("unexpected suggestion %q", decision.SuggestedUpgrade)
	}
}

func TestCheckFeatureUnknownFeatureErrors(t *testing.T) {
	sub := &mockSubscriptionService{record: record(tier.PersonalFree, subscriptiondomain.StatusActive)}
	svc, _ := newGateway(sub, &mockUsageService{})

	if _, err := svc.CheckFeature(userCtx("user-1"), "antigravity"); err != tier.ErrUnknownFeature {
		t.Fatalf("expected ErrUnknownFeature, got %v", err)
	}
}

func TestCheckLimitDelegatesToTier(t *testing.T) {
	sub := &mockSubscriptionService{record: record(tier.PersonalPro, subscriptiondomain.StatusActive)}
	svc, _ := newGateway(sub, &mockUsageService{})
	ctx := userCtx("user-1")

	decision, err := svc.CheckLimit(ctx, tier.LimitAIQueriesPerMonth, 199)
	if err != nil {
		t.Fatal(err)
	}
	if !decision.Allowed || decision.Remaining != 1 {
		t.Errorf("usage 199: %+v", decision)
	}

	decision, err = svc.CheckLimit(ctx, tier.LimitAIQueriesPerMonth, 200)
	if err != nil {
		t.Fatal(err)
	}
	if decision.Allowed || decision.Remaining != 0 {
		t.Errorf("usage 200: %+v", decision)
	}
	if decision.CurrentTier != tier.PersonalPro {
		t.Errorf("current tier = %q", decision.CurrentTier)
	}
	if decision.SuggestedUpgrade != tier.BusinessStarter {
		t.Errorf("suggested upgrade = %q, want %q", decision.SuggestedUpgrade, tier.BusinessStarter)
	}
}

func TestDeniedDecisionsMatchUpgradeRequired(t *testing.T) {
	sub := &mockSubscriptionService{record: record(tier.PersonalFree, subscriptiondomain.StatusActive)}
	svc, _ := newGateway(sub, &mockUsageService{})

	decision, err := svc.CheckFeature(userCtx("user-1"), tier.FeatureAIInsights)
	if err != nil {
		t.Fatal(err)
	}
	denial := decision.Denied()
	if !errors.Is(denial, entitlementdomain.ErrUpgradeRequired) {
		t.Error("denial does not match ErrUpgradeRequired")
	}
	var typed *entitlementdomain.UpgradeRequiredError
	if !errors.As(denial, &typed) || typed.SuggestedUpgrade != tier.PersonalPro {
		t.Errorf("denial = %+v, want suggested upgrade %q", typed, tier.PersonalPro)
	}
}

func TestCheckUsageReadsLiveCounter(t *testing.T) {
	sub := &mockSubscriptionService{record: record(tier.PersonalFree, subscriptiondomain.StatusActive)}
	usage := &mockUsageService{counts: map[tier.Limit]int64{}}
	svc, _ := newGateway(sub, usage)
	ctx := userCtx("user-1")

	decision, err := svc.CheckUsage(ctx, tier.LimitAIQueriesPerMonth)
	if err != nil {
		t.Fatal(err)
	}
	if decision.Allowed || decision.Remaining != 0 {
		t.Errorf("free tier with zero ceiling: %+v", decision)
	}
}

func TestResolveTierUsesCatalogNotSnapshot(t *testing.T) {
	// A stale snapshot claiming AI access must not win over the catalog.
	rec := record(tier.PersonalFree, subscriptiondomain.StatusActive)
	rec.Features = datatypes.JSON([]byte(`{"aiInsights":true}`))
	sub := &mockSubscriptionService{record: rec}
	svc, _ := newGateway(sub, &mockUsageService{})

	decision, err := svc.CheckFeature(userCtx("user-1"), tier.FeatureAIInsights)
	if err != nil {
		t.Fatal(err)
	}
	if decision.Allowed {
		t.Error("snapshot overrode the live catalog")
	}
}

func TestResolveTierCachesSubscription(t *testing.T) {
	sub := &mockSubscriptionService{record: record(tier.PersonalPro, subscriptiondomain.StatusActive)}
	svc, _ := newGateway(sub, &mockUsageService{})
	ctx := userCtx("user-1")

	for i := 0; i < 5; i++ {
		if _, err := svc.CheckFeature(ctx, tier.FeatureAIInsights); err != nil {
			t.Fatal(err)
		}
	}
	if sub.getOrCreates != 1 {
		t.Errorf("subscription resolved %d times, want 1", sub.getOrCreates)
	}
}

func TestExpiredTrialResolvesAsFreeTier(t *testing.T) {
	rec := record(tier.BusinessPro, subscriptiondomain.StatusTrial)
	end := time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)
	rec.EndDate = &end
	sub := &mockSubscriptionService{record: rec}
	svc, _ := newGateway(sub, &mockUsageService{})

	decision, err := svc.CheckFeature(userCtx("user-1"), tier.FeatureVATCalculation)
	if err != nil {
		t.Fatal(err)
	}
	if decision.Allowed {
		t.Error("expired trial still grants paid features")
	}
	if decision.CurrentTier != tier.PersonalFree {
		t.Errorf("current tier = %q", decision.CurrentTier)
	}
}

func TestSummaryReportsRemainingCounts(t *testing.T) {
	sub := &mockSubscriptionService{record: record(tier.PersonalPro, subscriptiondomain.StatusActive)}
	usage := &mockUsageService{counts: map[tier.Limit]int64{
		tier.LimitAIQueriesPerMonth: 50,
		tier.LimitOCRScansPerMonth:  100,
	}}
	svc, _ := newGateway(sub, usage)

	summary, err := svc.Summary(userCtx("user-1"))
	if err != nil {
		t.Fatal(err)
	}
	if summary.Tier != tier.PersonalPro {
		t.Errorf("tier = %q", summary.Tier)
	}
	if !summary.AIInsights || summary.BusinessMode {
		t.Errorf("feature flags wrong: %+v", summary)
	}
	if summary.RemainingAIQueries != 150 {
		t.Errorf("remaining AI queries = %d, want 150", summary.RemainingAIQueries)
	}
	if summary.RemainingOCRScans != 0 {
		t.Errorf("remaining OCR scans = %d, want 0", summary.RemainingOCRScans)
	}
	if summary.RemainingReports != tier.Unlimited {
		t.Errorf("remaining reports = %d, want unlimited", summary.RemainingReports)
	}
}
