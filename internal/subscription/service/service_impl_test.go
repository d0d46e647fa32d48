package service

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/quidflow/quidflow/internal/clock"
	subscriptiondomain "github.com/quidflow/quidflow/internal/subscription/domain"
	"github.com/quidflow/quidflow/internal/subscription/repository"
	"github.com/quidflow/quidflow/internal/tier"
	"github.com/quidflow/quidflow/internal/usercontext"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to connect database: %v", err)
	}
	if err := db.AutoMigrate(&subscriptiondomain.Subscription{}); err != nil {
		t.Fatalf("failed to migrate database: %v", err)
	}
	// SQLite needs the partial unique index the repository's upsert targets.
	db.Exec("CREATE UNIQUE INDEX IF NOT EXISTS ux_subscriptions_user_current ON subscriptions(user_id) WHERE status IN ('active', 'trial')")
	return db
}

func newTestService(t *testing.T, db *gorm.DB) (*Service, *clock.FakeClock) {
	t.Helper()
	node, err := snowflake.NewNode(1)
	if err != nil {
		t.Fatal(err)
	}
	fake := clock.NewFakeClock(time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC))
	svc := NewService(ServiceParam{
		DB:    db,
		Log:   zap.NewNop(),
		GenID: node,
		Clock: fake,
		Repo:  repository.Provide(),
	}).(*Service)
	return svc, fake
}

func userCtx(userID string) context.Context {
	return usercontext.WithUserID(context.Background(), userID)
}

func TestGetOrCreateDefaultsToFreeTier(t *testing.T) {
	db := setupTestDB(t)
	svc, _ := newTestService(t, db)
	ctx := userCtx("user-1")

	sub, err := svc.GetOrCreate(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if sub.Tier != tier.PersonalFree {
		t.Errorf("tier = %q, want %q", sub.Tier, tier.PersonalFree)
	}
	if sub.Status != subscriptiondomain.StatusActive {
		t.Errorf("status = %q", sub.Status)
	}
	if !sub.AutoRenew {
		t.Error("new record should auto renew")
	}

	again, err := svc.GetOrCreate(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if again.ID != sub.ID {
		t.Errorf("second call created a new record: %v vs %v", again.ID, sub.ID)
	}
}

func TestGetOrCreateIsIdempotentUnderRacingInserts(t *testing.T) {
	db := setupTestDB(t)
	svc, _ := newTestService(t, db)
	ctx := userCtx("race-user")

	// Simulate the losing side of the race: a current record lands between
	// the miss and the insert. The conflict target swallows the duplicate.
	first, err := svc.GetOrCreate(ctx)
	if err != nil {
		t.Fatal(err)
	}

	record, err := svc.buildRecord("race-user", tier.Lowest().ID, subscriptiondomain.StatusActive)
	if err != nil {
		t.Fatal(err)
	}
	if err := repository.Provide().Insert(ctx, db, record); err != nil {
		t.Fatalf("duplicate insert should be a no-op, got %v", err)
	}

	var count int64
	db.Raw("SELECT COUNT(1) FROM subscriptions WHERE user_id = ? AND status IN ('active', 'trial')", "race-user").Scan(&count)
	if count != 1 {
		t.Fatalf("current record count = %d, want 1", count)
	}

	again, err := svc.GetOrCreate(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if again.ID != first.ID {
		t.Errorf("winner changed: %v vs %v", again.ID, first.ID)
	}
}

func TestChangeTierUpdatesSnapshotAndForcesActive(t *testing.T) {
	db := setupTestDB(t)
	svc, _ := newTestService(t, db)
	ctx := userCtx("user-2")

	sub, err := svc.ChangeTier(ctx, subscriptiondomain.ChangeTierRequest{Tier: tier.BusinessStarter})
	if err != nil {
		t.Fatal(err)
	}
	if sub.Tier != tier.BusinessStarter {
		t.Errorf("tier = %q", sub.Tier)
	}
	if sub.Status != subscriptiondomain.StatusActive {
		t.Errorf("status = %q", sub.Status)
	}
	if len(sub.Features) == 0 {
		t.Error("feature snapshot missing")
	}

	stored, err := svc.GetOrCreate(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if stored.Tier != tier.BusinessStarter {
		t.Errorf("stored tier = %q", stored.Tier)
	}
}

func TestChangeTierRejectsUnknownTier(t *testing.T) {
	db := setupTestDB(t)
	svc, _ := newTestService(t, db)

	_, err := svc.ChangeTier(userCtx("user-3"), subscriptiondomain.ChangeTierRequest{Tier: "solid_gold"})
	if err != subscriptiondomain.ErrInvalidTier {
		t.Fatalf("expected ErrInvalidTier, got %v", err)
	}
}

func TestStartTrialOncePerUser(t *testing.T) {
	db := setupTestDB(t)
	svc, fake := newTestService(t, db)
	ctx := userCtx("user-4")

	sub, err := svc.StartTrial(ctx, subscriptiondomain.StartTrialRequest{Tier: tier.PersonalPro})
	if err != nil {
		t.Fatal(err)
	}
	if sub.Status != subscriptiondomain.StatusTrial {
		t.Errorf("status = %q", sub.Status)
	}
	if sub.AutoRenew {
		t.Error("trial should not auto renew")
	}
	wantEnd := fake.Now().AddDate(0, 0, 14)
	if sub.EndDate == nil || !sub.EndDate.Equal(wantEnd) {
		t.Errorf("end date = %v, want %v", sub.EndDate, wantEnd)
	}

	_, err = svc.StartTrial(ctx, subscriptiondomain.StartTrialRequest{Tier: tier.BusinessPro})
	if err != subscriptiondomain.ErrTrialAlreadyUsed {
		t.Fatalf("expected ErrTrialAlreadyUsed, got %v", err)
	}
}

func TestStartTrialStillBlockedAfterCancel(t *testing.T) {
	db := setupTestDB(t)
	svc, _ := newTestService(t, db)
	ctx := userCtx("user-5")

	if _, err := svc.StartTrial(ctx, subscriptiondomain.StartTrialRequest{Tier: tier.BusinessStarter}); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Cancel(ctx); err != nil {
		t.Fatal(err)
	}

	_, err := svc.StartTrial(ctx, subscriptiondomain.StartTrialRequest{Tier: tier.BusinessStarter})
	if err != subscriptiondomain.ErrTrialAlreadyUsed {
		t.Fatalf("expected ErrTrialAlreadyUsed, got %v", err)
	}
}

func TestStartTrialEnterpriseRunsThirtyDays(t *testing.T) {
	db := setupTestDB(t)
	svc, fake := newTestService(t, db)

	sub, err := svc.StartTrial(userCtx("user-6"), subscriptiondomain.StartTrialRequest{Tier: tier.BusinessEnterprise})
	if err != nil {
		t.Fatal(err)
	}
	wantEnd := fake.Now().AddDate(0, 0, 30)
	if sub.EndDate == nil || !sub.EndDate.Equal(wantEnd) {
		t.Errorf("end date = %v, want %v", sub.EndDate, wantEnd)
	}
}

func TestStartTrialRejectsFreeTier(t *testing.T) {
	db := setupTestDB(t)
	svc, _ := newTestService(t, db)

	_, err := svc.StartTrial(userCtx("user-7"), subscriptiondomain.StartTrialRequest{Tier: tier.PersonalFree})
	if err != subscriptiondomain.ErrInvalidTier {
		t.Fatalf("expected ErrInvalidTier, got %v", err)
	}
}

func TestStartTrialClosesOutPaidRecord(t *testing.T) {
	db := setupTestDB(t)
	svc, _ := newTestService(t, db)
	ctx := userCtx("user-8")

	paid, err := svc.ChangeTier(ctx, subscriptiondomain.ChangeTierRequest{Tier: tier.PersonalPro})
	if err != nil {
		t.Fatal(err)
	}

	if _, err := svc.StartTrial(ctx, subscriptiondomain.StartTrialRequest{Tier: tier.BusinessPro}); err != nil {
		t.Fatal(err)
	}

	var status string
	db.Raw("SELECT status FROM subscriptions WHERE id = ?", paid.ID).Scan(&status)
	if status != string(subscriptiondomain.StatusCancelled) {
		t.Errorf("prior record status = %q, want cancelled", status)
	}
}

func TestCancelLeavesFreshFreeRecord(t *testing.T) {
	db := setupTestDB(t)
	svc, _ := newTestService(t, db)
	ctx := userCtx("user-9")

	paid, err := svc.ChangeTier(ctx, subscriptiondomain.ChangeTierRequest{Tier: tier.BusinessPro})
	if err != nil {
		t.Fatal(err)
	}

	replacement, err := svc.Cancel(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if replacement.Tier != tier.PersonalFree {
		t.Errorf("replacement tier = %q", replacement.Tier)
	}
	if replacement.Status != subscriptiondomain.StatusActive {
		t.Errorf("replacement status = %q", replacement.Status)
	}
	if replacement.ID == paid.ID {
		t.Error("cancel reused the old record")
	}

	current, err := svc.GetOrCreate(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if current.ID != replacement.ID || current.Tier != tier.PersonalFree {
		t.Errorf("current after cancel = %+v", current)
	}

	history, err := svc.History(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(history) != 2 {
		t.Fatalf("history length = %d, want 2", len(history))
	}
}
