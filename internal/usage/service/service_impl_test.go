package service

import (
	"context"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/quidflow/quidflow/internal/clock"
	"github.com/quidflow/quidflow/internal/tier"
	usagedomain "github.com/quidflow/quidflow/internal/usage/domain"
	"github.com/quidflow/quidflow/internal/usage/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to connect database: %v", err)
	}
	if err := db.AutoMigrate(&usagedomain.Counter{}); err != nil {
		t.Fatalf("failed to migrate database: %v", err)
	}
	return db
}

func newTestService(t *testing.T, db *gorm.DB) (*Service, *clock.FakeClock) {
	t.Helper()
	fake := clock.NewFakeClock(time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC))
	svc := NewService(ServiceParam{
		DB:    db,
		Log:   zap.NewNop(),
		Clock: fake,
		Repo:  repository.Provide(),
	}).(*Service)
	return svc, fake
}

func TestIncrementUpsertsAndAccumulates(t *testing.T) {
	db := setupTestDB(t)
	svc, _ := newTestService(t, db)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if err := svc.Increment(ctx, "user-1", tier.LimitAIQueriesPerMonth); err != nil {
			t.Fatal(err)
		}
	}

	count, err := svc.Current(ctx, "user-1", tier.LimitAIQueriesPerMonth)
	if err != nil {
		t.Fatal(err)
	}
	if count != 3 {
		t.Fatalf("count = %d, want 3", count)
	}
}

func TestCountersAreScopedToCalendarMonth(t *testing.T) {
	db := setupTestDB(t)
	svc, fake := newTestService(t, db)
	ctx := context.Background()

	if err := svc.Increment(ctx, "user-2", tier.LimitOCRScansPerMonth); err != nil {
		t.Fatal(err)
	}

	// Roll past the month boundary; the counter resets by keying.
	fake.Set(time.Date(2026, 4, 1, 0, 0, 1, 0, time.UTC))

	count, err := svc.Current(ctx, "user-2", tier.LimitOCRScansPerMonth)
	if err != nil {
		t.Fatal(err)
	}
	if count != 0 {
		t.Fatalf("new period count = %d, want 0", count)
	}
}

func TestCountersAreScopedPerUserAndMetric(t *testing.T) {
	db := setupTestDB(t)
	svc, _ := newTestService(t, db)
	ctx := context.Background()

	if err := svc.Increment(ctx, "user-3", tier.LimitInvoicesPerMonth); err != nil {
		t.Fatal(err)
	}

	count, err := svc.Current(ctx, "user-3", tier.LimitReportsPerMonth)
	if err != nil {
		t.Fatal(err)
	}
	if count != 0 {
		t.Fatalf("other metric count = %d, want 0", count)
	}

	count, err = svc.Current(ctx, "user-4", tier.LimitInvoicesPerMonth)
	if err != nil {
		t.Fatal(err)
	}
	if count != 0 {
		t.Fatalf("other user count = %d, want 0", count)
	}
}

func TestSnapshotCoversAllMeteredLimits(t *testing.T) {
	db := setupTestDB(t)
	svc, _ := newTestService(t, db)
	ctx := context.Background()

	if err := svc.Increment(ctx, "user-5", tier.LimitAIQueriesPerMonth); err != nil {
		t.Fatal(err)
	}
	if err := svc.Increment(ctx, "user-5", tier.LimitReportsPerMonth); err != nil {
		t.Fatal(err)
	}

	snapshot, err := svc.Snapshot(ctx, "user-5")
	if err != nil {
		t.Fatal(err)
	}
	for _, metric := range usagedomain.MeteredLimits {
		if _, ok := snapshot[metric]; !ok {
			t.Errorf("snapshot missing %q", metric)
		}
	}
	if snapshot[tier.LimitAIQueriesPerMonth] != 1 || snapshot[tier.LimitReportsPerMonth] != 1 {
		t.Errorf("snapshot = %v", snapshot)
	}
	if snapshot[tier.LimitOCRScansPerMonth] != 0 {
		t.Errorf("untouched metric = %d", snapshot[tier.LimitOCRScansPerMonth])
	}
}

func TestPeriodStartTruncatesToUTCMonth(t *testing.T) {
	in := time.Date(2026, 7, 31, 23, 59, 59, 0, time.FixedZone("UTC+5", 5*3600))
	got := usagedomain.PeriodStart(in)
	want := time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("period start = %v, want %v", got, want)
	}
}
