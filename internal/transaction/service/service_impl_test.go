package service

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/quidflow/quidflow/internal/clock"
	transactiondomain "github.com/quidflow/quidflow/internal/transaction/domain"
	"github.com/quidflow/quidflow/internal/transaction/repository"
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
	if err := db.AutoMigrate(&transactiondomain.Transaction{}); err != nil {
		t.Fatalf("failed to migrate database: %v", err)
	}
	return db
}

func newTestService(t *testing.T, db *gorm.DB) (*Service, *clock.FakeClock) {
	t.Helper()
	node, err := snowflake.NewNode(1)
	if err != nil {
		t.Fatal(err)
	}
	fake := clock.NewFakeClock(time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC))
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

func TestCreateAutoCategorizes(t *testing.T) {
	svc, _ := newTestService(t, setupTestDB(t))
	ctx := userCtx("user-1")

	created, err := svc.Create(ctx, transactiondomain.CreateTransactionRequest{
		Description: "TESCO STORES 2041",
		AmountMinor: 4250,
		Kind:        transactiondomain.KindExpense,
	})
	if err != nil {
		t.Fatal(err)
	}
	if created.Category != "groceries" {
		t.Errorf("category = %q, want groceries", created.Category)
	}
	if created.Currency != "GBP" {
		t.Errorf("currency = %q, want GBP", created.Currency)
	}
	if created.OccurredAt.IsZero() {
		t.Error("occurred_at not defaulted")
	}
}

func TestCreateKeepsExplicitCategory(t *testing.T) {
	svc, _ := newTestService(t, setupTestDB(t))

	created, err := svc.Create(userCtx("user-1"), transactiondomain.CreateTransactionRequest{
		Description: "TESCO STORES 2041",
		AmountMinor: 4250,
		Category:    "office_supplies",
		Kind:        transactiondomain.KindExpense,
	})
	if err != nil {
		t.Fatal(err)
	}
	if created.Category != "office_supplies" {
		t.Errorf("category = %q", created.Category)
	}
}

func TestCreateRejectsBadInput(t *testing.T) {
	svc, _ := newTestService(t, setupTestDB(t))
	ctx := userCtx("user-1")

	_, err := svc.Create(ctx, transactiondomain.CreateTransactionRequest{
		Description: "x", AmountMinor: 0, Kind: transactiondomain.KindExpense,
	})
	if err != transactiondomain.ErrInvalidAmount {
		t.Errorf("zero amount: %v", err)
	}

	_, err = svc.Create(ctx, transactiondomain.CreateTransactionRequest{
		Description: "x", AmountMinor: 100, Kind: "transfer",
	})
	if err != transactiondomain.ErrInvalidKind {
		t.Errorf("bad kind: %v", err)
	}
}

func TestSpendingByCategoryAggregatesCurrentMonth(t *testing.T) {
	svc, _ := newTestService(t, setupTestDB(t))
	ctx := userCtx("user-2")

	seed := []transactiondomain.CreateTransactionRequest{
		{Description: "TESCO", AmountMinor: 3000, Kind: transactiondomain.KindExpense},
		{Description: "SAINSBURYS", AmountMinor: 2000, Kind: transactiondomain.KindExpense},
		{Description: "TFL TRAVEL", AmountMinor: 1500, Kind: transactiondomain.KindExpense},
		{Description: "ACME PAYROLL", AmountMinor: 250000, Kind: transactiondomain.KindIncome},
	}
	for _, req := range seed {
		if _, err := svc.Create(ctx, req); err != nil {
			t.Fatal(err)
		}
	}
	// Last month should not be counted.
	if _, err := svc.Create(ctx, transactiondomain.CreateTransactionRequest{
		Description: "ALDI",
		AmountMinor: 9999,
		OccurredAt:  time.Date(2026, 2, 15, 0, 0, 0, 0, time.UTC),
		Kind:        transactiondomain.KindExpense,
	}); err != nil {
		t.Fatal(err)
	}

	totals, err := svc.SpendingByCategory(ctx, time.Time{}, time.Time{})
	if err != nil {
		t.Fatal(err)
	}
	byCategory := map[string]int64{}
	for _, row := range totals {
		byCategory[row.Category] = row.TotalMinor
	}
	if byCategory["groceries"] != 5000 {
		t.Errorf("groceries = %d, want 5000", byCategory["groceries"])
	}
	if byCategory["transport"] != 1500 {
		t.Errorf("transport = %d, want 1500", byCategory["transport"])
	}
	if _, ok := byCategory["salary"]; ok {
		t.Error("income leaked into spending aggregation")
	}
}

func TestTotalsSplitIncomeAndExpense(t *testing.T) {
	svc, _ := newTestService(t, setupTestDB(t))
	ctx := userCtx("user-3")

	if _, err := svc.Create(ctx, transactiondomain.CreateTransactionRequest{
		Description: "ACME PAYROLL", AmountMinor: 250000, Kind: transactiondomain.KindIncome,
	}); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Create(ctx, transactiondomain.CreateTransactionRequest{
		Description: "RENT MARCH", AmountMinor: 120000, Kind: transactiondomain.KindExpense,
	}); err != nil {
		t.Fatal(err)
	}

	income, expense, err := svc.Totals(ctx, time.Time{}, time.Time{})
	if err != nil {
		t.Fatal(err)
	}
	if income != 250000 || expense != 120000 {
		t.Errorf("totals = %d/%d", income, expense)
	}
}

func TestDeleteIsScopedToOwner(t *testing.T) {
	svc, _ := newTestService(t, setupTestDB(t))

	created, err := svc.Create(userCtx("user-4"), transactiondomain.CreateTransactionRequest{
		Description: "NETFLIX", AmountMinor: 1099, Kind: transactiondomain.KindExpense,
	})
	if err != nil {
		t.Fatal(err)
	}

	if err := svc.Delete(userCtx("user-5"), created.ID); err != transactiondomain.ErrTransactionNotFound {
		t.Errorf("cross-user delete: %v", err)
	}
	if err := svc.Delete(userCtx("user-4"), created.ID); err != nil {
		t.Errorf("owner delete: %v", err)
	}
}

func TestCategorizeRules(t *testing.T) {
	cases := []struct {
		description string
		kind        transactiondomain.Kind
		want        string
	}{
		{"UBER *TRIP", transactiondomain.KindExpense, "transport"},
		{"Pret A Manger", transactiondomain.KindExpense, "dining"},
		{"ACME LTD PAYROLL", transactiondomain.KindIncome, "salary"},
		{"Dividend payout Q1", transactiondomain.KindIncome, "investment"},
		{"Mystery merchant", transactiondomain.KindExpense, transactiondomain.CategoryOther},
	}
	for _, tc := range cases {
		if got := transactiondomain.Categorize(tc.description, tc.kind); got != tc.want {
			t.Errorf("Categorize(%q, %s) = %q, want %q", tc.description, tc.kind, got, tc.want)
		}
	}
}
