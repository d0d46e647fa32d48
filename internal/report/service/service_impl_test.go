package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/quidflow/quidflow/internal/clock"
	entitlementdomain "github.com/quidflow/quidflow/internal/entitlement/domain"
	reportdomain "github.com/quidflow/quidflow/internal/report/domain"
	"github.com/quidflow/quidflow/internal/report/repository"
	"github.com/quidflow/quidflow/internal/tier"
	transactiondomain "github.com/quidflow/quidflow/internal/transaction/domain"
	transactionrepository "github.com/quidflow/quidflow/internal/transaction/repository"
	transactionservice "github.com/quidflow/quidflow/internal/transaction/service"
	usagedomain "github.com/quidflow/quidflow/internal/usage/domain"
	usagerepository "github.com/quidflow/quidflow/internal/usage/repository"
	usageservice "github.com/quidflow/quidflow/internal/usage/service"
	"github.com/quidflow/quidflow/internal/usercontext"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type gateway struct {
	tierID   tier.ID
	usagesvc usagedomain.Service
}

func (g *gateway) CheckFeature(ctx context.Context, feature tier.Feature) (entitlementdomain.FeatureDecision, error) {
	t, err := tier.Get(g.tierID)
	if err != nil {
		return entitlementdomain.FeatureDecision{}, err
	}
	allowed, err := t.HasFeature(feature)
	if err != nil {
		return entitlementdomain.FeatureDecision{}, err
	}
	return entitlementdomain.FeatureDecision{Allowed: allowed, CurrentTier: g.tierID}, nil
}

func (g *gateway) CheckLimit(ctx context.Context, limit tier.Limit, currentUsage int64) (entitlementdomain.LimitDecision, error) {
	t, err := tier.Get(g.tierID)
	if err != nil {
		return entitlementdomain.LimitDecision{}, err
	}
	check, err := t.CheckLimit(limit, currentUsage)
	if err != nil {
		return entitlementdomain.LimitDecision{}, err
	}
	return entitlementdomain.LimitDecision{Allowed: check.Allowed, Remaining: check.Remaining, CurrentTier: g.tierID}, nil
}

func (g *gateway) CheckUsage(ctx context.Context, limit tier.Limit) (entitlementdomain.LimitDecision, error) {
	userID, _ := usercontext.UserIDFromContext(ctx)
	usage, err := g.usagesvc.Current(ctx, userID, limit)
	if err != nil {
		return entitlementdomain.LimitDecision{}, err
	}
	return g.CheckLimit(ctx, limit, usage)
}

func (g *gateway) Summary(ctx context.Context) (entitlementdomain.AccessSummary, error) {
	return entitlementdomain.AccessSummary{Tier: g.tierID}, nil
}

type fixture struct {
	svc            *Service
	usagesvc       usagedomain.Service
	transactionsvc transactiondomain.Service
}

func newFixture(t *testing.T, tierID tier.ID) fixture {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to connect database: %v", err)
	}
	if err := db.AutoMigrate(&reportdomain.Report{}, &transactiondomain.Transaction{}, &usagedomain.Counter{}); err != nil {
		t.Fatalf("failed to migrate database: %v", err)
	}

	node, err := snowflake.NewNode(1)
	if err != nil {
		t.Fatal(err)
	}
	fake := clock.NewFakeClock(time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC))

	usagesvc := usageservice.NewService(usageservice.ServiceParam{
		DB:    db,
		Log:   zap.NewNop(),
		Clock: fake,
		Repo:  usagerepository.Provide(),
	})
	transactionsvc := transactionservice.NewService(transactionservice.ServiceParam{
		DB:    db,
		Log:   zap.NewNop(),
		GenID: node,
		Clock: fake,
		Repo:  transactionrepository.Provide(),
	})

	svc := NewService(ServiceParam{
		DB:    db,
		Log:   zap.NewNop(),
		GenID: node,
		Clock: fake,
		Repo:  repository.Provide(),

		Entitlementsvc: &gateway{tierID: tierID, usagesvc: usagesvc},
		Usagesvc:       usagesvc,
		Transactionsvc: transactionsvc,
	}).(*Service)
	return fixture{svc: svc, usagesvc: usagesvc, transactionsvc: transactionsvc}
}

func userCtx(userID string) context.Context {
	return usercontext.WithUserID(context.Background(), userID)
}

func marchWindow() (time.Time, time.Time) {
	return time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)
}

func TestGenerateExpenseReport(t *testing.T) {
	f := newFixture(t, tier.PersonalFree)
	ctx := userCtx("user-1")

	seed := []transactiondomain.CreateTransactionRequest{
		{Description: "ACME PAYROLL", AmountMinor: 250000, Kind: transactiondomain.KindIncome},
		{Description: "TESCO", AmountMinor: 12000, Kind: transactiondomain.KindExpense},
		{Description: "TFL", AmountMinor: 8000, Kind: transactiondomain.KindExpense},
	}
	for _, req := range seed {
		if _, err := f.transactionsvc.Create(ctx, req); err != nil {
			t.Fatal(err)
		}
	}

	from, to := marchWindow()
	report, err := f.svc.Generate(ctx, reportdomain.GenerateReportRequest{
		Kind: reportdomain.KindExpense, From: from, To: to,
	})
	if err != nil {
		t.Fatal(err)
	}

	var body struct {
		IncomeMinor  int64 `json:"income_minor"`
		ExpenseMinor int64 `json:"expense_minor"`
		NetMinor     int64 `json:"net_minor"`
		ByCategory   []transactiondomain.CategoryTotal `json:"by_category"`
	}
	if err := json.Unmarshal(report.Payload, &body); err != nil {
		t.Fatal(err)
	}
	if body.IncomeMinor != 250000 || body.ExpenseMinor != 20000 || body.NetMinor != 230000 {
		t.Errorf("payload totals: %+v", body)
	}
	if len(body.ByCategory) == 0 {
		t.Error("expense report missing category breakdown")
	}

	count, err := f.usagesvc.Current(ctx, "user-1", tier.LimitReportsPerMonth)
	if err != nil {
		t.Fatal(err)
	}
	if count != 1 {
		t.Errorf("usage = %d, want 1", count)
	}
}

func TestAdvancedKindsNeedAdvancedReports(t *testing.T) {
	f := newFixture(t, tier.PersonalFree)
	from, to := marchWindow()

	_, err := f.svc.Generate(userCtx("user-1"), reportdomain.GenerateReportRequest{
		Kind: reportdomain.KindProfitLoss, From: from, To: to,
	})
	if !errors.Is(err, entitlementdomain.ErrUpgradeRequired) {
		t.Fatalf("free tier P&L: %v", err)
	}
}

func TestGenerateStopsAtMonthlyCeiling(t *testing.T) {
	f := newFixture(t, tier.PersonalFree)
	ctx := userCtx("user-2")
	from, to := marchWindow()

	// personal_free allows a single report per month.
	if _, err := f.svc.Generate(ctx, reportdomain.GenerateReportRequest{
		Kind: reportdomain.KindExpense, From: from, To: to,
	}); err != nil {
		t.Fatal(err)
	}
	_, err := f.svc.Generate(ctx, reportdomain.GenerateReportRequest{
		Kind: reportdomain.KindExpense, From: from, To: to,
	})
	if !errors.Is(err, entitlementdomain.ErrUpgradeRequired) {
		t.Fatalf("second report: %v", err)
	}
}

func TestGenerateValidatesInput(t *testing.T) {
	f := newFixture(t, tier.PersonalPro)
	ctx := userCtx("user-3")
	from, to := marchWindow()

	if _, err := f.svc.Generate(ctx, reportdomain.GenerateReportRequest{
		Kind: "balance_sheet", From: from, To: to,
	}); err != reportdomain.ErrInvalidKind {
		t.Errorf("unknown kind: %v", err)
	}
	if _, err := f.svc.Generate(ctx, reportdomain.GenerateReportRequest{
		Kind: reportdomain.KindExpense, From: to, To: from,
	}); err != reportdomain.ErrInvalidPeriod {
		t.Errorf("inverted period: %v", err)
	}
}

func TestGetIsScopedToOwner(t *testing.T) {
	f := newFixture(t, tier.PersonalPro)
	from, to := marchWindow()

	report, err := f.svc.Generate(userCtx("user-4"), reportdomain.GenerateReportRequest{
		Kind: reportdomain.KindExpense, From: from, To: to,
	})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := f.svc.Get(userCtx("user-5"), report.ID); err != reportdomain.ErrReportNotFound {
		t.Errorf("cross-user get: %v", err)
	}
}
