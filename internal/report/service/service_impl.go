package service

import (
	"context"
	"encoding/json"

	"github.com/bwmarrin/snowflake"
	"github.com/quidflow/quidflow/internal/clock"
	entitlementdomain "github.com/quidflow/quidflow/internal/entitlement/domain"
	reportdomain "github.com/quidflow/quidflow/internal/report/domain"
	"github.com/quidflow/quidflow/internal/tier"
	transactiondomain "github.com/quidflow/quidflow/internal/transaction/domain"
	usagedomain "github.com/quidflow/quidflow/internal/usage/domain"
	"github.com/quidflow/quidflow/internal/usercontext"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Service struct {
	db  *gorm.DB
	log *zap.Logger

	genID *snowflake.Node
	clock clock.Clock
	repo  reportdomain.Repository

	entitlementsvc entitlementdomain.Service
	usagesvc       usagedomain.Service
	transactionsvc transactiondomain.Service
}

type ServiceParam struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Clock clock.Clock
	Repo  reportdomain.Repository

	Entitlementsvc entitlementdomain.Service
	Usagesvc       usagedomain.Service
	Transactionsvc transactiondomain.Service
}

func NewService(p ServiceParam) reportdomain.Service {
	return &Service{
		db:  p.DB,
		log: p.Log.Named("report.service"),

		genID: p.GenID,
		clock: p.Clock,
		repo:  p.Repo,

		entitlementsvc: p.Entitlementsvc,
		usagesvc:       p.Usagesvc,
		transactionsvc: p.Transactionsvc,
	}
}

// payload is the stored report body, built from the ledger.
type payload struct {
	IncomeMinor     int64                          `json:"income_minor"`
	ExpenseMinor    int64                          `json:"expense_minor"`
	NetMinor        int64                          `json:"net_minor"`
	ByCategory      []transactiondomain.CategoryTotal `json:"by_category,omitempty"`
	TransactionDays int                            `json:"transaction_days"`
}

// Generate implements domain.Service.
func (s *Service) Generate(ctx context.Context, req reportdomain.GenerateReportRequest) (reportdomain.Report, error) {
	userID, ok := usercontext.UserIDFromContext(ctx)
	if !ok {
		return reportdomain.Report{}, reportdomain.ErrReportNotFound
	}
	if !req.Kind.Valid() {
		return reportdomain.Report{}, reportdomain.ErrInvalidKind
	}
	if req.From.IsZero() || req.To.IsZero() || !req.To.After(req.From) {
		return reportdomain.Report{}, reportdomain.ErrInvalidPeriod
	}

	if req.Kind.Advanced() {
		decision, err := s.entitlementsvc.CheckFeature(ctx, tier.FeatureAdvancedReports)
		if err != nil {
			return reportdomain.Report{}, err
		}
		if !decision.Allowed {
			return reportdomain.Report{}, decision.Denied()
		}
	}
	decision, err := s.entitlementsvc.CheckUsage(ctx, tier.LimitReportsPerMonth)
	if err != nil {
		return reportdomain.Report{}, err
	}
	if !decision.Allowed {
		return reportdomain.Report{}, decision.Denied()
	}

	body, err := s.buildPayload(ctx, req)
	if err != nil {
		return reportdomain.Report{}, err
	}
	raw, err := json.Marshal(body)
	if err != nil {
		return reportdomain.Report{}, err
	}

	now := s.clock.Now()
	report := reportdomain.Report{
		ID:          s.genID.Generate(),
		UserID:      userID,
		Kind:        req.Kind,
		PeriodStart: req.From,
		PeriodEnd:   req.To,
		Payload:     datatypes.JSON(raw),
		CreatedAt:   now,
	}
	if err := s.repo.Insert(ctx, s.db, &report); err != nil {
		return reportdomain.Report{}, err
	}

	if err := s.usagesvc.Increment(ctx, userID, tier.LimitReportsPerMonth); err != nil {
		return reportdomain.Report{}, err
	}

	s.log.Info("report generated",
		zap.String("user_id", userID),
		zap.String("kind", string(req.Kind)),
	)
	return report, nil
}

// Get implements domain.Service.
func (s *Service) Get(ctx context.Context, id snowflake.ID) (reportdomain.Report, error) {
	userID, ok := usercontext.UserIDFromContext(ctx)
	if !ok {
		return reportdomain.Report{}, reportdomain.ErrReportNotFound
	}
	report, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return reportdomain.Report{}, err
	}
	if report == nil || report.UserID != userID {
		return reportdomain.Report{}, reportdomain.ErrReportNotFound
	}
	return *report, nil
}

// List implements domain.Service.
func (s *Service) List(ctx context.Context) ([]reportdomain.Report, error) {
	userID, ok := usercontext.UserIDFromContext(ctx)
	if !ok {
		return nil, reportdomain.ErrReportNotFound
	}
	return s.repo.ListByUserID(ctx, s.db, userID)
}

func (s *Service) buildPayload(ctx context.Context, req reportdomain.GenerateReportRequest) (payload, error) {
	income, expense, err := s.transactionsvc.Totals(ctx, req.From, req.To)
	if err != nil {
		return payload{}, err
	}

	body := payload{
		IncomeMinor:     income,
		ExpenseMinor:    expense,
		NetMinor:        income - expense,
		TransactionDays: int(req.To.Sub(req.From).Hours() / 24),
	}
	// Income-only statements skip the expense breakdown.
	if req.Kind != reportdomain.KindIncome {
		byCategory, err := s.transactionsvc.SpendingByCategory(ctx, req.From, req.To)
		if err != nil {
			return payload{}, err
		}
		body.ByCategory = byCategory
	}
	return body, nil
}
