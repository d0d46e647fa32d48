package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	budgetdomain "github.com/quidflow/quidflow/internal/budget/domain"
	"github.com/quidflow/quidflow/internal/clock"
	entitlementdomain "github.com/quidflow/quidflow/internal/entitlement/domain"
	insightdomain "github.com/quidflow/quidflow/internal/insight/domain"
	"github.com/quidflow/quidflow/internal/providers/llm"
	"github.com/quidflow/quidflow/internal/tier"
	transactiondomain "github.com/quidflow/quidflow/internal/transaction/domain"
	usagedomain "github.com/quidflow/quidflow/internal/usage/domain"
	"github.com/quidflow/quidflow/internal/usercontext"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const systemPrompt = "You are a personal finance assistant. Answer briefly using the " +
	"spending summary provided. Amounts are GBP."

const lookbackDays = 90

type Service struct {
	db  *gorm.DB
	log *zap.Logger

	genID *snowflake.Node
	clock clock.Clock
	repo  insightdomain.Repository

	entitlementsvc entitlementdomain.Service
	usagesvc       usagedomain.Service
	transactionsvc transactiondomain.Service
	budgetsvc      budgetdomain.Service
	llmClient      llm.Client
}

type ServiceParam struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Clock clock.Clock
	Repo  insightdomain.Repository

	Entitlementsvc entitlementdomain.Service
	Usagesvc       usagedomain.Service
	Transactionsvc transactiondomain.Service
	Budgetsvc      budgetdomain.Service
	LLMClient      llm.Client
}

func NewService(p ServiceParam) insightdomain.Service {
	return &Service{
		db:  p.DB,
		log: p.Log.Named("insight.service"),

		genID: p.GenID,
		clock: p.Clock,
		repo:  p.Repo,

		entitlementsvc: p.Entitlementsvc,
		usagesvc:       p.Usagesvc,
		transactionsvc: p.Transactionsvc,
		budgetsvc:      p.Budgetsvc,
		llmClient:      p.LLMClient,
	}
}

// Query implements domain.Service. The counter is bumped only after a
// successful completion.
func (s *Service) Query(ctx context.Context, req insightdomain.QueryRequest) (insightdomain.Insight, error) {
	userID, ok := usercontext.UserIDFromContext(ctx)
	if !ok {
		return insightdomain.Insight{}, insightdomain.ErrInsightNotFound
	}
	if strings.TrimSpace(req.Question) == "" {
		return insightdomain.Insight{}, insightdomain.ErrEmptyQuestion
	}

	if err := s.requireFeature(ctx, tier.FeatureAIInsights); err != nil {
		return insightdomain.Insight{}, err
	}
	decision, err := s.entitlementsvc.CheckUsage(ctx, tier.LimitAIQueriesPerMonth)
	if err != nil {
		return insightdomain.Insight{}, err
	}
	if !decision.Allowed {
		return insightdomain.Insight{}, decision.Denied()
	}

	prompt, err := s.buildPrompt(ctx, req.Question)
	if err != nil {
		return insightdomain.Insight{}, err
	}
	answer, err := s.llmClient.Complete(ctx, systemPrompt, prompt)
	if err != nil {
		return insightdomain.Insight{}, err
	}

	insight := insightdomain.Insight{
		ID:        s.genID.Generate(),
		UserID:    userID,
		Kind:      insightdomain.KindQuery,
		Prompt:    req.Question,
		Response:  answer,
		CreatedAt: s.clock.Now(),
	}
	if err := s.repo.Insert(ctx, s.db, &insight); err != nil {
		return insightdomain.Insight{}, err
	}

	if err := s.usagesvc.Increment(ctx, userID, tier.LimitAIQueriesPerMonth); err != nil {
		return insightdomain.Insight{}, err
	}

	s.log.Info("ai query answered", zap.String("user_id", userID))
	return insight, nil
}

// Generate implements domain.Service. Rule-based: budget alerts and the
// month's savings rate become insight records. No LLM call, no usage
// charge.
func (s *Service) Generate(ctx context.Context) ([]insightdomain.Insight, error) {
	userID, ok := usercontext.UserIDFromContext(ctx)
	if !ok {
		return nil, insightdomain.ErrInsightNotFound
	}
	if err := s.requireFeature(ctx, tier.FeatureAIInsights); err != nil {
		return nil, err
	}

	now := s.clock.Now()
	insights := []insightdomain.Insight{}

	alerts, err := s.budgetsvc.ListAlerts(ctx)
	if err != nil {
		return nil, err
	}
	for _, alert := range alerts {
		message := fmt.Sprintf("You've used %.0f%% of your %s budget (%.2f of %.2f).",
			alert.Utilization*100, alert.BudgetName,
			float64(alert.SpentMinor)/100, float64(alert.AmountMinor)/100)
		if alert.Level == budgetdomain.AlertExceeded {
			message = fmt.Sprintf("Your %s budget is exceeded: %.2f spent against %.2f.",
				alert.BudgetName,
				float64(alert.SpentMinor)/100, float64(alert.AmountMinor)/100)
		}
		insights = append(insights, insightdomain.Insight{
			ID:        s.genID.Generate(),
			UserID:    userID,
			Kind:      insightdomain.KindGenerated,
			Prompt:    "budget_" + string(alert.Level),
			Response:  message,
			CreatedAt: now,
		})
	}

	income, expense, err := s.transactionsvc.Totals(ctx, time.Time{}, time.Time{})
	if err != nil {
		return nil, err
	}
	if income > 0 {
		rate := float64(income-expense) / float64(income)
		if rate < 0.2 {
			insights = append(insights, insightdomain.Insight{
				ID:        s.genID.Generate(),
				UserID:    userID,
				Kind:      insightdomain.KindGenerated,
				Prompt:    "savings_rate",
				Response:  fmt.Sprintf("Your savings rate this month is %.0f%%. Aim for at least 20%%.", rate*100),
				CreatedAt: now,
			})
		}
	}

	for i := range insights {
		if err := s.repo.Insert(ctx, s.db, &insights[i]); err != nil {
			return nil, err
		}
	}
	return insights, nil
}

// Forecast implements domain.Service. Projects the daily net average of
// the last 90 days over the requested horizon.
func (s *Service) Forecast(ctx context.Context, req insightdomain.ForecastRequest) (insightdomain.Forecast, error) {
	if req.Days != 30 && req.Days != 60 && req.Days != 90 {
		return insightdomain.Forecast{}, insightdomain.ErrInvalidHorizon
	}
	if err := s.requireFeature(ctx, tier.FeatureCashflowForecasting); err != nil {
		return insightdomain.Forecast{}, err
	}

	now := s.clock.Now()
	income, expense, err := s.transactionsvc.Totals(ctx, now.AddDate(0, 0, -lookbackDays), now)
	if err != nil {
		return insightdomain.Forecast{}, err
	}

	avgIncome := income * 30 / lookbackDays
	avgExpense := expense * 30 / lookbackDays
	return insightdomain.Forecast{
		Days:                   req.Days,
		MonthlyAvgIncomeMinor:  avgIncome,
		MonthlyAvgExpenseMinor: avgExpense,
		ProjectedNetMinor:      (avgIncome - avgExpense) * int64(req.Days) / 30,
	}, nil
}

// List implements domain.Service.
func (s *Service) List(ctx context.Context) ([]insightdomain.Insight, error) {
	userID, ok := usercontext.UserIDFromContext(ctx)
	if !ok {
		return nil, insightdomain.ErrInsightNotFound
	}
	return s.repo.ListByUserID(ctx, s.db, userID)
}

// Dismiss implements domain.Service.
func (s *Service) Dismiss(ctx context.Context, id snowflake.ID) error {
	userID, ok := usercontext.UserIDFromContext(ctx)
	if !ok {
		return insightdomain.ErrInsightNotFound
	}
	insight, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return err
	}
	if insight == nil || insight.UserID != userID {
		return insightdomain.ErrInsightNotFound
	}
	return s.repo.Delete(ctx, s.db, id)
}

func (s *Service) requireFeature(ctx context.Context, feature tier.Feature) error {
	decision, err := s.entitlementsvc.CheckFeature(ctx, feature)
	if err != nil {
		return err
	}
	if !decision.Allowed {
		return decision.Denied()
	}
	return nil
}

func (s *Service) buildPrompt(ctx context.Context, question string) (string, error) {
	income, expense, err := s.transactionsvc.Totals(ctx, time.Time{}, time.Time{})
	if err != nil {
		return "", err
	}
	spending, err := s.transactionsvc.SpendingByCategory(ctx, time.Time{}, time.Time{})
	if err != nil {
		return "", err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "This month: income %.2f, spending %.2f.\n", float64(income)/100, float64(expense)/100)
	for _, row := range spending {
		fmt.Fprintf(&b, "- %s: %.2f\n", row.Category, float64(row.TotalMinor)/100)
	}
	fmt.Fprintf(&b, "\nQuestion: %s", question)
	return b.String(), nil
}
