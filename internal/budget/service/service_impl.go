package service

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	budgetdomain "github.com/quidflow/quidflow/internal/budget/domain"
	"github.com/quidflow/quidflow/internal/clock"
	entitlementdomain "github.com/quidflow/quidflow/internal/entitlement/domain"
	"github.com/quidflow/quidflow/internal/tier"
	transactiondomain "github.com/quidflow/quidflow/internal/transaction/domain"
	"github.com/quidflow/quidflow/internal/usercontext"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Service struct {
	db  *gorm.DB
	log *zap.Logger

	genID *snowflake.Node
	clock clock.Clock
	repo  budgetdomain.Repository

	entitlementsvc entitlementdomain.Service
	transactionsvc transactiondomain.Service
}

type ServiceParam struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Clock clock.Clock
	Repo  budgetdomain.Repository

	Entitlementsvc entitlementdomain.Service
	Transactionsvc transactiondomain.Service
}

func NewService(p ServiceParam) budgetdomain.Service {
	return &Service{
		db:  p.DB,
		log: p.Log.Named("budget.service"),

		genID: p.GenID,
		clock: p.Clock,
		repo:  p.Repo,

		entitlementsvc: p.Entitlementsvc,
		transactionsvc: p.Transactionsvc,
	}
}

// CreateBudget implements domain.Service. The existing row count is the
// current usage against the tier's maxBudgets ceiling.
func (s *Service) CreateBudget(ctx context.Context, req budgetdomain.CreateBudgetRequest) (budgetdomain.Budget, error) {
	userID, ok := usercontext.UserIDFromContext(ctx)
	if !ok {
		return budgetdomain.Budget{}, budgetdomain.ErrBudgetNotFound
	}
	if req.AmountMinor <= 0 {
		return budgetdomain.Budget{}, budgetdomain.ErrInvalidAmount
	}

	count, err := s.repo.CountBudgets(ctx, s.db, userID)
	if err != nil {
		return budgetdomain.Budget{}, err
	}
	decision, err := s.entitlementsvc.CheckLimit(ctx, tier.LimitMaxBudgets, count)
	if err != nil {
		return budgetdomain.Budget{}, err
	}
	if !decision.Allowed {
		return budgetdomain.Budget{}, decision.Denied()
	}

	now := s.clock.Now()
	currency := req.Currency
	if currency == "" {
		currency = "GBP"
	}
	budget := budgetdomain.Budget{
		ID:          s.genID.Generate(),
		UserID:      userID,
		Name:        req.Name,
		Category:    req.Category,
		AmountMinor: req.AmountMinor,
		Currency:    currency,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.repo.InsertBudget(ctx, s.db, &budget); err != nil {
		return budgetdomain.Budget{}, err
	}

	s.log.Info("budget created",
		zap.String("user_id", userID),
		zap.String("category", req.Category),
	)
	return budget, nil
}

// ListBudgets implements domain.Service.
func (s *Service) ListBudgets(ctx context.Context) ([]budgetdomain.Budget, error) {
	userID, ok := usercontext.UserIDFromContext(ctx)
	if !ok {
		return nil, budgetdomain.ErrBudgetNotFound
	}
	return s.repo.ListBudgets(ctx, s.db, userID)
}

// DeleteBudget implements domain.Service.
func (s *Service) DeleteBudget(ctx context.Context, id snowflake.ID) error {
	budget, err := s.ownedBudget(ctx, id)
	if err != nil {
		return err
	}
	return s.repo.DeleteBudget(ctx, s.db, budget.ID)
}

// GetSummary implements domain.Service.
func (s *Service) GetSummary(ctx context.Context) (budgetdomain.Summary, error) {
	statuses, err := s.statuses(ctx)
	if err != nil {
		return budgetdomain.Summary{}, err
	}

	summary := budgetdomain.Summary{Budgets: statuses}
	for _, status := range statuses {
		summary.TotalBudgetMinor += status.Budget.AmountMinor
		summary.TotalSpentMinor += status.SpentMinor
	}
	if summary.TotalBudgetMinor > 0 {
		summary.Utilization = float64(summary.TotalSpentMinor) / float64(summary.TotalBudgetMinor)
	}
	return summary, nil
}

// ListAlerts implements domain.Service. Alerts fire at 80% (warning)
// and 100% (exceeded) of a budget's ceiling. Firing records a state
// row; dismissed alerts stay hidden for the rest of the period.
func (s *Service) ListAlerts(ctx context.Context) ([]budgetdomain.Alert, error) {
	userID, ok := usercontext.UserIDFromContext(ctx)
	if !ok {
		return nil, budgetdomain.ErrBudgetNotFound
	}

	statuses, err := s.statuses(ctx)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	period := monthStart(now)
	states, err := s.repo.ListAlertStates(ctx, s.db, userID, period)
	if err != nil {
		return nil, err
	}
	type stateKey struct {
		budgetID snowflake.ID
		level    budgetdomain.AlertLevel
	}
	byKey := map[stateKey]budgetdomain.AlertState{}
	for _, state := range states {
		byKey[stateKey{state.BudgetID, state.Level}] = state
	}

	alerts := []budgetdomain.Alert{}
	for _, status := range statuses {
		level := budgetdomain.AlertLevel("")
		switch {
		case status.Utilization >= 1.0:
			level = budgetdomain.AlertExceeded
		case status.Utilization >= 0.8:
			level = budgetdomain.AlertWarning
		default:
			continue
		}

		state, seen := byKey[stateKey{status.Budget.ID, level}]
		if !seen {
			state = budgetdomain.AlertState{
				ID:          s.genID.Generate(),
				UserID:      userID,
				BudgetID:    status.Budget.ID,
				PeriodStart: period,
				Level:       level,
				CreatedAt:   now,
				UpdatedAt:   now,
			}
			if err := s.repo.InsertAlertState(ctx, s.db, &state); err != nil {
				return nil, err
			}
		}
		if state.Dismissed {
			continue
		}

		alerts = append(alerts, budgetdomain.Alert{
			ID:          state.ID,
			BudgetID:    status.Budget.ID,
			BudgetName:  status.Budget.Name,
			Category:    status.Budget.Category,
			Level:       level,
			SpentMinor:  status.SpentMinor,
			AmountMinor: status.Budget.AmountMinor,
			Utilization: status.Utilization,
			Read:        state.Read,
		})
	}
	return alerts, nil
}

// MarkAlertRead implements domain.Service.
func (s *Service) MarkAlertRead(ctx context.Context, id snowflake.ID) error {
	state, err := s.ownedAlert(ctx, id)
	if err != nil {
		return err
	}
	return s.repo.MarkAlertRead(ctx, s.db, state.ID)
}

// DismissAlert implements domain.Service.
func (s *Service) DismissAlert(ctx context.Context, id snowflake.ID) error {
	state, err := s.ownedAlert(ctx, id)
	if err != nil {
		return err
	}
	return s.repo.DismissAlert(ctx, s.db, state.ID)
}

// CreateGoal implements domain.Service.
func (s *Service) CreateGoal(ctx context.Context, req budgetdomain.CreateGoalRequest) (budgetdomain.Goal, error) {
	userID, ok := usercontext.UserIDFromContext(ctx)
	if !ok {
		return budgetdomain.Goal{}, budgetdomain.ErrGoalNotFound
	}
	if req.TargetMinor <= 0 {
		return budgetdomain.Goal{}, budgetdomain.ErrInvalidAmount
	}

	count, err := s.repo.CountGoals(ctx, s.db, userID)
	if err != nil {
		return budgetdomain.Goal{}, err
	}
	decision, err := s.entitlementsvc.CheckLimit(ctx, tier.LimitMaxGoals, count)
	if err != nil {
		return budgetdomain.Goal{}, err
	}
	if !decision.Allowed {
		return budgetdomain.Goal{}, decision.Denied()
	}

	now := s.clock.Now()
	goal := budgetdomain.Goal{
		ID:          s.genID.Generate(),
		UserID:      userID,
		Name:        req.Name,
		TargetMinor: req.TargetMinor,
		Deadline:    req.Deadline,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.repo.InsertGoal(ctx, s.db, &goal); err != nil {
		return budgetdomain.Goal{}, err
	}

	s.log.Info("goal created", zap.String("user_id", userID))
	return goal, nil
}

// ListGoals implements domain.Service.
func (s *Service) ListGoals(ctx context.Context) ([]budgetdomain.Goal, error) {
	userID, ok := usercontext.UserIDFromContext(ctx)
	if !ok {
		return nil, budgetdomain.ErrGoalNotFound
	}
	return s.repo.ListGoals(ctx, s.db, userID)
}

// Contribute implements domain.Service.
func (s *Service) Contribute(ctx context.Context, id snowflake.ID, req budgetdomain.ContributeRequest) (budgetdomain.Goal, error) {
	if req.AmountMinor <= 0 {
		return budgetdomain.Goal{}, budgetdomain.ErrInvalidAmount
	}
	goal, err := s.ownedGoal(ctx, id)
	if err != nil {
		return budgetdomain.Goal{}, err
	}

	if err := s.repo.AddToGoal(ctx, s.db, goal.ID, req.AmountMinor); err != nil {
		return budgetdomain.Goal{}, err
	}
	updated, err := s.repo.FindGoalByID(ctx, s.db, goal.ID)
	if err != nil {
		return budgetdomain.Goal{}, err
	}
	if updated == nil {
		return budgetdomain.Goal{}, budgetdomain.ErrGoalNotFound
	}
	return *updated, nil
}

// DeleteGoal implements domain.Service.
func (s *Service) DeleteGoal(ctx context.Context, id snowflake.ID) error {
	goal, err := s.ownedGoal(ctx, id)
	if err != nil {
		return err
	}
	return s.repo.DeleteGoal(ctx, s.db, goal.ID)
}

func (s *Service) statuses(ctx context.Context) ([]budgetdomain.BudgetStatus, error) {
	budgets, err := s.ListBudgets(ctx)
	if err != nil {
		return nil, err
	}

	spending, err := s.transactionsvc.SpendingByCategory(ctx, time.Time{}, time.Time{})
	if err != nil {
		return nil, err
	}
	spentByCategory := map[string]int64{}
	for _, row := range spending {
		spentByCategory[row.Category] = row.TotalMinor
	}

	statuses := make([]budgetdomain.BudgetStatus, 0, len(budgets))
	for _, budget := range budgets {
		spent := spentByCategory[budget.Category]
		status := budgetdomain.BudgetStatus{Budget: budget, SpentMinor: spent}
		if budget.AmountMinor > 0 {
			status.Utilization = float64(spent) / float64(budget.AmountMinor)
		}
		statuses = append(statuses, status)
	}
	return statuses, nil
}

func (s *Service) ownedBudget(ctx context.Context, id snowflake.ID) (*budgetdomain.Budget, error) {
	userID, ok := usercontext.UserIDFromContext(ctx)
	if !ok {
		return nil, budgetdomain.ErrBudgetNotFound
	}
	budget, err := s.repo.FindBudgetByID(ctx, s.db, id)
	if err != nil {
		return nil, err
	}
	if budget == nil || budget.UserID != userID {
		return nil, budgetdomain.ErrBudgetNotFound
	}
	return budget, nil
}

func (s *Service) ownedAlert(ctx context.Context, id snowflake.ID) (*budgetdomain.AlertState, error) {
	userID, ok := usercontext.UserIDFromContext(ctx)
	if !ok {
		return nil, budgetdomain.ErrAlertNotFound
	}
	state, err := s.repo.FindAlertStateByID(ctx, s.db, id)
	if err != nil {
		return nil, err
	}
	if state == nil || state.UserID != userID {
		return nil, budgetdomain.ErrAlertNotFound
	}
	return state, nil
}

func monthStart(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), 1, 0, 0, 0, 0, time.UTC)
}

func (s *Service) ownedGoal(ctx context.Context, id snowflake.ID) (*budgetdomain.Goal, error) {
	userID, ok := usercontext.UserIDFromContext(ctx)
	if !ok {
		return nil, budgetdomain.ErrGoalNotFound
	}
	goal, err := s.repo.FindGoalByID(ctx, s.db, id)
	if err != nil {
		return nil, err
	}
	if goal == nil || goal.UserID != userID {
		return nil, budgetdomain.ErrGoalNotFound
	}
	return goal, nil
}
