package repository

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	budgetdomain "github.com/quidflow/quidflow/internal/budget/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() budgetdomain.Repository {
	return &repo{}
}

func (r *repo) InsertBudget(ctx context.Context, db *gorm.DB, budget *budgetdomain.Budget) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO budgets (id, user_id, name, category, amount_minor, currency, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		budget.ID,
		budget.UserID,
		budget.Name,
		budget.Category,
		budget.AmountMinor,
		budget.Currency,
		budget.CreatedAt,
		budget.UpdatedAt,
	).Error
}

func (r *repo) FindBudgetByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*budgetdomain.Budget, error) {
	var budget budgetdomain.Budget
	err := db.WithContext(ctx).Raw(
		`SELECT id, user_id, name, category, amount_minor, currency, created_at, updated_at
		 FROM budgets WHERE id = ?`,
		id,
	).Scan(&budget).Error
	if err != nil {
		return nil, err
	}
	if budget.ID == 0 {
		return nil, nil
	}
	return &budget, nil
}

func (r *repo) ListBudgets(ctx context.Context, db *gorm.DB, userID string) ([]budgetdomain.Budget, error) {
	var budgets []budgetdomain.Budget
	err := db.WithContext(ctx).Raw(
		`SELECT id, user_id, name, category, amount_minor, currency, created_at, updated_at
		 FROM budgets WHERE user_id = ? ORDER BY created_at`,
		userID,
	).Scan(&budgets).Error
	if err != nil {
		return nil, err
	}
	return budgets, nil
}

func (r *repo) CountBudgets(ctx context.Context, db *gorm.DB, userID string) (int64, error) {
	var count int64
	err := db.WithContext(ctx).Raw(
		`SELECT COUNT(1) FROM budgets WHERE user_id = ?`, userID,
	).Scan(&count).Error
	return count, err
}

func (r *repo) DeleteBudget(ctx context.Context, db *gorm.DB, id snowflake.ID) error {
	return db.WithContext(ctx).Exec(`DELETE FROM budgets WHERE id = ?`, id).Error
}

func (r *repo) InsertAlertState(ctx context.Context, db *gorm.DB, state *budgetdomain.AlertState) error {
	// The unique index turns a racing insert for the same threshold
	// into a no-op.
	return db.WithContext(ctx).Exec(
		`INSERT INTO budget_alerts (id, user_id, budget_id, period_start, level, read, dismissed, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT (budget_id, period_start, level) DO NOTHING`,
		state.ID,
		state.UserID,
		state.BudgetID,
		state.PeriodStart,
		state.Level,
		state.Read,
		state.Dismissed,
		state.CreatedAt,
		state.UpdatedAt,
	).Error
}

func (r *repo) ListAlertStates(ctx context.Context, db *gorm.DB, userID string, periodStart time.Time) ([]budgetdomain.AlertState, error) {
	var states []budgetdomain.AlertState
	err := db.WithContext(ctx).Raw(
		`SELECT id, user_id, budget_id, period_start, level, read, dismissed, created_at, updated_at
		 FROM budget_alerts WHERE user_id = ? AND period_start = ?`,
		userID, periodStart,
	).Scan(&states).Error
	if err != nil {
		return nil, err
	}
	return states, nil
}

func (r *repo) FindAlertStateByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*budgetdomain.AlertState, error) {
	var state budgetdomain.AlertState
	err := db.WithContext(ctx).Raw(
		`SELECT id, user_id, budget_id, period_start, level, read, dismissed, created_at, updated_at
		 FROM budget_alerts WHERE id = ?`,
		id,
	).Scan(&state).Error
	if err != nil {
		return nil, err
	}
	if state.ID == 0 {
		return nil, nil
	}
	return &state, nil
}

func (r *repo) MarkAlertRead(ctx context.Context, db *gorm.DB, id snowflake.ID) error {
	return db.WithContext(ctx).Exec(
		`UPDATE budget_alerts SET read = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		true, id,
	).Error
}

func (r *repo) DismissAlert(ctx context.Context, db *gorm.DB, id snowflake.ID) error {
	return db.WithContext(ctx).Exec(
		`UPDATE budget_alerts SET dismissed = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		true, id,
	).Error
}

func (r *repo) InsertGoal(ctx context.Context, db *gorm.DB, goal *budgetdomain.Goal) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO goals (id, user_id, name, target_minor, saved_minor, deadline, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		goal.ID,
		goal.UserID,
		goal.Name,
		goal.TargetMinor,
		goal.SavedMinor,
		goal.Deadline,
		goal.CreatedAt,
		goal.UpdatedAt,
	).Error
}

func (r *repo) FindGoalByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*budgetdomain.Goal, error) {
	var goal budgetdomain.Goal
	err := db.WithContext(ctx).Raw(
		`SELECT id, user_id, name, target_minor, saved_minor, deadline, created_at, updated_at
		 FROM goals WHERE id = ?`,
		id,
	).Scan(&goal).Error
	if err != nil {
		return nil, err
	}
	if goal.ID == 0 {
		return nil, nil
	}
	return &goal, nil
}

func (r *repo) ListGoals(ctx context.Context, db *gorm.DB, userID string) ([]budgetdomain.Goal, error) {
	var goals []budgetdomain.Goal
	err := db.WithContext(ctx).Raw(
		`SELECT id, user_id, name, target_minor, saved_minor, deadline, created_at, updated_at
		 FROM goals WHERE user_id = ? ORDER BY created_at`,
		userID,
	).Scan(&goals).Error
	if err != nil {
		return nil, err
	}
	return goals, nil
}

func (r *repo) CountGoals(ctx context.Context, db *gorm.DB, userID string) (int64, error) {
	var count int64
	err := db.WithContext(ctx).Raw(
		`SELECT COUNT(1) FROM goals WHERE user_id = ?`, userID,
	).Scan(&count).Error
	return count, err
}

func (r *repo) AddToGoal(ctx context.Context, db *gorm.DB, id snowflake.ID, deltaMinor int64) error {
	return db.WithContext(ctx).Exec(
		`UPDATE goals
		 SET saved_minor = saved_minor + ?, updated_at = CURRENT_TIMESTAMP
		 WHERE id = ?`,
		deltaMinor, id,
	).Error
}

func (r *repo) DeleteGoal(ctx context.Context, db *gorm.DB, id snowflake.ID) error {
	return db.WithContext(ctx).Exec(`DELETE FROM goals WHERE id = ?`, id).Error
}
