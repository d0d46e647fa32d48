package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
)

type CreateBudgetRequest struct {
	Name        string `json:"name" binding:"required"`
	Category    string `json:"category" binding:"required"`
	AmountMinor int64  `json:"amount_minor" binding:"required"`
	Currency    string `json:"currency"`
}

type CreateGoalRequest struct {
	Name        string     `json:"name" binding:"required"`
	TargetMinor int64      `json:"target_minor" binding:"required"`
	Deadline    *time.Time `json:"deadline,omitempty"`
}

type ContributeRequest struct {
	AmountMinor int64 `json:"amount_minor" binding:"required"`
}

// Service owns budgets, savings goals, and the alerts derived from
// current-month spending. Creation counts against the tier's maxBudgets
// and maxGoals ceilings.
type Service interface {
	CreateBudget(ctx context.Context, req CreateBudgetRequest) (Budget, error)
	ListBudgets(ctx context.Context) ([]Budget, error)
	DeleteBudget(ctx context.Context, id snowflake.ID) error
	GetSummary(ctx context.Context) (Summary, error)
	ListAlerts(ctx context.Context) ([]Alert, error)
	MarkAlertRead(ctx context.Context, id snowflake.ID) error
	DismissAlert(ctx context.Context, id snowflake.ID) error

	CreateGoal(ctx context.Context, req CreateGoalRequest) (Goal, error)
	ListGoals(ctx context.Context) ([]Goal, error)
	Contribute(ctx context.Context, id snowflake.ID, req ContributeRequest) (Goal, error)
	DeleteGoal(ctx context.Context, id snowflake.ID) error
}
