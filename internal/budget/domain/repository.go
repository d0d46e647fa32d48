package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	InsertBudget(ctx context.Context, db *gorm.DB, budget *Budget) error
	FindBudgetByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Budget, error)
	ListBudgets(ctx context.Context, db *gorm.DB, userID string) ([]Budget, error)
	CountBudgets(ctx context.Context, db *gorm.DB, userID string) (int64, error)
	DeleteBudget(ctx context.Context, db *gorm.DB, id snowflake.ID) error

	InsertAlertState(ctx context.Context, db *gorm.DB, state *AlertState) error
	ListAlertStates(ctx context.Context, db *gorm.DB, userID string, periodStart time.Time) ([]AlertState, error)
	FindAlertStateByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*AlertState, error)
	MarkAlertRead(ctx context.Context, db *gorm.DB, id snowflake.ID) error
	DismissAlert(ctx context.Context, db *gorm.DB, id snowflake.ID) error

	InsertGoal(ctx context.Context, db *gorm.DB, goal *Goal) error
	FindGoalByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Goal, error)
	ListGoals(ctx context.Context, db *gorm.DB, userID string) ([]Goal, error)
	CountGoals(ctx context.Context, db *gorm.DB, userID string) (int64, error)
	// AddToGoal bumps saved_minor atomically in SQL.
	AddToGoal(ctx context.Context, db *gorm.DB, id snowflake.ID, deltaMinor int64) error
	DeleteGoal(ctx context.Context, db *gorm.DB, id snowflake.ID) error
}
