package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// Budget is a monthly spending ceiling for one category. Spending is
// not stored on the row; it is computed from the transaction ledger for
// the current month.
type Budget struct {
	ID          snowflake.ID `json:"id" gorm:"primaryKey"`
	UserID      string       `json:"user_id"`
	Name        string       `json:"name"`
	Category    string       `json:"category"`
	AmountMinor int64        `json:"amount_minor"`
	Currency    string       `json:"currency" gorm:"default:GBP"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

func (Budget) TableName() string {
	return "budgets"
}

// Goal is a savings target.
type Goal struct {
	ID          snowflake.ID `json:"id" gorm:"primaryKey"`
	UserID      string       `json:"user_id"`
	Name        string       `json:"name"`
	TargetMinor int64        `json:"target_minor"`
	SavedMinor  int64        `json:"saved_minor"`
	Deadline    *time.Time   `json:"deadline,omitempty"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

func (Goal) TableName() string {
	return "goals"
}

type AlertLevel string

const (
	AlertWarning  AlertLevel = "warning"
	AlertExceeded AlertLevel = "exceeded"
)

// Alert joins a budget's derived utilization with its stored
// read/dismissed state. Spending figures are always recomputed; only
// the state row persists.
type Alert struct {
	ID          snowflake.ID `json:"id"`
	BudgetID    snowflake.ID `json:"budget_id"`
	BudgetName  string       `json:"budget_name"`
	Category    string       `json:"category"`
	Level       AlertLevel   `json:"level"`
	SpentMinor  int64        `json:"spent_minor"`
	AmountMinor int64        `json:"amount_minor"`
	Utilization float64      `json:"utilization"`
	Read        bool         `json:"read"`
}

// AlertState is created the first time a budget crosses a threshold in
// a period. One row per budget, period, and level.
type AlertState struct {
	ID          snowflake.ID `json:"id" gorm:"primaryKey"`
	UserID      string       `json:"user_id"`
	BudgetID    snowflake.ID `json:"budget_id" gorm:"uniqueIndex:ux_budget_alerts_state"`
	PeriodStart time.Time    `json:"period_start" gorm:"uniqueIndex:ux_budget_alerts_state"`
	Level       AlertLevel   `json:"level" gorm:"uniqueIndex:ux_budget_alerts_state"`
	Read        bool         `json:"read"`
	Dismissed   bool         `json:"dismissed"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

func (AlertState) TableName() string {
	return "budget_alerts"
}

// BudgetStatus is a budget joined with its current-month spending.
type BudgetStatus struct {
	Budget      Budget  `json:"budget"`
	SpentMinor  int64   `json:"spent_minor"`
	Utilization float64 `json:"utilization"`
}

// Summary aggregates all budgets for the current month.
type Summary struct {
	Budgets          []BudgetStatus `json:"budgets"`
	TotalBudgetMinor int64          `json:"total_budget_minor"`
	TotalSpentMinor  int64          `json:"total_spent_minor"`
	Utilization      float64        `json:"utilization"`
}
