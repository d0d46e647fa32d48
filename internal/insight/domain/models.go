package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

type Kind string

const (
	KindQuery     Kind = "query"
	KindGenerated Kind = "generated"
	KindForecast  Kind = "forecast"
)

// Insight is a stored AI answer or rule-derived observation.
type Insight struct {
	ID        snowflake.ID `json:"id" gorm:"primaryKey"`
	UserID    string       `json:"user_id"`
	Kind      Kind         `json:"kind"`
	Prompt    string       `json:"prompt"`
	Response  string       `json:"response"`
	CreatedAt time.Time    `json:"created_at"`
}

func (Insight) TableName() string {
	return "insights"
}

// Forecast is a cashflow projection from recent transaction averages.
type Forecast struct {
	Days                   int   `json:"days"`
	MonthlyAvgIncomeMinor  int64 `json:"monthly_avg_income_minor"`
	MonthlyAvgExpenseMinor int64 `json:"monthly_avg_expense_minor"`
	ProjectedNetMinor      int64 `json:"projected_net_minor"`
}
