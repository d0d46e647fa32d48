// Package domain contains the per-user monthly usage counters backing
// limit checks.
package domain

import (
	"time"

	"github.com/quidflow/quidflow/internal/tier"
)

// Counter is one user's count for one metric in one calendar month (UTC).
// Counters are only ever incremented in SQL, never read-modify-written in
// application code.
type Counter struct {
	UserID      string    `gorm:"primaryKey" json:"userId"`
	Metric      string    `gorm:"primaryKey" json:"metric"`
	PeriodStart time.Time `gorm:"primaryKey" json:"periodStart"`
	Count       int64     `gorm:"not null;default:0" json:"count"`
	UpdatedAt   time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updatedAt"`
}

// TableName sets the database table name.
func (Counter) TableName() string { return "usage_counters" }

// PeriodStart truncates t to the start of its calendar month in UTC.
func PeriodStart(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// MeteredLimits are the limits tracked per billing period. Structural
// limits (bank accounts, budgets, goals, team members) are counted from
// their own tables instead.
var MeteredLimits = []tier.Limit{
	tier.LimitAIQueriesPerMonth,
	tier.LimitOCRScansPerMonth,
	tier.LimitInvoicesPerMonth,
	tier.LimitReportsPerMonth,
	tier.LimitAPICallsPerMonth,
}
