package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

type Kind string

const (
	KindProfitLoss Kind = "profit_loss"
	KindExpense    Kind = "expense"
	KindIncome     Kind = "income"
	KindCashflow   Kind = "cashflow"
	KindVATReturn  Kind = "vat_return"
)

func (k Kind) Valid() bool {
	switch k {
	case KindProfitLoss, KindExpense, KindIncome, KindCashflow, KindVATReturn:
		return true
	}
	return false
}

// Advanced reports need the advancedReports feature; the rest only
// consume the monthly report allowance.
func (k Kind) Advanced() bool {
	switch k {
	case KindProfitLoss, KindCashflow, KindVATReturn:
		return true
	}
	return false
}

// Report stores the rendered payload as JSON; export formats are out of
// scope.
type Report struct {
	ID          snowflake.ID   `json:"id" gorm:"primaryKey"`
	UserID      string         `json:"user_id"`
	Kind        Kind           `json:"kind"`
	PeriodStart time.Time      `json:"period_start"`
	PeriodEnd   time.Time      `json:"period_end"`
	Payload     datatypes.JSON `json:"payload" gorm:"type:jsonb"`
	CreatedAt   time.Time      `json:"created_at"`
}

func (Report) TableName() string {
	return "reports"
}
