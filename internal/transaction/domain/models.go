package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

type Kind string

const (
	KindIncome  Kind = "income"
	KindExpense Kind = "expense"
)

func (k Kind) Valid() bool {
	return k == KindIncome || k == KindExpense
}

// Transaction is a single money movement. Amounts are minor units
// (pence); BusinessID set means the transaction belongs to the user's
// business books rather than their personal ones.
type Transaction struct {
	ID          snowflake.ID  `json:"id" gorm:"primaryKey"`
	UserID      string        `json:"user_id"`
	BusinessID  *snowflake.ID `json:"business_id,omitempty"`
	OccurredAt  time.Time     `json:"occurred_at"`
	Description string        `json:"description"`
	AmountMinor int64         `json:"amount_minor"`
	Currency    string        `json:"currency" gorm:"default:GBP"`
	Category    string        `json:"category"`
	Kind        Kind          `json:"kind"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
}

func (Transaction) TableName() string {
	return "transactions"
}

// CategoryTotal is one row of a spending-by-category aggregation.
type CategoryTotal struct {
	Category   string `json:"category"`
	TotalMinor int64  `json:"total_minor"`
}
