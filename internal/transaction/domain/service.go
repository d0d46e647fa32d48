package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
)

type CreateTransactionRequest struct {
	BusinessID  *snowflake.ID `json:"business_id,omitempty"`
	OccurredAt  time.Time     `json:"occurred_at"`
	Description string        `json:"description" binding:"required"`
	AmountMinor int64         `json:"amount_minor" binding:"required"`
	Currency    string        `json:"currency"`
	// Category is optional; empty means auto-categorize from the
	// description.
	Category string `json:"category"`
	Kind     Kind   `json:"kind" binding:"required"`
}

type ListTransactionsRequest struct {
	From time.Time
	To   time.Time
}

// Service owns transaction recording and the aggregations budgets,
// reports, and insights read from. Basic tracking is not gated.
type Service interface {
	Create(ctx context.Context, req CreateTransactionRequest) (Transaction, error)
	List(ctx context.Context, req ListTransactionsRequest) ([]Transaction, error)
	Delete(ctx context.Context, id snowflake.ID) error
	SpendingByCategory(ctx context.Context, from, to time.Time) ([]CategoryTotal, error)
	// Totals returns gross income and expense within [from, to).
	Totals(ctx context.Context, from, to time.Time) (income, expense int64, err error)
}
