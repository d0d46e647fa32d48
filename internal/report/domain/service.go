package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
)

type GenerateReportRequest struct {
	Kind Kind      `json:"kind" binding:"required"`
	From time.Time `json:"from" binding:"required"`
	To   time.Time `json:"to" binding:"required"`
}

// Service generates and stores financial reports from the transaction
// ledger. Generation consumes the monthly report allowance; advanced
// kinds additionally need the advancedReports feature.
type Service interface {
	Generate(ctx context.Context, req GenerateReportRequest) (Report, error)
	Get(ctx context.Context, id snowflake.ID) (Report, error)
	List(ctx context.Context) ([]Report, error)
}
