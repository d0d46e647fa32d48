package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
)

type QueryRequest struct {
	Question string `json:"question" binding:"required"`
}

type ForecastRequest struct {
	// Days must be 30, 60, or 90.
	Days int `json:"days" binding:"required"`
}

// Service owns the AI-assisted features. Query is LLM-backed and
// metered; Generate derives rule-based insights from budgets and
// spending; Forecast projects cashflow from transaction averages.
type Service interface {
	Query(ctx context.Context, req QueryRequest) (Insight, error)
	Generate(ctx context.Context) ([]Insight, error)
	Forecast(ctx context.Context, req ForecastRequest) (Forecast, error)
	List(ctx context.Context) ([]Insight, error)
	Dismiss(ctx context.Context, id snowflake.ID) error
}
