package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/quidflow/quidflow/internal/tier"
	"gorm.io/datatypes"
)

// Service owns the subscription record lifecycle. The acting user comes
// from the request context.
type Service interface {
	// GetOrCreate returns the user's current record, lazily creating a
	// free-tier active one when none exists. Idempotent under concurrency.
	GetOrCreate(ctx context.Context) (Subscription, error)
	ChangeTier(ctx context.Context, req ChangeTierRequest) (Subscription, error)
	StartTrial(ctx context.Context, req StartTrialRequest) (Subscription, error)
	Cancel(ctx context.Context) (Subscription, error)
	History(ctx context.Context) ([]Subscription, error)
}

type ChangeTierRequest struct {
	Tier tier.ID `json:"tier"`
}

type StartTrialRequest struct {
	Tier tier.ID `json:"tier"`
}

// TierPatch updates a record's tier and its feature snapshot.
type TierPatch struct {
	ID        snowflake.ID
	Tier      tier.ID
	Features  datatypes.JSON
	Status    Status
	UpdatedAt time.Time
}

// CancelPatch closes out a record.
type CancelPatch struct {
	ID         snowflake.ID
	Status     Status
	CanceledAt time.Time
}
