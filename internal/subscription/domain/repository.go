package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	// Insert creates a record. For active/trial records the partial unique
	// index on (user_id) makes the insert a no-op when a current record
	// already exists; callers re-read after insert.
	Insert(ctx context.Context, db *gorm.DB, subscription *Subscription) error
	FindCurrentByUserID(ctx context.Context, db *gorm.DB, userID string) (*Subscription, error)
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Subscription, error)
	ListByUserID(ctx context.Context, db *gorm.DB, userID string) ([]Subscription, error)
	UpdateTier(ctx context.Context, db *gorm.DB, patch TierPatch) error
	MarkCancelled(ctx context.Context, db *gorm.DB, patch CancelPatch) error
	HasTrialRecord(ctx context.Context, db *gorm.DB, userID string) (bool, error)
}
