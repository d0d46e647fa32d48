package domain

import (
	"context"
	"time"

	"github.com/quidflow/quidflow/internal/tier"
	"gorm.io/gorm"
)

// Repository persists usage counters.
type Repository interface {
	// Increment atomically adds delta to the counter, creating it at
	// delta when absent.
	Increment(ctx context.Context, db *gorm.DB, userID string, metric tier.Limit, periodStart time.Time, delta int64, now time.Time) error
	Current(ctx context.Context, db *gorm.DB, userID string, metric tier.Limit, periodStart time.Time) (int64, error)
	Snapshot(ctx context.Context, db *gorm.DB, userID string, periodStart time.Time) (map[tier.Limit]int64, error)
}

// Service reads and bumps the current period's counters.
type Service interface {
	Increment(ctx context.Context, userID string, metric tier.Limit) error
	Current(ctx context.Context, userID string, metric tier.Limit) (int64, error)
	Snapshot(ctx context.Context, userID string) (map[tier.Limit]int64, error)
}
