package repository

import (
	"context"
	"time"

	"github.com/quidflow/quidflow/internal/tier"
	usagedomain "github.com/quidflow/quidflow/internal/usage/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() usagedomain.Repository {
	return &repo{}
}

func (r *repo) Increment(ctx context.Context, db *gorm.DB, userID string, metric tier.Limit, periodStart time.Time, delta int64, now time.Time) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO usage_counters (user_id, metric, period_start, count, updated_at)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT (user_id, metric, period_start)
		 DO UPDATE SET count = usage_counters.count + ?, updated_at = ?`,
		userID,
		string(metric),
		periodStart,
		delta,
		now,
		delta,
		now,
	).Error
}

func (r *repo) Current(ctx context.Context, db *gorm.DB, userID string, metric tier.Limit, periodStart time.Time) (int64, error) {
	var count int64
	err := db.WithContext(ctx).Raw(
		`SELECT COALESCE(SUM(count), 0) FROM usage_counters
		 WHERE user_id = ? AND metric = ? AND period_start = ?`,
		userID,
		string(metric),
		periodStart,
	).Scan(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}

func (r *repo) Snapshot(ctx context.Context, db *gorm.DB, userID string, periodStart time.Time) (map[tier.Limit]int64, error) {
	var rows []usagedomain.Counter
	err := db.WithContext(ctx).Raw(
		`SELECT user_id, metric, period_start, count, updated_at
		 FROM usage_counters
		 WHERE user_id = ? AND period_start = ?`,
		userID,
		periodStart,
	).Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	snapshot := make(map[tier.Limit]int64, len(usagedomain.MeteredLimits))
	for _, metric := range usagedomain.MeteredLimits {
		snapshot[metric] = 0
	}
	for _, row := range rows {
		snapshot[tier.Limit(row.Metric)] = row.Count
	}
	return snapshot, nil
}
