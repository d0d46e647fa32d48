package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	subscriptiondomain "github.com/quidflow/quidflow/internal/subscription/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() subscriptiondomain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, subscription *subscriptiondomain.Subscription) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO subscriptions (
			id, user_id, tier, status, trial, features, start_date, end_date,
			auto_renew, canceled_at, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (user_id) WHERE status IN ('active', 'trial') DO NOTHING`,
		subscription.ID,
		subscription.UserID,
		subscription.Tier,
		subscription.Status,
		subscription.Trial,
		subscription.Features,
		subscription.StartDate,
		subscription.EndDate,
		subscription.AutoRenew,
		subscription.CanceledAt,
		subscription.CreatedAt,
		subscription.UpdatedAt,
	).Error
}

func (r *repo) FindCurrentByUserID(ctx context.Context, db *gorm.DB, userID string) (*subscriptiondomain.Subscription, error) {
	var subscription subscriptiondomain.Subscription
	err := db.WithContext(ctx).Raw(
		`SELECT id, user_id, tier, status, trial, features, start_date, end_date,
		 auto_renew, canceled_at, created_at, updated_at
		 FROM subscriptions
		 WHERE user_id = ? AND status IN ?
		 ORDER BY created_at DESC
		 LIMIT 1`,
		userID,
		[]subscriptiondomain.Status{subscriptiondomain.StatusActive, subscriptiondomain.StatusTrial},
	).Scan(&subscription).Error
	if err != nil {
		return nil, err
	}
	if subscription.ID == 0 {
		return nil, nil
	}
	return &subscription, nil
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*subscriptiondomain.Subscription, error) {
	var subscription subscriptiondomain.Subscription
	err := db.WithContext(ctx).Raw(
		`SELECT id, user_id, tier, status, trial, features, start_date, end_date,
		 auto_renew, canceled_at, created_at, updated_at
		 FROM subscriptions WHERE id = ?`,
		id,
	).Scan(&subscription).Error
	if err != nil {
		return nil, err
	}
	if subscription.ID == 0 {
		return nil, nil
	}
	return &subscription, nil
}

func (r *repo) ListByUserID(ctx context.Context, db *gorm.DB, userID string) ([]subscriptiondomain.Subscription, error) {
	var subscriptions []subscriptiondomain.Subscription
	err := db.WithContext(ctx).Raw(
		`SELECT id, user_id, tier, status, trial, features, start_date, end_date,
		 auto_renew, canceled_at, created_at, updated_at
		 FROM subscriptions WHERE user_id = ? ORDER BY created_at DESC`,
		userID,
	).Scan(&subscriptions).Error
	if err != nil {
		return nil, err
	}
	return subscriptions, nil
}

func (r *repo) UpdateTier(ctx context.Context, db *gorm.DB, patch subscriptiondomain.TierPatch) error {
	return db.WithContext(ctx).Exec(
		`UPDATE subscriptions
		 SET tier = ?, features = ?, status = ?, updated_at = ?
		 WHERE id = ?`,
		patch.Tier,
		patch.Features,
		patch.Status,
		patch.UpdatedAt,
		patch.ID,
	).Error
}

func (r *repo) MarkCancelled(ctx context.Context, db *gorm.DB, patch subscriptiondomain.CancelPatch) error {
	return db.WithContext(ctx).Exec(
		`UPDATE subscriptions
		 SET status = ?, auto_renew = FALSE, canceled_at = ?, updated_at = ?
		 WHERE id = ?`,
		patch.Status,
		patch.CanceledAt,
		patch.CanceledAt,
		patch.ID,
	).Error
}

func (r *repo) HasTrialRecord(ctx context.Context, db *gorm.DB, userID string) (bool, error) {
	// trial stays set after the record is cancelled or expires, so a user
	// can never trial twice.
	var count int64
	err := db.WithContext(ctx).Raw(
		`SELECT COUNT(1) FROM subscriptions WHERE user_id = ? AND trial = TRUE`,
		userID,
	).Scan(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
