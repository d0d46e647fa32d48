package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	insightdomain "github.com/quidflow/quidflow/internal/insight/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() insightdomain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, insight *insightdomain.Insight) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO insights (id, user_id, kind, prompt, response, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		insight.ID,
		insight.UserID,
		insight.Kind,
		insight.Prompt,
		insight.Response,
		insight.CreatedAt,
	).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*insightdomain.Insight, error) {
	var insight insightdomain.Insight
	err := db.WithContext(ctx).Raw(
		`SELECT id, user_id, kind, prompt, response, created_at
		 FROM insights WHERE id = ?`,
		id,
	).Scan(&insight).Error
	if err != nil {
		return nil, err
	}
	if insight.ID == 0 {
		return nil, nil
	}
	return &insight, nil
}

func (r *repo) ListByUserID(ctx context.Context, db *gorm.DB, userID string) ([]insightdomain.Insight, error) {
	var insights []insightdomain.Insight
	err := db.WithContext(ctx).Raw(
		`SELECT id, user_id, kind, prompt, response, created_at
		 FROM insights WHERE user_id = ? ORDER BY created_at DESC`,
		userID,
	).Scan(&insights).Error
	if err != nil {
		return nil, err
	}
	return insights, nil
}

func (r *repo) Delete(ctx context.Context, db *gorm.DB, id snowflake.ID) error {
	return db.WithContext(ctx).Exec(`DELETE FROM insights WHERE id = ?`, id).Error
}
