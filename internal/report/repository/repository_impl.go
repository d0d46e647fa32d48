package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	reportdomain "github.com/quidflow/quidflow/internal/report/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() reportdomain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, report *reportdomain.Report) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO reports (id, user_id, kind, period_start, period_end, payload, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		report.ID,
		report.UserID,
		report.Kind,
		report.PeriodStart,
		report.PeriodEnd,
		report.Payload,
		report.CreatedAt,
	).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*reportdomain.Report, error) {
	var report reportdomain.Report
	err := db.WithContext(ctx).Raw(
		`SELECT id, user_id, kind, period_start, period_end, payload, created_at
		 FROM reports WHERE id = ?`,
		id,
	).Scan(&report).Error
	if err != nil {
		return nil, err
	}
	if report.ID == 0 {
		return nil, nil
	}
	return &report, nil
}

func (r *repo) ListByUserID(ctx context.Context, db *gorm.DB, userID string) ([]reportdomain.Report, error) {
	var reports []reportdomain.Report
	err := db.WithContext(ctx).Raw(
		`SELECT id, user_id, kind, period_start, period_end, payload, created_at
		 FROM reports WHERE user_id = ? ORDER BY created_at DESC`,
		userID,
	).Scan(&reports).Error
	if err != nil {
		return nil, err
	}
	return reports, nil
}
