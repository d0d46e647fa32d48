package repository

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	transactiondomain "github.com/quidflow/quidflow/internal/transaction/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() transactiondomain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, transaction *transactiondomain.Transaction) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO transactions (
			id, user_id, business_id, occurred_at, description, amount_minor,
			currency, category, kind, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		transaction.ID,
		transaction.UserID,
		transaction.BusinessID,
		transaction.OccurredAt,
		transaction.Description,
		transaction.AmountMinor,
		transaction.Currency,
		transaction.Category,
		transaction.Kind,
		transaction.CreatedAt,
		transaction.UpdatedAt,
	).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*transactiondomain.Transaction, error) {
	var transaction transactiondomain.Transaction
	err := db.WithContext(ctx).Raw(
		`SELECT id, user_id, business_id, occurred_at, description, amount_minor,
		 currency, category, kind, created_at, updated_at
		 FROM transactions WHERE id = ?`,
		id,
	).Scan(&transaction).Error
	if err != nil {
		return nil, err
	}
	if transaction.ID == 0 {
		return nil, nil
	}
	return &transaction, nil
}

func (r *repo) ListByUserID(ctx context.Context, db *gorm.DB, userID string, from, to time.Time) ([]transactiondomain.Transaction, error) {
	var transactions []transactiondomain.Transaction
	err := db.WithContext(ctx).Raw(
		`SELECT id, user_id, business_id, occurred_at, description, amount_minor,
		 currency, category, kind, created_at, updated_at
		 FROM transactions
		 WHERE user_id = ? AND occurred_at >= ? AND occurred_at < ?
		 ORDER BY occurred_at DESC`,
		userID, from, to,
	).Scan(&transactions).Error
	if err != nil {
		return nil, err
	}
	return transactions, nil
}

func (r *repo) Delete(ctx context.Context, db *gorm.DB, id snowflake.ID) error {
	return db.WithContext(ctx).Exec(
		`DELETE FROM transactions WHERE id = ?`, id,
	).Error
}

func (r *repo) SumByKind(ctx context.Context, db *gorm.DB, userID string, kind transactiondomain.Kind, from, to time.Time) (int64, error) {
	var total int64
	err := db.WithContext(ctx).Raw(
		`SELECT COALESCE(SUM(amount_minor), 0)
		 FROM transactions
		 WHERE user_id = ? AND kind = ? AND occurred_at >= ? AND occurred_at < ?`,
		userID, kind, from, to,
	).Scan(&total).Error
	if err != nil {
		return 0, err
	}
	return total, nil
}

func (r *repo) TotalsByCategory(ctx context.Context, db *gorm.DB, userID string, kind transactiondomain.Kind, from, to time.Time) ([]transactiondomain.CategoryTotal, error) {
	var totals []transactiondomain.CategoryTotal
	err := db.WithContext(ctx).Raw(
		`SELECT category, COALESCE(SUM(amount_minor), 0) AS total_minor
		 FROM transactions
		 WHERE user_id = ? AND kind = ? AND occurred_at >= ? AND occurred_at < ?
		 GROUP BY category
		 ORDER BY total_minor DESC`,
		userID, kind, from, to,
	).Scan(&totals).Error
	if err != nil {
		return nil, err
	}
	return totals, nil
}
