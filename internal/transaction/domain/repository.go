package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, transaction *Transaction) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Transaction, error)
	ListByUserID(ctx context.Context, db *gorm.DB, userID string, from, to time.Time) ([]Transaction, error)
	Delete(ctx context.Context, db *gorm.DB, id snowflake.ID) error
	// SumByKind returns the gross total of a kind within [from, to).
	SumByKind(ctx context.Context, db *gorm.DB, userID string, kind Kind, from, to time.Time) (int64, error)
	// TotalsByCategory aggregates a kind within [from, to) per category.
	TotalsByCategory(ctx context.Context, db *gorm.DB, userID string, kind Kind, from, to time.Time) ([]CategoryTotal, error)
}
