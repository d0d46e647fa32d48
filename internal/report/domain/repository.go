package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, report *Report) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Report, error)
	ListByUserID(ctx context.Context, db *gorm.DB, userID string) ([]Report, error)
}
