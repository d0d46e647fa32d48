package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, insight *Insight) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Insight, error)
	ListByUserID(ctx context.Context, db *gorm.DB, userID string) ([]Insight, error)
	Delete(ctx context.Context, db *gorm.DB, id snowflake.ID) error
}
