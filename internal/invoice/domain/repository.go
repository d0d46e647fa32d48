package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, invoice *Invoice) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Invoice, error)
	ListByBusinessID(ctx context.Context, db *gorm.DB, businessID snowflake.ID) ([]Invoice, error)
	UpdateStatus(ctx context.Context, db *gorm.DB, id snowflake.ID, status Status) error
	// NextSeq bumps and returns the per-business per-year counter in a
	// single atomic UPSERT.
	NextSeq(ctx context.Context, db *gorm.DB, businessID snowflake.ID, year int) (int64, error)
}
