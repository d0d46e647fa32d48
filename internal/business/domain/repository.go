package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	InsertBusiness(ctx context.Context, db *gorm.DB, business *Business) error
	FindBusinessByUserID(ctx context.Context, db *gorm.DB, userID string) (*Business, error)
	UpdateVATConfig(ctx context.Context, db *gorm.DB, patch VATConfigPatch) error

	InsertClient(ctx context.Context, db *gorm.DB, client *Client) error
	ListClients(ctx context.Context, db *gorm.DB, businessID snowflake.ID) ([]Client, error)
	FindClientByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Client, error)

	InsertProject(ctx context.Context, db *gorm.DB, project *Project) error
	ListProjects(ctx context.Context, db *gorm.DB, businessID snowflake.ID) ([]Project, error)
	UpdateProjectStatus(ctx context.Context, db *gorm.DB, id snowflake.ID, status ProjectStatus) error

	InsertReceipt(ctx context.Context, db *gorm.DB, receipt *Receipt) error
	ListReceipts(ctx context.Context, db *gorm.DB, userID string) ([]Receipt, error)
}
