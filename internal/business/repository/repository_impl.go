package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	businessdomain "github.com/quidflow/quidflow/internal/business/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() businessdomain.Repository {
	return &repo{}
}

func (r *repo) InsertBusiness(ctx context.Context, db *gorm.DB, business *businessdomain.Business) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO businesses (
			id, user_id, name, vat_registered, vat_number, vat_scheme, vat_rate,
			created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		business.ID,
		business.UserID,
		business.Name,
		business.VATRegistered,
		business.VATNumber,
		business.VATScheme,
		business.VATRate,
		business.CreatedAt,
		business.UpdatedAt,
	).Error
}

func (r *repo) FindBusinessByUserID(ctx context.Context, db *gorm.DB, userID string) (*businessdomain.Business, error) {
	var business businessdomain.Business
	err := db.WithContext(ctx).Raw(
		`SELECT id, user_id, name, vat_registered, vat_number, vat_scheme, vat_rate,
		 created_at, updated_at
		 FROM businesses WHERE user_id = ?`,
		userID,
	).Scan(&business).Error
	if err != nil {
		return nil, err
	}
	if business.ID == 0 {
		return nil, nil
	}
	return &business, nil
}

func (r *repo) UpdateVATConfig(ctx context.Context, db *gorm.DB, patch businessdomain.VATConfigPatch) error {
	return db.WithContext(ctx).Exec(
		`UPDATE businesses
		 SET vat_registered = ?, vat_number = ?, vat_scheme = ?, vat_rate = ?, updated_at = ?
		 WHERE id = ?`,
		patch.VATRegistered,
		patch.VATNumber,
		patch.VATScheme,
		patch.VATRate,
		patch.UpdatedAt,
		patch.ID,
	).Error
}

func (r *repo) InsertClient(ctx context.Context, db *gorm.DB, client *businessdomain.Client) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO clients (id, business_id, name, email, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		client.ID,
		client.BusinessID,
		client.Name,
		client.Email,
		client.CreatedAt,
		client.UpdatedAt,
	).Error
}

func (r *repo) ListClients(ctx context.Context, db *gorm.DB, businessID snowflake.ID) ([]businessdomain.Client, error) {
	var clients []businessdomain.Client
	err := db.WithContext(ctx).Raw(
		`SELECT id, business_id, name, email, created_at, updated_at
		 FROM clients WHERE business_id = ? ORDER BY created_at`,
		businessID,
	).Scan(&clients).Error
	if err != nil {
		return nil, err
	}
	return clients, nil
}

func (r *repo) FindClientByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*businessdomain.Client, error) {
	var client businessdomain.Client
	err := db.WithContext(ctx).Raw(
		`SELECT id, business_id, name, email, created_at, updated_at
		 FROM clients WHERE id = ?`,
		id,
	).Scan(&client).Error
	if err != nil {
		return nil, err
	}
	if client.ID == 0 {
		return nil, nil
	}
	return &client, nil
}

func (r *repo) InsertProject(ctx context.Context, db *gorm.DB, project *businessdomain.Project) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO projects (id, business_id, client_id, name, status, hourly_rate_minor, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		project.ID,
		project.BusinessID,
		project.ClientID,
		project.Name,
		project.Status,
		project.HourlyRateMinor,
		project.CreatedAt,
		project.UpdatedAt,
	).Error
}

func (r *repo) ListProjects(ctx context.Context, db *gorm.DB, businessID snowflake.ID) ([]businessdomain.Project, error) {
	var projects []businessdomain.Project
	err := db.WithContext(ctx).Raw(
		`SELECT id, business_id, client_id, name, status, hourly_rate_minor, created_at, updated_at
		 FROM projects WHERE business_id = ? ORDER BY created_at`,
		businessID,
	).Scan(&projects).Error
	if err != nil {
		return nil, err
	}
	return projects, nil
}

func (r *repo) UpdateProjectStatus(ctx context.Context, db *gorm.DB, id snowflake.ID, status businessdomain.ProjectStatus) error {
	return db.WithContext(ctx).Exec(
		`UPDATE projects SET status = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		status, id,
	).Error
}

func (r *repo) InsertReceipt(ctx context.Context, db *gorm.DB, receipt *businessdomain.Receipt) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO receipts (
			id, user_id, business_id, merchant, amount_minor, currency, category,
			raw_text, scanned_at, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		receipt.ID,
		receipt.UserID,
		receipt.BusinessID,
		receipt.Merchant,
		receipt.AmountMinor,
		receipt.Currency,
		receipt.Category,
		receipt.RawText,
		receipt.ScannedAt,
		receipt.CreatedAt,
	).Error
}

func (r *repo) ListReceipts(ctx context.Context, db *gorm.DB, userID string) ([]businessdomain.Receipt, error) {
	var receipts []businessdomain.Receipt
	err := db.WithContext(ctx).Raw(
		`SELECT id, user_id, business_id, merchant, amount_minor, currency, category,
		 raw_text, scanned_at, created_at
		 FROM receipts WHERE user_id = ? ORDER BY scanned_at DESC`,
		userID,
	).Scan(&receipts).Error
	if err != nil {
		return nil, err
	}
	return receipts, nil
}
