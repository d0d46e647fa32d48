package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	invoicedomain "github.com/quidflow/quidflow/internal/invoice/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() invoicedomain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, invoice *invoicedomain.Invoice) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO invoices (
			id, business_id, client_id, number, status, issue_date, due_date,
			line_items, subtotal_minor, vat_minor, total_minor, currency, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		invoice.ID,
		invoice.BusinessID,
		invoice.ClientID,
		invoice.Number,
		invoice.Status,
		invoice.IssueDate,
		invoice.DueDate,
		invoice.LineItems,
		invoice.SubtotalMinor,
		invoice.VATMinor,
		invoice.TotalMinor,
		invoice.Currency,
		invoice.CreatedAt,
		invoice.UpdatedAt,
	).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*invoicedomain.Invoice, error) {
	var invoice invoicedomain.Invoice
	err := db.WithContext(ctx).Raw(
		`SELECT id, business_id, client_id, number, status, issue_date, due_date,
		 line_items, subtotal_minor, vat_minor, total_minor, currency, created_at, updated_at
		 FROM invoices WHERE id = ?`,
		id,
	).Scan(&invoice).Error
	if err != nil {
		return nil, err
	}
	if invoice.ID == 0 {
		return nil, nil
	}
	return &invoice, nil
}

func (r *repo) ListByBusinessID(ctx context.Context, db *gorm.DB, businessID snowflake.ID) ([]invoicedomain.Invoice, error) {
	var invoices []invoicedomain.Invoice
	err := db.WithContext(ctx).Raw(
		`SELECT id, business_id, client_id, number, status, issue_date, due_date,
		 line_items, subtotal_minor, vat_minor, total_minor, currency, created_at, updated_at
		 FROM invoices WHERE business_id = ? ORDER BY created_at DESC`,
		businessID,
	).Scan(&invoices).Error
	if err != nil {
		return nil, err
	}
	return invoices, nil
}

func (r *repo) UpdateStatus(ctx context.Context, db *gorm.DB, id snowflake.ID, status invoicedomain.Status) error {
	return db.WithContext(ctx).Exec(
		`UPDATE invoices SET status = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		status, id,
	).Error
}

func (r *repo) NextSeq(ctx context.Context, db *gorm.DB, businessID snowflake.ID, year int) (int64, error) {
	var seq int64
	err := db.WithContext(ctx).Raw(
		`INSERT INTO invoice_sequences (business_id, year, last_seq)
		 VALUES (?, ?, 1)
		 ON CONFLICT (business_id, year)
		 DO UPDATE SET last_seq = invoice_sequences.last_seq + 1
		 RETURNING last_seq`,
		businessID, year,
	).Scan(&seq).Error
	if err != nil {
		return 0, err
	}
	return seq, nil
}
