package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/quidflow/quidflow/internal/vat"
)

type CreateBusinessRequest struct {
	Name string `json:"name" binding:"required"`
}

type VATConfigRequest struct {
	VATRegistered bool    `json:"vat_registered"`
	VATNumber     string  `json:"vat_number"`
	VATScheme     string  `json:"vat_scheme"`
	VATRate       float64 `json:"vat_rate"`
}

type VATConfigPatch struct {
	ID            snowflake.ID
	VATRegistered bool
	VATNumber     string
	VATScheme     string
	VATRate       float64
	UpdatedAt     time.Time
}

type CreateClientRequest struct {
	Name  string `json:"name" binding:"required"`
	Email string `json:"email"`
}

type CreateProjectRequest struct {
	ClientID        *snowflake.ID `json:"client_id,omitempty"`
	Name            string        `json:"name" binding:"required"`
	HourlyRateMinor *int64        `json:"hourly_rate_minor,omitempty"`
}

type ScanReceiptRequest struct {
	Image []byte `json:"-"`
}

type VATReturnRequest struct {
	From time.Time `json:"from"`
	To   time.Time `json:"to"`
}

type VATReturn struct {
	From              time.Time `json:"from"`
	To                time.Time `json:"to"`
	Rate              float64   `json:"rate"`
	IncomeGrossMinor  int64     `json:"income_gross_minor"`
	ExpenseGrossMinor int64     `json:"expense_gross_minor"`
	vat.ReturnSummary
}

// Service owns the business entity and everything hanging off it.
// Entity operations are gated on businessMode, VAT operations on
// vatCalculation, receipt scanning on receiptOCR plus the monthly scan
// ceiling.
type Service interface {
	CreateBusiness(ctx context.Context, req CreateBusinessRequest) (Business, error)
	GetBusiness(ctx context.Context) (Business, error)
	UpdateVATConfig(ctx context.Context, req VATConfigRequest) (Business, error)
	GetVATReturn(ctx context.Context, req VATReturnRequest) (VATReturn, error)

	CreateClient(ctx context.Context, req CreateClientRequest) (Client, error)
	ListClients(ctx context.Context) ([]Client, error)

	CreateProject(ctx context.Context, req CreateProjectRequest) (Project, error)
	ListProjects(ctx context.Context) ([]Project, error)

	ScanReceipt(ctx context.Context, req ScanReceiptRequest) (Receipt, error)
	ListReceipts(ctx context.Context) ([]Receipt, error)
}
