package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
)

// LineItem is an input line; totals are computed server-side. Unit
// prices are VAT-exclusive minor units.
type LineItem struct {
	Description    string `json:"description" binding:"required"`
	Quantity       int64  `json:"quantity" binding:"required"`
	UnitPriceMinor int64  `json:"unit_price_minor" binding:"required"`
}

type CreateInvoiceRequest struct {
	ClientID  snowflake.ID `json:"client_id" binding:"required"`
	DueDate   *time.Time   `json:"due_date,omitempty"`
	LineItems []LineItem   `json:"line_items" binding:"required"`
}

type UpdateStatusRequest struct {
	Status Status `json:"status" binding:"required"`
}

// Service owns invoice issuing and lifecycle. Create is gated on
// invoiceManagement plus the monthly invoice ceiling and bumps the
// usage counter on success.
type Service interface {
	Create(ctx context.Context, req CreateInvoiceRequest) (Invoice, error)
	Get(ctx context.Context, id snowflake.ID) (Invoice, error)
	List(ctx context.Context) ([]Invoice, error)
	UpdateStatus(ctx context.Context, id snowflake.ID, req UpdateStatusRequest) (Invoice, error)
}
