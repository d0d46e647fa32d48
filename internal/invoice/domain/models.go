package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

type Status string

const (
	StatusDraft     Status = "draft"
	StatusSent      Status = "sent"
	StatusPaid      Status = "paid"
	StatusOverdue   Status = "overdue"
	StatusCancelled Status = "cancelled"
)

// Invoice numbers are INV-<year>-<seq>, sequenced per business per year
// via the invoice_sequences table.
type Invoice struct {
	ID            snowflake.ID   `json:"id" gorm:"primaryKey"`
	BusinessID    snowflake.ID   `json:"business_id"`
	ClientID      snowflake.ID   `json:"client_id"`
	Number        string         `json:"number"`
	Status        Status         `json:"status" gorm:"default:draft"`
	IssueDate     time.Time      `json:"issue_date"`
	DueDate       *time.Time     `json:"due_date,omitempty"`
	LineItems     datatypes.JSON `json:"line_items"`
	SubtotalMinor int64          `json:"subtotal_minor"`
	VATMinor      int64          `json:"vat_minor"`
	TotalMinor    int64          `json:"total_minor"`
	Currency      string         `json:"currency" gorm:"default:GBP"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
}

func (Invoice) TableName() string {
	return "invoices"
}

// Sequence is the per-business per-year invoice counter.
type Sequence struct {
	BusinessID snowflake.ID `json:"business_id" gorm:"primaryKey"`
	Year       int          `json:"year" gorm:"primaryKey"`
	LastSeq    int64        `json:"last_seq"`
}

func (Sequence) TableName() string {
	return "invoice_sequences"
}

// transitions maps a status to the statuses it may move to.
var transitions = map[Status][]Status{
	StatusDraft:     {StatusSent, StatusCancelled},
	StatusSent:      {StatusPaid, StatusOverdue, StatusCancelled},
	StatusOverdue:   {StatusPaid, StatusCancelled},
	StatusPaid:      {},
	StatusCancelled: {},
}

func CanTransition(from, to Status) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}
