package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// Business is the user's single business entity. One per user, keyed by
// the unique user_id column.
type Business struct {
	ID            snowflake.ID `json:"id" gorm:"primaryKey"`
	UserID        string       `json:"user_id" gorm:"uniqueIndex"`
	Name          string       `json:"name"`
	VATRegistered bool         `json:"vat_registered"`
	VATNumber     string       `json:"vat_number,omitempty"`
	VATScheme     string       `json:"vat_scheme" gorm:"default:standard"`
	VATRate       float64      `json:"vat_rate" gorm:"default:20"`
	CreatedAt     time.Time    `json:"created_at"`
	UpdatedAt     time.Time    `json:"updated_at"`
}

func (Business) TableName() string {
	return "businesses"
}

type Client struct {
	ID         snowflake.ID `json:"id" gorm:"primaryKey"`
	BusinessID snowflake.ID `json:"business_id"`
	Name       string       `json:"name"`
	Email      string       `json:"email,omitempty"`
	CreatedAt  time.Time    `json:"created_at"`
	UpdatedAt  time.Time    `json:"updated_at"`
}

func (Client) TableName() string {
	return "clients"
}

type ProjectStatus string

const (
	ProjectActive    ProjectStatus = "active"
	ProjectCompleted ProjectStatus = "completed"
	ProjectArchived  ProjectStatus = "archived"
)

type Project struct {
	ID              snowflake.ID  `json:"id" gorm:"primaryKey"`
	BusinessID      snowflake.ID  `json:"business_id"`
	ClientID        *snowflake.ID `json:"client_id,omitempty"`
	Name            string        `json:"name"`
	Status          ProjectStatus `json:"status" gorm:"default:active"`
	HourlyRateMinor *int64        `json:"hourly_rate_minor,omitempty"`
	CreatedAt       time.Time     `json:"created_at"`
	UpdatedAt       time.Time     `json:"updated_at"`
}

func (Project) TableName() string {
	return "projects"
}

// Receipt is a scanned receipt with whatever the OCR provider managed
// to extract.
type Receipt struct {
	ID          snowflake.ID  `json:"id" gorm:"primaryKey"`
	UserID      string        `json:"user_id"`
	BusinessID  *snowflake.ID `json:"business_id,omitempty"`
	Merchant    string        `json:"merchant,omitempty"`
	AmountMinor int64         `json:"amount_minor"`
	Currency    string        `json:"currency" gorm:"default:GBP"`
	Category    string        `json:"category,omitempty"`
	RawText     string        `json:"raw_text,omitempty"`
	ScannedAt   time.Time     `json:"scanned_at"`
	CreatedAt   time.Time     `json:"created_at"`
}

func (Receipt) TableName() string {
	return "receipts"
}
