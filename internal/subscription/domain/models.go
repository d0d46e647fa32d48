// Package domain contains the persistence model and contracts for
// subscription records.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/quidflow/quidflow/internal/tier"
	"gorm.io/datatypes"
)

// Status represents lifecycle states for a subscription record.
type Status string

const (
	StatusActive    Status = "active"
	StatusTrial     Status = "trial"
	StatusCancelled Status = "cancelled"
	StatusExpired   Status = "expired"
)

// CurrentStatuses are the states in which a record counts as the user's
// one current subscription.
var CurrentStatuses = []Status{StatusActive, StatusTrial}

// Subscription is a user's subscription record. Features holds the tier's
// feature snapshot taken at create/change time; access decisions resolve
// live from the tier catalog, the snapshot is an audit trail.
type Subscription struct {
	ID         snowflake.ID   `gorm:"primaryKey" json:"id"`
	UserID     string         `gorm:"not null;index" json:"userId"`
	Tier       tier.ID        `gorm:"type:text;not null" json:"tier"`
	Status     Status         `gorm:"type:text;not null" json:"status"`
	Trial      bool           `gorm:"not null;default:false" json:"trial"`
	Features   datatypes.JSON `gorm:"type:jsonb" json:"features"`
	StartDate  time.Time      `gorm:"not null" json:"startDate"`
	EndDate    *time.Time     `gorm:"" json:"endDate,omitempty"`
	AutoRenew  bool           `gorm:"not null;default:true" json:"autoRenew"`
	CanceledAt *time.Time     `gorm:"" json:"canceledAt,omitempty"`
	CreatedAt  time.Time      `gorm:"not null;default:CURRENT_TIMESTAMP" json:"createdAt"`
	UpdatedAt  time.Time      `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updatedAt"`
}

// TableName sets the database table name.
func (Subscription) TableName() string { return "subscriptions" }

// IsCurrent reports whether the record is the user's live subscription.
func (s Subscription) IsCurrent() bool {
	return s.Status == StatusActive || s.Status == StatusTrial
}
