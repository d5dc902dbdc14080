package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	ApplicationStatusPending   = "pending"
	ApplicationStatusAccepted  = "accepted"
	ApplicationStatusRejected  = "rejected"
	ApplicationStatusWithdrawn = "withdrawn"
)

// Application is one wedflexer's bid against one request. BidCents nil
// means a message-only application with no amount attached. Withdrawal is
// a status transition, never a delete.
type Application struct {
	ID          uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	RequestID   uuid.UUID      `gorm:"type:uuid;not null;index" json:"request_id"`
	WedflexerID uuid.UUID      `gorm:"type:uuid;not null;index" json:"wedflexer_id"`
	Message     string         `gorm:"type:text;not null" json:"message"`
	BidCents    *int64         `json:"bid_cents"`
	Status      string         `gorm:"size:20;not null;default:'pending';index" json:"status"`
	IsAwarded   bool           `gorm:"default:false" json:"is_awarded"`
	FileURLs    datatypes.JSON `json:"file_urls"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`

	Request ServiceRequest `gorm:"foreignKey:RequestID" json:"-"`
}
