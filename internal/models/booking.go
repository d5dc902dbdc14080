package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	BookingStatusPendingPayment = "pending_payment"
	BookingStatusPaid           = "paid"
	BookingStatusCancelled      = "cancelled"
)

// Booking is created at checkout initiation, one per awarded application.
type Booking struct {
	ID            uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	RequestID     uuid.UUID  `gorm:"type:uuid;not null;index" json:"request_id"`
	ApplicationID uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex" json:"application_id"`
	CoupleID      uuid.UUID  `gorm:"type:uuid;not null;index" json:"couple_id"`
	WedflexerID   uuid.UUID  `gorm:"type:uuid;not null;index" json:"wedflexer_id"`
	ServiceDate   *time.Time `json:"service_date"`
	Status        string     `gorm:"size:20;not null;default:'pending_payment';index" json:"status"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}
