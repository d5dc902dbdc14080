package models

import (
	"time"

	"github.com/google/uuid"
)

// Checkout-style payment lifecycle.
const (
	PaymentStatusPending   = "pending"
	PaymentStatusSucceeded = "succeeded"
)

// Escrow-style payment lifecycle.
const (
	PaymentStatusEscrowed = "escrowed"
	PaymentStatusReleased = "released"
	PaymentStatusRefunded = "refunded"
)

// Payment is one money-movement record. Checkout payments reference a
// booking; manual escrow payments reference only the request.
type Payment struct {
	ID                      uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	BookingID               *uuid.UUID `gorm:"type:uuid;index" json:"booking_id"`
	RequestID               *uuid.UUID `gorm:"type:uuid;index" json:"request_id"`
	CoupleID                uuid.UUID  `gorm:"type:uuid;not null;index" json:"couple_id"`
	WedflexerID             uuid.UUID  `gorm:"type:uuid;not null;index" json:"wedflexer_id"`
	AmountCents             int64      `gorm:"not null" json:"amount_cents"`
	Status                  string     `gorm:"size:20;not null;index" json:"status"`
	StripeCheckoutSessionID string     `gorm:"size:255;index" json:"-"`
	StripePaymentIntentID   string     `gorm:"size:255;index" json:"-"`
	ReleasedAt              *time.Time `json:"released_at"`
	RefundedAt              *time.Time `json:"refunded_at"`
	CreatedAt               time.Time  `json:"created_at"`
	UpdatedAt               time.Time  `json:"updated_at"`
}
