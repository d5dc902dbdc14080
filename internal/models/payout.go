package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	PayoutStatusQueued = "queued"
	PayoutStatusPaid   = "paid"
	PayoutStatusFailed = "failed"
)

// Payout is a queued net transfer to a wedflexer's connected account,
// created when the source payment succeeds and consumed by the dispatcher.
type Payout struct {
	ID               uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	PaymentID        uuid.UUID `gorm:"type:uuid;not null;uniqueIndex" json:"payment_id"`
	WedflexerID      uuid.UUID `gorm:"type:uuid;not null;index" json:"wedflexer_id"`
	AmountCents      int64     `gorm:"not null" json:"amount_cents"`
	FeeCents         int64     `gorm:"not null" json:"fee_cents"`
	Status           string    `gorm:"size:20;not null;default:'queued';index" json:"status"`
	StripeTransferID string    `gorm:"size:255" json:"-"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}
