package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	RequestStatusOpen      = "open"
	RequestStatusAwarded   = "awarded"
	RequestStatusClosed    = "closed"
	RequestStatusCancelled = "cancelled"
)

// ServiceRequest is a job posting owned by one couple. OfferCents is the
// fixed price the couple is willing to pay; nil means open to bids.
// AwardedApplicationID is non-nil iff status is awarded or closed.
type ServiceRequest struct {
	ID                   uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	CoupleID             uuid.UUID      `gorm:"type:uuid;not null;index" json:"couple_id"`
	Title                string         `gorm:"size:200;not null" json:"title"`
	Category             string         `gorm:"size:100;not null;index" json:"category"`
	Location             string         `gorm:"size:200;not null" json:"location"`
	ServiceDate          *time.Time     `json:"service_date"`
	OfferCents           *int64         `json:"offer_cents"`
	Status               string         `gorm:"size:20;not null;default:'open';index" json:"status"`
	AwardedApplicationID *uuid.UUID     `gorm:"type:uuid" json:"awarded_application_id"`
	AwardedWedflexerID   *uuid.UUID     `gorm:"type:uuid" json:"awarded_wedflexer_id"`
	AwardedAt            *time.Time     `json:"awarded_at"`
	CreatedAt            time.Time      `json:"created_at"`
	UpdatedAt            time.Time      `json:"updated_at"`
	DeletedAt            gorm.DeletedAt `gorm:"index" json:"-"`
}
