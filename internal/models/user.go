package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	RoleCouple    = "couple"
	RoleWedflexer = "wedflexer"
)

// User is both the login identity and the marketplace profile. ActiveRole
// decides which side of the marketplace the session acts as; a user can
// switch sides without re-registering.
type User struct {
	ID              uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	Email           string         `gorm:"not null;size:255;uniqueIndex" json:"email"`
	Password        string         `gorm:"not null" json:"-"`
	DisplayName     string         `gorm:"size:120" json:"display_name"`
	ActiveRole      string         `gorm:"size:20;not null;default:'couple'" json:"active_role"`
	Role            string         `gorm:"size:20;default:'user'" json:"-"`
	StripeAccountID *string        `gorm:"size:255;index" json:"-"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`
}
