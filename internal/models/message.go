package models

import (
	"time"

	"github.com/google/uuid"
)

// MessageThread is keyed by the canonically ordered user pair plus an
// optional request. RequestID uses uuid.Nil for "no request" so the unique
// index still collapses duplicate threads (NULLs never compare equal).
type MessageThread struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserOne       uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_threads_pair_request" json:"user_one"`
	UserTwo       uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_threads_pair_request" json:"user_two"`
	RequestID     uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_threads_pair_request" json:"request_id"`
	LastMessageAt time.Time `gorm:"index" json:"last_message_at"`
	CreatedAt     time.Time `json:"created_at"`
}

type Message struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ThreadID  uuid.UUID `gorm:"type:uuid;not null;index" json:"thread_id"`
	SenderID  uuid.UUID `gorm:"type:uuid;not null" json:"sender_id"`
	Body      string    `gorm:"type:text" json:"body"`
	FileURL   string    `gorm:"size:500" json:"file_url,omitempty"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
}
