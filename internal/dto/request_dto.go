package dto

import (
	"time"

	"github.com/google/uuid"
)

type CreateRequestRequest struct {
	Title       string     `json:"title"`
	Category    string     `json:"category"`
	Location    string     `json:"location"`
	ServiceDate *time.Time `json:"service_date"`
	OfferCents  *int64     `json:"offer_cents"`
}

type CreateRequestResponse struct {
	OK bool      `json:"ok"`
	ID uuid.UUID `json:"id"`
}

type AwardRequest struct {
	ApplicationID uuid.UUID `json:"application_id"`
}
