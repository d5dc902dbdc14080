package dto

import "github.com/google/uuid"

type SendMessageRequest struct {
	Other     uuid.UUID  `json:"other"`
	RequestID *uuid.UUID `json:"request_id"`
	Body      string     `json:"body"`
	FileURL   string     `json:"file_url"`
}
