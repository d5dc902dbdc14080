package dto

import "github.com/google/uuid"

type SubmitApplicationRequest struct {
	RequestID   uuid.UUID `json:"request_id"`
	Message     string    `json:"message"`
	AcceptOffer bool      `json:"accept_offer"`
	// Dollar amount as entered by the provider, e.g. "125.50".
	CounterOffer *string  `json:"counter_offer"`
	FileURLs     []string `json:"file_urls"`
}

type SubmitApplicationResponse struct {
	OK bool      `json:"ok"`
	ID uuid.UUID `json:"id"`
}

type UpdateApplicationStatusRequest struct {
	Status string `json:"status"`
}

type SignedFileRequest struct {
	FilePath string `json:"file_path"`
}
