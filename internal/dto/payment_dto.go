package dto

import "github.com/google/uuid"

type CheckoutRequest struct {
	ApplicationID uuid.UUID `json:"application_id"`
}

type CheckoutResponse struct {
	OK  bool   `json:"ok"`
	URL string `json:"url"`
}

type CreateEscrowRequest struct {
	AmountCents int64 `json:"amount_cents"`
}

type ResolveEscrowRequest struct {
	Status string `json:"status"`
}

type DispatchResponse struct {
	OK    bool `json:"ok"`
	Count int  `json:"count"`
}

type EscrowTotals struct {
	EscrowedCents int64 `json:"escrowed_cents"`
	ReleasedCents int64 `json:"released_cents"`
	RefundedCents int64 `json:"refunded_cents"`
}

type IDResponse struct {
	OK bool      `json:"ok"`
	ID uuid.UUID `json:"id"`
}
