// Package payments wraps the payment processor behind a small port so the
// services (and their tests) never touch processor SDK types.
package payments

import (
	"context"

	"github.com/google/uuid"
)

type CheckoutSessionParams struct {
	AmountCents int64
	Currency    string
	Title       string
	Description string
	SuccessURL  string
	CancelURL   string
	Metadata    map[string]string
}

type CheckoutSession struct {
	ID  string
	URL string
}

// CheckoutCompletedEvent is the decoded, signature-verified webhook payload
// the ledger reacts to.
type CheckoutCompletedEvent struct {
	SessionID       string
	BookingID       uuid.UUID
	WedflexerID     uuid.UUID
	FeeCents        int64
	PaymentIntentID string
}

type Processor interface {
	CreateCheckoutSession(ctx context.Context, params CheckoutSessionParams) (*CheckoutSession, error)
	CreateExpressAccount(ctx context.Context, email string) (string, error)
	CreateOnboardingLink(ctx context.Context, accountID, refreshURL, returnURL string) (string, error)
	CreateLoginLink(ctx context.Context, accountID string) (string, error)
	CreateTransfer(ctx context.Context, amountCents int64, destinationAccount string) (string, error)
}

// WebhookVerifier checks the processor signature and decodes the one event
// type the ledger cares about. The bool result is false for event types we
// ack without acting on.
type WebhookVerifier interface {
	VerifyCheckoutEvent(payload []byte, signature string) (*CheckoutCompletedEvent, bool, error)
}
