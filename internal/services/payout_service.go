package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/wedflexhq/wedflex-backend/internal/apperr"
	"github.com/wedflexhq/wedflex-backend/internal/models"
	"github.com/wedflexhq/wedflex-backend/internal/payments"
	"gorm.io/gorm"
)

type PayoutService struct {
	db        *gorm.DB
	processor payments.Processor
}

func NewPayoutService(db *gorm.DB, processor payments.Processor) *PayoutService {
	return &PayoutService{db: db, processor: processor}
}

type payoutCandidate struct {
	PayoutID        uuid.UUID
	AmountCents     int64
	StripeAccountID string
}

// Dispatch sweeps queued payouts whose booking service date has arrived
// and whose wedflexer finished payout onboarding, transferring each one
// independently. A failing transfer marks its row failed and the sweep
// moves on; the candidate query excludes non-queued rows, so re-running
// the sweep never pays a row twice.
func (s *PayoutService) Dispatch(ctx context.Context) (int, error) {
	var candidates []payoutCandidate
	err := s.db.Table("payouts").
		Select("payouts.id AS payout_id, payouts.amount_cents, users.stripe_account_id").
		Joins("JOIN payments ON payments.id = payouts.payment_id").
		Joins("JOIN bookings ON bookings.id = payments.booking_id").
		Joins("JOIN users ON users.id = payouts.wedflexer_id").
		Where("payouts.status = ?", models.PayoutStatusQueued).
		Where("bookings.service_date IS NOT NULL AND bookings.service_date <= ?", time.Now()).
		Where("users.stripe_account_id IS NOT NULL AND users.stripe_account_id <> ''").
		Scan(&candidates).Error
	if err != nil {
		return 0, apperr.Wrap(apperr.Persistence, "Could not load payout candidates", err)
	}

	for _, cand := range candidates {
		transferID, err := s.processor.CreateTransfer(ctx, cand.AmountCents, cand.StripeAccountID)
		if err != nil {
			slog.Error("payout transfer failed", "payout_id", cand.PayoutID, "error", err)
			res := s.db.Model(&models.Payout{}).
				Where("id = ? AND status = ?", cand.PayoutID, models.PayoutStatusQueued).
				Update("status", models.PayoutStatusFailed)
			if res.Error != nil {
				slog.Error("payout failed-mark did not apply", "payout_id", cand.PayoutID, "error", res.Error)
			}
			continue
		}

		// A paid mark that does not land leaves the row queued, and the
		// next sweep would transfer again. Surface it loudly.
		res := s.db.Model(&models.Payout{}).
			Where("id = ? AND status = ?", cand.PayoutID, models.PayoutStatusQueued).
			Updates(map[string]interface{}{
				"status":             models.PayoutStatusPaid,
				"stripe_transfer_id": transferID,
			})
		if res.Error != nil {
			slog.Error("payout paid-mark did not apply after transfer",
				"payout_id", cand.PayoutID, "transfer_id", transferID, "error", res.Error)
		}
	}

	return len(candidates), nil
}

// Requeue puts a failed payout back in the queue for the next sweep.
func (s *PayoutService) Requeue(payoutID uuid.UUID) error {
	res := s.db.Model(&models.Payout{}).
		Where("id = ? AND status = ?", payoutID, models.PayoutStatusFailed).
		Update("status", models.PayoutStatusQueued)
	if res.Error != nil {
		return apperr.Wrap(apperr.Persistence, "Could not requeue payout", res.Error)
	}
	if res.RowsAffected == 0 {
		return apperr.New(apperr.InvalidState, "Only failed payouts can be requeued")
	}
	return nil
}

// StartSweep runs Dispatch on a fixed interval until done closes.
func (s *PayoutService) StartSweep(interval time.Duration, done chan struct{}) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				count, err := s.Dispatch(context.Background())
				if err != nil {
					slog.Error("payout sweep failed", "error", err)
				} else if count > 0 {
					slog.Info("payout sweep completed", "processed", count)
				}
			case <-done:
				return
			}
		}
	}()
}
