package services

import (
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/wedflexhq/wedflex-backend/internal/apperr"
	"github.com/wedflexhq/wedflex-backend/internal/models"
	"github.com/wedflexhq/wedflex-backend/internal/payments"
	"gorm.io/gorm"
)

// PaymentService is the money ledger: it reacts to checkout webhooks and
// owns the manual escrow path.
type PaymentService struct {
	db *gorm.DB
}

func NewPaymentService(db *gorm.DB) *PaymentService {
	return &PaymentService{db: db}
}

// HandleCheckoutCompleted moves the booking's payment to succeeded, queues
// the net payout and marks the booking paid.
//
// Idempotent under webhook replays: the pending -> succeeded transition is
// a conditional update keyed on booking_id, and zero affected rows means
// the event was already applied, so no second payout can be created.
func (s *PaymentService) HandleCheckoutCompleted(evt *payments.CheckoutCompletedEvent) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Payment{}).
			Where("booking_id = ? AND status = ?", evt.BookingID, models.PaymentStatusPending).
			Updates(map[string]interface{}{
				"status":                   models.PaymentStatusSucceeded,
				"stripe_payment_intent_id": evt.PaymentIntentID,
			})
		if res.Error != nil {
			return apperr.Wrap(apperr.Persistence, "Could not update payment", res.Error)
		}
		if res.RowsAffected == 0 {
			slog.Info("checkout webhook replay ignored", "booking_id", evt.BookingID)
			return nil
		}

		var payment models.Payment
		if err := tx.Where("booking_id = ?", evt.BookingID).First(&payment).Error; err != nil {
			return apperr.Wrap(apperr.Persistence, "Could not load payment", err)
		}

		payout := models.Payout{
			ID:          uuid.New(),
			PaymentID:   payment.ID,
			WedflexerID: payment.WedflexerID,
			AmountCents: payment.AmountCents - evt.FeeCents,
			FeeCents:    evt.FeeCents,
			Status:      models.PayoutStatusQueued,
		}
		if err := tx.Create(&payout).Error; err != nil {
			return apperr.Wrap(apperr.Persistence, "Could not queue payout", err)
		}

		if err := tx.Model(&models.Booking{}).
			Where("id = ? AND status = ?", evt.BookingID, models.BookingStatusPendingPayment).
			Update("status", models.BookingStatusPaid).Error; err != nil {
			return apperr.Wrap(apperr.Persistence, "Could not mark booking paid", err)
		}
		return nil
	})
}

// CreateEscrow records a manual escrow payment against an awarded request.
// One escrow payment per request; a request that already went through
// checkout cannot also hold escrow.
func (s *PaymentService) CreateEscrow(coupleID, requestID uuid.UUID, amountCents int64) (*models.Payment, error) {
	if amountCents <= 0 {
		return nil, apperr.New(apperr.InvalidInput, "Missing request_id or invalid amount_cents")
	}

	var payment *models.Payment
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var request models.ServiceRequest
		if err := tx.First(&request, "id = ?", requestID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.New(apperr.NotFound, "Request not found")
			}
			return apperr.Wrap(apperr.Persistence, "Could not load request", err)
		}
		if request.CoupleID != coupleID {
			return apperr.New(apperr.Forbidden, "Not authorized")
		}
		if request.Status != models.RequestStatusAwarded || request.AwardedWedflexerID == nil {
			return apperr.New(apperr.InvalidState, "Request must be awarded first")
		}

		var count int64
		if err := tx.Model(&models.Payment{}).
			Where("request_id = ? AND status IN ?", requestID,
				[]string{models.PaymentStatusEscrowed, models.PaymentStatusReleased, models.PaymentStatusRefunded}).
			Count(&count).Error; err != nil {
			return apperr.Wrap(apperr.Persistence, "Could not check existing escrow", err)
		}
		if count > 0 {
			return apperr.New(apperr.InvalidState, "Request already has an escrow payment")
		}
		if err := tx.Model(&models.Booking{}).
			Where("request_id = ?", requestID).
			Count(&count).Error; err != nil {
			return apperr.Wrap(apperr.Persistence, "Could not check existing booking", err)
		}
		if count > 0 {
			return apperr.New(apperr.InvalidState, "Request was already booked through checkout")
		}

		payment = &models.Payment{
			ID:          uuid.New(),
			RequestID:   &request.ID,
			CoupleID:    coupleID,
			WedflexerID: *request.AwardedWedflexerID,
			AmountCents: amountCents,
			Status:      models.PaymentStatusEscrowed,
		}
		if err := tx.Create(payment).Error; err != nil {
			return apperr.Wrap(apperr.Persistence, "Could not create escrow payment", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return payment, nil
}

// ResolveEscrow releases or refunds an escrowed payment and stamps the
// matching timestamp. Only the paying couple may resolve, and only from
// the escrowed state.
func (s *PaymentService) ResolveEscrow(coupleID, paymentID uuid.UUID, outcome string) error {
	if outcome != models.PaymentStatusReleased && outcome != models.PaymentStatusRefunded {
		return apperr.New(apperr.InvalidInput, "Invalid status")
	}

	var payment models.Payment
	if err := s.db.First(&payment, "id = ?", paymentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.New(apperr.NotFound, "Payment not found")
		}
		return apperr.Wrap(apperr.Persistence, "Could not load payment", err)
	}
	if payment.CoupleID != coupleID {
		return apperr.New(apperr.Forbidden, "Not authorized")
	}
	if payment.Status != models.PaymentStatusEscrowed {
		return apperr.New(apperr.InvalidState, "Only escrowed payments can be updated")
	}

	now := time.Now()
	patch := map[string]interface{}{"status": outcome}
	if outcome == models.PaymentStatusReleased {
		patch["released_at"] = now
	} else {
		patch["refunded_at"] = now
	}

	res := s.db.Model(&models.Payment{}).
		Where("id = ? AND status = ?", paymentID, models.PaymentStatusEscrowed).
		Updates(patch)
	if res.Error != nil {
		return apperr.Wrap(apperr.Persistence, "Could not update payment", res.Error)
	}
	if res.RowsAffected == 0 {
		return apperr.New(apperr.InvalidState, "Only escrowed payments can be updated")
	}
	return nil
}
