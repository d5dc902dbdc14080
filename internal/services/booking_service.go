package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/wedflexhq/wedflex-backend/internal/apperr"
	"github.com/wedflexhq/wedflex-backend/internal/config"
	"github.com/wedflexhq/wedflex-backend/internal/models"
	"github.com/wedflexhq/wedflex-backend/internal/payments"
	"gorm.io/gorm"
)

type BookingService struct {
	db        *gorm.DB
	cfg       *config.Config
	processor payments.Processor
}

func NewBookingService(db *gorm.DB, cfg *config.Config, processor payments.Processor) *BookingService {
	return &BookingService{db: db, cfg: cfg, processor: processor}
}

// StartCheckout turns the awarded application into a booking plus a hosted
// checkout session and returns the session URL.
//
// Award is a mandatory gate: the request must be awarded, and the
// application must be the accepted winner. The checkout session is created
// before any row is written, so a processor failure leaves no
// pending_payment orphan; the booking id goes into the session metadata up
// front and all writes land in one transaction afterwards.
func (s *BookingService) StartCheckout(ctx context.Context, coupleID, applicationID uuid.UUID) (string, error) {
	if applicationID == uuid.Nil {
		return "", apperr.New(apperr.InvalidInput, "Missing or invalid application_id")
	}

	var app models.Application
	if err := s.db.First(&app, "id = ?", applicationID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", apperr.New(apperr.NotFound, "Application not found")
		}
		return "", apperr.Wrap(apperr.Persistence, "Could not load application", err)
	}

	var request models.ServiceRequest
	if err := s.db.First(&request, "id = ?", app.RequestID).Error; err != nil {
		return "", apperr.Wrap(apperr.Persistence, "Related service request not found", err)
	}

	if request.CoupleID != coupleID {
		return "", apperr.New(apperr.Forbidden, "Not authorized")
	}
	if request.Status != models.RequestStatusAwarded {
		return "", apperr.New(apperr.InvalidState, "Request must be awarded before booking")
	}
	if request.AwardedApplicationID == nil || *request.AwardedApplicationID != app.ID {
		return "", apperr.New(apperr.InvalidState, "Only the awarded application can be booked")
	}
	if app.Status != models.ApplicationStatusAccepted {
		return "", apperr.New(apperr.InvalidState, "Application is not accepted")
	}

	if app.BidCents == nil || *app.BidCents <= 0 {
		return "", apperr.New(apperr.InvalidInput, "Application has no valid bid amount")
	}
	amountCents := *app.BidCents
	feeCents := amountCents * s.cfg.PlatformFeeBPS / 10000

	bookingID := uuid.New()

	description := request.Location
	if request.ServiceDate != nil {
		description = fmt.Sprintf("%s • Service date %s", request.Location, request.ServiceDate.Format("2006-01-02"))
	}

	session, err := s.processor.CreateCheckoutSession(ctx, payments.CheckoutSessionParams{
		AmountCents: amountCents,
		Currency:    "usd",
		Title:       "Booking: " + request.Title,
		Description: description,
		SuccessURL:  s.cfg.AppOrigin + "/booked/success?booking=" + bookingID.String(),
		CancelURL:   s.cfg.AppOrigin + "/r/" + request.ID.String(),
		Metadata: map[string]string{
			"booking_id":   bookingID.String(),
			"wedflexer_id": app.WedflexerID.String(),
			"fee_cents":    fmt.Sprintf("%d", feeCents),
		},
	})
	if err != nil {
		return "", apperr.Wrap(apperr.Upstream, "Payment provider rejected the checkout", err)
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		booking := models.Booking{
			ID:            bookingID,
			RequestID:     request.ID,
			ApplicationID: app.ID,
			CoupleID:      request.CoupleID,
			WedflexerID:   app.WedflexerID,
			ServiceDate:   request.ServiceDate,
			Status:        models.BookingStatusPendingPayment,
		}
		if err := tx.Create(&booking).Error; err != nil {
			return apperr.Wrap(apperr.Persistence, "Could not create booking", err)
		}

		res := tx.Model(&models.ServiceRequest{}).
			Where("id = ? AND status = ?", request.ID, models.RequestStatusAwarded).
			Update("status", models.RequestStatusClosed)
		if res.Error != nil {
			return apperr.Wrap(apperr.Persistence, "Could not close request", res.Error)
		}
		if res.RowsAffected == 0 {
			return apperr.New(apperr.InvalidState, "Request was booked concurrently")
		}

		if err := tx.Model(&models.Application{}).
			Where("id = ?", app.ID).
			Update("is_awarded", true).Error; err != nil {
			return apperr.Wrap(apperr.Persistence, "Could not mark application awarded", err)
		}

		payment := models.Payment{
			ID:                      uuid.New(),
			BookingID:               &booking.ID,
			RequestID:               &request.ID,
			CoupleID:                request.CoupleID,
			WedflexerID:             app.WedflexerID,
			AmountCents:             amountCents,
			Status:                  models.PaymentStatusPending,
			StripeCheckoutSessionID: session.ID,
		}
		if err := tx.Create(&payment).Error; err != nil {
			return apperr.Wrap(apperr.Persistence, "Could not record payment", err)
		}
		return nil
	})
	if err != nil {
		return "", err
	}

	return session.URL, nil
}
