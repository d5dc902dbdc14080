package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/wedflexhq/wedflex-backend/internal/apperr"
	"github.com/wedflexhq/wedflex-backend/internal/models"
	"github.com/wedflexhq/wedflex-backend/internal/payments"
	"gorm.io/gorm"
)

// checkoutFixture runs a full checkout so webhook tests have a pending
// payment and booking to act on.
func runCheckout(t *testing.T, db *gorm.DB) (awardedFixture, *models.Booking) {
	t.Helper()

	fx := setupAwarded(t, db, 50000)
	svc := NewBookingService(db, testConfig(), &fakeProcessor{})
	if _, err := svc.StartCheckout(context.Background(), fx.couple.ID, fx.app.ID); err != nil {
		t.Fatalf("checkout: %v", err)
	}

	var booking models.Booking
	if err := db.First(&booking, "application_id = ?", fx.app.ID).Error; err != nil {
		t.Fatalf("booking: %v", err)
	}
	return fx, &booking
}

func TestHandleCheckoutCompleted(t *testing.T) {
	db := newTestDB(t)
	svc := NewPaymentService(db)

	fx, booking := runCheckout(t, db)

	evt := &payments.CheckoutCompletedEvent{
		SessionID:       "cs_test",
		BookingID:       booking.ID,
		WedflexerID:     fx.provider.ID,
		FeeCents:        4000,
		PaymentIntentID: "pi_test",
	}
	if err := svc.HandleCheckoutCompleted(evt); err != nil {
		t.Fatalf("handle: %v", err)
	}

	var payment models.Payment
	db.First(&payment, "booking_id = ?", booking.ID)
	if payment.Status != models.PaymentStatusSucceeded {
		t.Fatalf("payment status = %q, want succeeded", payment.Status)
	}
	if payment.StripePaymentIntentID != "pi_test" {
		t.Fatalf("intent = %q", payment.StripePaymentIntentID)
	}

	var payout models.Payout
	if err := db.First(&payout, "payment_id = ?", payment.ID).Error; err != nil {
		t.Fatalf("payout not queued: %v", err)
	}
	if payout.AmountCents != 46000 {
		t.Fatalf("payout amount = %d, want 46000", payout.AmountCents)
	}
	if payout.FeeCents != 4000 {
		t.Fatalf("payout fee = %d, want 4000", payout.FeeCents)
	}
	if payout.Status != models.PayoutStatusQueued {
		t.Fatalf("payout status = %q, want queued", payout.Status)
	}
	if payout.WedflexerID != fx.provider.ID {
		t.Fatalf("payout wedflexer = %v, want %v", payout.WedflexerID, fx.provider.ID)
	}

	var got models.Booking
	db.First(&got, "id = ?", booking.ID)
	if got.Status != models.BookingStatusPaid {
		t.Fatalf("booking status = %q, want paid", got.Status)
	}
}

func TestHandleCheckoutCompletedReplay(t *testing.T) {
	db := newTestDB(t)
	svc := NewPaymentService(db)

	fx, booking := runCheckout(t, db)

	evt := &payments.CheckoutCompletedEvent{
		BookingID:       booking.ID,
		WedflexerID:     fx.provider.ID,
		FeeCents:        4000,
		PaymentIntentID: "pi_test",
	}
	if err := svc.HandleCheckoutCompleted(evt); err != nil {
		t.Fatalf("first delivery: %v", err)
	}
	if err := svc.HandleCheckoutCompleted(evt); err != nil {
		t.Fatalf("replay: %v", err)
	}

	var count int64
	db.Model(&models.Payout{}).Count(&count)
	if count != 1 {
		t.Fatalf("payouts = %d, want 1 after replay", count)
	}
}

func TestCreateEscrow(t *testing.T) {
	db := newTestDB(t)
	svc := NewPaymentService(db)

	fx := setupAwarded(t, db, 30000)

	payment, err := svc.CreateEscrow(fx.couple.ID, fx.request.ID, 30000)
	if err != nil {
		t.Fatalf("escrow: %v", err)
	}
	if payment.Status != models.PaymentStatusEscrowed {
		t.Fatalf("status = %q, want escrowed", payment.Status)
	}
	if payment.WedflexerID != fx.provider.ID {
		t.Fatalf("wedflexer = %v, want %v", payment.WedflexerID, fx.provider.ID)
	}

	// One escrow per request.
	if _, err := svc.CreateEscrow(fx.couple.ID, fx.request.ID, 30000); apperr.KindOf(err) != apperr.InvalidState {
		t.Fatalf("second escrow err = %v, want InvalidState", err)
	}
}

func TestCreateEscrowGuards(t *testing.T) {
	db := newTestDB(t)
	svc := NewPaymentService(db)

	couple := createUser(t, db, models.RoleCouple)
	stranger := createUser(t, db, models.RoleCouple)
	request := createOpenRequest(t, db, couple.ID, int64Ptr(10000))

	// Not awarded yet.
	if _, err := svc.CreateEscrow(couple.ID, request.ID, 10000); apperr.KindOf(err) != apperr.InvalidState {
		t.Fatalf("open request err = %v, want InvalidState", err)
	}

	fx := setupAwarded(t, db, 10000)

	if _, err := svc.CreateEscrow(stranger.ID, fx.request.ID, 10000); apperr.KindOf(err) != apperr.Forbidden {
		t.Fatalf("stranger err = %v, want Forbidden", err)
	}
	if _, err := svc.CreateEscrow(fx.couple.ID, fx.request.ID, 0); apperr.KindOf(err) != apperr.InvalidInput {
		t.Fatalf("zero amount err = %v, want InvalidInput", err)
	}
	if _, err := svc.CreateEscrow(fx.couple.ID, uuid.New(), 10000); apperr.KindOf(err) != apperr.NotFound {
		t.Fatalf("unknown request err = %v, want NotFound", err)
	}
}

func TestCreateEscrowExcludedByCheckout(t *testing.T) {
	db := newTestDB(t)
	svc := NewPaymentService(db)

	fx, _ := runCheckout(t, db)

	_, err := svc.CreateEscrow(fx.couple.ID, fx.request.ID, 30000)
	if apperr.KindOf(err) != apperr.InvalidState {
		t.Fatalf("err = %v, want InvalidState", err)
	}
}

func TestResolveEscrow(t *testing.T) {
	db := newTestDB(t)
	svc := NewPaymentService(db)

	fx := setupAwarded(t, db, 30000)
	payment, err := svc.CreateEscrow(fx.couple.ID, fx.request.ID, 30000)
	if err != nil {
		t.Fatalf("escrow: %v", err)
	}

	stranger := createUser(t, db, models.RoleCouple)
	if err := svc.ResolveEscrow(stranger.ID, payment.ID, models.PaymentStatusReleased); apperr.KindOf(err) != apperr.Forbidden {
		t.Fatalf("stranger err = %v, want Forbidden", err)
	}
	if err := svc.ResolveEscrow(fx.couple.ID, payment.ID, "pending"); apperr.KindOf(err) != apperr.InvalidInput {
		t.Fatalf("bad outcome err = %v, want InvalidInput", err)
	}

	if err := svc.ResolveEscrow(fx.couple.ID, payment.ID, models.PaymentStatusReleased); err != nil {
		t.Fatalf("release: %v", err)
	}

	var got models.Payment
	db.First(&got, "id = ?", payment.ID)
	if got.Status != models.PaymentStatusReleased {
		t.Fatalf("status = %q, want released", got.Status)
	}
	if got.ReleasedAt == nil {
		t.Fatal("released_at not stamped")
	}
	if got.RefundedAt != nil {
		t.Fatal("refunded_at should be nil")
	}

	// Resolution is terminal.
	if err := svc.ResolveEscrow(fx.couple.ID, payment.ID, models.PaymentStatusRefunded); apperr.KindOf(err) != apperr.InvalidState {
		t.Fatalf("double resolve err = %v, want InvalidState", err)
	}
}

func TestResolveEscrowRefund(t *testing.T) {
	db := newTestDB(t)
	svc := NewPaymentService(db)

	fx := setupAwarded(t, db, 30000)
	payment, err := svc.CreateEscrow(fx.couple.ID, fx.request.ID, 30000)
	if err != nil {
		t.Fatalf("escrow: %v", err)
	}

	if err := svc.ResolveEscrow(fx.couple.ID, payment.ID, models.PaymentStatusRefunded); err != nil {
		t.Fatalf("refund: %v", err)
	}

	var got models.Payment
	db.First(&got, "id = ?", payment.ID)
	if got.Status != models.PaymentStatusRefunded || got.RefundedAt == nil {
		t.Fatalf("status = %q refunded_at = %v", got.Status, got.RefundedAt)
	}
}
