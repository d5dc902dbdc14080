package services

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/wedflexhq/wedflex-backend/internal/apperr"
	"github.com/wedflexhq/wedflex-backend/internal/dto"
	"github.com/wedflexhq/wedflex-backend/internal/files"
	"github.com/wedflexhq/wedflex-backend/internal/models"
	"gorm.io/gorm"
)

func newApplicationService(db *gorm.DB) *ApplicationService {
	return NewApplicationService(db, files.NewSigner("test-signing-secret", "https://files.test", 10*time.Minute))
}

func strPtr(s string) *string { return &s }

func TestSubmitAcceptOffer(t *testing.T) {
	db := newTestDB(t)
	svc := newApplicationService(db)

	couple := createUser(t, db, models.RoleCouple)
	provider := createUser(t, db, models.RoleWedflexer)
	request := createOpenRequest(t, db, couple.ID, int64Ptr(50000))

	app, err := svc.Submit(provider.ID, &dto.SubmitApplicationRequest{
		RequestID:   request.ID,
		Message:     "I'd love to shoot your wedding",
		AcceptOffer: true,
	})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if app.BidCents == nil || *app.BidCents != 50000 {
		t.Fatalf("bid = %v, want 50000", app.BidCents)
	}
	if app.Status != models.ApplicationStatusPending {
		t.Fatalf("status = %q, want pending", app.Status)
	}
}

func TestSubmitAcceptOfferWithoutPostedOffer(t *testing.T) {
	db := newTestDB(t)
	svc := newApplicationService(db)

	couple := createUser(t, db, models.RoleCouple)
	provider := createUser(t, db, models.RoleWedflexer)
	request := createOpenRequest(t, db, couple.ID, nil)

	_, err := svc.Submit(provider.ID, &dto.SubmitApplicationRequest{
		RequestID:   request.ID,
		Message:     "count me in",
		AcceptOffer: true,
	})
	if apperr.KindOf(err) != apperr.InvalidInput {
		t.Fatalf("err = %v, want InvalidInput", err)
	}
}

func TestSubmitCounterOfferParsing(t *testing.T) {
	db := newTestDB(t)
	svc := newApplicationService(db)

	couple := createUser(t, db, models.RoleCouple)
	request := createOpenRequest(t, db, couple.ID, nil)

	cases := []struct {
		raw     string
		want    int64
		wantErr bool
	}{
		{raw: "125.50", want: 12550},
		{raw: "125.509", want: 12550},
		{raw: "0", want: 0},
		{raw: "1000", want: 100000},
		{raw: "-5", wantErr: true},
		{raw: "abc", wantErr: true},
	}

	for _, tc := range cases {
		provider := createUser(t, db, models.RoleWedflexer)
		app, err := svc.Submit(provider.ID, &dto.SubmitApplicationRequest{
			RequestID:    request.ID,
			Message:      "offer",
			CounterOffer: strPtr(tc.raw),
		})
		if tc.wantErr {
			if apperr.KindOf(err) != apperr.InvalidInput {
				t.Errorf("%q: err = %v, want InvalidInput", tc.raw, err)
			}
			continue
		}
		if err != nil {
			t.Errorf("%q: %v", tc.raw, err)
			continue
		}
		if app.BidCents == nil || *app.BidCents != tc.want {
			t.Errorf("%q: bid = %v, want %d", tc.raw, app.BidCents, tc.want)
		}
	}
}

func TestSubmitMessageOnly(t *testing.T) {
	db := newTestDB(t)
	svc := newApplicationService(db)

	couple := createUser(t, db, models.RoleCouple)
	provider := createUser(t, db, models.RoleWedflexer)
	request := createOpenRequest(t, db, couple.ID, int64Ptr(20000))

	app, err := svc.Submit(provider.ID, &dto.SubmitApplicationRequest{
		RequestID: request.ID,
		Message:   "happy to discuss pricing",
	})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if app.BidCents != nil {
		t.Fatalf("bid = %v, want nil", app.BidCents)
	}
}

func TestSubmitRequiresOpenRequest(t *testing.T) {
	db := newTestDB(t)
	svc := newApplicationService(db)

	couple := createUser(t, db, models.RoleCouple)
	provider := createUser(t, db, models.RoleWedflexer)
	request := createOpenRequest(t, db, couple.ID, nil)
	db.Model(request).Update("status", models.RequestStatusCancelled)

	_, err := svc.Submit(provider.ID, &dto.SubmitApplicationRequest{
		RequestID: request.ID,
		Message:   "too late",
	})
	if apperr.KindOf(err) != apperr.InvalidState {
		t.Fatalf("err = %v, want InvalidState", err)
	}
}

func TestAward(t *testing.T) {
	db := newTestDB(t)
	svc := newApplicationService(db)

	couple := createUser(t, db, models.RoleCouple)
	request := createOpenRequest(t, db, couple.ID, int64Ptr(30000))

	winnerUser := createUser(t, db, models.RoleWedflexer)
	loserUser := createUser(t, db, models.RoleWedflexer)

	winner, err := svc.Submit(winnerUser.ID, &dto.SubmitApplicationRequest{
		RequestID: request.ID, Message: "pick me", AcceptOffer: true,
	})
	if err != nil {
		t.Fatalf("submit winner: %v", err)
	}
	loser, err := svc.Submit(loserUser.ID, &dto.SubmitApplicationRequest{
		RequestID: request.ID, Message: "no, me", AcceptOffer: true,
	})
	if err != nil {
		t.Fatalf("submit loser: %v", err)
	}

	if err := svc.Award(couple.ID, request.ID, winner.ID); err != nil {
		t.Fatalf("award: %v", err)
	}

	var got models.ServiceRequest
	if err := db.First(&got, "id = ?", request.ID).Error; err != nil {
		t.Fatal(err)
	}
	if got.Status != models.RequestStatusAwarded {
		t.Fatalf("request status = %q, want awarded", got.Status)
	}
	if got.AwardedApplicationID == nil || *got.AwardedApplicationID != winner.ID {
		t.Fatalf("awarded_application_id = %v, want %v", got.AwardedApplicationID, winner.ID)
	}
	if got.AwardedWedflexerID == nil || *got.AwardedWedflexerID != winnerUser.ID {
		t.Fatalf("awarded_wedflexer_id = %v, want %v", got.AwardedWedflexerID, winnerUser.ID)
	}
	if got.AwardedAt == nil {
		t.Fatal("awarded_at not stamped")
	}

	var gotWinner, gotLoser models.Application
	db.First(&gotWinner, "id = ?", winner.ID)
	db.First(&gotLoser, "id = ?", loser.ID)
	if gotWinner.Status != models.ApplicationStatusAccepted {
		t.Fatalf("winner status = %q, want accepted", gotWinner.Status)
	}
	if gotLoser.Status != models.ApplicationStatusRejected {
		t.Fatalf("loser status = %q, want rejected", gotLoser.Status)
	}

	// A second award must fail: the request is no longer open.
	if err := svc.Award(couple.ID, request.ID, loser.ID); apperr.KindOf(err) != apperr.InvalidState {
		t.Fatalf("second award err = %v, want InvalidState", err)
	}
}

func TestAwardRejectsWithdrawnSiblings(t *testing.T) {
	db := newTestDB(t)
	svc := newApplicationService(db)

	couple := createUser(t, db, models.RoleCouple)
	request := createOpenRequest(t, db, couple.ID, int64Ptr(20000))

	winnerUser := createUser(t, db, models.RoleWedflexer)
	withdrawnUser := createUser(t, db, models.RoleWedflexer)

	withdrawn, err := svc.Submit(withdrawnUser.ID, &dto.SubmitApplicationRequest{
		RequestID: request.ID, Message: "maybe", AcceptOffer: true,
	})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if err := svc.UpdateStatus(withdrawnUser.ID, withdrawn.ID, models.ApplicationStatusWithdrawn); err != nil {
		t.Fatalf("withdraw: %v", err)
	}

	winner, err := svc.Submit(winnerUser.ID, &dto.SubmitApplicationRequest{
		RequestID: request.ID, Message: "pick me", AcceptOffer: true,
	})
	if err != nil {
		t.Fatalf("submit winner: %v", err)
	}

	if err := svc.Award(couple.ID, request.ID, winner.ID); err != nil {
		t.Fatalf("award: %v", err)
	}

	// Award settles every sibling, not just the pending ones.
	var got models.Application
	db.First(&got, "id = ?", withdrawn.ID)
	if got.Status != models.ApplicationStatusRejected {
		t.Fatalf("withdrawn sibling status = %q, want rejected", got.Status)
	}
}

func TestAwardOnlyOwner(t *testing.T) {
	db := newTestDB(t)
	svc := newApplicationService(db)

	couple := createUser(t, db, models.RoleCouple)
	stranger := createUser(t, db, models.RoleCouple)
	provider := createUser(t, db, models.RoleWedflexer)
	request := createOpenRequest(t, db, couple.ID, int64Ptr(30000))

	app, _ := svc.Submit(provider.ID, &dto.SubmitApplicationRequest{
		RequestID: request.ID, Message: "hi", AcceptOffer: true,
	})

	if err := svc.Award(stranger.ID, request.ID, app.ID); apperr.KindOf(err) != apperr.Forbidden {
		t.Fatalf("err = %v, want Forbidden", err)
	}
}

func TestUpdateStatusWithdrawAndReopen(t *testing.T) {
	db := newTestDB(t)
	svc := newApplicationService(db)

	couple := createUser(t, db, models.RoleCouple)
	provider := createUser(t, db, models.RoleWedflexer)
	request := createOpenRequest(t, db, couple.ID, int64Ptr(10000))

	app, _ := svc.Submit(provider.ID, &dto.SubmitApplicationRequest{
		RequestID: request.ID, Message: "hi", AcceptOffer: true,
	})

	// Couple cannot withdraw someone else's application.
	if err := svc.UpdateStatus(couple.ID, app.ID, models.ApplicationStatusWithdrawn); apperr.KindOf(err) != apperr.Forbidden {
		t.Fatalf("couple withdraw err = %v, want Forbidden", err)
	}

	if err := svc.UpdateStatus(provider.ID, app.ID, models.ApplicationStatusWithdrawn); err != nil {
		t.Fatalf("withdraw: %v", err)
	}
	if err := svc.UpdateStatus(provider.ID, app.ID, models.ApplicationStatusPending); err != nil {
		t.Fatalf("reopen: %v", err)
	}

	// Direct acceptance is never allowed through this path.
	if err := svc.UpdateStatus(couple.ID, app.ID, models.ApplicationStatusAccepted); apperr.KindOf(err) != apperr.InvalidInput {
		t.Fatalf("accept err = %v, want InvalidInput", err)
	}

	if err := svc.UpdateStatus(couple.ID, app.ID, models.ApplicationStatusRejected); err != nil {
		t.Fatalf("reject: %v", err)
	}
	// Rejected is terminal for the provider's withdraw path.
	if err := svc.UpdateStatus(provider.ID, app.ID, models.ApplicationStatusWithdrawn); apperr.KindOf(err) != apperr.InvalidState {
		t.Fatalf("withdraw after reject err = %v, want InvalidState", err)
	}
}

func TestSignFileAuthz(t *testing.T) {
	db := newTestDB(t)
	svc := newApplicationService(db)

	couple := createUser(t, db, models.RoleCouple)
	provider := createUser(t, db, models.RoleWedflexer)
	stranger := createUser(t, db, models.RoleWedflexer)
	request := createOpenRequest(t, db, couple.ID, int64Ptr(10000))

	app, _ := svc.Submit(provider.ID, &dto.SubmitApplicationRequest{
		RequestID: request.ID, Message: "portfolio attached",
		FileURLs: []string{"portfolios/p1.pdf"},
	})

	for _, caller := range []uuid.UUID{provider.ID, couple.ID} {
		url, err := svc.SignFile(caller, app.ID, "portfolios/p1.pdf")
		if err != nil {
			t.Fatalf("sign for %v: %v", caller, err)
		}
		if url == "" {
			t.Fatal("empty signed url")
		}
	}

	_, err := svc.SignFile(stranger.ID, app.ID, "portfolios/p1.pdf")
	if apperr.KindOf(err) != apperr.Forbidden {
		t.Fatalf("stranger err = %v, want Forbidden", err)
	}

	var notFoundErr *apperr.Error
	_, err = svc.SignFile(provider.ID, uuid.New(), "x.pdf")
	if !errors.As(err, &notFoundErr) || notFoundErr.Kind != apperr.NotFound {
		t.Fatalf("missing app err = %v, want NotFound", err)
	}
}
