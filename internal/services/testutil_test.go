package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/wedflexhq/wedflex-backend/internal/config"
	"github.com/wedflexhq/wedflex-backend/internal/models"
	"github.com/wedflexhq/wedflex-backend/internal/payments"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	err = db.AutoMigrate(
		&models.User{},
		&models.RefreshToken{},
		&models.ServiceRequest{},
		&models.Application{},
		&models.Booking{},
		&models.Payment{},
		&models.Payout{},
		&models.MessageThread{},
		&models.Message{},
		&models.SystemLog{},
	)
	if err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func testConfig() *config.Config {
	return &config.Config{
		JWTSecret:        "test-secret",
		JWTAccessExpiry:  15 * time.Minute,
		JWTRefreshExpiry: 168 * time.Hour,
		PlatformFeeBPS:   800,
		AppOrigin:        "https://wedflex.test",
	}
}

func createUser(t *testing.T, db *gorm.DB, role string) *models.User {
	t.Helper()
	user := &models.User{
		ID:         uuid.New(),
		Email:      uuid.NewString() + "@example.com",
		Password:   "x",
		ActiveRole: role,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}
	return user
}

func createOpenRequest(t *testing.T, db *gorm.DB, coupleID uuid.UUID, offerCents *int64) *models.ServiceRequest {
	t.Helper()
	req := &models.ServiceRequest{
		ID:         uuid.New(),
		CoupleID:   coupleID,
		Title:      "Wedding photographer",
		Category:   "photo",
		Location:   "Austin, TX",
		OfferCents: offerCents,
		Status:     models.RequestStatusOpen,
	}
	if err := db.Create(req).Error; err != nil {
		t.Fatalf("create request: %v", err)
	}
	return req
}

func int64Ptr(v int64) *int64 { return &v }

// fakeProcessor records calls and can be told to fail transfers, so the
// payout and booking paths can be tested without the real processor.
type fakeProcessor struct {
	sessions      int
	lastMetadata  map[string]string
	transfers     []string
	failTransfers bool
	failCheckout  bool
}

func (f *fakeProcessor) CreateCheckoutSession(_ context.Context, p payments.CheckoutSessionParams) (*payments.CheckoutSession, error) {
	if f.failCheckout {
		return nil, errors.New("processor unavailable")
	}
	f.sessions++
	f.lastMetadata = p.Metadata
	return &payments.CheckoutSession{
		ID:  "cs_test_" + p.Metadata["booking_id"],
		URL: "https://checkout.test/session/" + p.Metadata["booking_id"],
	}, nil
}

func (f *fakeProcessor) CreateExpressAccount(_ context.Context, _ string) (string, error) {
	return "acct_test_" + uuid.NewString()[:8], nil
}

func (f *fakeProcessor) CreateOnboardingLink(_ context.Context, accountID, _, _ string) (string, error) {
	return "https://connect.test/onboard/" + accountID, nil
}

func (f *fakeProcessor) CreateLoginLink(_ context.Context, accountID string) (string, error) {
	return "https://connect.test/login/" + accountID, nil
}

func (f *fakeProcessor) CreateTransfer(_ context.Context, _ int64, destination string) (string, error) {
	if f.failTransfers {
		return "", errors.New("transfer rejected")
	}
	f.transfers = append(f.transfers, destination)
	return "tr_test_" + uuid.NewString()[:8], nil
}
