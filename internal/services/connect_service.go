package services

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/wedflexhq/wedflex-backend/internal/apperr"
	"github.com/wedflexhq/wedflex-backend/internal/config"
	"github.com/wedflexhq/wedflex-backend/internal/models"
	"github.com/wedflexhq/wedflex-backend/internal/payments"
	"gorm.io/gorm"
)

// ConnectService manages wedflexer payout onboarding on the payment
// provider's express platform.
type ConnectService struct {
	db        *gorm.DB
	cfg       *config.Config
	processor payments.Processor
}

func NewConnectService(db *gorm.DB, cfg *config.Config, processor payments.Processor) *ConnectService {
	return &ConnectService{db: db, cfg: cfg, processor: processor}
}

// OnboardingLink returns a fresh onboarding URL, creating the express
// account first if the user has none yet. Re-calling after an expired
// link reuses the stored account.
func (s *ConnectService) OnboardingLink(ctx context.Context, userID uuid.UUID) (string, error) {
	var user models.User
	if err := s.db.First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", apperr.New(apperr.NotFound, "User not found")
		}
		return "", apperr.Wrap(apperr.Persistence, "Could not load user", err)
	}

	accountID := ""
	if user.StripeAccountID != nil {
		accountID = *user.StripeAccountID
	}
	if accountID == "" {
		created, err := s.processor.CreateExpressAccount(ctx, user.Email)
		if err != nil {
			return "", apperr.Wrap(apperr.Upstream, "Could not create payout account", err)
		}
		accountID = created
		if err := s.db.Model(&models.User{}).
			Where("id = ?", userID).
			Update("stripe_account_id", accountID).Error; err != nil {
			return "", apperr.Wrap(apperr.Persistence, "Could not save payout account", err)
		}
	}

	link, err := s.processor.CreateOnboardingLink(ctx, accountID,
		s.cfg.AppOrigin+"/dashboard?connect=refresh",
		s.cfg.AppOrigin+"/dashboard?connect=done")
	if err != nil {
		return "", apperr.Wrap(apperr.Upstream, "Could not create onboarding link", err)
	}
	return link, nil
}

// LoginLink returns an express dashboard login URL for a user who has
// already onboarded.
func (s *ConnectService) LoginLink(ctx context.Context, userID uuid.UUID) (string, error) {
	var user models.User
	if err := s.db.First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", apperr.New(apperr.NotFound, "User not found")
		}
		return "", apperr.Wrap(apperr.Persistence, "Could not load user", err)
	}
	if user.StripeAccountID == nil || *user.StripeAccountID == "" {
		return "", apperr.New(apperr.InvalidState, "No payout account yet")
	}

	link, err := s.processor.CreateLoginLink(ctx, *user.StripeAccountID)
	if err != nil {
		return "", apperr.Wrap(apperr.Upstream, "Could not create login link", err)
	}
	return link, nil
}
