package services

import (
	"encoding/json"
	"errors"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/wedflexhq/wedflex-backend/internal/apperr"
	"github.com/wedflexhq/wedflex-backend/internal/dto"
	"github.com/wedflexhq/wedflex-backend/internal/files"
	"github.com/wedflexhq/wedflex-backend/internal/models"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type ApplicationService struct {
	db     *gorm.DB
	signer *files.Signer
}

func NewApplicationService(db *gorm.DB, signer *files.Signer) *ApplicationService {
	return &ApplicationService{db: db, signer: signer}
}

// Submit records a wedflexer's bid against an open request. The bid amount
// resolves in order: accept the posted offer, else parse the counter-offer
// dollars, else a message-only application with no amount.
func (s *ApplicationService) Submit(wedflexerID uuid.UUID, req *dto.SubmitApplicationRequest) (*models.Application, error) {
	if req.RequestID == uuid.Nil {
		return nil, apperr.New(apperr.InvalidInput, "Missing request_id")
	}
	message := strings.TrimSpace(req.Message)
	if message == "" {
		return nil, apperr.New(apperr.InvalidInput, "Please add a message")
	}

	var request models.ServiceRequest
	if err := s.db.First(&request, "id = ?", req.RequestID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.New(apperr.NotFound, "Request not found")
		}
		return nil, apperr.Wrap(apperr.Persistence, "Could not load request", err)
	}
	if request.Status != models.RequestStatusOpen {
		return nil, apperr.New(apperr.InvalidState, "This offer is not open")
	}

	var bidCents *int64
	if req.AcceptOffer {
		if request.OfferCents == nil {
			return nil, apperr.New(apperr.InvalidInput,
				"Couple did not post an offer amount. Please submit a counter-offer.")
		}
		cents := *request.OfferCents
		if cents < 0 {
			cents = 0
		}
		bidCents = &cents
	} else if req.CounterOffer != nil && strings.TrimSpace(*req.CounterOffer) != "" {
		cents, err := parseDollarsToCents(*req.CounterOffer)
		if err != nil {
			return nil, err
		}
		bidCents = &cents
	}

	app := models.Application{
		ID:          uuid.New(),
		RequestID:   req.RequestID,
		WedflexerID: wedflexerID,
		Message:     message,
		BidCents:    bidCents,
		Status:      models.ApplicationStatusPending,
	}
	if len(req.FileURLs) > 0 {
		if b, err := json.Marshal(req.FileURLs); err == nil {
			app.FileURLs = datatypes.JSON(b)
		}
	}

	if err := s.db.Create(&app).Error; err != nil {
		return nil, apperr.Wrap(apperr.Persistence, "Could not create application", err)
	}
	return &app, nil
}

func (s *ApplicationService) ListMine(wedflexerID uuid.UUID) ([]models.Application, error) {
	var apps []models.Application
	err := s.db.Where("wedflexer_id = ?", wedflexerID).
		Order("created_at DESC").
		Find(&apps).Error
	if err != nil {
		return nil, apperr.Wrap(apperr.Persistence, "Could not load applications", err)
	}
	return apps, nil
}

// UpdateStatus covers the two self-service transitions: the owning
// wedflexer may withdraw a pending application (and take a withdrawal
// back), and the request's couple may reject a pending one. Acceptance
// only ever happens through Award.
func (s *ApplicationService) UpdateStatus(callerID, applicationID uuid.UUID, newStatus string) error {
	newStatus = strings.ToLower(strings.TrimSpace(newStatus))
	switch newStatus {
	case models.ApplicationStatusPending, models.ApplicationStatusRejected, models.ApplicationStatusWithdrawn:
	case models.ApplicationStatusAccepted:
		return apperr.New(apperr.InvalidInput, "Applications are accepted by awarding the request")
	default:
		return apperr.New(apperr.InvalidInput, "Invalid status value")
	}

	var app models.Application
	if err := s.db.First(&app, "id = ?", applicationID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.New(apperr.NotFound, "Application not found")
		}
		return apperr.Wrap(apperr.Persistence, "Could not load application", err)
	}

	var request models.ServiceRequest
	if err := s.db.First(&request, "id = ?", app.RequestID).Error; err != nil {
		return apperr.Wrap(apperr.Persistence, "Could not load request", err)
	}

	var expected string
	switch newStatus {
	case models.ApplicationStatusWithdrawn:
		if callerID != app.WedflexerID {
			return apperr.New(apperr.Forbidden, "Only the applicant can withdraw")
		}
		expected = models.ApplicationStatusPending
	case models.ApplicationStatusPending:
		if callerID != app.WedflexerID {
			return apperr.New(apperr.Forbidden, "Only the applicant can reopen a withdrawal")
		}
		expected = models.ApplicationStatusWithdrawn
	case models.ApplicationStatusRejected:
		if callerID != request.CoupleID {
			return apperr.New(apperr.Forbidden, "Only the request owner can reject")
		}
		expected = models.ApplicationStatusPending
	}

	res := s.db.Model(&models.Application{}).
		Where("id = ? AND status = ?", applicationID, expected).
		Update("status", newStatus)
	if res.Error != nil {
		return apperr.Wrap(apperr.Persistence, "Could not update application", res.Error)
	}
	if res.RowsAffected == 0 {
		return apperr.Newf(apperr.InvalidState, "Application must be %s to become %s", expected, newStatus)
	}
	return nil
}

// Award accepts one application and settles the rest as a single unit:
// the winner becomes accepted, every sibling (withdrawn ones included)
// is rejected, and the request moves open -> awarded. The request
// transition is conditional on it still being open so concurrent awards
// fail instead of racing.
func (s *ApplicationService) Award(coupleID, requestID, applicationID uuid.UUID) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
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
		if request.Status != models.RequestStatusOpen {
			return apperr.New(apperr.InvalidState, "Request is not open")
		}

		var app models.Application
		if err := tx.Where("id = ? AND request_id = ?", applicationID, requestID).First(&app).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.New(apperr.NotFound, "Application not found for this request")
			}
			return apperr.Wrap(apperr.Persistence, "Could not load application", err)
		}
		if app.Status != models.ApplicationStatusPending {
			return apperr.New(apperr.InvalidState, "Application is not pending")
		}

		if err := tx.Model(&models.Application{}).
			Where("id = ?", applicationID).
			Update("status", models.ApplicationStatusAccepted).Error; err != nil {
			return apperr.Wrap(apperr.Persistence, "Could not accept application", err)
		}

		if err := tx.Model(&models.Application{}).
			Where("request_id = ? AND id <> ?", requestID, applicationID).
			Update("status", models.ApplicationStatusRejected).Error; err != nil {
			return apperr.Wrap(apperr.Persistence, "Could not reject other applications", err)
		}

		now := time.Now()
		res := tx.Model(&models.ServiceRequest{}).
			Where("id = ? AND status = ?", requestID, models.RequestStatusOpen).
			Updates(map[string]interface{}{
				"status":                 models.RequestStatusAwarded,
				"awarded_application_id": applicationID,
				"awarded_wedflexer_id":   app.WedflexerID,
				"awarded_at":             now,
			})
		if res.Error != nil {
			return apperr.Wrap(apperr.Persistence, "Could not award request", res.Error)
		}
		if res.RowsAffected == 0 {
			return apperr.New(apperr.InvalidState, "Request was awarded concurrently")
		}
		return nil
	})
}

// SignFile issues an expiring download URL for one of the application's
// attachments. Only the applicant and the request's couple may fetch.
func (s *ApplicationService) SignFile(callerID, applicationID uuid.UUID, filePath string) (string, error) {
	filePath = strings.TrimSpace(filePath)
	if filePath == "" {
		return "", apperr.New(apperr.InvalidInput, "Missing file_path")
	}

	var app models.Application
	if err := s.db.First(&app, "id = ?", applicationID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", apperr.New(apperr.NotFound, "Application not found")
		}
		return "", apperr.Wrap(apperr.Persistence, "Could not load application", err)
	}

	if callerID != app.WedflexerID {
		var request models.ServiceRequest
		if err := s.db.First(&request, "id = ?", app.RequestID).Error; err != nil {
			return "", apperr.Wrap(apperr.Persistence, "Could not load request", err)
		}
		if callerID != request.CoupleID {
			return "", apperr.New(apperr.Forbidden, "Not authorized")
		}
	}

	url, err := s.signer.SignedURL(filePath)
	if err != nil {
		return "", apperr.Wrap(apperr.InvalidInput, "Could not sign file URL", err)
	}
	return url, nil
}

// parseDollarsToCents parses a decimal dollar amount and floors it to a
// non-negative whole number of cents.
func parseDollarsToCents(raw string) (int64, error) {
	parsed, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || math.IsNaN(parsed) || math.IsInf(parsed, 0) {
		return 0, apperr.New(apperr.InvalidInput, "Counter-offer must be a non-negative number")
	}
	if parsed < 0 {
		return 0, apperr.New(apperr.InvalidInput, "Counter-offer must be a non-negative number")
	}
	return int64(math.Floor(parsed * 100)), nil
}
