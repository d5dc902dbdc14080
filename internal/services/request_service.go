package services

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/wedflexhq/wedflex-backend/internal/apperr"
	"github.com/wedflexhq/wedflex-backend/internal/dto"
	"github.com/wedflexhq/wedflex-backend/internal/models"
	"gorm.io/gorm"
)

type RequestService struct {
	db *gorm.DB
}

func NewRequestService(db *gorm.DB) *RequestService {
	return &RequestService{db: db}
}

// Create posts a new service request. OfferCents, when present, is floored
// to a non-negative whole number of cents; nil means open to bids.
func (s *RequestService) Create(coupleID uuid.UUID, req *dto.CreateRequestRequest) (*models.ServiceRequest, error) {
	title := strings.TrimSpace(req.Title)
	category := strings.TrimSpace(req.Category)
	location := strings.TrimSpace(req.Location)
	if title == "" || category == "" || location == "" {
		return nil, apperr.New(apperr.InvalidInput, "Missing fields")
	}

	var offerCents *int64
	if req.OfferCents != nil {
		cents := *req.OfferCents
		if cents < 0 {
			cents = 0
		}
		offerCents = &cents
	}

	request := models.ServiceRequest{
		ID:          uuid.New(),
		CoupleID:    coupleID,
		Title:       title,
		Category:    category,
		Location:    location,
		ServiceDate: req.ServiceDate,
		OfferCents:  offerCents,
		Status:      models.RequestStatusOpen,
	}

	if err := s.db.Create(&request).Error; err != nil {
		return nil, apperr.Wrap(apperr.Persistence, "Could not create request", err)
	}
	return &request, nil
}

// OpenFeed lists open requests for the provider-facing feed, newest first.
func (s *RequestService) OpenFeed(limit int) ([]models.ServiceRequest, error) {
	if limit < 1 || limit > 50 {
		limit = 50
	}
	var requests []models.ServiceRequest
	err := s.db.Where("status = ?", models.RequestStatusOpen).
		Order("created_at DESC").
		Limit(limit).
		Find(&requests).Error
	if err != nil {
		return nil, apperr.Wrap(apperr.Persistence, "Could not load open requests", err)
	}
	return requests, nil
}

func (s *RequestService) ListMine(coupleID uuid.UUID) ([]models.ServiceRequest, error) {
	var requests []models.ServiceRequest
	err := s.db.Where("couple_id = ?", coupleID).
		Order("created_at DESC").
		Find(&requests).Error
	if err != nil {
		return nil, apperr.Wrap(apperr.Persistence, "Could not load requests", err)
	}
	return requests, nil
}

// Detail returns a request, plus its applications when the caller owns it.
// Non-owners see the posting only.
func (s *RequestService) Detail(callerID, requestID uuid.UUID) (*models.ServiceRequest, []models.Application, error) {
	var request models.ServiceRequest
	if err := s.db.First(&request, "id = ?", requestID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, apperr.New(apperr.NotFound, "Request not found")
		}
		return nil, nil, apperr.Wrap(apperr.Persistence, "Could not load request", err)
	}

	var applications []models.Application
	if callerID == request.CoupleID {
		err := s.db.Where("request_id = ?", requestID).
			Order("created_at DESC").
			Find(&applications).Error
		if err != nil {
			return nil, nil, apperr.Wrap(apperr.Persistence, "Could not load applications", err)
		}
	}
	return &request, applications, nil
}

// Cancel moves an open request to cancelled. Only the owner may cancel,
// and only while no award has happened.
func (s *RequestService) Cancel(coupleID, requestID uuid.UUID) error {
	var request models.ServiceRequest
	if err := s.db.First(&request, "id = ?", requestID).Error; err != nil {
		return apperr.New(apperr.NotFound, "Request not found")
	}
	if request.CoupleID != coupleID {
		return apperr.New(apperr.Forbidden, "Not authorized")
	}

	res := s.db.Model(&models.ServiceRequest{}).
		Where("id = ? AND status = ?", requestID, models.RequestStatusOpen).
		Updates(map[string]interface{}{"status": models.RequestStatusCancelled, "updated_at": time.Now()})
	if res.Error != nil {
		return apperr.Wrap(apperr.Persistence, "Could not cancel request", res.Error)
	}
	if res.RowsAffected == 0 {
		return apperr.New(apperr.InvalidState, "Only open requests can be cancelled")
	}
	return nil
}
