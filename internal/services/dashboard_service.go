package services

import (
	"github.com/google/uuid"
	"github.com/wedflexhq/wedflex-backend/internal/apperr"
	"github.com/wedflexhq/wedflex-backend/internal/dto"
	"github.com/wedflexhq/wedflex-backend/internal/models"
	"gorm.io/gorm"
)

type DashboardService struct {
	db *gorm.DB
}

func NewDashboardService(db *gorm.DB) *DashboardService {
	return &DashboardService{db: db}
}

type statusCount struct {
	Status string
	Count  int64
}

type statusSum struct {
	Status string
	Total  int64
}

// CoupleOverview aggregates the couple's side of the marketplace: request
// counts by status, applications received across their requests, escrow
// cent totals by outcome, and the most recent rows of each.
func (s *DashboardService) CoupleOverview(coupleID uuid.UUID) (*dto.CoupleDashboardResponse, error) {
	out := &dto.CoupleDashboardResponse{
		OK:            true,
		RequestCounts: map[string]int64{},
	}

	var counts []statusCount
	err := s.db.Model(&models.ServiceRequest{}).
		Select("status, COUNT(*) AS count").
		Where("couple_id = ?", coupleID).
		Group("status").
		Scan(&counts).Error
	if err != nil {
		return nil, apperr.Wrap(apperr.Persistence, "Could not count requests", err)
	}
	for _, c := range counts {
		out.RequestCounts[c.Status] = c.Count
	}

	err = s.db.Model(&models.Application{}).
		Where("request_id IN (?)", s.db.Model(&models.ServiceRequest{}).
			Select("id").Where("couple_id = ?", coupleID)).
		Count(&out.ApplicationsReceived).Error
	if err != nil {
		return nil, apperr.Wrap(apperr.Persistence, "Could not count applications", err)
	}

	var sums []statusSum
	err = s.db.Model(&models.Payment{}).
		Select("status, COALESCE(SUM(amount_cents), 0) AS total").
		Where("couple_id = ? AND status IN ?", coupleID,
			[]string{models.PaymentStatusEscrowed, models.PaymentStatusReleased, models.PaymentStatusRefunded}).
		Group("status").
		Scan(&sums).Error
	if err != nil {
		return nil, apperr.Wrap(apperr.Persistence, "Could not total escrow payments", err)
	}
	for _, row := range sums {
		switch row.Status {
		case models.PaymentStatusEscrowed:
			out.Escrow.EscrowedCents = row.Total
		case models.PaymentStatusReleased:
			out.Escrow.ReleasedCents = row.Total
		case models.PaymentStatusRefunded:
			out.Escrow.RefundedCents = row.Total
		}
	}

	err = s.db.Where("couple_id = ?", coupleID).
		Order("created_at DESC").
		Limit(5).
		Find(&out.RecentRequests).Error
	if err != nil {
		return nil, apperr.Wrap(apperr.Persistence, "Could not load recent requests", err)
	}

	err = s.db.Model(&models.Application{}).
		Where("request_id IN (?)", s.db.Model(&models.ServiceRequest{}).
			Select("id").Where("couple_id = ?", coupleID)).
		Order("created_at DESC").
		Limit(5).
		Find(&out.RecentApplications).Error
	if err != nil {
		return nil, apperr.Wrap(apperr.Persistence, "Could not load recent applications", err)
	}

	return out, nil
}
