package dto

import "github.com/wedflexhq/wedflex-backend/internal/models"

type CoupleDashboardResponse struct {
	OK                   bool                    `json:"ok"`
	RequestCounts        map[string]int64        `json:"request_counts"`
	ApplicationsReceived int64                   `json:"applications_received"`
	Escrow               EscrowTotals            `json:"escrow"`
	RecentRequests       []models.ServiceRequest `json:"recent_requests"`
	RecentApplications   []models.Application    `json:"recent_applications"`
}
