package services

import (
	"github.com/google/uuid"
	"github.com/wedflexhq/wedflex-backend/internal/apperr"
	"github.com/wedflexhq/wedflex-backend/internal/dto"
	"github.com/wedflexhq/wedflex-backend/internal/models"
	"gorm.io/gorm"
)

type ProfileService struct {
	db *gorm.DB
}

func NewProfileService(db *gorm.DB) *ProfileService {
	return &ProfileService{db: db}
}

func (s *ProfileService) Get(userID uuid.UUID) (*dto.UserResponse, error) {
	var user models.User
	if err := s.db.First(&user, "id = ?", userID).Error; err != nil {
		return nil, apperr.New(apperr.NotFound, "Profile not found")
	}

	return &dto.UserResponse{
		ID:          user.ID,
		Email:       user.Email,
		DisplayName: user.DisplayName,
		ActiveRole:  user.ActiveRole,
		HasPayout:   user.StripeAccountID != nil && *user.StripeAccountID != "",
	}, nil
}

// Update applies display-name and active-role changes. A role switch only
// takes effect on routes once the client refreshes its access token, since
// the role claim rides in the JWT.
func (s *ProfileService) Update(userID uuid.UUID, req *dto.UpdateProfileRequest) error {
	patch := map[string]interface{}{}

	if req.ActiveRole != nil {
		role := *req.ActiveRole
		if role != models.RoleCouple && role != models.RoleWedflexer {
			return apperr.New(apperr.InvalidInput, "Invalid role")
		}
		patch["active_role"] = role
	}
	if req.DisplayName != nil {
		patch["display_name"] = *req.DisplayName
	}
	if len(patch) == 0 {
		return apperr.New(apperr.InvalidInput, "Nothing to update")
	}

	res := s.db.Model(&models.User{}).Where("id = ?", userID).Updates(patch)
	if res.Error != nil {
		return apperr.Wrap(apperr.Persistence, "Failed to update profile", res.Error)
	}
	if res.RowsAffected == 0 {
		return apperr.New(apperr.NotFound, "Profile not found")
	}
	return nil
}
