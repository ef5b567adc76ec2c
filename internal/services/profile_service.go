package services

import (
	"strings"

	"craftlink_backend/internal/logger"
	"craftlink_backend/internal/repositories"
	"craftlink_backend/internal/services/dto"
	"craftlink_backend/pkg/apperrors"
)

type ProfileService struct {
	profiles repositories.ProfileRepository
}

func NewProfileService(profiles repositories.ProfileRepository) *ProfileService {
	return &ProfileService{profiles: profiles}
}

// GetOwn returns the caller's profile, public or not.
func (s *ProfileService) GetOwn(userID string) (*dto.ProfileResponse, error) {
	profile, err := s.profiles.FindByUserID(userID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrProfileNotFound) {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, apperrors.InternalError(err)
	}
	resp := dto.ToProfileResponse(profile)
	return &resp, nil
}

// GetByUsername returns a public profile and bumps its view counter when
// someone else looks at it.
func (s *ProfileService) GetByUsername(username, viewerID string) (*dto.ProfileResponse, error) {
	profile, err := s.profiles.FindByUsername(strings.ToLower(username))
	if err != nil {
		if apperrors.Is(err, repositories.ErrProfileNotFound) {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, apperrors.InternalError(err)
	}

	if !profile.IsPublic && profile.UserID != viewerID {
		return nil, apperrors.ErrProfileNotPublic
	}

	if profile.UserID != viewerID {
		if err := s.profiles.IncrementViews(profile.ID); err != nil {
			logger.Warn("profile view counter update failed", "profile_id", profile.ID, "error", err.Error())
		} else {
			profile.ProfileViews++
		}
	}

	resp := dto.ToProfileResponse(profile)
	return &resp, nil
}

func (s *ProfileService) Update(userID string, req dto.UpdateProfileRequest) (*dto.ProfileResponse, error) {
	profile, err := s.profiles.FindByUserID(userID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrProfileNotFound) {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, apperrors.InternalError(err)
	}

	if req.Username != nil {
		profile.Username = strings.ToLower(*req.Username)
	}
	if req.DisplayName != nil {
		profile.DisplayName = *req.DisplayName
	}
	if req.Bio != nil {
		profile.Bio = *req.Bio
	}
	if req.City != nil {
		profile.City = *req.City
	}
	if req.Skills != nil {
		profile.SetSkills(req.Skills)
	}
	if req.HourlyRate != nil {
		profile.HourlyRate = *req.HourlyRate
	}
	if req.IsPublic != nil {
		profile.IsPublic = *req.IsPublic
	}

	if err := s.profiles.Update(profile); err != nil {
		if apperrors.Is(err, repositories.ErrUsernameTaken) {
			return nil, apperrors.ErrUsernameTaken
		}
		return nil, apperrors.InternalError(err)
	}

	resp := dto.ToProfileResponse(profile)
	return &resp, nil
}

// Search lists public profiles matching the criteria.
func (s *ProfileService) Search(criteria repositories.ProfileCriteria) (*dto.ProfileListResponse, error) {
	profiles, total, err := s.profiles.Search(criteria)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	page := criteria.Page
	if page < 1 {
		page = 1
	}
	pageSize := criteria.PageSize
	if pageSize < 1 {
		pageSize = 20
	}

	resp := dto.ToProfileListResponse(profiles, total, page, pageSize)
	return &resp, nil
}
