package services

import (
	"craftlink_backend/internal/models"
	"craftlink_backend/internal/repositories"
	"craftlink_backend/internal/services/dto"
	"craftlink_backend/pkg/apperrors"
)

type PortfolioService struct {
	portfolio repositories.PortfolioRepository
	profiles  repositories.ProfileRepository
	uploads   repositories.UploadRepository
}

func NewPortfolioService(
	portfolio repositories.PortfolioRepository,
	profiles repositories.ProfileRepository,
	uploads repositories.UploadRepository,
) *PortfolioService {
	return &PortfolioService{portfolio: portfolio, profiles: profiles, uploads: uploads}
}

func (s *PortfolioService) Create(userID string, req dto.CreatePortfolioItemRequest) (*dto.PortfolioItemResponse, error) {
	profile, err := s.ownProfile(userID)
	if err != nil {
		return nil, err
	}

	item := &models.PortfolioItem{
		ProfileID:   profile.ID,
		Title:       req.Title,
		Description: req.Description,
	}

	if req.UploadID != nil {
		upload, err := s.uploads.FindByID(*req.UploadID)
		if err != nil {
			if apperrors.Is(err, repositories.ErrUploadNotFound) {
				return nil, apperrors.ErrNotFound(err)
			}
			return nil, apperrors.InternalError(err)
		}
		if upload.UserID != userID {
			return nil, apperrors.ErrInsufficientPermissions
		}
		item.UploadID = req.UploadID
	}

	existing, err := s.portfolio.ListByProfile(profile.ID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	item.OrderIndex = len(existing)

	if err := s.portfolio.Create(item); err != nil {
		return nil, apperrors.InternalError(err)
	}

	created, err := s.portfolio.FindByID(item.ID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	resp := dto.ToPortfolioItemResponse(created)
	return &resp, nil
}

func (s *PortfolioService) Update(userID, itemID string, req dto.UpdatePortfolioItemRequest) (*dto.PortfolioItemResponse, error) {
	item, err := s.ownItem(userID, itemID)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		item.Title = *req.Title
	}
	if req.Description != nil {
		item.Description = *req.Description
	}
	if req.UploadID != nil {
		upload, err := s.uploads.FindByID(*req.UploadID)
		if err != nil {
			if apperrors.Is(err, repositories.ErrUploadNotFound) {
				return nil, apperrors.ErrNotFound(err)
			}
			return nil, apperrors.InternalError(err)
		}
		if upload.UserID != userID {
			return nil, apperrors.ErrInsufficientPermissions
		}
		item.UploadID = req.UploadID
	}

	if err := s.portfolio.Update(item); err != nil {
		return nil, apperrors.InternalError(err)
	}

	resp := dto.ToPortfolioItemResponse(item)
	return &resp, nil
}

func (s *PortfolioService) Reorder(userID string, req dto.ReorderPortfolioRequest) error {
	profile, err := s.ownProfile(userID)
	if err != nil {
		return err
	}

	err = s.portfolio.Reorder(profile.ID, req.OrderedIDs)
	if err != nil {
		if apperrors.Is(err, repositories.ErrPortfolioItemNotFound) {
			return apperrors.ErrNotFound(err)
		}
		return apperrors.InternalError(err)
	}
	return nil
}

func (s *PortfolioService) Delete(userID, itemID string) error {
	if _, err := s.ownItem(userID, itemID); err != nil {
		return err
	}
	if err := s.portfolio.Delete(itemID); err != nil {
		return apperrors.InternalError(err)
	}
	return nil
}

func (s *PortfolioService) ownProfile(userID string) (*models.UserProfile, error) {
	profile, err := s.profiles.FindByUserID(userID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrProfileNotFound) {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, apperrors.InternalError(err)
	}
	return profile, nil
}

func (s *PortfolioService) ownItem(userID, itemID string) (*models.PortfolioItem, error) {
	item, err := s.portfolio.FindByID(itemID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrPortfolioItemNotFound) {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, apperrors.InternalError(err)
	}

	profile, err := s.ownProfile(userID)
	if err != nil {
		return nil, err
	}
	if item.ProfileID != profile.ID {
		return nil, apperrors.ErrInsufficientPermissions
	}
	return item, nil
}
