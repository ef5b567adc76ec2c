package services

import (
	"craftlink_backend/internal/models"
	"craftlink_backend/internal/repositories"
	"craftlink_backend/internal/services/dto"
	"craftlink_backend/pkg/apperrors"

	"gorm.io/gorm"
)

type ServiceListingService struct {
	db       *gorm.DB
	listings repositories.ServiceListingRepository
	users    repositories.UserRepository
}

func NewServiceListingService(
	db *gorm.DB,
	listings repositories.ServiceListingRepository,
	users repositories.UserRepository,
) *ServiceListingService {
	return &ServiceListingService{db: db, listings: listings, users: users}
}

func (s *ServiceListingService) Create(creatorID string, req dto.CreateListingRequest) (*dto.ListingResponse, error) {
	user, err := s.users.FindByID(creatorID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, apperrors.InternalError(err)
	}
	if !user.Role.CanActAsCreator() {
		return nil, apperrors.ErrInvalidUserRole
	}

	listing := &models.ServiceListing{
		CreatorID:    creatorID,
		Title:        req.Title,
		Description:  req.Description,
		Price:        req.Price,
		DeliveryDays: req.DeliveryDays,
		Status:       models.ListingStatusActive,
	}
	for _, name := range req.Skills {
		listing.Skills = append(listing.Skills, models.ServiceSkill{Name: name})
	}

	if err := s.listings.Create(listing); err != nil {
		return nil, apperrors.InternalError(err)
	}

	resp := dto.ToListingResponse(listing)
	return &resp, nil
}

func (s *ServiceListingService) GetByID(listingID string) (*dto.ListingResponse, error) {
	listing, err := s.listings.FindByID(listingID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrListingNotFound) {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, apperrors.InternalError(err)
	}
	resp := dto.ToListingResponse(listing)
	return &resp, nil
}

// Update edits the listing. When skills are supplied the whole set is
// replaced; listing fields and the skill swap commit together.
func (s *ServiceListingService) Update(creatorID, listingID string, req dto.UpdateListingRequest) (*dto.ListingResponse, error) {
	listing, err := s.ownListing(creatorID, listingID)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		listing.Title = *req.Title
	}
	if req.Description != nil {
		listing.Description = *req.Description
	}
	if req.Price != nil {
		listing.Price = *req.Price
	}
	if req.DeliveryDays != nil {
		listing.DeliveryDays = *req.DeliveryDays
	}
	if req.Status != nil {
		listing.Status = models.ListingStatus(*req.Status)
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		repo := s.listings.WithTx(tx)
		if err := repo.Update(listing); err != nil {
			return err
		}
		if req.Skills != nil {
			return repo.ReplaceSkills(listing.ID, req.Skills)
		}
		return nil
	})
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	updated, err := s.listings.FindByID(listingID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	resp := dto.ToListingResponse(updated)
	return &resp, nil
}

func (s *ServiceListingService) ListMine(creatorID string) (*dto.ListingListResponse, error) {
	listings, err := s.listings.ListByCreator(creatorID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	resp := dto.ToListingListResponse(listings, int64(len(listings)), 1, len(listings))
	return &resp, nil
}

func (s *ServiceListingService) Search(criteria repositories.ListingCriteria) (*dto.ListingListResponse, error) {
	listings, total, err := s.listings.Search(criteria)
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

	resp := dto.ToListingListResponse(listings, total, page, pageSize)
	return &resp, nil
}

func (s *ServiceListingService) Delete(creatorID, listingID string) error {
	if _, err := s.ownListing(creatorID, listingID); err != nil {
		return err
	}
	if err := s.listings.Delete(listingID); err != nil {
		return apperrors.InternalError(err)
	}
	return nil
}

func (s *ServiceListingService) ownListing(creatorID, listingID string) (*models.ServiceListing, error) {
	listing, err := s.listings.FindByID(listingID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrListingNotFound) {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, apperrors.InternalError(err)
	}
	if listing.CreatorID != creatorID {
		return nil, apperrors.ErrInsufficientPermissions
	}
	return listing, nil
}
