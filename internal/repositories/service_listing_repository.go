package repositories

import (
	"errors"
	"strings"

	"craftlink_backend/internal/models"

	"gorm.io/gorm"
)

var ErrListingNotFound = errors.New("service listing not found")

// ListingCriteria filters the public service catalogue.
type ListingCriteria struct {
	Query    string  `form:"q"`
	Skill    string  `form:"skill"`
	MinPrice float64 `form:"min_price"`
	MaxPrice float64 `form:"max_price"`
	Page     int     `form:"page" binding:"min=0"`
	PageSize int     `form:"page_size" binding:"min=0,max=100"`
}

type ServiceListingRepository interface {
	Create(listing *models.ServiceListing) error
	FindByID(id string) (*models.ServiceListing, error)
	ListByCreator(creatorID string) ([]models.ServiceListing, error)
	Search(criteria ListingCriteria) ([]models.ServiceListing, int64, error)
	Update(listing *models.ServiceListing) error
	ReplaceSkills(listingID string, skills []string) error
	UpdateStatus(id string, status models.ListingStatus) error
	Delete(id string) error

	WithTx(tx *gorm.DB) ServiceListingRepository
}

type ServiceListingRepositoryImpl struct {
	db *gorm.DB
}

func NewServiceListingRepository(db *gorm.DB) ServiceListingRepository {
	return &ServiceListingRepositoryImpl{db: db}
}

func (r *ServiceListingRepositoryImpl) WithTx(tx *gorm.DB) ServiceListingRepository {
	return &ServiceListingRepositoryImpl{db: tx}
}

func (r *ServiceListingRepositoryImpl) Create(listing *models.ServiceListing) error {
	return r.db.Create(listing).Error
}

func (r *ServiceListingRepositoryImpl) FindByID(id string) (*models.ServiceListing, error) {
	var listing models.ServiceListing
	err := r.db.Preload("Skills").First(&listing, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrListingNotFound
		}
		return nil, err
	}
	return &listing, nil
}

func (r *ServiceListingRepositoryImpl) ListByCreator(creatorID string) ([]models.ServiceListing, error) {
	var listings []models.ServiceListing
	err := r.db.Preload("Skills").
		Where("creator_id = ?", creatorID).
		Order("created_at DESC").
		Find(&listings).Error
	return listings, err
}

func (r *ServiceListingRepositoryImpl) Search(criteria ListingCriteria) ([]models.ServiceListing, int64, error) {
	var listings []models.ServiceListing
	query := r.db.Model(&models.ServiceListing{}).Where("status = ?", models.ListingStatusActive)

	if criteria.Query != "" {
		pattern := "%" + strings.ToLower(criteria.Query) + "%"
		query = query.Where("LOWER(title) LIKE ? OR LOWER(description) LIKE ?", pattern, pattern)
	}
	if criteria.Skill != "" {
		query = query.Where("id IN (?)",
			r.db.Model(&models.ServiceSkill{}).Select("service_id").
				Where("LOWER(name) = ?", strings.ToLower(criteria.Skill)))
	}
	if criteria.MinPrice > 0 {
		query = query.Where("price >= ?", criteria.MinPrice)
	}
	if criteria.MaxPrice > 0 {
		query = query.Where("price <= ?", criteria.MaxPrice)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page := criteria.Page
	if page < 1 {
		page = 1
	}
	pageSize := criteria.PageSize
	if pageSize < 1 {
		pageSize = 20
	}

	err := query.Preload("Skills").Order("created_at DESC").
		Limit(pageSize).Offset((page - 1) * pageSize).
		Find(&listings).Error

	return listings, total, err
}

func (r *ServiceListingRepositoryImpl) Update(listing *models.ServiceListing) error {
	return r.db.Omit("Skills").Save(listing).Error
}

// ReplaceSkills swaps the skill set wholesale: delete all rows for the
// listing, then insert the new ones, in one transaction.
func (r *ServiceListingRepositoryImpl) ReplaceSkills(listingID string, skills []string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("service_id = ?", listingID).Delete(&models.ServiceSkill{}).Error; err != nil {
			return err
		}
		for _, name := range skills {
			skill := models.ServiceSkill{ServiceID: listingID, Name: name}
			if err := tx.Create(&skill).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *ServiceListingRepositoryImpl) UpdateStatus(id string, status models.ListingStatus) error {
	result := r.db.Model(&models.ServiceListing{}).Where("id = ?", id).Update("status", status)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrListingNotFound
	}
	return nil
}

func (r *ServiceListingRepositoryImpl) Delete(id string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("service_id = ?", id).Delete(&models.ServiceSkill{}).Error; err != nil {
			return err
		}
		result := tx.Where("id = ?", id).Delete(&models.ServiceListing{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrListingNotFound
		}
		return nil
	})
}
