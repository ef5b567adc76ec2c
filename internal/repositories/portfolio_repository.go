package repositories

import (
	"errors"

	"craftlink_backend/internal/models"

	"gorm.io/gorm"
)

var ErrPortfolioItemNotFound = errors.New("portfolio item not found")

type PortfolioRepository interface {
	Create(item *models.PortfolioItem) error
	FindByID(id string) (*models.PortfolioItem, error)
	ListByProfile(profileID string) ([]models.PortfolioItem, error)
	Update(item *models.PortfolioItem) error
	Reorder(profileID string, orderedIDs []string) error
	Delete(id string) error
}

type PortfolioRepositoryImpl struct {
	db *gorm.DB
}

func NewPortfolioRepository(db *gorm.DB) PortfolioRepository {
	return &PortfolioRepositoryImpl{db: db}
}

func (r *PortfolioRepositoryImpl) Create(item *models.PortfolioItem) error {
	return r.db.Create(item).Error
}

func (r *PortfolioRepositoryImpl) FindByID(id string) (*models.PortfolioItem, error) {
	var item models.PortfolioItem
	err := r.db.Preload("Upload").First(&item, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPortfolioItemNotFound
		}
		return nil, err
	}
	return &item, nil
}

func (r *PortfolioRepositoryImpl) ListByProfile(profileID string) ([]models.PortfolioItem, error) {
	var items []models.PortfolioItem
	err := r.db.Preload("Upload").
		Where("profile_id = ?", profileID).
		Order("order_index ASC, created_at ASC").
		Find(&items).Error
	return items, err
}

func (r *PortfolioRepositoryImpl) Update(item *models.PortfolioItem) error {
	return r.db.Save(item).Error
}

// Reorder rewrites order_index to match the given id order, in one
// transaction so a partial reorder never persists.
func (r *PortfolioRepositoryImpl) Reorder(profileID string, orderedIDs []string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		for idx, id := range orderedIDs {
			result := tx.Model(&models.PortfolioItem{}).
				Where("id = ? AND profile_id = ?", id, profileID).
				Update("order_index", idx)
			if result.Error != nil {
				return result.Error
			}
			if result.RowsAffected == 0 {
				return ErrPortfolioItemNotFound
			}
		}
		return nil
	})
}

func (r *PortfolioRepositoryImpl) Delete(id string) error {
	result := r.db.Where("id = ?", id).Delete(&models.PortfolioItem{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrPortfolioItemNotFound
	}
	return nil
}
