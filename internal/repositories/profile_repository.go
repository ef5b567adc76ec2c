package repositories

import (
	"errors"
	"strings"

	"craftlink_backend/internal/models"

	"gorm.io/gorm"
)

var (
	ErrProfileNotFound = errors.New("profile not found")
	ErrUsernameTaken   = errors.New("username already taken")
)

// ProfileCriteria filters the public creator directory.
type ProfileCriteria struct {
	Query    string  `form:"q"`
	City     string  `form:"city"`
	Skill    string  `form:"skill"`
	MinRate  float64 `form:"min_rate"`
	MaxRate  float64 `form:"max_rate"`
	Page     int     `form:"page" binding:"min=0"`
	PageSize int     `form:"page_size" binding:"min=0,max=100"`
}

type ProfileRepository interface {
	Create(profile *models.UserProfile) error
	FindByID(id string) (*models.UserProfile, error)
	FindByUserID(userID string) (*models.UserProfile, error)
	FindByUsername(username string) (*models.UserProfile, error)
	Update(profile *models.UserProfile) error
	Search(criteria ProfileCriteria) ([]models.UserProfile, int64, error)
	IncrementViews(id string) error
	UpdateRating(profileUserID string, rating float64, count int) error
	Delete(id string) error

	WithTx(tx *gorm.DB) ProfileRepository
}

type ProfileRepositoryImpl struct {
	db *gorm.DB
}

func NewProfileRepository(db *gorm.DB) ProfileRepository {
	return &ProfileRepositoryImpl{db: db}
}

func (r *ProfileRepositoryImpl) WithTx(tx *gorm.DB) ProfileRepository {
	return &ProfileRepositoryImpl{db: tx}
}

func (r *ProfileRepositoryImpl) Create(profile *models.UserProfile) error {
	err := r.db.Create(profile).Error
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrUsernameTaken
		}
		return err
	}
	return nil
}

func (r *ProfileRepositoryImpl) FindByID(id string) (*models.UserProfile, error) {
	var profile models.UserProfile
	err := r.db.Preload("PortfolioItems", func(db *gorm.DB) *gorm.DB {
		return db.Order("order_index ASC")
	}).Preload("PortfolioItems.Upload").First(&profile, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}
	return &profile, nil
}

func (r *ProfileRepositoryImpl) FindByUserID(userID string) (*models.UserProfile, error) {
	var profile models.UserProfile
	err := r.db.Preload("PortfolioItems", func(db *gorm.DB) *gorm.DB {
		return db.Order("order_index ASC")
	}).Preload("PortfolioItems.Upload").First(&profile, "user_id = ?", userID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}
	return &profile, nil
}

func (r *ProfileRepositoryImpl) FindByUsername(username string) (*models.UserProfile, error) {
	var profile models.UserProfile
	err := r.db.Preload("PortfolioItems", func(db *gorm.DB) *gorm.DB {
		return db.Order("order_index ASC")
	}).Preload("PortfolioItems.Upload").First(&profile, "username = ?", username).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}
	return &profile, nil
}

func (r *ProfileRepositoryImpl) Update(profile *models.UserProfile) error {
	err := r.db.Save(profile).Error
	if err != nil && errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrUsernameTaken
	}
	return err
}

func (r *ProfileRepositoryImpl) Search(criteria ProfileCriteria) ([]models.UserProfile, int64, error) {
	var profiles []models.UserProfile
	query := r.db.Model(&models.UserProfile{}).Where("is_public = ?", true)

	if criteria.Query != "" {
		pattern := "%" + strings.ToLower(criteria.Query) + "%"
		query = query.Where("LOWER(display_name) LIKE ? OR LOWER(bio) LIKE ? OR LOWER(username) LIKE ?",
			pattern, pattern, pattern)
	}
	if criteria.City != "" {
		query = query.Where("city = ?", criteria.City)
	}
	if criteria.Skill != "" {
		// Skills is a JSON array; a LIKE match is enough for both drivers.
		query = query.Where("LOWER(skills) LIKE ?", "%"+strings.ToLower(criteria.Skill)+"%")
	}
	if criteria.MinRate > 0 {
		query = query.Where("hourly_rate >= ?", criteria.MinRate)
	}
	if criteria.MaxRate > 0 {
		query = query.Where("hourly_rate <= ?", criteria.MaxRate)
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

	err := query.Order("rating DESC, created_at DESC").
		Limit(pageSize).Offset((page - 1) * pageSize).
		Find(&profiles).Error

	return profiles, total, err
}

func (r *ProfileRepositoryImpl) IncrementViews(id string) error {
	return r.db.Model(&models.UserProfile{}).Where("id = ?", id).
		UpdateColumn("profile_views", gorm.Expr("profile_views + 1")).Error
}

func (r *ProfileRepositoryImpl) UpdateRating(profileUserID string, rating float64, count int) error {
	return r.db.Model(&models.UserProfile{}).Where("user_id = ?", profileUserID).Updates(map[string]interface{}{
		"rating":       rating,
		"rating_count": count,
	}).Error
}

func (r *ProfileRepositoryImpl) Delete(id string) error {
	result := r.db.Where("id = ?", id).Delete(&models.UserProfile{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrProfileNotFound
	}
	return nil
}
