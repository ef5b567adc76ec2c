package repositories

import (
	"errors"

	"craftlink_backend/internal/models"

	"gorm.io/gorm"
)

var (
	ErrRatingNotFound = errors.New("rating not found")
	ErrRatingExists   = errors.New("rating already exists for this job")
)

type RatingRepository interface {
	Create(rating *models.Rating) error
	FindByID(id string) (*models.Rating, error)
	FindByJob(jobID string) (*models.Rating, error)
	ListByUser(toUserID string) ([]models.Rating, error)
	GetUserAverage(toUserID string) (float64, int, error)

	WithTx(tx *gorm.DB) RatingRepository
}

type RatingRepositoryImpl struct {
	db *gorm.DB
}

func NewRatingRepository(db *gorm.DB) RatingRepository {
	return &RatingRepositoryImpl{db: db}
}

func (r *RatingRepositoryImpl) WithTx(tx *gorm.DB) RatingRepository {
	return &RatingRepositoryImpl{db: tx}
}

func (r *RatingRepositoryImpl) Create(rating *models.Rating) error {
	err := r.db.Create(rating).Error
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrRatingExists
		}
		return err
	}
	return nil
}

func (r *RatingRepositoryImpl) FindByID(id string) (*models.Rating, error) {
	var rating models.Rating
	err := r.db.First(&rating, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRatingNotFound
		}
		return nil, err
	}
	return &rating, nil
}

func (r *RatingRepositoryImpl) FindByJob(jobID string) (*models.Rating, error) {
	var rating models.Rating
	err := r.db.First(&rating, "job_id = ?", jobID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRatingNotFound
		}
		return nil, err
	}
	return &rating, nil
}

func (r *RatingRepositoryImpl) ListByUser(toUserID string) ([]models.Rating, error) {
	var ratings []models.Rating
	err := r.db.Where("to_user_id = ?", toUserID).Order("created_at DESC").Find(&ratings).Error
	return ratings, err
}

func (r *RatingRepositoryImpl) GetUserAverage(toUserID string) (float64, int, error) {
	var result struct {
		Avg   float64
		Count int64
	}
	err := r.db.Model(&models.Rating{}).
		Where("to_user_id = ?", toUserID).
		Select("COALESCE(AVG(score), 0) as avg, COUNT(*) as count").
		Scan(&result).Error
	if err != nil {
		return 0, 0, err
	}
	return result.Avg, int(result.Count), nil
}
