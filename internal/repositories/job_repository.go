package repositories

import (
	"errors"
	"strings"
	"time"

	"craftlink_backend/internal/models"

	"gorm.io/gorm"
)

var ErrJobNotFound = errors.New("job not found")

// JobCriteria filters the public job board.
type JobCriteria struct {
	Query     string  `form:"q"`
	Category  string  `form:"category"`
	City      string  `form:"city"`
	MinBudget float64 `form:"min_budget"`
	MaxBudget float64 `form:"max_budget"`
	ClientID  string  `form:"client_id"`
	Status    string  `form:"status"`
	Page      int     `form:"page" binding:"min=0"`
	PageSize  int     `form:"page_size" binding:"min=0,max=100"`
}

type JobRepository interface {
	Create(job *models.Job) error
	FindByID(id string) (*models.Job, error)
	Update(job *models.Job) error
	UpdateStatus(id string, status models.JobStatus) error
	Search(criteria JobCriteria) ([]models.Job, int64, error)
	ListByClient(clientID string) ([]models.Job, error)
	ListByCreator(creatorID string) ([]models.Job, error)
	IncrementProposals(id string) error
	IncrementViews(id string) error
	AssignCreator(id, creatorID string, startedAt time.Time) error
	Delete(id string) error

	WithTx(tx *gorm.DB) JobRepository
}

type JobRepositoryImpl struct {
	db *gorm.DB
}

func NewJobRepository(db *gorm.DB) JobRepository {
	return &JobRepositoryImpl{db: db}
}

func (r *JobRepositoryImpl) WithTx(tx *gorm.DB) JobRepository {
	return &JobRepositoryImpl{db: tx}
}

func (r *JobRepositoryImpl) Create(job *models.Job) error {
	return r.db.Create(job).Error
}

func (r *JobRepositoryImpl) FindByID(id string) (*models.Job, error) {
	var job models.Job
	err := r.db.First(&job, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrJobNotFound
		}
		return nil, err
	}
	return &job, nil
}

func (r *JobRepositoryImpl) Update(job *models.Job) error {
	return r.db.Save(job).Error
}

func (r *JobRepositoryImpl) UpdateStatus(id string, status models.JobStatus) error {
	updates := map[string]interface{}{"status": status}
	if status == models.JobStatusCompleted {
		updates["completed_at"] = time.Now()
	}

	result := r.db.Model(&models.Job{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrJobNotFound
	}
	return nil
}

func (r *JobRepositoryImpl) Search(criteria JobCriteria) ([]models.Job, int64, error) {
	var jobs []models.Job
	query := r.db.Model(&models.Job{})

	if criteria.Status != "" {
		query = query.Where("status = ?", criteria.Status)
	} else {
		query = query.Where("status = ?", models.JobStatusOpen)
	}
	if criteria.Query != "" {
		pattern := "%" + strings.ToLower(criteria.Query) + "%"
		query = query.Where("LOWER(title) LIKE ? OR LOWER(description) LIKE ?", pattern, pattern)
	}
	if criteria.Category != "" {
		query = query.Where("category = ?", criteria.Category)
	}
	if criteria.City != "" {
		query = query.Where("city = ?", criteria.City)
	}
	if criteria.MinBudget > 0 {
		query = query.Where("budget >= ?", criteria.MinBudget)
	}
	if criteria.MaxBudget > 0 {
		query = query.Where("budget <= ?", criteria.MaxBudget)
	}
	if criteria.ClientID != "" {
		query = query.Where("client_id = ?", criteria.ClientID)
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

	err := query.Order("created_at DESC").
		Limit(pageSize).Offset((page - 1) * pageSize).
		Find(&jobs).Error

	return jobs, total, err
}

func (r *JobRepositoryImpl) ListByClient(clientID string) ([]models.Job, error) {
	var jobs []models.Job
	err := r.db.Where("client_id = ?", clientID).Order("created_at DESC").Find(&jobs).Error
	return jobs, err
}

func (r *JobRepositoryImpl) ListByCreator(creatorID string) ([]models.Job, error) {
	var jobs []models.Job
	err := r.db.Where("creator_id = ?", creatorID).Order("created_at DESC").Find(&jobs).Error
	return jobs, err
}

// IncrementProposals bumps the proposal counter. The counter is monotonic:
// withdrawals and rejections never decrement it.
func (r *JobRepositoryImpl) IncrementProposals(id string) error {
	return r.db.Model(&models.Job{}).Where("id = ?", id).
		UpdateColumn("proposals", gorm.Expr("proposals + 1")).Error
}

func (r *JobRepositoryImpl) IncrementViews(id string) error {
	return r.db.Model(&models.Job{}).Where("id = ?", id).
		UpdateColumn("views", gorm.Expr("views + 1")).Error
}

func (r *JobRepositoryImpl) AssignCreator(id, creatorID string, startedAt time.Time) error {
	result := r.db.Model(&models.Job{}).Where("id = ?", id).Updates(map[string]interface{}{
		"creator_id": creatorID,
		"status":     models.JobStatusInProgress,
		"started_at": startedAt,
	})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrJobNotFound
	}
	return nil
}

func (r *JobRepositoryImpl) Delete(id string) error {
	result := r.db.Where("id = ?", id).Delete(&models.Job{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrJobNotFound
	}
	return nil
}
