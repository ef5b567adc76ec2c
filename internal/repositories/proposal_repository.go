package repositories

import (
	"errors"

	"craftlink_backend/internal/models"

	"gorm.io/gorm"
)

var (
	ErrProposalNotFound = errors.New("proposal not found")
	ErrProposalExists   = errors.New("proposal already exists for this job and creator")
)

// ProposalStats aggregates a creator's proposal outcomes.
type ProposalStats struct {
	Total     int64 `json:"total"`
	Pending   int64 `json:"pending"`
	Accepted  int64 `json:"accepted"`
	Rejected  int64 `json:"rejected"`
	Withdrawn int64 `json:"withdrawn"`
}

type ProposalRepository interface {
	Create(proposal *models.Proposal) error
	FindByID(id string) (*models.Proposal, error)
	FindByJobAndCreator(jobID, creatorID string) (*models.Proposal, error)
	ListByJob(jobID string) ([]models.Proposal, error)
	ListByCreator(creatorID string) ([]models.Proposal, error)
	ListPendingByJob(jobID string) ([]models.Proposal, error)
	UpdateStatus(id string, status models.ProposalStatus) error
	RejectPending(jobID, exceptID string) ([]models.Proposal, error)
	CountAccepted(jobID string) (int64, error)
	GetCreatorStats(creatorID string) (*ProposalStats, error)

	WithTx(tx *gorm.DB) ProposalRepository
}

type ProposalRepositoryImpl struct {
	db *gorm.DB
}

func NewProposalRepository(db *gorm.DB) ProposalRepository {
	return &ProposalRepositoryImpl{db: db}
}

func (r *ProposalRepositoryImpl) WithTx(tx *gorm.DB) ProposalRepository {
	return &ProposalRepositoryImpl{db: tx}
}

// Create inserts the proposal. The composite unique index on (job_id,
// creator_id) turns concurrent duplicates into ErrProposalExists, including
// re-submission after a withdrawal.
func (r *ProposalRepositoryImpl) Create(proposal *models.Proposal) error {
	err := r.db.Create(proposal).Error
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrProposalExists
		}
		return err
	}
	return nil
}

func (r *ProposalRepositoryImpl) FindByID(id string) (*models.Proposal, error) {
	var proposal models.Proposal
	err := r.db.First(&proposal, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProposalNotFound
		}
		return nil, err
	}
	return &proposal, nil
}

func (r *ProposalRepositoryImpl) FindByJobAndCreator(jobID, creatorID string) (*models.Proposal, error) {
	var proposal models.Proposal
	err := r.db.First(&proposal, "job_id = ? AND creator_id = ?", jobID, creatorID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProposalNotFound
		}
		return nil, err
	}
	return &proposal, nil
}

func (r *ProposalRepositoryImpl) ListByJob(jobID string) ([]models.Proposal, error) {
	var proposals []models.Proposal
	err := r.db.Where("job_id = ?", jobID).Order("created_at DESC").Find(&proposals).Error
	return proposals, err
}

func (r *ProposalRepositoryImpl) ListByCreator(creatorID string) ([]models.Proposal, error) {
	var proposals []models.Proposal
	err := r.db.Where("creator_id = ?", creatorID).Order("created_at DESC").Find(&proposals).Error
	return proposals, err
}

func (r *ProposalRepositoryImpl) ListPendingByJob(jobID string) ([]models.Proposal, error) {
	var proposals []models.Proposal
	err := r.db.Where("job_id = ? AND status = ?", jobID, models.ProposalStatusPending).
		Find(&proposals).Error
	return proposals, err
}

func (r *ProposalRepositoryImpl) UpdateStatus(id string, status models.ProposalStatus) error {
	result := r.db.Model(&models.Proposal{}).Where("id = ?", id).Update("status", status)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrProposalNotFound
	}
	return nil
}

// RejectPending moves every still-pending proposal on the job except exceptID
// to rejected and returns the affected rows so callers can notify their
// creators after commit.
func (r *ProposalRepositoryImpl) RejectPending(jobID, exceptID string) ([]models.Proposal, error) {
	var siblings []models.Proposal
	err := r.db.Where("job_id = ? AND id <> ? AND status = ?",
		jobID, exceptID, models.ProposalStatusPending).Find(&siblings).Error
	if err != nil {
		return nil, err
	}
	if len(siblings) == 0 {
		return nil, nil
	}

	err = r.db.Model(&models.Proposal{}).
		Where("job_id = ? AND id <> ? AND status = ?", jobID, exceptID, models.ProposalStatusPending).
		Update("status", models.ProposalStatusRejected).Error
	if err != nil {
		return nil, err
	}

	for i := range siblings {
		siblings[i].Status = models.ProposalStatusRejected
	}
	return siblings, nil
}

func (r *ProposalRepositoryImpl) CountAccepted(jobID string) (int64, error) {
	var count int64
	err := r.db.Model(&models.Proposal{}).
		Where("job_id = ? AND status = ?", jobID, models.ProposalStatusAccepted).
		Count(&count).Error
	return count, err
}

func (r *ProposalRepositoryImpl) GetCreatorStats(creatorID string) (*ProposalStats, error) {
	var stats ProposalStats

	var rows []struct {
		Status string
		Count  int64
	}
	err := r.db.Model(&models.Proposal{}).Where("creator_id = ?", creatorID).
		Select("status, COUNT(*) as count").
		Group("status").Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	for _, row := range rows {
		stats.Total += row.Count
		switch models.ProposalStatus(row.Status) {
		case models.ProposalStatusPending:
			stats.Pending = row.Count
		case models.ProposalStatusAccepted:
			stats.Accepted = row.Count
		case models.ProposalStatusRejected:
			stats.Rejected = row.Count
		case models.ProposalStatusWithdrawn:
			stats.Withdrawn = row.Count
		}
	}
	return &stats, nil
}
