package services

import (
	"encoding/json"

	"craftlink_backend/internal/logger"
	"craftlink_backend/internal/models"
	"craftlink_backend/internal/repositories"
	"craftlink_backend/internal/services/dto"
	"craftlink_backend/pkg/apperrors"

	"gorm.io/datatypes"
)

type JobService struct {
	jobs          repositories.JobRepository
	users         repositories.UserRepository
	notifications *NotificationService
}

func NewJobService(
	jobs repositories.JobRepository,
	users repositories.UserRepository,
	notifications *NotificationService,
) *JobService {
	return &JobService{jobs: jobs, users: users, notifications: notifications}
}

func (s *JobService) Create(clientID string, req dto.CreateJobRequest) (*dto.JobResponse, error) {
	user, err := s.users.FindByID(clientID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, apperrors.InternalError(err)
	}
	if !user.Role.CanActAsClient() {
		return nil, apperrors.ErrInvalidUserRole
	}

	status := models.JobStatusDraft
	if req.Publish {
		status = models.JobStatusOpen
	}

	job := &models.Job{
		ClientID:    clientID,
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		City:        req.City,
		Budget:      req.Budget,
		Status:      status,
	}
	if len(req.Tags) > 0 {
		job.Tags = encodeTags(req.Tags)
	}

	if err := s.jobs.Create(job); err != nil {
		return nil, apperrors.InternalError(err)
	}

	resp := dto.ToJobResponse(job)
	return &resp, nil
}

func (s *JobService) GetByID(jobID string, viewerID string) (*dto.JobResponse, error) {
	job, err := s.jobs.FindByID(jobID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrJobNotFound) {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, apperrors.InternalError(err)
	}

	// Drafts are visible to the owner only.
	if job.Status == models.JobStatusDraft && job.ClientID != viewerID {
		return nil, apperrors.ErrNotFound(repositories.ErrJobNotFound)
	}

	if viewerID != job.ClientID {
		if err := s.jobs.IncrementViews(jobID); err != nil {
			logger.Warn("view counter update failed", "job_id", jobID, "error", err.Error())
		} else {
			job.Views++
		}
	}

	resp := dto.ToJobResponse(job)
	return &resp, nil
}

// Update edits a draft or open job. A job with a bound creator is locked.
func (s *JobService) Update(clientID, jobID string, req dto.UpdateJobRequest) (*dto.JobResponse, error) {
	job, err := s.jobs.FindByID(jobID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrJobNotFound) {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, apperrors.InternalError(err)
	}
	if job.ClientID != clientID {
		return nil, apperrors.ErrInsufficientPermissions
	}
	if job.Status != models.JobStatusDraft && job.Status != models.JobStatusOpen {
		return nil, apperrors.ErrInvalidJobStatus
	}

	if req.Title != nil {
		job.Title = *req.Title
	}
	if req.Description != nil {
		job.Description = *req.Description
	}
	if req.Category != nil {
		job.Category = *req.Category
	}
	if req.City != nil {
		job.City = *req.City
	}
	if req.Budget != nil {
		job.Budget = *req.Budget
	}
	if req.Tags != nil {
		job.Tags = encodeTags(req.Tags)
	}

	if err := s.jobs.Update(job); err != nil {
		return nil, apperrors.InternalError(err)
	}

	resp := dto.ToJobResponse(job)
	return &resp, nil
}

// Publish moves a draft to open.
func (s *JobService) Publish(clientID, jobID string) (*dto.JobResponse, error) {
	return s.transition(clientID, jobID, models.JobStatusDraft, models.JobStatusOpen)
}

// Complete closes an in-progress job. Both sides get a notification.
func (s *JobService) Complete(clientID, jobID string) (*dto.JobResponse, error) {
	resp, err := s.transition(clientID, jobID, models.JobStatusInProgress, models.JobStatusCompleted)
	if err != nil {
		return nil, err
	}

	if resp.CreatorID != nil {
		if err := s.notifications.NotifyJobUpdate(*resp.CreatorID, resp.ID, resp.Title, "completed"); err != nil {
			logger.Warn("completion notification failed", "job_id", resp.ID, "error", err.Error())
		}
	}
	return resp, nil
}

// Cancel closes a draft, open, or in-progress job.
func (s *JobService) Cancel(clientID, jobID string) (*dto.JobResponse, error) {
	job, err := s.jobs.FindByID(jobID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrJobNotFound) {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, apperrors.InternalError(err)
	}
	if job.ClientID != clientID {
		return nil, apperrors.ErrInsufficientPermissions
	}
	switch job.Status {
	case models.JobStatusDraft, models.JobStatusOpen, models.JobStatusInProgress:
	default:
		return nil, apperrors.ErrInvalidJobStatus
	}

	if err := s.jobs.UpdateStatus(jobID, models.JobStatusCancelled); err != nil {
		return nil, apperrors.InternalError(err)
	}
	job.Status = models.JobStatusCancelled

	if job.CreatorID != nil {
		if err := s.notifications.NotifyJobUpdate(*job.CreatorID, job.ID, job.Title, "cancelled"); err != nil {
			logger.Warn("cancellation notification failed", "job_id", job.ID, "error", err.Error())
		}
	}

	resp := dto.ToJobResponse(job)
	return &resp, nil
}

func (s *JobService) Search(criteria repositories.JobCriteria) (*dto.JobListResponse, error) {
	jobs, total, err := s.jobs.Search(criteria)
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

	resp := dto.ToJobListResponse(jobs, total, page, pageSize)
	return &resp, nil
}

func (s *JobService) ListMine(clientID string) (*dto.JobListResponse, error) {
	jobs, err := s.jobs.ListByClient(clientID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	resp := dto.ToJobListResponse(jobs, int64(len(jobs)), 1, len(jobs))
	return &resp, nil
}

func (s *JobService) ListAssigned(creatorID string) (*dto.JobListResponse, error) {
	jobs, err := s.jobs.ListByCreator(creatorID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	resp := dto.ToJobListResponse(jobs, int64(len(jobs)), 1, len(jobs))
	return &resp, nil
}

// Delete removes a draft job. Published jobs are cancelled, not deleted.
func (s *JobService) Delete(clientID, jobID string) error {
	job, err := s.jobs.FindByID(jobID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrJobNotFound) {
			return apperrors.ErrNotFound(err)
		}
		return apperrors.InternalError(err)
	}
	if job.ClientID != clientID {
		return apperrors.ErrInsufficientPermissions
	}
	if job.Status != models.JobStatusDraft {
		return apperrors.ErrInvalidJobStatus
	}

	if err := s.jobs.Delete(jobID); err != nil {
		return apperrors.InternalError(err)
	}
	return nil
}

func (s *JobService) transition(clientID, jobID string, from, to models.JobStatus) (*dto.JobResponse, error) {
	job, err := s.jobs.FindByID(jobID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrJobNotFound) {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, apperrors.InternalError(err)
	}
	if job.ClientID != clientID {
		return nil, apperrors.ErrInsufficientPermissions
	}
	if job.Status != from {
		return nil, apperrors.ErrInvalidJobStatus
	}

	if err := s.jobs.UpdateStatus(jobID, to); err != nil {
		return nil, apperrors.InternalError(err)
	}

	job, err = s.jobs.FindByID(jobID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	resp := dto.ToJobResponse(job)
	return &resp, nil
}

func encodeTags(tags []string) datatypes.JSON {
	data, _ := json.Marshal(tags)
	return datatypes.JSON(data)
}
