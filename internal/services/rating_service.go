package services

import (
	"craftlink_backend/internal/logger"
	"craftlink_backend/internal/models"
	"craftlink_backend/internal/repositories"
	"craftlink_backend/internal/services/dto"
	"craftlink_backend/pkg/apperrors"

	"gorm.io/gorm"
)

type RatingService struct {
	db       *gorm.DB
	ratings  repositories.RatingRepository
	jobs     repositories.JobRepository
	profiles repositories.ProfileRepository
}

func NewRatingService(
	db *gorm.DB,
	ratings repositories.RatingRepository,
	jobs repositories.JobRepository,
	profiles repositories.ProfileRepository,
) *RatingService {
	return &RatingService{db: db, ratings: ratings, jobs: jobs, profiles: profiles}
}

// Create records the client's rating of the creator for a completed job.
// One rating per job; the creator's profile aggregate is recomputed in the
// same transaction.
func (s *RatingService) Create(clientID string, req dto.CreateRatingRequest) (*dto.RatingResponse, error) {
	job, err := s.jobs.FindByID(req.JobID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrJobNotFound) {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, apperrors.InternalError(err)
	}

	if job.ClientID != clientID {
		return nil, apperrors.ErrInsufficientPermissions
	}
	if job.Status != models.JobStatusCompleted {
		return nil, apperrors.ErrJobNotCompleted
	}
	if job.CreatorID == nil {
		return nil, apperrors.ErrInvalidJobStatus
	}

	rating := &models.Rating{
		JobID:      job.ID,
		FromUserID: clientID,
		ToUserID:   *job.CreatorID,
		Score:      req.Score,
		Comment:    req.Comment,
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		ratingRepo := s.ratings.WithTx(tx)

		if err := ratingRepo.Create(rating); err != nil {
			return err
		}

		avg, count, err := ratingRepo.GetUserAverage(rating.ToUserID)
		if err != nil {
			return err
		}
		return s.profiles.WithTx(tx).UpdateRating(rating.ToUserID, avg, count)
	})
	if err != nil {
		if apperrors.Is(err, repositories.ErrRatingExists) {
			return nil, apperrors.ErrAlreadyRated
		}
		return nil, apperrors.InternalError(err)
	}

	logger.Info("rating recorded", "job_id", job.ID, "to_user_id", rating.ToUserID, "score", rating.Score)

	resp := dto.ToRatingResponse(rating)
	return &resp, nil
}

// ListForUser returns ratings received by a user plus their current average.
func (s *RatingService) ListForUser(userID string) (*dto.RatingListResponse, error) {
	ratings, err := s.ratings.ListByUser(userID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	avg, _, err := s.ratings.GetUserAverage(userID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	resp := &dto.RatingListResponse{
		Ratings: make([]dto.RatingResponse, 0, len(ratings)),
		Average: avg,
		Total:   len(ratings),
	}
	for i := range ratings {
		resp.Ratings = append(resp.Ratings, dto.ToRatingResponse(&ratings[i]))
	}
	return resp, nil
}

// GetForJob returns the rating attached to a job, if any.
func (s *RatingService) GetForJob(jobID string) (*dto.RatingResponse, error) {
	rating, err := s.ratings.FindByJob(jobID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrRatingNotFound) {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, apperrors.InternalError(err)
	}
	resp := dto.ToRatingResponse(rating)
	return &resp, nil
}
