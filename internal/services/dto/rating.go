package dto

import (
	"time"

	"craftlink_backend/internal/models"
)

type CreateRatingRequest struct {
	JobID   string `json:"job_id" binding:"required,uuid"`
	Score   int    `json:"score" binding:"required,min=1,max=5"`
	Comment string `json:"comment,omitempty" binding:"max=2000"`
}

type RatingResponse struct {
	ID         string    `json:"id"`
	JobID      string    `json:"job_id"`
	FromUserID string    `json:"from_user_id"`
	ToUserID   string    `json:"to_user_id"`
	Score      int       `json:"score"`
	Comment    string    `json:"comment,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

type RatingListResponse struct {
	Ratings []RatingResponse `json:"ratings"`
	Average float64          `json:"average"`
	Total   int              `json:"total"`
}

func ToRatingResponse(r *models.Rating) RatingResponse {
	return RatingResponse{
		ID:         r.ID,
		JobID:      r.JobID,
		FromUserID: r.FromUserID,
		ToUserID:   r.ToUserID,
		Score:      r.Score,
		Comment:    r.Comment,
		CreatedAt:  r.CreatedAt,
	}
}
