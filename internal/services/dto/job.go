package dto

import (
	"time"

	"craftlink_backend/internal/models"
)

type CreateJobRequest struct {
	Title       string   `json:"title" binding:"required,min=3,max=200"`
	Description string   `json:"description" binding:"required,min=10"`
	Category    string   `json:"category" binding:"required"`
	City        string   `json:"city,omitempty"`
	Budget      float64  `json:"budget" binding:"required,gt=0"`
	Tags        []string `json:"tags,omitempty" binding:"max=10"`
	Publish     bool     `json:"publish"` // false keeps the job in draft
}

type UpdateJobRequest struct {
	Title       *string  `json:"title,omitempty" binding:"omitempty,min=3,max=200"`
	Description *string  `json:"description,omitempty" binding:"omitempty,min=10"`
	Category    *string  `json:"category,omitempty"`
	City        *string  `json:"city,omitempty"`
	Budget      *float64 `json:"budget,omitempty" binding:"omitempty,gt=0"`
	Tags        []string `json:"tags,omitempty" binding:"max=10"`
}

type JobResponse struct {
	ID          string     `json:"id"`
	ClientID    string     `json:"client_id"`
	CreatorID   *string    `json:"creator_id,omitempty"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Category    string     `json:"category"`
	City        string     `json:"city,omitempty"`
	Budget      float64    `json:"budget"`
	Tags        []string   `json:"tags,omitempty"`
	Status      string     `json:"status"`
	Proposals   int        `json:"proposals"`
	Views       int        `json:"views"`
	StartedAt   *time.Time `json:"started_at,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

type JobListResponse struct {
	Jobs     []JobResponse `json:"jobs"`
	Total    int64         `json:"total"`
	Page     int           `json:"page"`
	PageSize int           `json:"page_size"`
}

func ToJobResponse(job *models.Job) JobResponse {
	resp := JobResponse{
		ID:          job.ID,
		ClientID:    job.ClientID,
		CreatorID:   job.CreatorID,
		Title:       job.Title,
		Description: job.Description,
		Category:    job.Category,
		City:        job.City,
		Budget:      job.Budget,
		Status:      string(job.Status),
		Proposals:   job.Proposals,
		Views:       job.Views,
		StartedAt:   job.StartedAt,
		CompletedAt: job.CompletedAt,
		CreatedAt:   job.CreatedAt,
	}
	resp.Tags = decodeJSONStrings(job.Tags)
	return resp
}

func ToJobListResponse(jobs []models.Job, total int64, page, pageSize int) JobListResponse {
	resp := JobListResponse{
		Jobs:     make([]JobResponse, 0, len(jobs)),
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	}
	for i := range jobs {
		resp.Jobs = append(resp.Jobs, ToJobResponse(&jobs[i]))
	}
	return resp
}
