package dto

import (
	"time"

	"craftlink_backend/internal/models"
)

type CreateProposalRequest struct {
	JobID       string  `json:"job_id" binding:"required,uuid"`
	CoverLetter string  `json:"cover_letter" binding:"required,min=10,max=5000"`
	Price       float64 `json:"price" binding:"required,gt=0"`
}

type ProposalResponse struct {
	ID          string    `json:"id"`
	JobID       string    `json:"job_id"`
	CreatorID   string    `json:"creator_id"`
	CoverLetter string    `json:"cover_letter"`
	Price       float64   `json:"price"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type ProposalListResponse struct {
	Proposals []ProposalResponse `json:"proposals"`
	Total     int                `json:"total"`
}

func ToProposalResponse(p *models.Proposal) ProposalResponse {
	return ProposalResponse{
		ID:          p.ID,
		JobID:       p.JobID,
		CreatorID:   p.CreatorID,
		CoverLetter: p.CoverLetter,
		Price:       p.Price,
		Status:      string(p.Status),
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func ToProposalListResponse(proposals []models.Proposal) ProposalListResponse {
	resp := ProposalListResponse{
		Proposals: make([]ProposalResponse, 0, len(proposals)),
		Total:     len(proposals),
	}
	for i := range proposals {
		resp.Proposals = append(resp.Proposals, ToProposalResponse(&proposals[i]))
	}
	return resp
}
