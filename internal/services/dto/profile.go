package dto

import (
	"time"

	"craftlink_backend/internal/models"
)

type UpdateProfileRequest struct {
	Username    *string  `json:"username,omitempty" binding:"omitempty,min=3,max=30,alphanum"`
	DisplayName *string  `json:"display_name,omitempty" binding:"omitempty,max=100"`
	Bio         *string  `json:"bio,omitempty" binding:"omitempty,max=2000"`
	City        *string  `json:"city,omitempty"`
	Skills      []string `json:"skills,omitempty" binding:"max=20"`
	HourlyRate  *float64 `json:"hourly_rate,omitempty" binding:"omitempty,gte=0"`
	IsPublic    *bool    `json:"is_public,omitempty"`
}

type ProfileResponse struct {
	ID           string                  `json:"id"`
	UserID       string                  `json:"user_id"`
	Username     string                  `json:"username"`
	DisplayName  string                  `json:"display_name"`
	Bio          string                  `json:"bio,omitempty"`
	City         string                  `json:"city,omitempty"`
	Skills       []string                `json:"skills,omitempty"`
	HourlyRate   float64                 `json:"hourly_rate"`
	Rating       float64                 `json:"rating"`
	RatingCount  int                     `json:"rating_count"`
	ProfileViews int                     `json:"profile_views"`
	IsPublic     bool                    `json:"is_public"`
	Portfolio    []PortfolioItemResponse `json:"portfolio,omitempty"`
	CreatedAt    time.Time               `json:"created_at"`
}

type ProfileListResponse struct {
	Profiles []ProfileResponse `json:"profiles"`
	Total    int64             `json:"total"`
	Page     int               `json:"page"`
	PageSize int               `json:"page_size"`
}

func ToProfileResponse(p *models.UserProfile) ProfileResponse {
	resp := ProfileResponse{
		ID:           p.ID,
		UserID:       p.UserID,
		Username:     p.Username,
		DisplayName:  p.DisplayName,
		Bio:          p.Bio,
		City:         p.City,
		Skills:       p.GetSkills(),
		HourlyRate:   p.HourlyRate,
		Rating:       p.Rating,
		RatingCount:  p.RatingCount,
		ProfileViews: p.ProfileViews,
		IsPublic:     p.IsPublic,
		CreatedAt:    p.CreatedAt,
	}
	for i := range p.PortfolioItems {
		resp.Portfolio = append(resp.Portfolio, ToPortfolioItemResponse(&p.PortfolioItems[i]))
	}
	return resp
}

func ToProfileListResponse(profiles []models.UserProfile, total int64, page, pageSize int) ProfileListResponse {
	resp := ProfileListResponse{
		Profiles: make([]ProfileResponse, 0, len(profiles)),
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	}
	for i := range profiles {
		resp.Profiles = append(resp.Profiles, ToProfileResponse(&profiles[i]))
	}
	return resp
}
