package dto

import (
	"time"

	"craftlink_backend/internal/models"
)

type CreateListingRequest struct {
	Title        string   `json:"title" binding:"required,min=3,max=200"`
	Description  string   `json:"description" binding:"required,min=10"`
	Price        float64  `json:"price" binding:"required,gt=0"`
	DeliveryDays int      `json:"delivery_days" binding:"required,min=1,max=365"`
	Skills       []string `json:"skills,omitempty" binding:"max=20"`
}

type UpdateListingRequest struct {
	Title        *string  `json:"title,omitempty" binding:"omitempty,min=3,max=200"`
	Description  *string  `json:"description,omitempty" binding:"omitempty,min=10"`
	Price        *float64 `json:"price,omitempty" binding:"omitempty,gt=0"`
	DeliveryDays *int     `json:"delivery_days,omitempty" binding:"omitempty,min=1,max=365"`
	Skills       []string `json:"skills,omitempty" binding:"max=20"`
	Status       *string  `json:"status,omitempty" binding:"omitempty,oneof=active paused"`
}

type ListingResponse struct {
	ID           string    `json:"id"`
	CreatorID    string    `json:"creator_id"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	Price        float64   `json:"price"`
	DeliveryDays int       `json:"delivery_days"`
	Status       string    `json:"status"`
	Skills       []string  `json:"skills,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

type ListingListResponse struct {
	Listings []ListingResponse `json:"listings"`
	Total    int64             `json:"total"`
	Page     int               `json:"page"`
	PageSize int               `json:"page_size"`
}

func ToListingResponse(l *models.ServiceListing) ListingResponse {
	resp := ListingResponse{
		ID:           l.ID,
		CreatorID:    l.CreatorID,
		Title:        l.Title,
		Description:  l.Description,
		Price:        l.Price,
		DeliveryDays: l.DeliveryDays,
		Status:       string(l.Status),
		CreatedAt:    l.CreatedAt,
	}
	for _, skill := range l.Skills {
		resp.Skills = append(resp.Skills, skill.Name)
	}
	return resp
}

func ToListingListResponse(listings []models.ServiceListing, total int64, page, pageSize int) ListingListResponse {
	resp := ListingListResponse{
		Listings: make([]ListingResponse, 0, len(listings)),
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	}
	for i := range listings {
		resp.Listings = append(resp.Listings, ToListingResponse(&listings[i]))
	}
	return resp
}
