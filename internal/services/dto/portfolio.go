package dto

import (
	"time"

	"craftlink_backend/internal/models"
)

type CreatePortfolioItemRequest struct {
	Title       string  `json:"title" binding:"required,max=200"`
	Description string  `json:"description,omitempty" binding:"max=2000"`
	UploadID    *string `json:"upload_id,omitempty" binding:"omitempty,uuid"`
}

type UpdatePortfolioItemRequest struct {
	Title       *string `json:"title,omitempty" binding:"omitempty,max=200"`
	Description *string `json:"description,omitempty" binding:"omitempty,max=2000"`
	UploadID    *string `json:"upload_id,omitempty" binding:"omitempty,uuid"`
}

type ReorderPortfolioRequest struct {
	OrderedIDs []string `json:"ordered_ids" binding:"required,min=1,dive,uuid"`
}

type PortfolioItemResponse struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	OrderIndex  int       `json:"order_index"`
	FileURL     string    `json:"file_url,omitempty"`
	MimeType    string    `json:"mime_type,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

func ToPortfolioItemResponse(item *models.PortfolioItem) PortfolioItemResponse {
	resp := PortfolioItemResponse{
		ID:          item.ID,
		Title:       item.Title,
		Description: item.Description,
		OrderIndex:  item.OrderIndex,
		CreatedAt:   item.CreatedAt,
	}
	if item.Upload != nil {
		resp.FileURL = item.Upload.URL
		resp.MimeType = item.Upload.MimeType
	}
	return resp
}
