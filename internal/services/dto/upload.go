package dto

import (
	"time"

	"craftlink_backend/internal/models"
)

type UploadResponse struct {
	ID           string    `json:"id"`
	OriginalName string    `json:"original_name"`
	URL          string    `json:"url"`
	MimeType     string    `json:"mime_type"`
	Size         int64     `json:"size"`
	CreatedAt    time.Time `json:"created_at"`
}

func ToUploadResponse(u *models.Upload) UploadResponse {
	return UploadResponse{
		ID:           u.ID,
		OriginalName: u.OriginalName,
		URL:          u.URL,
		MimeType:     u.MimeType,
		Size:         u.Size,
		CreatedAt:    u.CreatedAt,
	}
}
