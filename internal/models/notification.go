package models

import (
	"time"

	"gorm.io/datatypes"
)

type Notification struct {
	BaseModel
	UserID  string `gorm:"not null;index"`
	Type    string `gorm:"not null"` // "message", "proposal", "job_update", "mention"
	Title   string `gorm:"not null"`
	Message string
	Data    datatypes.JSON `gorm:"type:jsonb"` // {"job_id": "...", "proposal_id": "..."}
	IsRead  bool           `gorm:"default:false"`
	ReadAt  *time.Time
}
