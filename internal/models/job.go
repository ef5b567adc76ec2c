package models

import (
	"time"

	"gorm.io/datatypes"
)

type Job struct {
	BaseModel
	ClientID    string  `gorm:"not null;index"`
	CreatorID   *string `gorm:"index"` // bound when a proposal is accepted
	Title       string  `gorm:"not null"`
	Description string
	Category    string
	City        string
	Budget      float64
	Tags        datatypes.JSON `gorm:"type:jsonb"`
	Status      JobStatus      `gorm:"type:varchar(20);default:'draft'"`
	Proposals   int            `gorm:"default:0"` // monotonic, never decremented
	Views       int            `gorm:"default:0"`
	StartedAt   *time.Time
	CompletedAt *time.Time
}
