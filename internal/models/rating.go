package models

type Rating struct {
	BaseModel
	JobID      string `gorm:"not null;uniqueIndex"` // one rating per job
	FromUserID string `gorm:"not null;index"`
	ToUserID   string `gorm:"not null;index"`
	Score      int    `gorm:"not null;check:score >= 1 AND score <= 5"`
	Comment    string
}
