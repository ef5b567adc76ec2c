package models

type PortfolioItem struct {
	BaseModel
	ProfileID   string  `gorm:"not null;index"`
	UploadID    *string `gorm:"index"`
	Title       string
	Description string
	OrderIndex  int `gorm:"default:0"`

	// Relations
	Upload *Upload `gorm:"foreignKey:UploadID"`
}
