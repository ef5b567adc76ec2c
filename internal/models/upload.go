package models

type Upload struct {
	BaseModel
	UserID          string `gorm:"not null;index"`
	OriginalName    string `gorm:"column:original_name"`
	Path            string `gorm:"not null"`
	URL             string `gorm:"column:url"`
	MimeType        string
	Size            int64
	IsPublic        bool   `gorm:"default:true"`
	StorageProvider string `gorm:"column:storage_provider;default:'local'"` // 'local', 's3', 'cloudflare_r2'
}
