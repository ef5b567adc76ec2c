package models

type ServiceListing struct {
	BaseModel
	CreatorID    string `gorm:"not null;index"`
	Title        string `gorm:"not null"`
	Description  string
	Price        float64
	DeliveryDays int
	Status       ListingStatus `gorm:"type:varchar(20);default:'active'"`

	// Skills are replaced wholesale on update (delete-all-then-recreate).
	Skills []ServiceSkill `gorm:"foreignKey:ServiceID;constraint:OnDelete:CASCADE"`
}

type ServiceSkill struct {
	BaseModel
	ServiceID string `gorm:"not null;index"`
	Name      string `gorm:"not null"`
}
