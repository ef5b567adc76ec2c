package models

import (
	"encoding/json"

	"gorm.io/datatypes"
)

type UserProfile struct {
	BaseModel
	UserID      string `gorm:"uniqueIndex;not null"`
	Username    string `gorm:"uniqueIndex;not null"`
	DisplayName string
	Bio         string
	City        string
	Skills      datatypes.JSON `gorm:"type:jsonb"` // ["illustration", "motion design"]
	HourlyRate  float64
	Rating      float64 `gorm:"default:0"`
	RatingCount int     `gorm:"default:0"`
	ProfileViews int    `gorm:"default:0"`
	IsPublic    bool    `gorm:"default:true"`

	// Relations
	PortfolioItems []PortfolioItem `gorm:"foreignKey:ProfileID"`
}

// GetSkills returns the skill list as a slice of strings.
func (p *UserProfile) GetSkills() []string {
	var skills []string
	if len(p.Skills) > 0 {
		_ = json.Unmarshal(p.Skills, &skills)
	}
	return skills
}

// SetSkills stores the skill list.
func (p *UserProfile) SetSkills(skills []string) {
	data, _ := json.Marshal(skills)
	p.Skills = datatypes.JSON(data)
}
