package entities

import (
	"github.com/google/uuid"
	"github.com/lib/pq"
)

type Recipe struct {
	ID           uuid.UUID      `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	OwnerID      uuid.UUID      `gorm:"type:uuid;not null;index" json:"owner_id"`
	Title        string         `gorm:"size:100;not null" json:"title"`
	Category     string         `gorm:"size:32;not null;index" json:"category"`
	Cuisine      string         `gorm:"size:32;not null;index" json:"cuisine"`
	Ingredients  pq.StringArray `gorm:"type:text[];not null" json:"ingredients"`
	Instructions string         `gorm:"type:text;not null" json:"instructions"`
	PrepTime     int            `gorm:"not null" json:"prep_time"`
	CookTime     int            `gorm:"not null" json:"cook_time"`
	Servings     int            `gorm:"not null" json:"servings"`
	Difficulty   string         `gorm:"size:16;not null;default:medium" json:"difficulty"`
	ImageURL     string         `json:"image_url,omitempty"`

	Owner *User `gorm:"foreignKey:OwnerID" json:"-"`
	Timestamp
}

func (r *Recipe) TotalTime() int {
	return r.PrepTime + r.CookTime
}
