package entities

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID           uuid.UUID  `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	Name         string     `gorm:"size:50;not null" json:"name"`
	Email        string     `gorm:"size:255;uniqueIndex;not null" json:"email"`
	PasswordHash string     `gorm:"not null" json:"-"`
	Role         string     `gorm:"size:16;not null;default:user" json:"role"`
	Active       bool       `gorm:"not null;default:true" json:"active"`
	Bio          string     `json:"bio"`
	Avatar       string     `json:"avatar"`
	LastLoginAt  *time.Time `json:"last_login_at,omitempty"`

	Recipes []*Recipe `gorm:"foreignKey:OwnerID" json:"-"`
	Timestamp
}
