package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Organization is the top-level tenant: a chain of schools under one owner.
type Organization struct {
	ID         uuid.UUID      `json:"id" gorm:"type:uuid;primaryKey"`
	Code       string         `json:"code" gorm:"type:varchar(50);uniqueIndex;not null"`
	Name       string         `json:"name" gorm:"type:varchar(255);not null"`
	City       string         `json:"city,omitempty" gorm:"type:varchar(100)"`
	Country    string         `json:"country,omitempty" gorm:"type:varchar(100)"`
	Phone      string         `json:"phone,omitempty" gorm:"type:varchar(20)"`
	Email      string         `json:"email,omitempty" gorm:"type:varchar(255)"`
	MaxSchools int            `json:"max_schools" gorm:"default:10"`
	Active     bool           `json:"active" gorm:"default:true"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `json:"-" gorm:"index"`
}

func (o *Organization) BeforeCreate(tx *gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return nil
}
