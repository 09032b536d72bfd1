package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// School is the second-level tenant. Independent schools have no
// organization; chain schools carry their organization's id.
type School struct {
	ID             uuid.UUID      `json:"id" gorm:"type:uuid;primaryKey"`
	OrganizationID *uuid.UUID     `json:"organization_id,omitempty" gorm:"type:uuid;index;uniqueIndex:idx_schools_org_code"`
	Code           string         `json:"code" gorm:"type:varchar(50);not null;uniqueIndex:idx_schools_org_code"`
	Name           string         `json:"name" gorm:"type:varchar(255);not null"`
	City           string         `json:"city,omitempty" gorm:"type:varchar(100)"`
	Phone          string         `json:"phone,omitempty" gorm:"type:varchar(20)"`
	Email          string         `json:"email,omitempty" gorm:"type:varchar(255)"`
	Settings       string         `json:"settings" gorm:"type:jsonb"`
	Active         bool           `json:"active" gorm:"default:true"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `json:"-" gorm:"index"`
}

// DefaultSettings is applied when a school is created without a settings
// blob: April academic year start, PKR, Karachi time.
const DefaultSettings = `{"academic_year_start_month":4,"currency":"PKR","timezone":"Asia/Karachi"}`

func (s *School) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	if s.Settings == "" {
		s.Settings = DefaultSettings
	}
	return nil
}
