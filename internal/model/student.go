package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// StudentStatus tracks a student's enrollment lifecycle.
type StudentStatus string

const (
	StudentActive      StudentStatus = "active"
	StudentGraduated   StudentStatus = "graduated"
	StudentTransferred StudentStatus = "transferred"
	StudentWithdrawn   StudentStatus = "withdrawn"
	StudentSuspended   StudentStatus = "suspended"
)

// Student is a school-owned domain record. Registration numbers are unique
// within a school only.
type Student struct {
	ID             uuid.UUID      `json:"id" gorm:"type:uuid;primaryKey"`
	SchoolID       uuid.UUID      `json:"school_id" gorm:"type:uuid;not null;uniqueIndex:idx_students_school_regno"`
	RegistrationNo string         `json:"registration_no" gorm:"type:varchar(50);not null;uniqueIndex:idx_students_school_regno"`
	FirstName      string         `json:"first_name" gorm:"type:varchar(100);index;not null"`
	LastName       string         `json:"last_name" gorm:"type:varchar(100);index"`
	AdmissionDate  time.Time      `json:"admission_date" gorm:"type:date"`
	Status         StudentStatus  `json:"status" gorm:"type:varchar(20);index;default:'active'"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `json:"-" gorm:"index"`
}

func (s *Student) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}
