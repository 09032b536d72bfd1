package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UserStatus is the lifecycle state of an account. Accounts are suspended,
// never hard-deleted, while anything still references them.
type UserStatus string

const (
	StatusActive    UserStatus = "active"
	StatusInactive  UserStatus = "inactive"
	StatusPending   UserStatus = "pending"
	StatusSuspended UserStatus = "suspended"
)

// User is a principal. Tenant placement invariants:
//   - platform_admin carries neither organization nor school id
//   - org_admin always carries an organization id
//   - every school-scoped role carries a school id, and its organization id
//     (when set) matches that school's organization
//
// Email is unique per school (composite index); tenant-less accounts are
// checked in the provisioning service.
type User struct {
	ID                  uuid.UUID      `json:"id" gorm:"type:uuid;primaryKey"`
	OrganizationID      *uuid.UUID     `json:"organization_id,omitempty" gorm:"type:uuid;index"`
	SchoolID            *uuid.UUID     `json:"school_id,omitempty" gorm:"type:uuid;uniqueIndex:idx_users_school_email"`
	Email               string         `json:"email" gorm:"type:varchar(255);not null;uniqueIndex:idx_users_school_email"`
	PasswordHash        string         `json:"-" gorm:"type:varchar(255);not null"`
	FirstName           string         `json:"first_name" gorm:"type:varchar(100)"`
	LastName            string         `json:"last_name" gorm:"type:varchar(100)"`
	Phone               string         `json:"phone,omitempty" gorm:"type:varchar(20)"`
	Role                Role           `json:"role" gorm:"type:varchar(30);index;not null"`
	Status              UserStatus     `json:"status" gorm:"type:varchar(20);index;default:'pending'"`
	FailedLoginAttempts int            `json:"-" gorm:"default:0"`
	LockedUntil         *time.Time     `json:"-"`
	LastLoginAt         *time.Time     `json:"last_login_at,omitempty"`
	CreatedAt           time.Time      `json:"created_at"`
	UpdatedAt           time.Time      `json:"updated_at"`
	DeletedAt           gorm.DeletedAt `json:"-" gorm:"index"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// Locked reports whether the account lockout window is still open at ts.
func (u *User) Locked(ts time.Time) bool {
	return u.LockedUntil != nil && u.LockedUntil.After(ts)
}

// FullName joins the name parts for display.
func (u *User) FullName() string {
	if u.FirstName == "" {
		return u.LastName
	}
	if u.LastName == "" {
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}
