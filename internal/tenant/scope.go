// Package tenant resolves the tenant boundary that constrains every read
// and write a principal performs.
package tenant

import (
	"errors"

	"github.com/google/uuid"
	"github.com/maktab/maktab/internal/model"
	"gorm.io/gorm"
)

// ErrUnresolvedScope means the principal carries no usable tenant ids for
// its role. Surfaced as an authorization failure, never retried.
var ErrUnresolvedScope = errors.New("principal has no resolvable tenant scope")

// Kind discriminates the three scope shapes.
type Kind string

const (
	// KindGlobal places no tenant constraint. Platform admins only.
	KindGlobal Kind = "global"
	// KindOrganization constrains to one organization and its schools.
	KindOrganization Kind = "organization"
	// KindSchool constrains to a single school.
	KindSchool Kind = "school"
)

// Principal is the authenticated actor: its role plus tenant placement.
// It is passed explicitly; there is no ambient current-user state.
type Principal struct {
	UserID         uuid.UUID
	Role           model.Role
	OrganizationID *uuid.UUID
	SchoolID       *uuid.UUID
}

// PrincipalFromUser builds a Principal from a stored account.
func PrincipalFromUser(u model.User) Principal {
	return Principal{
		UserID:         u.ID,
		Role:           u.Role,
		OrganizationID: u.OrganizationID,
		SchoolID:       u.SchoolID,
	}
}

// Scope is the resolved tenant boundary for one request.
type Scope struct {
	Kind           Kind      `json:"kind"`
	OrganizationID uuid.UUID `json:"organization_id,omitempty"`
	SchoolID       uuid.UUID `json:"school_id,omitempty"`
}

// Resolve computes the effective scope for a principal. Pure function:
//   - platform_admin -> Global
//   - org_admin      -> Organization(principal.OrganizationID)
//   - everyone else  -> School(principal.SchoolID)
//
// A missing id for a non-global role is ErrUnresolvedScope.
func Resolve(p Principal) (Scope, error) {
	switch p.Role {
	case model.RolePlatformAdmin:
		return Scope{Kind: KindGlobal}, nil
	case model.RoleOrgAdmin:
		if p.OrganizationID == nil {
			return Scope{}, ErrUnresolvedScope
		}
		return Scope{Kind: KindOrganization, OrganizationID: *p.OrganizationID}, nil
	default:
		if p.SchoolID == nil {
			return Scope{}, ErrUnresolvedScope
		}
		s := Scope{Kind: KindSchool, SchoolID: *p.SchoolID}
		if p.OrganizationID != nil {
			s.OrganizationID = *p.OrganizationID
		}
		return s, nil
	}
}

// Global reports whether the scope places no constraint. This is the only
// case where an unconstrained query is valid.
func (s Scope) Global() bool {
	return s.Kind == KindGlobal
}

// Constrain appends the scope's mandatory WHERE clause to a query over a
// table with organization_id/school_id columns. Global scope passes the
// query through untouched.
func (s Scope) Constrain(db *gorm.DB) *gorm.DB {
	switch s.Kind {
	case KindOrganization:
		return db.Where("organization_id = ?", s.OrganizationID)
	case KindSchool:
		return db.Where("school_id = ?", s.SchoolID)
	default:
		return db
	}
}
