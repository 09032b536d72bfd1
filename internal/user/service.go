// Package user implements account provisioning under the role hierarchy and
// tenant boundary, plus scoped account queries.
package user

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/maktab/maktab/internal/model"
	"github.com/maktab/maktab/internal/role"
	"github.com/maktab/maktab/internal/tenant"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	// ErrForbiddenRoleCreation: the creator's role may not create the target role.
	ErrForbiddenRoleCreation = errors.New("creator role may not create the requested role")
	// ErrCrossTenantViolation: the request reaches outside the creator's tenant.
	ErrCrossTenantViolation = errors.New("request crosses the creator's tenant boundary")
	// ErrDuplicateAccount: an account with this email already exists in the tenant.
	ErrDuplicateAccount = errors.New("an account with this email already exists in this tenant")
	// ErrOrganizationRequired: creating an org admin needs an explicit organization.
	ErrOrganizationRequired = errors.New("organization id is required when creating an org admin")
	// ErrSchoolRequired: a school-scoped role cannot exist without a school.
	ErrSchoolRequired = errors.New("school id is required for school-scoped roles")
	// ErrUnknownRole: the target role is not in the closed role set.
	ErrUnknownRole = errors.New("unknown role")
	// ErrNotFound: no such account within the caller's scope.
	ErrNotFound = errors.New("user not found")
)

type (
	// ListFilter narrows account queries to the viewer's visibility: the
	// resolved tenant scope for administrative roles, or a single account
	// for self-only roles.
	ListFilter struct {
		Scope  tenant.Scope
		SelfID *uuid.UUID
	}

	// Repository is the persistence contract the service needs.
	Repository interface {
		Create(ctx context.Context, u *model.User) error
		GetByID(ctx context.Context, id uuid.UUID) (model.User, error)
		EmailTaken(ctx context.Context, email string, schoolID, orgID *uuid.UUID) (bool, error)
		List(ctx context.Context, f ListFilter) ([]model.User, error)
		Suspend(ctx context.Context, id uuid.UUID) error
		CountByRole(ctx context.Context, r model.Role) (int64, error)
		GetSchool(ctx context.Context, id uuid.UUID) (model.School, error)
	}

	// Service provisions and queries accounts.
	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// CreateUser carries the provisioning request. Organization and school ids
// are treated as hints: depending on the creator's role they are validated
// or overwritten before anything is persisted.
type CreateUser struct {
	Email          string     `json:"email" validate:"required,email"`
	Password       string     `json:"password" validate:"required,min=8"`
	FirstName      string     `json:"first_name" validate:"required"`
	LastName       string     `json:"last_name" validate:"required"`
	Phone          string     `json:"phone" validate:"omitempty,max=20"`
	Role           model.Role `json:"role" validate:"required"`
	OrganizationID *uuid.UUID `json:"organization_id"`
	SchoolID       *uuid.UUID `json:"school_id"`
}

// Create provisions a new account on behalf of creator. Validation fully
// precedes persistence: hierarchy check, tenant resolution, uniqueness
// check, then a single INSERT. The composite unique index on
// (school_id, email) is the race-proof guarantee; the application-level
// check exists to produce a clean error.
func (s *Service) Create(ctx context.Context, creator model.User, req CreateUser) (model.User, error) {
	if !req.Role.Valid() {
		return model.User{}, ErrUnknownRole
	}
	if !role.CanCreate(creator.Role, req.Role) {
		return model.User{}, ErrForbiddenRoleCreation
	}

	orgID, schoolID, err := s.resolveTenant(ctx, creator, req)
	if err != nil {
		return model.User{}, err
	}

	taken, err := s.repo.EmailTaken(ctx, req.Email, schoolID, orgID)
	if err != nil {
		return model.User{}, err
	}
	if taken {
		return model.User{}, ErrDuplicateAccount
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return model.User{}, err
	}

	u := model.User{
		OrganizationID: orgID,
		SchoolID:       schoolID,
		Email:          req.Email,
		PasswordHash:   string(hash),
		FirstName:      req.FirstName,
		LastName:       req.LastName,
		Phone:          req.Phone,
		Role:           req.Role,
		Status:         model.StatusActive,
	}

	if err := s.repo.Create(ctx, &u); err != nil {
		// Two concurrent requests can pass the application check; the
		// unique index decides the race.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return model.User{}, ErrDuplicateAccount
		}
		return model.User{}, err
	}

	return sanitize(u), nil
}

// resolveTenant applies the per-creator-role tenant assignment rules and
// returns the organization/school ids the new account must carry.
func (s *Service) resolveTenant(ctx context.Context, creator model.User, req CreateUser) (*uuid.UUID, *uuid.UUID, error) {
	orgID, schoolID := req.OrganizationID, req.SchoolID

	switch creator.Role {
	case model.RolePlatformAdmin:
		// Pass-through, except an org admin must land in a named organization.
		if req.Role == model.RoleOrgAdmin && orgID == nil {
			return nil, nil, ErrOrganizationRequired
		}

	case model.RoleOrgAdmin:
		// An org admin with no organization of its own cannot place anyone.
		if creator.OrganizationID == nil {
			return nil, nil, ErrCrossTenantViolation
		}
		// Forced regardless of input.
		orgID = creator.OrganizationID
		if schoolID != nil {
			school, err := s.repo.GetSchool(ctx, *schoolID)
			if err != nil {
				return nil, nil, err
			}
			if school.OrganizationID == nil || *school.OrganizationID != *creator.OrganizationID {
				return nil, nil, ErrCrossTenantViolation
			}
		}

	case model.RoleSchoolAdmin:
		if creator.SchoolID == nil {
			return nil, nil, ErrCrossTenantViolation
		}
		if schoolID != nil && *schoolID != *creator.SchoolID {
			return nil, nil, ErrCrossTenantViolation
		}
		// Forced regardless of input.
		schoolID = creator.SchoolID
		orgID = creator.OrganizationID
	}

	if schoolScoped(req.Role) && schoolID == nil {
		return nil, nil, ErrSchoolRequired
	}

	return orgID, schoolID, nil
}

// schoolScoped reports whether the role must be anchored to a school.
func schoolScoped(r model.Role) bool {
	switch r {
	case model.RolePlatformAdmin, model.RoleOrgAdmin:
		return false
	default:
		return true
	}
}

// Get returns one account if it falls inside the creator's visibility.
func (s *Service) Get(ctx context.Context, viewer model.User, id uuid.UUID) (model.User, error) {
	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return model.User{}, err
	}
	if !visible(viewer, u) {
		return model.User{}, ErrNotFound
	}
	return sanitize(u), nil
}

// List returns the accounts visible to the viewer: everything for a
// platform admin, the organization (including its schools' users) for an
// org admin, the school for a school admin, and only the viewer itself for
// every other role.
func (s *Service) List(ctx context.Context, viewer model.User) ([]model.User, error) {
	var f ListFilter
	switch viewer.Role {
	case model.RolePlatformAdmin, model.RoleOrgAdmin, model.RoleSchoolAdmin:
		scope, err := tenant.Resolve(tenant.PrincipalFromUser(viewer))
		if err != nil {
			return nil, err
		}
		f.Scope = scope
	default:
		f.SelfID = &viewer.ID
	}

	users, err := s.repo.List(ctx, f)
	if err != nil {
		return nil, err
	}
	for i := range users {
		users[i] = sanitize(users[i])
	}
	return users, nil
}

// Suspend deactivates an account. Accounts are never hard-deleted.
func (s *Service) Suspend(ctx context.Context, viewer model.User, id uuid.UUID) error {
	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !visible(viewer, u) {
		return ErrNotFound
	}
	return s.repo.Suspend(ctx, id)
}

// visible reports whether target falls inside the viewer's tenant boundary.
func visible(viewer, target model.User) bool {
	switch viewer.Role {
	case model.RolePlatformAdmin:
		return true
	case model.RoleOrgAdmin:
		return viewer.OrganizationID != nil &&
			target.OrganizationID != nil &&
			*viewer.OrganizationID == *target.OrganizationID
	case model.RoleSchoolAdmin:
		return viewer.SchoolID != nil &&
			target.SchoolID != nil &&
			*viewer.SchoolID == *target.SchoolID
	default:
		return viewer.ID == target.ID
	}
}

// sanitize strips credential state before an account leaves the service.
func sanitize(u model.User) model.User {
	u.PasswordHash = ""
	u.FailedLoginAttempts = 0
	u.LockedUntil = nil
	return u
}
