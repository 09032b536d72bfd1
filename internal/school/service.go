// Package school manages second-level tenants. Creation enforces the
// caller's tenant boundary and the owning organization's school limit.
package school

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/maktab/maktab/internal/model"
	"github.com/maktab/maktab/internal/tenant"
	"gorm.io/gorm"
)

var (
	// ErrCodeTaken: the code is already used inside this organization.
	ErrCodeTaken = errors.New("a school with this code already exists in this organization")
	// ErrNotFound: no such school within the caller's scope.
	ErrNotFound = errors.New("school not found")
	// ErrCrossTenantViolation: the request reaches outside the caller's organization.
	ErrCrossTenantViolation = errors.New("request crosses the caller's tenant boundary")
	// ErrOrganizationRequired: a platform admin must name the organization explicitly.
	ErrOrganizationRequired = errors.New("organization id is required when creating a school")
	// ErrSchoolLimitReached: the organization is at its max-schools limit.
	ErrSchoolLimitReached = errors.New("organization has reached its school limit")
)

type (
	Repository interface {
		Create(ctx context.Context, s *model.School) error
		GetByID(ctx context.Context, id uuid.UUID) (model.School, error)
		CodeTaken(ctx context.Context, orgID uuid.UUID, code string) (bool, error)
		CountByOrganization(ctx context.Context, orgID uuid.UUID) (int64, error)
		List(ctx context.Context, scope tenant.Scope) ([]model.School, error)
		Save(ctx context.Context, s *model.School) error
		SoftDelete(ctx context.Context, id uuid.UUID) error
		GetOrganization(ctx context.Context, id uuid.UUID) (model.Organization, error)
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

type CreateSchool struct {
	OrganizationID *uuid.UUID `json:"organization_id"`
	Code           string     `json:"code" validate:"required,max=50"`
	Name           string     `json:"name" validate:"required,max=255"`
	City           string     `json:"city" validate:"omitempty,max=100"`
	Phone          string     `json:"phone" validate:"omitempty,max=20"`
	Email          string     `json:"email" validate:"omitempty,email"`
	Settings       string     `json:"settings" validate:"omitempty,json"`
}

// Create adds a school. An org admin always creates inside its own
// organization, whatever the request says; a platform admin must name the
// organization explicitly. The organization's max-schools limit and
// per-organization code uniqueness are both enforced before the INSERT.
func (s *Service) Create(ctx context.Context, creator model.User, req CreateSchool) (model.School, error) {
	orgID := req.OrganizationID

	switch creator.Role {
	case model.RoleOrgAdmin:
		if creator.OrganizationID == nil {
			return model.School{}, ErrCrossTenantViolation
		}
		if orgID != nil && *orgID != *creator.OrganizationID {
			return model.School{}, ErrCrossTenantViolation
		}
		orgID = creator.OrganizationID
	case model.RolePlatformAdmin:
		if orgID == nil {
			return model.School{}, ErrOrganizationRequired
		}
	default:
		return model.School{}, ErrCrossTenantViolation
	}

	org, err := s.repo.GetOrganization(ctx, *orgID)
	if err != nil {
		return model.School{}, err
	}

	count, err := s.repo.CountByOrganization(ctx, org.ID)
	if err != nil {
		return model.School{}, err
	}
	if count >= int64(org.MaxSchools) {
		return model.School{}, ErrSchoolLimitReached
	}

	taken, err := s.repo.CodeTaken(ctx, org.ID, req.Code)
	if err != nil {
		return model.School{}, err
	}
	if taken {
		return model.School{}, ErrCodeTaken
	}

	sch := model.School{
		OrganizationID: &org.ID,
		Code:           req.Code,
		Name:           req.Name,
		City:           req.City,
		Phone:          req.Phone,
		Email:          req.Email,
		Settings:       req.Settings,
		Active:         true,
	}
	if err := s.repo.Create(ctx, &sch); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return model.School{}, ErrCodeTaken
		}
		return model.School{}, err
	}
	return sch, nil
}

// Get returns a school if the scope can see it.
func (s *Service) Get(ctx context.Context, scope tenant.Scope, id uuid.UUID) (model.School, error) {
	sch, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return model.School{}, err
	}
	if !visible(scope, sch) {
		return model.School{}, ErrNotFound
	}
	return sch, nil
}

// List returns the schools inside the scope.
func (s *Service) List(ctx context.Context, scope tenant.Scope) ([]model.School, error) {
	return s.repo.List(ctx, scope)
}

type UpdateSchool struct {
	Name     *string `json:"name" validate:"omitempty,max=255"`
	City     *string `json:"city" validate:"omitempty,max=100"`
	Phone    *string `json:"phone" validate:"omitempty,max=20"`
	Email    *string `json:"email" validate:"omitempty,email"`
	Settings *string `json:"settings" validate:"omitempty,json"`
	Active   *bool   `json:"active"`
}

func (s *Service) Update(ctx context.Context, scope tenant.Scope, id uuid.UUID, req UpdateSchool) (model.School, error) {
	sch, err := s.Get(ctx, scope, id)
	if err != nil {
		return model.School{}, err
	}

	if req.Name != nil {
		sch.Name = *req.Name
	}
	if req.City != nil {
		sch.City = *req.City
	}
	if req.Phone != nil {
		sch.Phone = *req.Phone
	}
	if req.Email != nil {
		sch.Email = *req.Email
	}
	if req.Settings != nil {
		sch.Settings = *req.Settings
	}
	if req.Active != nil {
		sch.Active = *req.Active
	}

	if err := s.repo.Save(ctx, &sch); err != nil {
		return model.School{}, err
	}
	return sch, nil
}

// Delete deactivates a school. Soft delete only.
func (s *Service) Delete(ctx context.Context, scope tenant.Scope, id uuid.UUID) error {
	if _, err := s.Get(ctx, scope, id); err != nil {
		return err
	}
	return s.repo.SoftDelete(ctx, id)
}

// visible reports whether the scope's boundary contains the school.
func visible(scope tenant.Scope, sch model.School) bool {
	switch scope.Kind {
	case tenant.KindGlobal:
		return true
	case tenant.KindOrganization:
		return sch.OrganizationID != nil && *sch.OrganizationID == scope.OrganizationID
	case tenant.KindSchool:
		return sch.ID == scope.SchoolID
	default:
		return false
	}
}
