// Package organization manages top-level tenants. All operations here are
// platform-admin only; the route guard enforces that.
package organization

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/maktab/maktab/internal/model"
	"gorm.io/gorm"
)

var (
	// ErrCodeTaken: another organization already uses this code.
	ErrCodeTaken = errors.New("an organization with this code already exists")
	// ErrNotFound: no such organization.
	ErrNotFound = errors.New("organization not found")
)

type (
	Repository interface {
		Create(ctx context.Context, o *model.Organization) error
		GetByID(ctx context.Context, id uuid.UUID) (model.Organization, error)
		GetByCode(ctx context.Context, code string) (model.Organization, error)
		List(ctx context.Context) ([]model.Organization, error)
		Save(ctx context.Context, o *model.Organization) error
		SoftDelete(ctx context.Context, id uuid.UUID) error
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

type CreateOrganization struct {
	Code       string `json:"code" validate:"required,max=50"`
	Name       string `json:"name" validate:"required,max=255"`
	City       string `json:"city" validate:"omitempty,max=100"`
	Country    string `json:"country" validate:"omitempty,max=100"`
	Phone      string `json:"phone" validate:"omitempty,max=20"`
	Email      string `json:"email" validate:"omitempty,email"`
	MaxSchools int    `json:"max_schools" validate:"omitempty,min=1"`
}

func (s *Service) Create(ctx context.Context, req CreateOrganization) (model.Organization, error) {
	if _, err := s.repo.GetByCode(ctx, req.Code); err == nil {
		return model.Organization{}, ErrCodeTaken
	} else if !errors.Is(err, ErrNotFound) {
		return model.Organization{}, err
	}

	maxSchools := req.MaxSchools
	if maxSchools == 0 {
		maxSchools = 10
	}

	o := model.Organization{
		Code:       req.Code,
		Name:       req.Name,
		City:       req.City,
		Country:    req.Country,
		Phone:      req.Phone,
		Email:      req.Email,
		MaxSchools: maxSchools,
		Active:     true,
	}
	if err := s.repo.Create(ctx, &o); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return model.Organization{}, ErrCodeTaken
		}
		return model.Organization{}, err
	}
	return o, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (model.Organization, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context) ([]model.Organization, error) {
	return s.repo.List(ctx)
}

type UpdateOrganization struct {
	Name       *string `json:"name" validate:"omitempty,max=255"`
	City       *string `json:"city" validate:"omitempty,max=100"`
	Country    *string `json:"country" validate:"omitempty,max=100"`
	Phone      *string `json:"phone" validate:"omitempty,max=20"`
	Email      *string `json:"email" validate:"omitempty,email"`
	MaxSchools *int    `json:"max_schools" validate:"omitempty,min=1"`
	Active     *bool   `json:"active"`
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, req UpdateOrganization) (model.Organization, error) {
	o, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return model.Organization{}, err
	}

	if req.Name != nil {
		o.Name = *req.Name
	}
	if req.City != nil {
		o.City = *req.City
	}
	if req.Country != nil {
		o.Country = *req.Country
	}
	if req.Phone != nil {
		o.Phone = *req.Phone
	}
	if req.Email != nil {
		o.Email = *req.Email
	}
	if req.MaxSchools != nil {
		o.MaxSchools = *req.MaxSchools
	}
	if req.Active != nil {
		o.Active = *req.Active
	}

	if err := s.repo.Save(ctx, &o); err != nil {
		return model.Organization{}, err
	}
	return o, nil
}

// Delete deactivates the organization. Soft delete only: the row stays
// referenced by its schools and users.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return err
	}
	return s.repo.SoftDelete(ctx, id)
}
