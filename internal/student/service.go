// Package student is the representative school-owned domain module: every
// operation takes the school id resolved from the request scope as a
// mandatory filter. The other domain modules of the dashboard (fees,
// attendance, grades, ...) repeat this exact shape.
package student

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/maktab/maktab/internal/model"
	"gorm.io/gorm"
)

var (
	// ErrNotFound: no such student within this school.
	ErrNotFound = errors.New("student not found")
	// ErrRegistrationNoTaken: the registration number is used in this school.
	ErrRegistrationNoTaken = errors.New("a student with this registration number already exists in this school")
)

type (
	// ListQuery carries pagination and filtering for student listings.
	ListQuery struct {
		Page     int
		PageSize int
		Search   string
		Status   model.StudentStatus
	}

	Repository interface {
		Create(ctx context.Context, st *model.Student) error
		GetByID(ctx context.Context, schoolID, id uuid.UUID) (model.Student, error)
		RegistrationNoTaken(ctx context.Context, schoolID uuid.UUID, regNo string) (bool, error)
		List(ctx context.Context, schoolID uuid.UUID, q ListQuery) ([]model.Student, int64, error)
		Save(ctx context.Context, st *model.Student) error
		SoftDelete(ctx context.Context, schoolID, id uuid.UUID) error
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

type CreateStudent struct {
	RegistrationNo string    `json:"registration_no" validate:"required,max=50"`
	FirstName      string    `json:"first_name" validate:"required,max=100"`
	LastName       string    `json:"last_name" validate:"omitempty,max=100"`
	AdmissionDate  time.Time `json:"admission_date"`
}

func (s *Service) Create(ctx context.Context, schoolID uuid.UUID, req CreateStudent) (model.Student, error) {
	taken, err := s.repo.RegistrationNoTaken(ctx, schoolID, req.RegistrationNo)
	if err != nil {
		return model.Student{}, err
	}
	if taken {
		return model.Student{}, ErrRegistrationNoTaken
	}

	admission := req.AdmissionDate
	if admission.IsZero() {
		admission = time.Now()
	}

	st := model.Student{
		SchoolID:       schoolID,
		RegistrationNo: req.RegistrationNo,
		FirstName:      req.FirstName,
		LastName:       req.LastName,
		AdmissionDate:  admission,
		Status:         model.StudentActive,
	}
	if err := s.repo.Create(ctx, &st); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return model.Student{}, ErrRegistrationNoTaken
		}
		return model.Student{}, err
	}
	return st, nil
}

func (s *Service) Get(ctx context.Context, schoolID, id uuid.UUID) (model.Student, error) {
	return s.repo.GetByID(ctx, schoolID, id)
}

// List returns one page of the school's students plus the total count.
func (s *Service) List(ctx context.Context, schoolID uuid.UUID, q ListQuery) ([]model.Student, int64, error) {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.PageSize < 1 || q.PageSize > 100 {
		q.PageSize = 20
	}
	return s.repo.List(ctx, schoolID, q)
}

type UpdateStudent struct {
	RegistrationNo *string              `json:"registration_no" validate:"omitempty,max=50"`
	FirstName      *string              `json:"first_name" validate:"omitempty,max=100"`
	LastName       *string              `json:"last_name" validate:"omitempty,max=100"`
	Status         *model.StudentStatus `json:"status"`
}

func (s *Service) Update(ctx context.Context, schoolID, id uuid.UUID, req UpdateStudent) (model.Student, error) {
	st, err := s.repo.GetByID(ctx, schoolID, id)
	if err != nil {
		return model.Student{}, err
	}

	if req.RegistrationNo != nil && *req.RegistrationNo != st.RegistrationNo {
		taken, err := s.repo.RegistrationNoTaken(ctx, schoolID, *req.RegistrationNo)
		if err != nil {
			return model.Student{}, err
		}
		if taken {
			return model.Student{}, ErrRegistrationNoTaken
		}
		st.RegistrationNo = *req.RegistrationNo
	}
	if req.FirstName != nil {
		st.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		st.LastName = *req.LastName
	}
	if req.Status != nil {
		st.Status = *req.Status
	}

	if err := s.repo.Save(ctx, &st); err != nil {
		return model.Student{}, err
	}
	return st, nil
}

func (s *Service) Delete(ctx context.Context, schoolID, id uuid.UUID) error {
	if _, err := s.repo.GetByID(ctx, schoolID, id); err != nil {
		return err
	}
	return s.repo.SoftDelete(ctx, schoolID, id)
}
