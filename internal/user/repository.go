package user

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/maktab/maktab/internal/model"
	"github.com/maktab/maktab/internal/tenant"
	"github.com/maktab/maktab/prometheus"
	"gorm.io/gorm"
)

// gormRepository persists accounts in Postgres through GORM.
type gormRepository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

func (r *gormRepository) Create(ctx context.Context, u *model.User) error {
	defer prometheus.TrackDBOperation("insert")(time.Now())
	return r.db.WithContext(ctx).Create(u).Error
}

func (r *gormRepository) GetByID(ctx context.Context, id uuid.UUID) (model.User, error) {
	defer prometheus.TrackDBOperation("query")(time.Now())
	var u model.User
	err := r.db.WithContext(ctx).First(&u, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.User{}, ErrNotFound
	}
	return u, err
}

// EmailTaken checks uniqueness inside the resolved tenant scope: per school
// when the account lands in one, per organization for org-level accounts,
// and among tenant-less accounts otherwise.
func (r *gormRepository) EmailTaken(ctx context.Context, email string, schoolID, orgID *uuid.UUID) (bool, error) {
	defer prometheus.TrackDBOperation("query")(time.Now())
	q := r.db.WithContext(ctx).Model(&model.User{}).Where("email = ?", email)
	switch {
	case schoolID != nil:
		q = q.Where("school_id = ?", *schoolID)
	case orgID != nil:
		q = q.Where("organization_id = ? AND school_id IS NULL", *orgID)
	default:
		q = q.Where("organization_id IS NULL AND school_id IS NULL")
	}

	var count int64
	if err := q.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *gormRepository) List(ctx context.Context, f ListFilter) ([]model.User, error) {
	defer prometheus.TrackDBOperation("query")(time.Now())
	q := r.db.WithContext(ctx).Model(&model.User{})
	switch {
	case f.SelfID != nil:
		q = q.Where("users.id = ?", *f.SelfID)
	case f.Scope.Kind == tenant.KindOrganization:
		// Organization visibility includes users placed in the org's
		// schools, which needs the join; the single-column scopes go
		// through Constrain below.
		q = q.Joins("LEFT JOIN schools ON schools.id = users.school_id").
			Where("users.organization_id = ? OR schools.organization_id = ?",
				f.Scope.OrganizationID, f.Scope.OrganizationID)
	default:
		q = f.Scope.Constrain(q)
	}

	var users []model.User
	err := q.Order("users.created_at").Find(&users).Error
	return users, err
}

func (r *gormRepository) Suspend(ctx context.Context, id uuid.UUID) error {
	defer prometheus.TrackDBOperation("update")(time.Now())
	res := r.db.WithContext(ctx).Model(&model.User{}).
		Where("id = ?", id).
		Update("status", model.StatusSuspended)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *gormRepository) CountByRole(ctx context.Context, role model.Role) (int64, error) {
	defer prometheus.TrackDBOperation("query")(time.Now())
	var count int64
	err := r.db.WithContext(ctx).Model(&model.User{}).
		Where("role = ?", role).
		Count(&count).Error
	return count, err
}

func (r *gormRepository) GetSchool(ctx context.Context, id uuid.UUID) (model.School, error) {
	defer prometheus.TrackDBOperation("query")(time.Now())
	var s model.School
	err := r.db.WithContext(ctx).First(&s, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.School{}, ErrNotFound
	}
	return s, err
}
