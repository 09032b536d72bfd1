package school

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

type gormRepository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

func (r *gormRepository) Create(ctx context.Context, s *model.School) error {
	defer prometheus.TrackDBOperation("insert")(time.Now())
	return r.db.WithContext(ctx).Create(s).Error
}

func (r *gormRepository) GetByID(ctx context.Context, id uuid.UUID) (model.School, error) {
	defer prometheus.TrackDBOperation("query")(time.Now())
	var s model.School
	err := r.db.WithContext(ctx).First(&s, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.School{}, ErrNotFound
	}
	return s, err
}

func (r *gormRepository) CodeTaken(ctx context.Context, orgID uuid.UUID, code string) (bool, error) {
	defer prometheus.TrackDBOperation("query")(time.Now())
	var count int64
	err := r.db.WithContext(ctx).Model(&model.School{}).
		Where("organization_id = ? AND code = ?", orgID, code).
		Count(&count).Error
	return count > 0, err
}

func (r *gormRepository) CountByOrganization(ctx context.Context, orgID uuid.UUID) (int64, error) {
	defer prometheus.TrackDBOperation("query")(time.Now())
	var count int64
	err := r.db.WithContext(ctx).Model(&model.School{}).
		Where("organization_id = ?", orgID).
		Count(&count).Error
	return count, err
}

func (r *gormRepository) List(ctx context.Context, scope tenant.Scope) ([]model.School, error) {
	defer prometheus.TrackDBOperation("query")(time.Now())
	q := r.db.WithContext(ctx).Model(&model.School{})
	if scope.Kind == tenant.KindSchool {
		// A school row's own id is its school id, so the school-scoped
		// constraint lands on the primary key here.
		q = q.Where("id = ?", scope.SchoolID)
	} else {
		q = scope.Constrain(q)
	}

	var schools []model.School
	err := q.Order("name").Find(&schools).Error
	return schools, err
}

func (r *gormRepository) Save(ctx context.Context, s *model.School) error {
	defer prometheus.TrackDBOperation("update")(time.Now())
	return r.db.WithContext(ctx).Save(s).Error
}

func (r *gormRepository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	defer prometheus.TrackDBOperation("delete")(time.Now())
	return r.db.WithContext(ctx).Delete(&model.School{}, "id = ?", id).Error
}

func (r *gormRepository) GetOrganization(ctx context.Context, id uuid.UUID) (model.Organization, error) {
	defer prometheus.TrackDBOperation("query")(time.Now())
	var o model.Organization
	err := r.db.WithContext(ctx).First(&o, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Organization{}, ErrNotFound
	}
	return o, err
}
