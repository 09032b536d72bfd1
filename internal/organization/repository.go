package organization

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/maktab/maktab/internal/model"
	"github.com/maktab/maktab/prometheus"
	"gorm.io/gorm"
)

type gormRepository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

func (r *gormRepository) Create(ctx context.Context, o *model.Organization) error {
	defer prometheus.TrackDBOperation("insert")(time.Now())
	return r.db.WithContext(ctx).Create(o).Error
}

func (r *gormRepository) GetByID(ctx context.Context, id uuid.UUID) (model.Organization, error) {
	defer prometheus.TrackDBOperation("query")(time.Now())
	var o model.Organization
	err := r.db.WithContext(ctx).First(&o, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Organization{}, ErrNotFound
	}
	return o, err
}

func (r *gormRepository) GetByCode(ctx context.Context, code string) (model.Organization, error) {
	defer prometheus.TrackDBOperation("query")(time.Now())
	var o model.Organization
	err := r.db.WithContext(ctx).First(&o, "code = ?", code).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Organization{}, ErrNotFound
	}
	return o, err
}

func (r *gormRepository) List(ctx context.Context) ([]model.Organization, error) {
	defer prometheus.TrackDBOperation("query")(time.Now())
	var orgs []model.Organization
	err := r.db.WithContext(ctx).Order("name").Find(&orgs).Error
	return orgs, err
}

func (r *gormRepository) Save(ctx context.Context, o *model.Organization) error {
	defer prometheus.TrackDBOperation("update")(time.Now())
	return r.db.WithContext(ctx).Save(o).Error
}

func (r *gormRepository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	defer prometheus.TrackDBOperation("delete")(time.Now())
	return r.db.WithContext(ctx).Delete(&model.Organization{}, "id = ?", id).Error
}
