package student

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

func (r *gormRepository) Create(ctx context.Context, st *model.Student) error {
	defer prometheus.TrackDBOperation("insert")(time.Now())
	return r.db.WithContext(ctx).Create(st).Error
}

func (r *gormRepository) GetByID(ctx context.Context, schoolID, id uuid.UUID) (model.Student, error) {
	defer prometheus.TrackDBOperation("query")(time.Now())
	var st model.Student
	err := r.db.WithContext(ctx).
		First(&st, "id = ? AND school_id = ?", id, schoolID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Student{}, ErrNotFound
	}
	return st, err
}

func (r *gormRepository) RegistrationNoTaken(ctx context.Context, schoolID uuid.UUID, regNo string) (bool, error) {
	defer prometheus.TrackDBOperation("query")(time.Now())
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Student{}).
		Where("school_id = ? AND registration_no = ?", schoolID, regNo).
		Count(&count).Error
	return count > 0, err
}

func (r *gormRepository) List(ctx context.Context, schoolID uuid.UUID, q ListQuery) ([]model.Student, int64, error) {
	defer prometheus.TrackDBOperation("query")(time.Now())
	query := r.db.WithContext(ctx).Model(&model.Student{}).
		Where("school_id = ?", schoolID)

	if q.Search != "" {
		pattern := "%" + q.Search + "%"
		query = query.Where(
			"first_name ILIKE ? OR last_name ILIKE ? OR registration_no ILIKE ?",
			pattern, pattern, pattern,
		)
	}
	if q.Status != "" {
		query = query.Where("status = ?", q.Status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var students []model.Student
	err := query.Order("last_name, first_name").
		Offset((q.Page - 1) * q.PageSize).
		Limit(q.PageSize).
		Find(&students).Error
	return students, total, err
}

func (r *gormRepository) Save(ctx context.Context, st *model.Student) error {
	defer prometheus.TrackDBOperation("update")(time.Now())
	return r.db.WithContext(ctx).Save(st).Error
}

func (r *gormRepository) SoftDelete(ctx context.Context, schoolID, id uuid.UUID) error {
	defer prometheus.TrackDBOperation("delete")(time.Now())
	res := r.db.WithContext(ctx).
		Where("school_id = ?", schoolID).
		Delete(&model.Student{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
