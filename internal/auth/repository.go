package auth

import (
	"context"
	"errors"
	"time"

	"github.com/maktab/maktab/internal/model"
	"github.com/maktab/maktab/prometheus"
	"gorm.io/gorm"
)

// ErrUserNotFound: no account carries this email anywhere.
var ErrUserNotFound = errors.New("user not found")

type gormRepository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

func (r *gormRepository) GetByEmail(ctx context.Context, email string) (model.User, error) {
	defer prometheus.TrackDBOperation("query")(time.Now())
	var u model.User
	err := r.db.WithContext(ctx).First(&u, "email = ?", email).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.User{}, ErrUserNotFound
	}
	return u, err
}

// SaveLoginState persists only the lockout and session-tracking columns,
// never touching tenant placement or the credential hash.
func (r *gormRepository) SaveLoginState(ctx context.Context, u *model.User) error {
	defer prometheus.TrackDBOperation("update")(time.Now())
	return r.db.WithContext(ctx).Model(u).
		Select("failed_login_attempts", "locked_until", "last_login_at").
		Updates(map[string]interface{}{
			"failed_login_attempts": u.FailedLoginAttempts,
			"locked_until":          u.LockedUntil,
			"last_login_at":         u.LastLoginAt,
		}).Error
}
