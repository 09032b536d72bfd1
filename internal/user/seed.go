package user

import (
	"context"
	"errors"

	"github.com/maktab/maktab/internal/model"
	"golang.org/x/crypto/bcrypt"
)

// ErrSeedPasswordMissing: refusing to seed a platform admin with an empty
// password.
var ErrSeedPasswordMissing = errors.New("seed admin password is not configured")

// SeedPlatformAdmin creates the very first platform admin if none exists.
// This is the only account that is not provisioned by a superior; every
// later account goes through Service.Create. Returns true when an account
// was created.
func SeedPlatformAdmin(ctx context.Context, repo Repository, email, password string) (bool, error) {
	count, err := repo.CountByRole(ctx, model.RolePlatformAdmin)
	if err != nil {
		return false, err
	}
	if count > 0 {
		return false, nil
	}
	if password == "" {
		return false, ErrSeedPasswordMissing
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return false, err
	}

	admin := model.User{
		Email:        email,
		PasswordHash: string(hash),
		FirstName:    "Platform",
		LastName:     "Admin",
		Role:         model.RolePlatformAdmin,
		Status:       model.StatusActive,
	}
	if err := repo.Create(ctx, &admin); err != nil {
		return false, err
	}
	return true, nil
}
