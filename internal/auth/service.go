// Package auth owns the login path: credential verification, the account
// lockout counter, and session token issuance with the role's derived
// permission list.
package auth

import (
	"context"
	"errors"
	"time"

	"github.com/maktab/maktab/internal/model"
	"github.com/maktab/maktab/internal/role"
	"github.com/maktab/maktab/pkg/jwtutil"
	"github.com/maktab/maktab/prometheus"
	"golang.org/x/crypto/bcrypt"
)

var (
	// ErrInvalidCredentials covers both unknown email and wrong password, so
	// callers cannot tell which accounts exist.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrAccountLocked: too many consecutive failures; wait out the window.
	ErrAccountLocked = errors.New("account is temporarily locked")
	// ErrAccountInactive: the account exists but is not in active status.
	ErrAccountInactive = errors.New("account is not active")
)

type (
	// Repository is the persistence contract for the login path.
	Repository interface {
		GetByEmail(ctx context.Context, email string) (model.User, error)
		SaveLoginState(ctx context.Context, u *model.User) error
	}

	// Service authenticates principals and issues session tokens.
	Service struct {
		repo        Repository
		tokens      *jwtutil.JWTUtil
		maxAttempts int
		lockWindow  time.Duration
		now         func() time.Time
	}
)

func NewService(repo Repository, tokens *jwtutil.JWTUtil, maxAttempts int, lockWindow time.Duration) *Service {
	return &Service{
		repo:        repo,
		tokens:      tokens,
		maxAttempts: maxAttempts,
		lockWindow:  lockWindow,
		now:         time.Now,
	}
}

// Authenticate verifies the credentials and returns the account plus a
// signed session token. Failed attempts increment the per-account counter;
// the account locks for the configured window once the counter reaches the
// limit, and a lock blocks even correct credentials until it elapses. A
// successful login resets the counter and clears the lock.
func (s *Service) Authenticate(ctx context.Context, email, password string) (model.User, string, error) {
	u, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return model.User{}, "", ErrInvalidCredentials
		}
		return model.User{}, "", err
	}

	now := s.now()
	if u.Locked(now) {
		return model.User{}, "", ErrAccountLocked
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		u.FailedLoginAttempts++
		if u.FailedLoginAttempts >= s.maxAttempts {
			lockedUntil := now.Add(s.lockWindow)
			u.LockedUntil = &lockedUntil
			prometheus.RecordAccountLockout()
		}
		if saveErr := s.repo.SaveLoginState(ctx, &u); saveErr != nil {
			return model.User{}, "", saveErr
		}
		return model.User{}, "", ErrInvalidCredentials
	}

	if u.Status != model.StatusActive {
		return model.User{}, "", ErrAccountInactive
	}

	u.FailedLoginAttempts = 0
	u.LockedUntil = nil
	u.LastLoginAt = &now
	if err := s.repo.SaveLoginState(ctx, &u); err != nil {
		return model.User{}, "", err
	}

	token, err := s.tokens.GenerateToken(u, role.PermissionsFor(u.Role))
	if err != nil {
		return model.User{}, "", err
	}

	u.PasswordHash = ""
	return u, token, nil
}
