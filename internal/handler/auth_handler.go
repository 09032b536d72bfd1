package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/maktab/maktab/internal/auth"
	"github.com/maktab/maktab/pkg/logger"
	"github.com/maktab/maktab/prometheus"
	"go.uber.org/zap"
)

// AuthHandler exposes the login path.
type AuthHandler struct {
	svc *auth.Service
}

func NewAuthHandler(svc *auth.Service) *AuthHandler {
	return &AuthHandler{svc: svc}
}

// Login verifies credentials and returns a session token carrying the
// principal's role, tenant ids and derived permission list.
func (h *AuthHandler) Login(c echo.Context) error {
	log := logger.FromEcho(c)
	prometheus.LoginCounter.Inc()

	var req struct {
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required"`
	}

	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse login request", zap.Error(err))
		prometheus.RecordAuthError("invalid_request")
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	if err := c.Validate(&req); err != nil {
		prometheus.RecordAuthError("invalid_request")
		return err
	}

	user, token, err := h.svc.Authenticate(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrAccountLocked):
			log.Warn("Login attempt on locked account", zap.String("email", req.Email))
			prometheus.RecordAuthError("account_locked")
		case errors.Is(err, auth.ErrInvalidCredentials):
			log.Warn("Invalid credentials", zap.String("email", req.Email))
			prometheus.RecordAuthError("invalid_credentials")
		case errors.Is(err, auth.ErrAccountInactive):
			log.Warn("Login attempt on inactive account", zap.String("email", req.Email))
			prometheus.RecordAuthError("account_inactive")
		default:
			log.Error("Login failed", zap.Error(err))
			prometheus.RecordAuthError("internal")
		}
		return serviceError(c, err)
	}

	log.Info("User logged in",
		zap.String("email", user.Email),
		zap.String("role", user.Role.String()))

	return c.JSON(http.StatusOK, echo.Map{
		"token": token,
		"user":  user,
	})
}
