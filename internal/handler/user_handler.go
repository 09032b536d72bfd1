package handler

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/maktab/maktab/internal/middleware"
	"github.com/maktab/maktab/internal/model"
	"github.com/maktab/maktab/internal/user"
	"github.com/maktab/maktab/pkg/jwtutil"
	"github.com/maktab/maktab/pkg/logger"
	"github.com/maktab/maktab/prometheus"
	"go.uber.org/zap"
)

// UserHandler exposes account provisioning and scoped account queries.
type UserHandler struct {
	svc *user.Service
}

func NewUserHandler(svc *user.Service) *UserHandler {
	return &UserHandler{svc: svc}
}

// principalUser rebuilds the acting account from the session claims. The
// upstream token boundary has already validated them.
func principalUser(claims *jwtutil.UserClaims) model.User {
	return model.User{
		ID:             claims.UserID,
		Email:          claims.Email,
		Role:           claims.Role,
		OrganizationID: claims.OrganizationID,
		SchoolID:       claims.SchoolID,
	}
}

// Create provisions a subordinate account under the hierarchy and tenant
// rules.
func (h *UserHandler) Create(c echo.Context) error {
	log := logger.FromEcho(c)

	claims, ok := middleware.ClaimsFromEcho(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}

	var req user.CreateUser
	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse user creation request", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	created, err := h.svc.Create(c.Request().Context(), principalUser(claims), req)
	if err != nil {
		switch {
		case errors.Is(err, user.ErrForbiddenRoleCreation):
			log.Warn("Forbidden role creation attempt",
				zap.String("creator_role", claims.Role.String()),
				zap.String("target_role", req.Role.String()))
			prometheus.RecordProvisionOutcome("forbidden_role")
		case errors.Is(err, user.ErrCrossTenantViolation):
			log.Warn("Cross-tenant user creation attempt",
				zap.String("creator_id", claims.UserID.String()))
			prometheus.RecordTenantViolation("user")
			prometheus.RecordProvisionOutcome("cross_tenant")
		case errors.Is(err, user.ErrDuplicateAccount):
			prometheus.RecordProvisionOutcome("duplicate")
		default:
			log.Error("User creation failed", zap.Error(err))
			prometheus.RecordProvisionOutcome("error")
		}
		return serviceError(c, err)
	}

	prometheus.RecordProvisionOutcome("created")
	log.Info("User created",
		zap.String("id", created.ID.String()),
		zap.String("email", created.Email),
		zap.String("role", created.Role.String()))

	return c.JSON(http.StatusCreated, echo.Map{
		"message": "User created successfully",
		"user":    created,
	})
}

// List returns the accounts visible within the caller's scope.
func (h *UserHandler) List(c echo.Context) error {
	log := logger.FromEcho(c)

	claims, ok := middleware.ClaimsFromEcho(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}

	users, err := h.svc.List(c.Request().Context(), principalUser(claims))
	if err != nil {
		log.Error("Failed to list users", zap.Error(err))
		return serviceError(c, err)
	}

	return c.JSON(http.StatusOK, echo.Map{"users": users})
}

// Get returns one account if it falls inside the caller's scope.
func (h *UserHandler) Get(c echo.Context) error {
	log := logger.FromEcho(c)

	claims, ok := middleware.ClaimsFromEcho(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid user ID"})
	}

	u, err := h.svc.Get(c.Request().Context(), principalUser(claims), id)
	if err != nil {
		log.Warn("User lookup failed", zap.String("id", id.String()), zap.Error(err))
		return serviceError(c, err)
	}

	return c.JSON(http.StatusOK, u)
}

// Suspend deactivates an account inside the caller's scope. Accounts are
// never hard-deleted.
func (h *UserHandler) Suspend(c echo.Context) error {
	log := logger.FromEcho(c)

	claims, ok := middleware.ClaimsFromEcho(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid user ID"})
	}

	if err := h.svc.Suspend(c.Request().Context(), principalUser(claims), id); err != nil {
		log.Warn("User suspension failed", zap.String("id", id.String()), zap.Error(err))
		return serviceError(c, err)
	}

	log.Info("User suspended", zap.String("id", id.String()))
	return c.JSON(http.StatusOK, echo.Map{"message": "User suspended"})
}
