package handler

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/maktab/maktab/internal/middleware"
	"github.com/maktab/maktab/internal/school"
	"github.com/maktab/maktab/pkg/logger"
	"github.com/maktab/maktab/prometheus"
	"go.uber.org/zap"
)

// SchoolHandler exposes school management inside the caller's scope.
type SchoolHandler struct {
	svc *school.Service
}

func NewSchoolHandler(svc *school.Service) *SchoolHandler {
	return &SchoolHandler{svc: svc}
}

func (h *SchoolHandler) Create(c echo.Context) error {
	log := logger.FromEcho(c)

	claims, ok := middleware.ClaimsFromEcho(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}

	var req school.CreateSchool
	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse school creation request", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	sch, err := h.svc.Create(c.Request().Context(), principalUser(claims), req)
	if err != nil {
		if errors.Is(err, school.ErrCrossTenantViolation) {
			log.Warn("Cross-tenant school creation attempt",
				zap.String("creator_id", claims.UserID.String()))
			prometheus.RecordTenantViolation("school")
		}
		return serviceError(c, err)
	}

	log.Info("School created",
		zap.String("id", sch.ID.String()),
		zap.String("code", sch.Code))

	return c.JSON(http.StatusCreated, echo.Map{
		"message": "School created successfully",
		"school":  sch,
	})
}

func (h *SchoolHandler) Get(c echo.Context) error {
	scope, ok := middleware.ScopeFromEcho(c)
	if !ok {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "no resolvable tenant scope"})
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid school ID"})
	}

	sch, err := h.svc.Get(c.Request().Context(), scope, id)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, sch)
}

func (h *SchoolHandler) List(c echo.Context) error {
	scope, ok := middleware.ScopeFromEcho(c)
	if !ok {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "no resolvable tenant scope"})
	}

	schools, err := h.svc.List(c.Request().Context(), scope)
	if err != nil {
		logger.FromEcho(c).Error("Failed to list schools", zap.Error(err))
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"schools": schools})
}

func (h *SchoolHandler) Update(c echo.Context) error {
	log := logger.FromEcho(c)

	scope, ok := middleware.ScopeFromEcho(c)
	if !ok {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "no resolvable tenant scope"})
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid school ID"})
	}

	var req school.UpdateSchool
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	sch, err := h.svc.Update(c.Request().Context(), scope, id, req)
	if err != nil {
		log.Warn("School update failed", zap.String("id", id.String()), zap.Error(err))
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, sch)
}

func (h *SchoolHandler) Delete(c echo.Context) error {
	log := logger.FromEcho(c)

	scope, ok := middleware.ScopeFromEcho(c)
	if !ok {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "no resolvable tenant scope"})
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid school ID"})
	}

	if err := h.svc.Delete(c.Request().Context(), scope, id); err != nil {
		return serviceError(c, err)
	}

	log.Info("School deactivated", zap.String("id", id.String()))
	return c.JSON(http.StatusOK, echo.Map{"message": "School deactivated"})
}
