package handler

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/maktab/maktab/internal/organization"
	"github.com/maktab/maktab/pkg/logger"
	"go.uber.org/zap"
)

// OrganizationHandler exposes organization management. Routes behind this
// handler are platform-admin only.
type OrganizationHandler struct {
	svc *organization.Service
}

func NewOrganizationHandler(svc *organization.Service) *OrganizationHandler {
	return &OrganizationHandler{svc: svc}
}

func (h *OrganizationHandler) Create(c echo.Context) error {
	log := logger.FromEcho(c)

	var req organization.CreateOrganization
	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse organization creation request", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	org, err := h.svc.Create(c.Request().Context(), req)
	if err != nil {
		log.Warn("Organization creation failed", zap.String("code", req.Code), zap.Error(err))
		return serviceError(c, err)
	}

	log.Info("Organization created",
		zap.String("id", org.ID.String()),
		zap.String("code", org.Code))

	return c.JSON(http.StatusCreated, echo.Map{
		"message":      "Organization created successfully",
		"organization": org,
	})
}

func (h *OrganizationHandler) Get(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid organization ID"})
	}

	org, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, org)
}

func (h *OrganizationHandler) List(c echo.Context) error {
	orgs, err := h.svc.List(c.Request().Context())
	if err != nil {
		logger.FromEcho(c).Error("Failed to list organizations", zap.Error(err))
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"organizations": orgs})
}

func (h *OrganizationHandler) Update(c echo.Context) error {
	log := logger.FromEcho(c)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid organization ID"})
	}

	var req organization.UpdateOrganization
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	org, err := h.svc.Update(c.Request().Context(), id, req)
	if err != nil {
		log.Warn("Organization update failed", zap.String("id", id.String()), zap.Error(err))
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, org)
}

func (h *OrganizationHandler) Delete(c echo.Context) error {
	log := logger.FromEcho(c)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid organization ID"})
	}

	if err := h.svc.Delete(c.Request().Context(), id); err != nil {
		return serviceError(c, err)
	}

	log.Info("Organization deactivated", zap.String("id", id.String()))
	return c.JSON(http.StatusOK, echo.Map{"message": "Organization deactivated"})
}
