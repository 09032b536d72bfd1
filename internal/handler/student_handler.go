package handler

import (
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/maktab/maktab/internal/middleware"
	"github.com/maktab/maktab/internal/model"
	"github.com/maktab/maktab/internal/school"
	"github.com/maktab/maktab/internal/student"
	"github.com/maktab/maktab/internal/tenant"
	"github.com/maktab/maktab/pkg/logger"
	"github.com/maktab/maktab/prometheus"
	"go.uber.org/zap"
)

// StudentHandler exposes the representative school-scoped domain module.
// Every operation is anchored to a single school: school-scoped principals
// use their own school, wider scopes must name one explicitly and may only
// name schools inside their boundary.
type StudentHandler struct {
	svc     *student.Service
	schools *school.Service
}

func NewStudentHandler(svc *student.Service, schools *school.Service) *StudentHandler {
	return &StudentHandler{svc: svc, schools: schools}
}

// effectiveSchoolID picks the school the request operates on. A school
// scope is authoritative; organization and global scopes must pass
// ?school_id= and the school is checked against the scope boundary.
func (h *StudentHandler) effectiveSchoolID(c echo.Context, scope tenant.Scope) (uuid.UUID, error) {
	if scope.Kind == tenant.KindSchool {
		return scope.SchoolID, nil
	}

	raw := c.QueryParam("school_id")
	if raw == "" {
		return uuid.Nil, echo.NewHTTPError(http.StatusBadRequest, "school_id is required")
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, echo.NewHTTPError(http.StatusBadRequest, "invalid school_id")
	}

	// Visibility check doubles as the cross-tenant rejection.
	if _, err := h.schools.Get(c.Request().Context(), scope, id); err != nil {
		prometheus.RecordTenantViolation("student")
		return uuid.Nil, echo.NewHTTPError(http.StatusForbidden, "school is outside your scope")
	}
	return id, nil
}

func (h *StudentHandler) Create(c echo.Context) error {
	log := logger.FromEcho(c)

	scope, ok := middleware.ScopeFromEcho(c)
	if !ok {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "no resolvable tenant scope"})
	}

	schoolID, err := h.effectiveSchoolID(c, scope)
	if err != nil {
		return err
	}

	var req student.CreateStudent
	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse student creation request", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	st, err := h.svc.Create(c.Request().Context(), schoolID, req)
	if err != nil {
		log.Warn("Student creation failed",
			zap.String("school_id", schoolID.String()),
			zap.Error(err))
		return serviceError(c, err)
	}

	log.Info("Student created",
		zap.String("id", st.ID.String()),
		zap.String("registration_no", st.RegistrationNo))

	return c.JSON(http.StatusCreated, echo.Map{
		"message": "Student created successfully",
		"student": st,
	})
}

func (h *StudentHandler) Get(c echo.Context) error {
	scope, ok := middleware.ScopeFromEcho(c)
	if !ok {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "no resolvable tenant scope"})
	}

	schoolID, err := h.effectiveSchoolID(c, scope)
	if err != nil {
		return err
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid student ID"})
	}

	st, err := h.svc.Get(c.Request().Context(), schoolID, id)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, st)
}

func (h *StudentHandler) List(c echo.Context) error {
	scope, ok := middleware.ScopeFromEcho(c)
	if !ok {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "no resolvable tenant scope"})
	}

	schoolID, err := h.effectiveSchoolID(c, scope)
	if err != nil {
		return err
	}

	q := student.ListQuery{
		Search: c.QueryParam("search"),
		Status: model.StudentStatus(c.QueryParam("status")),
	}
	q.Page, _ = strconv.Atoi(c.QueryParam("page"))
	q.PageSize, _ = strconv.Atoi(c.QueryParam("page_size"))

	students, total, err := h.svc.List(c.Request().Context(), schoolID, q)
	if err != nil {
		logger.FromEcho(c).Error("Failed to list students", zap.Error(err))
		return serviceError(c, err)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"students": students,
		"total":    total,
	})
}

func (h *StudentHandler) Update(c echo.Context) error {
	log := logger.FromEcho(c)

	scope, ok := middleware.ScopeFromEcho(c)
	if !ok {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "no resolvable tenant scope"})
	}

	schoolID, err := h.effectiveSchoolID(c, scope)
	if err != nil {
		return err
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid student ID"})
	}

	var req student.UpdateStudent
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	st, err := h.svc.Update(c.Request().Context(), schoolID, id, req)
	if err != nil {
		log.Warn("Student update failed", zap.String("id", id.String()), zap.Error(err))
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, st)
}

func (h *StudentHandler) Delete(c echo.Context) error {
	log := logger.FromEcho(c)

	scope, ok := middleware.ScopeFromEcho(c)
	if !ok {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "no resolvable tenant scope"})
	}

	schoolID, err := h.effectiveSchoolID(c, scope)
	if err != nil {
		return err
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid student ID"})
	}

	if err := h.svc.Delete(c.Request().Context(), schoolID, id); err != nil {
		return serviceError(c, err)
	}

	log.Info("Student removed", zap.String("id", id.String()))
	return c.JSON(http.StatusOK, echo.Map{"message": "Student removed"})
}
