package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/maktab/maktab/internal/auth"
	"github.com/maktab/maktab/internal/organization"
	"github.com/maktab/maktab/internal/school"
	"github.com/maktab/maktab/internal/student"
	"github.com/maktab/maktab/internal/tenant"
	"github.com/maktab/maktab/internal/user"
)

// serviceError maps a service sentinel error onto its HTTP response. Every
// failure is explicit: authorization failures are 403, conflicts 409,
// missing records 404. Unknown errors fall through to 500 without leaking
// internals.
func serviceError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, tenant.ErrUnresolvedScope),
		errors.Is(err, user.ErrForbiddenRoleCreation),
		errors.Is(err, user.ErrCrossTenantViolation),
		errors.Is(err, user.ErrOrganizationRequired),
		errors.Is(err, user.ErrSchoolRequired),
		errors.Is(err, school.ErrCrossTenantViolation),
		errors.Is(err, school.ErrOrganizationRequired),
		errors.Is(err, school.ErrSchoolLimitReached):
		return c.JSON(http.StatusForbidden, echo.Map{"error": err.Error()})

	case errors.Is(err, user.ErrDuplicateAccount),
		errors.Is(err, organization.ErrCodeTaken),
		errors.Is(err, school.ErrCodeTaken),
		errors.Is(err, student.ErrRegistrationNoTaken):
		return c.JSON(http.StatusConflict, echo.Map{"error": err.Error()})

	case errors.Is(err, user.ErrNotFound),
		errors.Is(err, organization.ErrNotFound),
		errors.Is(err, school.ErrNotFound),
		errors.Is(err, student.ErrNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": err.Error()})

	case errors.Is(err, user.ErrUnknownRole):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})

	case errors.Is(err, auth.ErrInvalidCredentials),
		errors.Is(err, auth.ErrAccountLocked),
		errors.Is(err, auth.ErrAccountInactive):
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": err.Error()})

	default:
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
}
