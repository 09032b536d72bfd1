package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/maktab/maktab/internal/tenant"
	"github.com/maktab/maktab/pkg/logger"
	"github.com/maktab/maktab/prometheus"
	"go.uber.org/zap"
)

const scopeKey = "scope"

// TenantGuard resolves the principal's tenant scope and attaches it to the
// request before any domain logic runs. A principal with no usable scope is
// rejected explicitly; silent empty results are not an option. Global scope
// (platform admin) is the only case where no constraint is attached.
func TenantGuard() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			log := logger.FromEcho(c)

			claims, ok := ClaimsFromEcho(c)
			if !ok {
				log.Error("Tenant guard reached without authenticated principal")
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
			}

			scope, err := tenant.Resolve(tenant.Principal{
				UserID:         claims.UserID,
				Role:           claims.Role,
				OrganizationID: claims.OrganizationID,
				SchoolID:       claims.SchoolID,
			})
			if err != nil {
				log.Warn("Principal has no resolvable tenant scope",
					zap.String("user_id", claims.UserID.String()),
					zap.String("role", claims.Role.String()))
				prometheus.RecordScopeError()
				return c.JSON(http.StatusForbidden, echo.Map{"error": "no resolvable tenant scope"})
			}

			c.Set(scopeKey, scope)
			return next(c)
		}
	}
}

// ScopeFromEcho returns the scope attached by TenantGuard.
func ScopeFromEcho(c echo.Context) (tenant.Scope, bool) {
	scope, ok := c.Get(scopeKey).(tenant.Scope)
	return scope, ok
}
