package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/maktab/maktab/internal/model"
	"github.com/maktab/maktab/pkg/jwtutil"
	"github.com/maktab/maktab/pkg/logger"
	"go.uber.org/zap"
)

const principalKey = "principal"

// JWTAuth validates the bearer token and stores the session claims in the
// Echo context. Token issuance and verification mechanics live in jwtutil;
// from here on the request carries a trusted principal.
func JWTAuth(jwtUtil *jwtutil.JWTUtil) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			log := logger.FromEcho(c)

			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				log.Warn("Missing authorization header")
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing authorization header"})
			}

			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
				log.Warn("Invalid authorization header format")
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid authorization format, expected Bearer token"})
			}

			claims, err := jwtUtil.ValidateToken(parts[1])
			if err != nil {
				log.Warn("Invalid or expired token", zap.Error(err))
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid or expired token"})
			}

			c.Set(principalKey, claims)
			log.Debug("JWT token validated",
				zap.String("user_id", claims.UserID.String()),
				zap.String("role", claims.Role.String()))

			return next(c)
		}
	}
}

// ClaimsFromEcho returns the session claims stored by JWTAuth.
func ClaimsFromEcho(c echo.Context) (*jwtutil.UserClaims, bool) {
	claims, ok := c.Get(principalKey).(*jwtutil.UserClaims)
	return claims, ok
}

// RequireRoles rejects the request unless the principal holds one of the
// given roles. This is the authoritative per-route check; the token's
// permission list is never consulted.
func RequireRoles(roles ...model.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims, ok := ClaimsFromEcho(c)
			if !ok {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
			}
			for _, r := range roles {
				if claims.Role == r {
					return next(c)
				}
			}
			logger.FromEcho(c).Warn("Role not permitted for route",
				zap.String("role", claims.Role.String()),
				zap.String("path", c.Path()))
			return c.JSON(http.StatusForbidden, echo.Map{"error": "insufficient role"})
		}
	}
}
