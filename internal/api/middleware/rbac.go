package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/bibliotek/library-system/internal/core/domain"
)

// RBAC enforces role-based access control on the resolved identity. It only
// gates by role; per-resource self-or-admin checks live in the services.
func RBAC(allowedRoles ...string) echo.MiddlewareFunc {
	allowed := make(map[string]struct{}, len(allowedRoles))
	for _, r := range allowedRoles {
		allowed[r] = struct{}{}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			identity, _ := c.Get(identityKey).(domain.Identity)
			if _, ok := allowed[identity.Role]; !ok {
				return c.JSON(http.StatusForbidden, map[string]string{"error": "forbidden"})
			}
			return next(c)
		}
	}
}
