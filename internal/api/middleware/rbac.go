package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/glamora/backoffice-system/internal/core/domain"
)

// RBAC restricts a route to the given roles. It reads the role claim the
// Auth middleware injected; an empty claim means Auth did not run and the
// request is rejected outright.
func RBAC(allowedRoles ...domain.Role) echo.MiddlewareFunc {
	allowed := make(map[domain.Role]struct{}, len(allowedRoles))
	for _, r := range allowedRoles {
		allowed[r] = struct{}{}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, _ := c.Get("role").(string)
			if _, ok := allowed[domain.Role(role)]; !ok {
				return c.JSON(http.StatusForbidden, map[string]string{"error": "forbidden"})
			}
			return next(c)
		}
	}
}
