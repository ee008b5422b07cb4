package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/rof/invgen/internal/core/domain"
)

// RBAC enforces role-based access control. It must run after Auth.
func RBAC(allowedRoles ...domain.Role) echo.MiddlewareFunc {
	allowed := make(map[domain.Role]struct{}, len(allowedRoles))
	for _, r := range allowedRoles {
		allowed[r] = struct{}{}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			p, _ := Principal(c)
			if _, ok := allowed[p.Role]; !ok {
				return c.JSON(http.StatusForbidden, map[string]string{"message": "Access denied"})
			}
			return next(c)
		}
	}
}
