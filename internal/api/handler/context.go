package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/rof/invgen/internal/api/middleware"
	"github.com/rof/invgen/internal/core/domain"
)

// ctxPrincipal extracts the caller injected by the Auth middleware and
// performs a fast-fail check before any service call:
//   - the principal must be present (presence proves the middleware ran).
//   - a User-role token without a project is structurally valid but
//     cannot be scoped, so it is rejected with 401.
func ctxPrincipal(c echo.Context) (domain.Principal, error) {
	p, ok := middleware.Principal(c)
	if !ok || p.UserID == "" || p.Role == "" {
		return domain.Principal{}, echo.NewHTTPError(http.StatusUnauthorized, "Missing authentication claims")
	}
	if p.Role == domain.RoleUser && p.Project == "" {
		return domain.Principal{}, echo.NewHTTPError(http.StatusUnauthorized, "Token missing project")
	}
	return p, nil
}

// errInvalidPayload is returned when the request body cannot be decoded.
var errInvalidPayload = echo.NewHTTPError(http.StatusBadRequest, "Invalid payload")
