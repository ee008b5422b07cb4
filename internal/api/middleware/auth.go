package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/rof/invgen/internal/core/domain"
	"github.com/rof/invgen/internal/pkg/token"
)

// PrincipalKey is the echo context key holding the authenticated caller.
const PrincipalKey = "principal"

// TokenParser verifies a bearer token and returns its claims.
type TokenParser interface {
	Parse(raw string) (*token.Claims, error)
}

// Auth validates the JWT and injects the caller's domain.Principal into context.
func Auth(tokens TokenParser) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
			if authHeader == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "No token provided")
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || strings.TrimSpace(parts[1]) == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "Invalid authorization header")
			}

			claims, err := tokens.Parse(strings.TrimSpace(parts[1]))
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "Invalid or expired token")
			}

			c.Set(PrincipalKey, claims.Principal())
			return next(c)
		}
	}
}

// Principal returns the caller stored by Auth.
func Principal(c echo.Context) (domain.Principal, bool) {
	p, ok := c.Get(PrincipalKey).(domain.Principal)
	return p, ok
}
