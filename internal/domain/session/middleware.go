package session

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

// RequireSession validates the bearer token on workspace routes and attaches
// the caller's email and role to the echo context. A skipper exempts open
// endpoints (auth, health, metrics, the ws upgrade).
func RequireSession(svc *Service, skipper func(echo.Context) bool) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if skipper != nil && skipper(c) {
				return next(c)
			}

			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization format")
			}

			claims, err := svc.ParseToken(parts[1])
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid or expired token")
			}

			c.Set("user_email", claims.Email)
			c.Set("user_role", claims.Role)
			return next(c)
		}
	}
}
