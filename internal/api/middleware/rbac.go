package middleware

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/samber/lo"

	"github.com/portesillo/tracking-service/internal/core/domain"
)

// RBAC lets a request through only when the identity placed in the context
// by Auth or DevIdentity carries one of allowedRoles. A request without a
// role is unauthenticated; a known role outside the list is forbidden.
func RBAC(allowedRoles ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, _ := c.Get(CtxRole).(string)
			if role == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing identity")
			}
			if !lo.Contains(allowedRoles, role) {
				return fmt.Errorf("%w: role %s on %s %s", domain.ErrForbidden, role, c.Request().Method, c.Path())
			}
			return next(c)
		}
	}
}
