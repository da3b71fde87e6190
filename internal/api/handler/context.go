package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/portesillo/tracking-service/internal/api/metrics"
	"github.com/portesillo/tracking-service/internal/api/middleware"
	"github.com/portesillo/tracking-service/internal/core/domain"
)

// ctxIdentity extracts the caller identity injected by the identity
// middleware and performs a fast-fail check before any service call:
//   - role must be non-empty (presence proves the middleware ran).
//   - customers and drivers must carry a user id; admins may act without one.
func ctxIdentity(c echo.Context) (userID, role string, err error) {
	role, _ = c.Get(middleware.CtxRole).(string)
	if role == "" {
		return "", "", echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}

	userID, _ = c.Get(middleware.CtxUserID).(string)
	if role != domain.RoleAdmin && userID == "" {
		return "", "", echo.NewHTTPError(http.StatusUnauthorized, "token missing user identity")
	}

	return userID, role, nil
}

// observe counts a failed operation by reason and hands the error back for
// the central error handler.
func observe(operation string, err error) error {
	metrics.RequestErrorsTotal.WithLabelValues(operation, errorReason(err)).Inc()
	return err
}

func errorReason(err error) string {
	switch {
	case errors.Is(err, domain.ErrOrderNotFound):
		return "not_found"
	case errors.Is(err, domain.ErrInvalidTransition), errors.Is(err, domain.ErrDriverAlreadyAssigned):
		return "invalid_transition"
	case errors.Is(err, domain.ErrInvalidState):
		return "invalid_state"
	case errors.Is(err, domain.ErrMalformedInput):
		return "malformed"
	case errors.Is(err, domain.ErrStaleLocation):
		return "stale"
	case errors.Is(err, domain.ErrConflict):
		return "conflict"
	case errors.Is(err, domain.ErrForbidden):
		return "forbidden"
	default:
		return "internal"
	}
}
