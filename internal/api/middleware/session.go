package middleware

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/bibliotek/library-system/internal/core/domain"
)

// SessionCookie is the cookie carrying the opaque session ID.
const SessionCookie = "library_session"

// SessionResolver maps an opaque session ID back to the identity it was
// issued for. Backed by the Redis session store in production.
type SessionResolver interface {
	Resolve(ctx context.Context, id string) (domain.Identity, error)
}

// Session resolves the caller's identity from the session cookie and injects
// it into context. Missing, expired or revoked sessions yield 401.
func Session(resolver SessionResolver) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			cookie, err := c.Cookie(SessionCookie)
			if err != nil || cookie.Value == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing session")
			}

			identity, err := resolver.Resolve(c.Request().Context(), cookie.Value)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid session")
			}

			c.Set(identityKey, identity)
			return next(c)
		}
	}
}
