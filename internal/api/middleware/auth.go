package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/macapp/admin-console/internal/core/domain"
	"github.com/macapp/admin-console/internal/session"
)

// Session decodes the admin-session cookie once per request and keeps the
// resulting store in the echo context under session.ContextKey.
func Session(codec *session.Codec) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Set(session.ContextKey, codec.Load(c.Request()))
			return next(c)
		}
	}
}

// RequireAuth rejects the request with domain.ErrUnauthenticated unless the
// session holds a logged-in user. It must run after Session.
func RequireAuth() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			store, _ := c.Get(session.ContextKey).(*session.Store)
			if store == nil || !store.Authenticated() {
				return domain.ErrUnauthenticated
			}
			return next(c)
		}
	}
}

// GuardWrites applies RequireAuth to every method except GET, HEAD and
// OPTIONS. Reads stay public.
func GuardWrites() echo.MiddlewareFunc {
	auth := RequireAuth()
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		guarded := auth(next)
		return func(c echo.Context) error {
			switch c.Request().Method {
			case http.MethodGet, http.MethodHead, http.MethodOptions:
				return next(c)
			}
			return guarded(c)
		}
	}
}
