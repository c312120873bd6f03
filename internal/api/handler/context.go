package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/macapp/admin-console/internal/session"
)

// currentSession returns the store loaded by the session middleware, or nil
// when the middleware did not run.
func currentSession(c echo.Context) *session.Store {
	s, _ := c.Get(session.ContextKey).(*session.Store)
	return s
}
