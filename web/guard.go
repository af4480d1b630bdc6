package web

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"schoolhub/core/session"
)

const sessionContextKey = "appSession"

// sessionMiddleware rehydrates the session record once per request and makes
// it available to every handler. It always stores a value, anonymous or not,
// so that a missing key can only mean a wiring defect.
//
// An expired access token is traded in here when the record still holds a
// refresh token; the renewed record is written back under its original
// remember scope. When renewal is impossible the request proceeds anonymous
// and the guard sends it to the login screen.
func (s *server) sessionMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		sess, remember := s.cookies.Load(c)
		if sess.Authenticated() && session.TokenExpired(sess.Token, time.Now()) {
			renewed, err := s.opts.Sessions.Renew(c.Request().Context(), sess)
			if err != nil {
				sess = session.Session{}
			} else {
				if err := s.cookies.Save(c, renewed, remember); err != nil {
					s.opts.Logger.Warn("failed to persist renewed session", "error", err)
				}
				sess = renewed
			}
		}
		c.Set(sessionContextKey, sess)
		return next(c)
	}
}

// CurrentSession returns the request's session, anonymous or authenticated.
// Calling it on a request that never went through sessionMiddleware is a
// programming error and panics: a silent empty value would be
// indistinguishable from "not logged in" and mask the broken wiring.
func CurrentSession(c echo.Context) session.Session {
	v := c.Get(sessionContextKey)
	if v == nil {
		panic("web: CurrentSession called outside sessionMiddleware")
	}
	return v.(session.Session)
}

// requireSession guards protected subtrees. Anonymous navigation is sent to
// the login screen; it never sees protected content. Because the session is
// re-read on every request, a logout is effective on the very next one.
func (s *server) requireSession(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if !CurrentSession(c).Authenticated() {
			return c.Redirect(http.StatusSeeOther, "/login")
		}
		return next(c)
	}
}
