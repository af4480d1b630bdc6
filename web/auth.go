package web

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"schoolhub/core"
	"schoolhub/core/session"
)

func (s *server) loginForm(c echo.Context) error {
	if CurrentSession(c).Authenticated() {
		return s.redirectTab(c, ActiveTab(c))
	}
	d := s.newPageData(c, 0, 1)
	return c.Render(http.StatusOK, "login", d)
}

// login authenticates the submitted credentials. A failed attempt leaves the
// session anonymous and writes nothing durable.
func (s *server) login(c echo.Context) error {
	d := s.newPageData(c, 0, 1)
	if !requireFields(c, d, "username", "password") {
		return c.Render(http.StatusOK, "login", d)
	}

	creds := session.Credentials{
		Username: c.FormValue("username"),
		Password: c.FormValue("password"),
	}
	remember := c.FormValue("remember") == "on" || c.FormValue("remember") == "1"

	sess, err := s.opts.Sessions.Login(c.Request().Context(), creds)
	if err != nil {
		var vErr *core.ValidationError
		if errors.As(err, &vErr) {
			for _, f := range vErr.Fields {
				d.Fields[f.Field] = f.Error
			}
			return c.Render(http.StatusOK, "login", d)
		}
		s.flashWriteError(c, err, "Login failed")
		return c.Redirect(http.StatusSeeOther, "/login")
	}

	if err := s.cookies.Save(c, sess, remember); err != nil {
		s.flashWriteError(c, err, "Login failed")
		return c.Redirect(http.StatusSeeOther, "/login")
	}
	s.cookies.Flash(c, "success", "Login successful!")
	return s.redirectTab(c, ActiveTab(c))
}

func (s *server) registerForm(c echo.Context) error {
	d := s.newPageData(c, 0, 1)
	return c.Render(http.StatusOK, "register", d)
}

// register creates a new account and lands back on the login screen; it never
// touches session state.
func (s *server) register(c echo.Context) error {
	d := s.newPageData(c, 0, 1)
	if !requireFields(c, d, "username", "role", "password", "password_confirm") {
		return c.Render(http.StatusOK, "register", d)
	}
	if c.FormValue("password") != c.FormValue("password_confirm") {
		d.Fields["password_confirm"] = "passwords do not match"
		return c.Render(http.StatusOK, "register", d)
	}

	reg := session.Registration{
		Username:        c.FormValue("username"),
		Email:           c.FormValue("email"),
		Role:            c.FormValue("role"),
		Password:        c.FormValue("password"),
		PasswordConfirm: c.FormValue("password_confirm"),
	}
	if err := s.opts.Sessions.Register(c.Request().Context(), reg); err != nil {
		var vErr *core.ValidationError
		if errors.As(err, &vErr) {
			for _, f := range vErr.Fields {
				d.Fields[f.Field] = f.Error
			}
			return c.Render(http.StatusOK, "register", d)
		}
		s.flashWriteError(c, err, "Registration failed")
		return c.Redirect(http.StatusSeeOther, "/register")
	}

	s.cookies.Flash(c, "success", "Registration successful!")
	return c.Redirect(http.StatusSeeOther, "/login")
}

// logout clears both storage scopes and the in-memory page state together;
// the session transitions straight back to Anonymous.
func (s *server) logout(c echo.Context) error {
	sess := CurrentSession(c)
	if sess.Token != "" {
		s.states.drop(sess.Token)
	}
	s.cookies.Clear(c)
	s.cookies.Flash(c, "info", "Logged out successfully")
	return c.Redirect(http.StatusSeeOther, "/")
}
