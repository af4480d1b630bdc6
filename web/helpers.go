package web

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"schoolhub/core"
	"schoolhub/core/session"
	"schoolhub/restapi"
)

// pageData is the template context shared by every screen.
type pageData struct {
	AppName       string
	Session       session.Session
	ActiveTab     int
	Page          int
	Search        string
	Notifications []Notification
	// LoadError is the inline error region for a failed collection read.
	LoadError string
	// Fields maps field names to inline validation messages.
	Fields map[string]string
	// Form echoes submitted values back into the form.
	Form map[string]string
	Data interface{}
}

func (s *server) newPageData(c echo.Context, tab, page int) *pageData {
	return &pageData{
		AppName:       s.opts.Conf.AppName,
		Session:       CurrentSession(c),
		ActiveTab:     tab,
		Page:          page,
		Search:        core.CleanString(c.QueryParam("search")),
		Notifications: s.cookies.Flashes(c),
		Fields:        map[string]string{},
		Form:          map[string]string{},
	}
}

// flashWriteError surfaces a failed write as an error notification carrying
// the backend's message when it sent one, else the fallback. The error never
// propagates further.
func (s *server) flashWriteError(c echo.Context, err error, fallback string) {
	var apiErr *restapi.APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		s.cookies.Flash(c, "error", apiErr.Message)
	} else {
		s.cookies.Flash(c, "error", fallback)
	}
	s.opts.Logger.Warn(fallback, err, CurrentSession(c).User)
}

// logReadError records a failed collection read. The screen degrades to an
// empty list or an inline error region; no notification is raised.
func (s *server) logReadError(c echo.Context, what string, err error) {
	s.opts.Logger.Warn("fetching "+what, err, CurrentSession(c).User)
}

func (s *server) redirectTab(c echo.Context, tab int) error {
	return c.Redirect(http.StatusSeeOther, fmt.Sprintf("/dashboard/%d/1", tab))
}

func formInt(c echo.Context, name string) int {
	n, _ := strconv.Atoi(c.FormValue(name))
	return n
}

func formFloat(c echo.Context, name string) float64 {
	f, _ := strconv.ParseFloat(c.FormValue(name), 64)
	return f
}

// confirmed reports whether the destructive request carries the explicit
// user confirmation.
func confirmed(c echo.Context) bool {
	return c.FormValue("confirmed") == "1"
}

// renderConfirm interposes the confirmation step before a destructive
// request. Nothing is issued to the backend until the confirmed form comes
// back.
func (s *server) renderConfirm(c echo.Context, action, prompt string, fields map[string]string) error {
	return c.Render(http.StatusOK, "confirm", map[string]interface{}{
		"AppName": s.opts.Conf.AppName,
		"Action":  action,
		"Prompt":  prompt,
		"Fields":  fields,
		"BackURL": backURL(c),
	})
}

func backURL(c echo.Context) string {
	if ref := c.Request().Header.Get("Referer"); ref != "" {
		return ref
	}
	return "/dashboard/1/1"
}

// requireFields performs the minimal field-presence validation the screens
// do before submission. Missing fields never reach the network layer.
func requireFields(c echo.Context, d *pageData, names ...string) bool {
	ok := true
	for _, name := range names {
		val := core.CleanString(c.FormValue(name))
		d.Form[name] = val
		if val == "" {
			d.Fields[name] = "this field is required"
			ok = false
		}
	}
	return ok
}
