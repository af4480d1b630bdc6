package web

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"schoolhub/core"
	"schoolhub/core/session"
)

// newAppHTTPErrorHandler maps uncaught errors to an error page. Write and
// validation failures are owned by the handlers themselves (notification or
// inline field errors); anything that reaches this point is either a routing
// miss or a server-side defect.
// signalShutdown is called whenever a core shutdown error is caught.
func newAppHTTPErrorHandler(logger core.Logger, signalShutdown func()) echo.HTTPErrorHandler {
	return func(err error, ctx echo.Context) {
		var code int
		var message string

		switch origErr := errors.Cause(err).(type) {
		case *echo.HTTPError:
			if origErr.Internal != nil {
				if herr, ok := origErr.Internal.(*echo.HTTPError); ok {
					origErr = herr
				}
			}
			code = origErr.Code
			if m, ok := origErr.Message.(string); ok {
				message = m
			} else {
				message = http.StatusText(code)
			}
		case validator.ValidationErrors, *core.ValidationError:
			// handlers render these inline; reaching here means one escaped
			code = http.StatusBadRequest
			message = "invalid input"
		default: // any other error is a server error
			code = http.StatusInternalServerError
			message = http.StatusText(code)

			// the session middleware may not have run for this request
			if sess, ok := ctx.Get(sessionContextKey).(session.Session); ok {
				logger.Error(message, errors.Wrap(err, message), sess.User)
			} else {
				logger.Error(message, errors.Wrap(err, message))
			}

			// shutting down...
			if core.IsShutdown(err) {
				signalShutdown()
			}
		}

		if ctx.Echo().Debug {
			message = err.Error()
		}

		if !ctx.Response().Committed {
			var rErr error
			if ctx.Request().Method == http.MethodHead {
				rErr = ctx.NoContent(code)
			} else {
				rErr = ctx.Render(code, "error", map[string]interface{}{
					"Code":    code,
					"Message": message,
				})
			}
			if rErr != nil {
				ctx.Echo().Logger.Error(rErr)
			}
		}
	}
}
