package echoutil

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"
	binderr "github.com/opst/landmarks/pkg/api/binding/errors"
)

// HTTPErrorHandler responds errors in the error payload of the API.
//
// Server errors are logged with their causes. Causes are not sent to clients.
func HTTPErrorHandler(e *echo.Echo) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		he := binderr.Normalize(err)

		entry := log.JSON{
			"message": "request failed",
			"method":  c.Request().Method,
			"path":    c.Request().URL.String(),
			"status":  he.Code,
		}
		if he.Internal != nil {
			entry["cause"] = he.Internal.Error()
		}
		if http.StatusInternalServerError <= he.Code {
			c.Logger().Errorj(entry)
		} else {
			c.Logger().Debugj(entry)
		}

		e.DefaultHTTPErrorHandler(he, c)
	}
}
