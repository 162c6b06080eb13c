// Package echoutil has helpers to set up echo servers.
package echoutil

import (
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"
)

// LogHandlerFunc logs requests and responses.
func LogHandlerFunc(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		req := c.Request()
		begin := time.Now()
		c.Logger().Infoj(log.JSON{
			"message": "request",
			"method":  req.Method,
			"path":    req.URL.String(),
		})

		err := next(c)

		entry := log.JSON{
			"message": "response",
			"method":  req.Method,
			"path":    req.URL.String(),
			"status":  c.Response().Status,
			"elapsed": time.Since(begin).String(),
		}
		if err != nil {
			entry["error"] = err.Error()
		}
		c.Logger().Infoj(entry)
		return err
	}
}

// SetLevel sets log level of e by name: debug, info, warn, error or off.
//
// Unknown names fall back to warn.
func SetLevel(e *echo.Echo, loglevel string) {
	switch strings.ToLower(loglevel) {
	case "debug":
		e.Logger.SetLevel(log.DEBUG)
	case "info":
		e.Logger.SetLevel(log.INFO)
	case "warn", "":
		e.Logger.SetLevel(log.WARN)
	case "error":
		e.Logger.SetLevel(log.ERROR)
	case "off":
		e.Logger.SetLevel(log.OFF)
	default:
		e.Logger.SetLevel(log.WARN)
		e.Logger.Warnf("unknown loglevel: %s . fall-backed to warn", loglevel)
	}
}
