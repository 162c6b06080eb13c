package echoutil_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"reflect"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"
	httptestutil "github.com/opst/landmarks/internal/testutils/http"
	"github.com/opst/landmarks/pkg/echoutil"
)

func TestHTTPErrorHandler(t *testing.T) {
	type then struct {
		code int
		body map[string][]string
	}

	theory := func(err error, then then) func(*testing.T) {
		return func(t *testing.T) {
			e := echo.New()
			e.Logger.SetLevel(log.OFF)
			handler := echoutil.HTTPErrorHandler(e)

			c, rec := httptestutil.Get(e, "/api/landmarks/")
			handler(err, c)

			if rec.Code != then.code {
				t.Errorf("status code: actual = %d, expected = %d", rec.Code, then.code)
			}
			actual := map[string][]string{}
			if err := json.Unmarshal(rec.Body.Bytes(), &actual); err != nil {
				t.Fatalf("response is not json: %s (%v)", rec.Body.String(), err)
			}
			if !reflect.DeepEqual(actual, then.body) {
				t.Errorf("body: actual = %v, expected = %v", actual, then.body)
			}
		}
	}

	t.Run("when echo raises an error with string message, it is put in detail", theory(
		echo.NewHTTPError(http.StatusMethodNotAllowed, "Method Not Allowed"),
		then{
			code: http.StatusMethodNotAllowed,
			body: map[string][]string{"detail": {"Method Not Allowed"}},
		},
	))

	t.Run("when an unexpected error is returned, it is an internal server error", theory(
		errors.New("connection refused"),
		then{
			code: http.StatusInternalServerError,
			body: map[string][]string{"detail": {"A server error occurred."}},
		},
	))
}

func TestSetLevel(t *testing.T) {
	for name, expected := range map[string]log.Lvl{
		"debug":   log.DEBUG,
		"INFO":    log.INFO,
		"warn":    log.WARN,
		"":        log.WARN,
		"error":   log.ERROR,
		"off":     log.OFF,
		"verbose": log.WARN,
	} {
		t.Run(name, func(t *testing.T) {
			e := echo.New()
			e.Logger.SetOutput(new(discard))
			echoutil.SetLevel(e, name)
			if actual := e.Logger.Level(); actual != expected {
				t.Errorf("level: actual = %d, expected = %d", actual, expected)
			}
		})
	}
}

type discard struct{}

func (*discard) Write(p []byte) (int, error) {
	return len(p), nil
}
