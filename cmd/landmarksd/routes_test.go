package main

import (
	"context"
	"html/template"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"
	"github.com/opst/landmarks/pkg/auth"
	kdb "github.com/opst/landmarks/pkg/db"
	"github.com/opst/landmarks/pkg/db/mocks"
	"github.com/opst/landmarks/pkg/echoutil"
	"github.com/opst/landmarks/pkg/events"
	"github.com/opst/landmarks/pkg/images"
	"github.com/opst/landmarks/pkg/utils/try"
)

func newServer(t *testing.T) (*echo.Echo, *mocks.LandmarkInterface, *auth.Issuer, string) {
	t.Helper()
	media := t.TempDir()
	issuer := auth.NewIssuer([]byte("secret"))
	dbl := mocks.NewLandmarkInterface()

	e := echo.New()
	e.Logger.SetLevel(log.OFF)
	e.HTTPErrorHandler = echoutil.HTTPErrorHandler(e)
	register(e, server{
		landmarks:   dbl,
		users:       mocks.NewUserInterface(),
		images:      images.Local(media, "/media/"),
		events:      events.Null(),
		issuer:      issuer,
		templates:   template.Must(template.ParseFS(templatesFS, "templates/*.html")),
		mediaPrefix: "/media/",
		mediaRoot:   media,
	})
	return e, dbl, issuer, media
}

func serve(e *echo.Echo, method string, target string, header map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, nil)
	for k, v := range header {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestRoutes(t *testing.T) {
	t.Run("landmarks API requires a token", func(t *testing.T) {
		e, dbl, _, _ := newServer(t)

		rec := serve(e, http.MethodGet, "/api/landmarks", nil)
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("status code: %d", rec.Code)
		}
		if strings.TrimSpace(rec.Body.String()) != `{"detail":["Authentication credentials were not provided."]}` {
			t.Errorf("body: %s", rec.Body.String())
		}
		if rec.Header().Get(echo.HeaderWWWAuthenticate) == "" {
			t.Error("WWW-Authenticate is not set")
		}
		if dbl.Calls.Find.Times() != 0 {
			t.Error("Find is called")
		}
	})

	t.Run("landmarks API lists landmarks of the token owner, with or without trailing slash", func(t *testing.T) {
		e, dbl, issuer, _ := newServer(t)
		dbl.Impl.Find = func(context.Context, kdb.LandmarkQuery) ([]kdb.Landmark, error) {
			return []kdb.Landmark{}, nil
		}
		pair := try.To(issuer.Issue(7)).OrFatal(t)

		for _, target := range []string{"/api/landmarks", "/api/landmarks/"} {
			rec := serve(e, http.MethodGet, target, map[string]string{
				echo.HeaderAuthorization: "Bearer " + pair.Access,
			})
			if rec.Code != http.StatusOK {
				t.Errorf("%s: status code: %d (%s)", target, rec.Code, rec.Body.String())
			}
		}
		for _, q := range dbl.Calls.Find {
			if !reflect.DeepEqual(q.Scope, kdb.OwnedBy(7)) {
				t.Errorf("scope: %+v", q.Scope)
			}
		}
	})

	t.Run("refresh token is not accepted as access token", func(t *testing.T) {
		e, _, issuer, _ := newServer(t)
		pair := try.To(issuer.Issue(7)).OrFatal(t)

		rec := serve(e, http.MethodGet, "/api/landmarks/", map[string]string{
			echo.HeaderAuthorization: "Bearer " + pair.Refresh,
		})
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("status code: %d", rec.Code)
		}
	})

	t.Run("categories are public", func(t *testing.T) {
		e, _, _, _ := newServer(t)
		rec := serve(e, http.MethodGet, "/api/categories", nil)
		if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"RELIGIOUS"`) {
			t.Errorf("status code: %d, body: %s", rec.Code, rec.Body.String())
		}
	})

	t.Run("unknown route is not found in the error payload", func(t *testing.T) {
		e, _, _, _ := newServer(t)
		rec := serve(e, http.MethodGet, "/api/museums/", nil)
		if rec.Code != http.StatusNotFound {
			t.Errorf("status code: %d", rec.Code)
		}
		if !strings.Contains(rec.Body.String(), `"detail"`) {
			t.Errorf("body: %s", rec.Body.String())
		}
	})

	t.Run("stored images are served without trailing slash", func(t *testing.T) {
		e, _, _, media := newServer(t)
		if err := os.MkdirAll(filepath.Join(media, "landmarks"), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(filepath.Join(media, "landmarks", "petra.txt"), []byte("petra"), 0o644); err != nil {
			t.Fatal(err)
		}

		rec := serve(e, http.MethodGet, "/media/landmarks/petra.txt", nil)
		if rec.Code != http.StatusOK || rec.Body.String() != "petra" {
			t.Errorf("status code: %d, body: %s", rec.Code, rec.Body.String())
		}
	})
}
