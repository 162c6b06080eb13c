package handlers

import (
	"html/template"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"
	binderr "github.com/opst/landmarks/pkg/api/binding/errors"
	bindlandmarks "github.com/opst/landmarks/pkg/api/binding/landmarks"
	apilandmarks "github.com/opst/landmarks/pkg/api/types/landmarks"
	kdb "github.com/opst/landmarks/pkg/db"
	"github.com/opst/landmarks/pkg/domain/landmark/filter"
	"github.com/opst/landmarks/pkg/images"
)

// Templates renders html/template for echo.
type Templates struct {
	t *template.Template
}

var _ echo.Renderer = &Templates{}

func NewTemplates(t *template.Template) *Templates {
	return &Templates{t: t}
}

func (t *Templates) Render(w io.Writer, name string, data any, _ echo.Context) error {
	return t.t.ExecuteTemplate(w, name, data)
}

// BrowsePage is data for the template of the browse page.
type BrowsePage struct {
	Landmarks  []apilandmarks.Detail
	Categories []apilandmarks.Category

	// current filters
	Search   string
	Category string
}

// BrowseHandler renders the public listing of all landmarks.
//
// It is read-only and unauthenticated. Query parameters are search (in title) and category.
func BrowseHandler(dbl kdb.LandmarkInterface, store images.Store, templateName string) echo.HandlerFunc {
	categories := bindlandmarks.ComposeCategories(kdb.Categories)
	return func(c echo.Context) error {
		query := filter.ParseBrowse(c.QueryParams())
		found, err := dbl.Find(c.Request().Context(), query)
		if err != nil {
			return binderr.InternalServerError(err)
		}

		toURL := imageURL(c, store)
		page := BrowsePage{
			Landmarks:  make([]apilandmarks.Detail, 0, len(found)),
			Categories: categories,
			Search:     query.Title,
			Category:   query.CategoryExact,
		}
		for _, l := range found {
			page.Landmarks = append(page.Landmarks, bindlandmarks.ComposeDetail(l, toURL))
		}
		return c.Render(http.StatusOK, templateName, page)
	}
}
