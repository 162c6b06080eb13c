package handlers

import (
	"context"
	"errors"
	"mime"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"
	binderr "github.com/opst/landmarks/pkg/api/binding/errors"
	bindlandmarks "github.com/opst/landmarks/pkg/api/binding/landmarks"
	apierr "github.com/opst/landmarks/pkg/api/types/errors"
	apilandmarks "github.com/opst/landmarks/pkg/api/types/landmarks"
	"github.com/opst/landmarks/pkg/auth"
	kdb "github.com/opst/landmarks/pkg/db"
	"github.com/opst/landmarks/pkg/domain/landmark/filter"
	"github.com/opst/landmarks/pkg/domain/landmark/normalize"
	"github.com/opst/landmarks/pkg/events"
	"github.com/opst/landmarks/pkg/images"
)

func requester(c echo.Context) (int64, error) {
	id, ok := auth.Requester(c)
	if !ok {
		return 0, binderr.Unauthorized("Authentication credentials were not provided.", nil)
	}
	return id, nil
}

// landmarkId reads the id in path. Malformed ids are not found.
func landmarkId(c echo.Context, param string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(param), 10, 64)
	if err != nil {
		return 0, binderr.NotFound()
	}
	return id, nil
}

// imageURL makes URLs of images absolute, with the origin of the request.
func imageURL(c echo.Context, store images.Store) func(string) string {
	return func(key string) string {
		u := store.URL(key)
		if !strings.HasPrefix(u, "/") {
			return u
		}
		return c.Scheme() + "://" + c.Request().Host + u
	}
}

func readPayload(c echo.Context) (normalize.Payload, error) {
	req := c.Request()
	ctype, _, _ := mime.ParseMediaType(req.Header.Get(echo.HeaderContentType))

	switch ctype {
	case echo.MIMEMultipartForm:
		form, err := c.MultipartForm()
		if err != nil {
			return nil, binderr.BadRequest("Multipart form parse error - "+err.Error(), err)
		}
		return normalize.FromMultipart(form), nil
	case echo.MIMEApplicationForm:
		params, err := c.FormParams()
		if err != nil {
			return nil, binderr.BadRequest("Form parse error - "+err.Error(), err)
		}
		payload := normalize.Payload{}
		for k, vs := range params {
			if len(vs) != 0 {
				payload[k] = normalize.TextField(vs[len(vs)-1])
			}
		}
		return payload, nil
	case "", echo.MIMEApplicationJSON:
		p, err := normalize.FromJSON(req.Body)
		if err != nil {
			return nil, binderr.BadRequest("JSON parse error - "+err.Error(), err)
		}
		return p, nil
	default:
		return nil, binderr.NewErrorMessage(
			http.StatusUnsupportedMediaType,
			apierr.General(`Unsupported media type "`+ctype+`" in request.`),
		)
	}
}

func normalizePayload(c echo.Context, p normalize.Payload) (normalize.Result, error) {
	res, err := normalize.Normalize(p, c.Logger())
	if verr := new(normalize.ValidationError); errors.As(err, &verr) {
		return normalize.Result{}, binderr.Invalid(verr.Fields, binderr.WithError(err))
	} else if err != nil {
		return normalize.Result{}, binderr.Fault(err)
	}
	return res, nil
}

// saveCoverImage stores the uploaded image, and sets its key to the patch.
//
// It returns the stored key, or "" if nothing is uploaded.
func saveCoverImage(ctx context.Context, store images.Store, res *normalize.Result) (string, error) {
	up := res.CoverImage
	if up == nil {
		return "", nil
	}
	key := images.NewKey(up.ContentType)

	r, err := up.Open()
	if err != nil {
		return "", err
	}
	defer r.Close()
	if err := store.Save(ctx, key, r, up.Size, up.ContentType); err != nil {
		return "", err
	}
	res.Patch.CoverImage = kdb.Assign(key)
	return key, nil
}

// discardImage deletes the image. Failures are logged, not returned.
func discardImage(c echo.Context, store images.Store, key string, reason string) {
	if key == "" {
		return
	}
	if err := store.Delete(c.Request().Context(), key); err != nil {
		c.Logger().Warnj(log.JSON{
			"message": "failed to delete image",
			"key":     key,
			"reason":  reason,
			"error":   err.Error(),
		})
	}
}

// publish the event. Failures are logged, not returned.
func publish(c echo.Context, pub events.Publisher, typ events.Type, l kdb.Landmark, detail *apilandmarks.Detail) {
	ev := events.Event{
		Type: typ, LandmarkId: l.Id, Owner: l.Owner, At: time.Now(), Landmark: detail,
	}
	if err := pub.Publish(c.Request().Context(), ev); err != nil {
		c.Logger().Warnj(log.JSON{
			"message":     "failed to publish event",
			"type":        string(typ),
			"landmark_id": l.Id,
			"error":       err.Error(),
		})
	}
}

// ListLandmarksHandler lists landmarks of the requester, newest first.
//
// Query parameters: category, title, description (substring match) and search.
func ListLandmarksHandler(dbl kdb.LandmarkInterface, store images.Store) echo.HandlerFunc {
	return func(c echo.Context) error {
		owner, err := requester(c)
		if err != nil {
			return err
		}
		query := filter.Parse(c.QueryParams())
		query.Scope = kdb.OwnedBy(owner)

		found, err := dbl.Find(c.Request().Context(), query)
		if err != nil {
			return binderr.InternalServerError(err)
		}

		toURL := imageURL(c, store)
		resp := make([]apilandmarks.Detail, 0, len(found))
		for _, l := range found {
			resp = append(resp, bindlandmarks.ComposeDetail(l, toURL))
		}
		return c.JSON(http.StatusOK, resp)
	}
}

func GetLandmarkHandler(dbl kdb.LandmarkInterface, store images.Store, param string) echo.HandlerFunc {
	return func(c echo.Context) error {
		owner, err := requester(c)
		if err != nil {
			return err
		}
		id, err := landmarkId(c, param)
		if err != nil {
			return err
		}

		l, err := dbl.Get(c.Request().Context(), owner, id)
		if errors.Is(err, kdb.ErrMissing) {
			return binderr.NotFound()
		} else if err != nil {
			return binderr.InternalServerError(err)
		}
		return c.JSON(http.StatusOK, bindlandmarks.ComposeDetail(l, imageURL(c, store)))
	}
}

// CreateLandmarkHandler creates a landmark owned by the requester.
//
// Request body is JSON, or multipart form with "cover_image" file.
func CreateLandmarkHandler(dbl kdb.LandmarkInterface, store images.Store, pub events.Publisher) echo.HandlerFunc {
	return func(c echo.Context) error {
		owner, err := requester(c)
		if err != nil {
			return err
		}
		payload, err := readPayload(c)
		if err != nil {
			return err
		}
		res, err := normalizePayload(c, payload)
		if err != nil {
			return err
		}

		ctx := c.Request().Context()
		key, err := saveCoverImage(ctx, store, &res)
		if err != nil {
			c.Logger().Errorj(log.JSON{"message": "failed to store image", "error": err.Error()})
			return binderr.Fault(err)
		}

		l, err := dbl.Create(ctx, &owner, res.Patch)
		if err != nil {
			discardImage(c, store, key, "landmark is not created")
			c.Logger().Errorj(log.JSON{
				"message": "failed to create landmark",
				"owner":   owner,
				"payload": normalize.Describe(payload),
				"error":   err.Error(),
			})
			return binderr.Fault(err)
		}

		detail := bindlandmarks.ComposeDetail(l, imageURL(c, store))
		publish(c, pub, events.Created, l, &detail)
		return c.JSON(http.StatusCreated, detail)
	}
}

// UpdateLandmarkHandler updates fields in the request, for both of PUT and PATCH.
//
// Fields not in the request are kept as they are.
func UpdateLandmarkHandler(dbl kdb.LandmarkInterface, store images.Store, pub events.Publisher, param string) echo.HandlerFunc {
	return func(c echo.Context) error {
		owner, err := requester(c)
		if err != nil {
			return err
		}
		id, err := landmarkId(c, param)
		if err != nil {
			return err
		}
		payload, err := readPayload(c)
		if err != nil {
			return err
		}
		res, err := normalizePayload(c, payload)
		if err != nil {
			return err
		}
		return update(c, dbl, store, pub, owner, id, res, events.Updated)
	}
}

func update(
	c echo.Context,
	dbl kdb.LandmarkInterface, store images.Store, pub events.Publisher,
	owner int64, id int64, res normalize.Result, typ events.Type,
) error {
	ctx := c.Request().Context()
	key, err := saveCoverImage(ctx, store, &res)
	if err != nil {
		c.Logger().Errorj(log.JSON{"message": "failed to store image", "error": err.Error()})
		return binderr.Fault(err)
	}

	l, replaced, err := dbl.Update(ctx, owner, id, res.Patch)
	if errors.Is(err, kdb.ErrMissing) {
		discardImage(c, store, key, "landmark is not found")
		return binderr.NotFound()
	} else if err != nil {
		discardImage(c, store, key, "landmark is not updated")
		c.Logger().Errorj(log.JSON{
			"message":     "failed to update landmark",
			"owner":       owner,
			"landmark_id": id,
			"error":       err.Error(),
		})
		return binderr.Fault(err)
	}
	if replaced != nil {
		discardImage(c, store, *replaced, "image is replaced")
	}

	detail := bindlandmarks.ComposeDetail(l, imageURL(c, store))
	publish(c, pub, typ, l, &detail)
	return c.JSON(http.StatusOK, detail)
}

func DeleteLandmarkHandler(dbl kdb.LandmarkInterface, store images.Store, pub events.Publisher, param string) echo.HandlerFunc {
	return func(c echo.Context) error {
		owner, err := requester(c)
		if err != nil {
			return err
		}
		id, err := landmarkId(c, param)
		if err != nil {
			return err
		}

		l, err := dbl.Delete(c.Request().Context(), owner, id)
		if errors.Is(err, kdb.ErrMissing) {
			return binderr.NotFound()
		} else if err != nil {
			return binderr.InternalServerError(err)
		}
		if l.CoverImage != nil {
			discardImage(c, store, *l.CoverImage, "landmark is deleted")
		}
		publish(c, pub, events.Deleted, l, nil)
		return c.NoContent(http.StatusNoContent)
	}
}

// UploadImageHandler replaces the cover image of a landmark.
//
// Request body is multipart form with a file as "cover_image" (or "image").
func UploadImageHandler(dbl kdb.LandmarkInterface, store images.Store, pub events.Publisher, param string) echo.HandlerFunc {
	return func(c echo.Context) error {
		owner, err := requester(c)
		if err != nil {
			return err
		}
		id, err := landmarkId(c, param)
		if err != nil {
			return err
		}

		noFile := binderr.Invalid(map[string][]string{
			normalize.FieldCoverImage: {"No file was submitted."},
		})
		ctype, _, _ := mime.ParseMediaType(c.Request().Header.Get(echo.HeaderContentType))
		if ctype != echo.MIMEMultipartForm {
			return noFile
		}
		form, err := c.MultipartForm()
		if err != nil {
			return binderr.BadRequest("Multipart form parse error - "+err.Error(), err)
		}
		uploaded := normalize.FromMultipart(form)

		file := uploaded.Get(normalize.FieldCoverImage)
		if file.Kind() != normalize.File {
			file = uploaded.Get("image")
		}
		if file.Kind() != normalize.File {
			return noFile
		}

		res, err := normalizePayload(c, normalize.Payload{normalize.FieldCoverImage: file})
		if err != nil {
			return err
		}
		return update(c, dbl, store, pub, owner, id, res, events.ImageUploaded)
	}
}

// CategoriesHandler lists canonical categories.
func CategoriesHandler() echo.HandlerFunc {
	categories := bindlandmarks.ComposeCategories(kdb.Categories)
	return func(c echo.Context) error {
		return c.JSON(http.StatusOK, categories)
	}
}
