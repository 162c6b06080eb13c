// Package normalize converts request payloads into changes of landmarks.
//
// Payloads come either from JSON or from multipart forms (when a cover image is uploaded).
// Both are read into Payload at first, and this package handles them in the same way.
//
// Coordinates are normalized leniently: empty, zero or malformed values become null,
// so a bad coordinate does not block saving other fields.
// Values exceeding the precision of numeric(9, 6) are rejected.
package normalize

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/labstack/gommon/log"
	kdb "github.com/opst/landmarks/pkg/db"
)

// field names in payloads
const (
	FieldTitle       = "title"
	FieldCategory    = "category"
	FieldDescription = "description"
	FieldCoverImage  = "cover_image"
	FieldLatitude    = "latitude"
	FieldLongitude   = "longitude"
	FieldCountry     = "country"
)

// max length of text fields, in characters.
const (
	MaxTitleLength    = 200
	MaxCategoryLength = 100
	MaxCountryLength  = 100
)

// Logger is a subset of echo.Logger.
type Logger interface {
	Debugj(j log.JSON)
	Warnj(j log.JSON)
}

type nopLogger struct{}

func (nopLogger) Debugj(log.JSON) {}
func (nopLogger) Warnj(log.JSON)  {}

var ErrInvalid = errors.New("invalid landmark")

// ValidationError tells every invalid field with reasons.
type ValidationError struct {
	Fields map[string][]string
}

var _ error = &ValidationError{}

func (v *ValidationError) add(field string, message string) {
	if v.Fields == nil {
		v.Fields = map[string][]string{}
	}
	v.Fields[field] = append(v.Fields[field], message)
}

func (v *ValidationError) Error() string {
	names := make([]string, 0, len(v.Fields))
	for k := range v.Fields {
		names = append(names, k)
	}
	sort.Strings(names)

	msgs := make([]string, 0, len(names))
	for _, n := range names {
		msgs = append(msgs, fmt.Sprintf("%s: %s", n, strings.Join(v.Fields[n], " ")))
	}
	return fmt.Sprintf("%s: %s", ErrInvalid, strings.Join(msgs, "; "))
}

func (v *ValidationError) Unwrap() error {
	return ErrInvalid
}

// Result of normalization.
type Result struct {
	// changes for fields in the payload.
	//
	// CoverImage in the patch is never set by Normalize,
	// because the key is decided when the image is stored.
	Patch kdb.LandmarkPatch

	// new cover image, if uploaded. Its ContentType is detected from its content.
	CoverImage *Upload
}

// Normalize converts the payload into a patch.
//
// Only fields in the payload are set in the patch. Unknown fields, id, owner and timestamps are ignored.
//
// # Args
//
// - p: payload
//
// - logger: logs the shape of the payload and degraded fields. It can be nil.
//
// # Returns
//
// - Result
//
// - error: *ValidationError (it is ErrInvalid) telling all invalid fields,
// or error caused on reading uploaded file.
func Normalize(p Payload, logger Logger) (Result, error) {
	if logger == nil {
		logger = nopLogger{}
	}
	logger.Debugj(log.JSON{"message": "normalizing landmark payload", "payload": Describe(p)})

	verr := &ValidationError{}
	result := Result{}

	result.Patch.Title = text(FieldTitle, p.Get(FieldTitle), MaxTitleLength, verr)
	result.Patch.Description = text(FieldDescription, p.Get(FieldDescription), 0, verr)
	result.Patch.Country = text(FieldCountry, p.Get(FieldCountry), MaxCountryLength, verr)
	result.Patch.Category = category(p.Get(FieldCategory), verr)
	result.Patch.Latitude = coordinate(FieldLatitude, p.Get(FieldLatitude), logger, verr)
	result.Patch.Longitude = coordinate(FieldLongitude, p.Get(FieldLongitude), logger, verr)

	img, err := coverImage(p.Get(FieldCoverImage), logger, verr)
	if err != nil {
		return Result{}, err
	}
	result.CoverImage = img

	if len(verr.Fields) != 0 {
		return Result{}, verr
	}
	return result, nil
}

func text(name string, f Field, maxLength int, verr *ValidationError) kdb.Change[string] {
	switch f.kind {
	case Missing:
		return kdb.Change[string]{}
	case Null:
		return kdb.Clear[string]()
	case File:
		verr.add(name, "Not a valid string.")
		return kdb.Change[string]{}
	}

	if f.literal == boolLiteral || f.literal == structuredLiteral {
		verr.add(name, "Not a valid string.")
		return kdb.Change[string]{}
	}
	if 0 < maxLength && maxLength < utf8.RuneCountInString(f.text) {
		verr.add(name, fmt.Sprintf("Ensure this field has no more than %d characters.", maxLength))
		return kdb.Change[string]{}
	}
	return kdb.Assign(f.text)
}

func category(f Field, verr *ValidationError) kdb.Change[string] {
	ch := text(FieldCategory, f, MaxCategoryLength, verr)
	if ch.Value == nil {
		return ch
	}
	if c, ok := kdb.AsCategory(*ch.Value); ok {
		return kdb.Assign(c.String())
	}
	return ch
}

func coordinate(name string, f Field, logger Logger, verr *ValidationError) kdb.Change[kdb.Coordinate] {
	switch f.kind {
	case Missing:
		return kdb.Change[kdb.Coordinate]{}
	case Null:
		return kdb.Clear[kdb.Coordinate]()
	case File:
		logger.Warnj(log.JSON{
			"message": "coordinate is degraded to null",
			"field":   name,
			"reason":  "file is uploaded as coordinate",
		})
		return kdb.Clear[kdb.Coordinate]()
	}

	raw := strings.TrimSpace(f.text)
	if raw == "" || strings.EqualFold(raw, "null") {
		return kdb.Clear[kdb.Coordinate]()
	}

	c, err := kdb.ParseCoordinate(raw)
	if errors.Is(err, kdb.ErrTooManyFractionDigits) {
		verr.add(name, fmt.Sprintf("Ensure that there are no more than %d decimal places.", kdb.CoordinateScale))
		return kdb.Change[kdb.Coordinate]{}
	} else if errors.Is(err, kdb.ErrTooManyIntegralDigits) {
		verr.add(name, fmt.Sprintf(
			"Ensure that there are no more than %d digits before the decimal point.",
			kdb.CoordinatePrecision-kdb.CoordinateScale,
		))
		return kdb.Change[kdb.Coordinate]{}
	} else if err != nil {
		logger.Warnj(log.JSON{
			"message": "coordinate is degraded to null",
			"field":   name,
			"value":   raw,
			"reason":  err.Error(),
		})
		return kdb.Clear[kdb.Coordinate]()
	}

	// (0, 0) means "not set", not "the origin".
	if c.IsZero() {
		return kdb.Clear[kdb.Coordinate]()
	}
	return kdb.Assign(c)
}

// bytes needed by http.DetectContentType
const sniffLength = 512

func coverImage(f Field, logger Logger, verr *ValidationError) (*Upload, error) {
	u, ok := f.File()
	if !ok {
		if f.kind == Text {
			logger.Debugj(log.JSON{
				"message": "non-file value for cover image is ignored",
				"field":   FieldCoverImage,
			})
		}
		return nil, nil
	}

	r, err := u.Open()
	if err != nil {
		return nil, err
	}
	defer r.Close()

	head := make([]byte, sniffLength)
	n, err := io.ReadFull(r, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return nil, err
	}
	if n == 0 {
		verr.add(FieldCoverImage, "The submitted file is empty.")
		return nil, nil
	}

	detected := http.DetectContentType(head[:n])
	if !strings.HasPrefix(detected, "image/") {
		verr.add(
			FieldCoverImage,
			"Upload a valid image. The file you uploaded was either not an image or a corrupted image.",
		)
		return nil, nil
	}

	normalized := *u
	normalized.ContentType = detected
	return &normalized, nil
}
