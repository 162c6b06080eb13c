package errors

import (
	"net/http"

	"github.com/labstack/echo/v4"
	apierr "github.com/opst/landmarks/pkg/api/types/errors"
	xe "github.com/opst/landmarks/pkg/errors"
)

type ErrorMessageOption func(he *echo.HTTPError) *echo.HTTPError

// WithError records the cause. It is logged, but not shown to clients.
func WithError(err error) ErrorMessageOption {
	return func(he *echo.HTTPError) *echo.HTTPError {
		if err != nil {
			he = he.SetInternal(err)
		}
		return he
	}
}

func NewErrorMessage(code int, msg apierr.ErrorMessage, opts ...ErrorMessageOption) *echo.HTTPError {
	he := echo.NewHTTPError(code, msg)
	for _, opt := range opts {
		he = opt(he)
	}
	return he
}

// Invalid is 400 Bad Request with messages per field.
func Invalid(fields map[string][]string, opts ...ErrorMessageOption) *echo.HTTPError {
	return NewErrorMessage(http.StatusBadRequest, apierr.Fields(fields), opts...)
}

// BadRequest is 400 Bad Request with a general message.
func BadRequest(message string, err error) *echo.HTTPError {
	return NewErrorMessage(http.StatusBadRequest, apierr.General(message), WithError(err))
}

func NotFound() *echo.HTTPError {
	return NewErrorMessage(http.StatusNotFound, apierr.General("Not found."))
}

func Unauthorized(message string, err error) *echo.HTTPError {
	return NewErrorMessage(http.StatusUnauthorized, apierr.General(message), WithError(err))
}

func InternalServerError(err error) *echo.HTTPError {
	return NewErrorMessage(
		http.StatusInternalServerError,
		apierr.General("A server error occurred."),
		WithError(err),
	)
}

// Fault is an unexpected error on saving a landmark.
//
// It is reported as 400 Bad Request with the message of the cause of err.
// Locations recorded by xe.Wrap are kept in Internal only.
func Fault(err error) *echo.HTTPError {
	return BadRequest(xe.Cause(err).Error(), err)
}

// Normalize converts errors raised by echo (like routing or binding errors)
// into the error payload of this API.
//
// Errors which already have ErrorMessage are returned as they are.
// Errors which are not *echo.HTTPError become 500 Internal Server Error.
func Normalize(err error) *echo.HTTPError {
	he, ok := err.(*echo.HTTPError)
	if !ok {
		return InternalServerError(err)
	}
	switch m := he.Message.(type) {
	case apierr.ErrorMessage:
		return he
	case string:
		return NewErrorMessage(he.Code, apierr.General(m), WithError(he.Internal))
	default:
		return NewErrorMessage(he.Code, apierr.General(http.StatusText(he.Code)), WithError(he.Internal))
	}
}
