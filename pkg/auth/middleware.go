package auth

import (
	"strings"

	"github.com/labstack/echo/v4"
	binderr "github.com/opst/landmarks/pkg/api/binding/errors"
)

const requesterKey = "landmarks/requester"

// Middleware requires a bearer access token.
//
// The user id in the token is available via Requester.
func Middleware(v Verifier) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authz := c.Request().Header.Get(echo.HeaderAuthorization)
			scheme, token, ok := strings.Cut(authz, " ")
			if authz == "" || !ok || !strings.EqualFold(scheme, "Bearer") || token == "" {
				c.Response().Header().Set(echo.HeaderWWWAuthenticate, `Bearer realm="api"`)
				return binderr.Unauthorized("Authentication credentials were not provided.", nil)
			}

			userId, err := v.Verify(strings.TrimSpace(token), Access)
			if err != nil {
				c.Response().Header().Set(echo.HeaderWWWAuthenticate, `Bearer realm="api"`)
				return binderr.Unauthorized("Given token not valid for any token type", err)
			}

			SetRequester(c, userId)
			return next(c)
		}
	}
}

// SetRequester records the user making the request.
func SetRequester(c echo.Context, userId int64) {
	c.Set(requesterKey, userId)
}

// Requester returns the user id of the authenticated requester.
//
// The second return value is false when the request is not authenticated.
func Requester(c echo.Context) (int64, bool) {
	id, ok := c.Get(requesterKey).(int64)
	return id, ok
}
