package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	binderr "github.com/opst/landmarks/pkg/api/binding/errors"
	apitokens "github.com/opst/landmarks/pkg/api/types/tokens"
	"github.com/opst/landmarks/pkg/auth"
	kdb "github.com/opst/landmarks/pkg/db"
)

// TokenIssuer issues and verifies tokens. *auth.Issuer is.
type TokenIssuer interface {
	auth.Verifier
	Issue(userId int64) (apitokens.Pair, error)
}

var _ TokenIssuer = &auth.Issuer{}

// ObtainTokenHandler issues tokens for email and password.
func ObtainTokenHandler(dbu kdb.UserInterface, issuer TokenIssuer) echo.HandlerFunc {
	return func(c echo.Context) error {
		cred := apitokens.Credential{}
		if err := c.Bind(&cred); err != nil {
			return binderr.BadRequest("can not understand the request body", err)
		}
		cred.Email = strings.TrimSpace(cred.Email)

		fields := map[string][]string{}
		if cred.Email == "" {
			fields["email"] = []string{msgRequired}
		}
		if cred.Password == "" {
			fields["password"] = []string{msgRequired}
		}
		if len(fields) != 0 {
			return binderr.Invalid(fields)
		}

		const noAccount = "No active account found with the given credentials"
		u, err := dbu.GetByEmail(c.Request().Context(), cred.Email)
		if errors.Is(err, kdb.ErrMissing) {
			return binderr.Unauthorized(noAccount, err)
		} else if err != nil {
			return binderr.InternalServerError(err)
		}
		if err := auth.CheckPassword(u.PasswordHash, cred.Password); errors.Is(err, auth.ErrBadCredential) {
			return binderr.Unauthorized(noAccount, err)
		} else if err != nil {
			return binderr.InternalServerError(err)
		}

		pair, err := issuer.Issue(u.Id)
		if err != nil {
			return binderr.InternalServerError(err)
		}
		return c.JSON(http.StatusOK, pair)
	}
}

// RefreshTokenHandler issues new tokens for a refresh token.
func RefreshTokenHandler(dbu kdb.UserInterface, issuer TokenIssuer) echo.HandlerFunc {
	return func(c echo.Context) error {
		req := apitokens.Refresh{}
		if err := c.Bind(&req); err != nil {
			return binderr.BadRequest("can not understand the request body", err)
		}
		if req.Refresh == "" {
			return binderr.Invalid(map[string][]string{"refresh": {msgRequired}})
		}

		const invalid = "Token is invalid or expired"
		userId, err := issuer.Verify(req.Refresh, auth.Refresh)
		if err != nil {
			return binderr.Unauthorized(invalid, err)
		}

		// account may be removed after the token is issued.
		if _, err := dbu.Get(c.Request().Context(), userId); errors.Is(err, kdb.ErrMissing) {
			return binderr.Unauthorized(invalid, err)
		} else if err != nil {
			return binderr.InternalServerError(err)
		}

		pair, err := issuer.Issue(userId)
		if err != nil {
			return binderr.InternalServerError(err)
		}
		return c.JSON(http.StatusOK, pair)
	}
}
