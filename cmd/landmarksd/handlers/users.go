package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"net/mail"
	"strings"
	"unicode/utf8"

	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"
	binderr "github.com/opst/landmarks/pkg/api/binding/errors"
	bindusers "github.com/opst/landmarks/pkg/api/binding/users"
	apiusers "github.com/opst/landmarks/pkg/api/types/users"
	"github.com/opst/landmarks/pkg/auth"
	kdb "github.com/opst/landmarks/pkg/db"
)

const msgRequired = "This field is required."

func validateRegistration(r apiusers.Registration) map[string][]string {
	fields := map[string][]string{}

	if r.Email == "" {
		fields["email"] = append(fields["email"], msgRequired)
	} else if addr, err := mail.ParseAddress(r.Email); err != nil || addr.Address != r.Email {
		fields["email"] = append(fields["email"], "Enter a valid email address.")
	}

	if r.Username == "" {
		fields["username"] = append(fields["username"], msgRequired)
	} else if 150 < utf8.RuneCountInString(r.Username) {
		fields["username"] = append(fields["username"], "Ensure this field has no more than 150 characters.")
	}

	if r.Password == "" {
		fields["password"] = append(fields["password"], msgRequired)
	} else if utf8.RuneCountInString(r.Password) < auth.MinPasswordLength {
		fields["password"] = append(fields["password"], fmt.Sprintf(
			"This password is too short. It must contain at least %d characters.", auth.MinPasswordLength,
		))
	}

	if len(fields) == 0 {
		return nil
	}
	return fields
}

// RegisterUserHandler creates an account. It is open to anyone.
func RegisterUserHandler(dbu kdb.UserInterface) echo.HandlerFunc {
	return func(c echo.Context) error {
		reg := apiusers.Registration{}
		if err := c.Bind(&reg); err != nil {
			return binderr.BadRequest("can not understand the request body", err)
		}
		reg.Email = strings.TrimSpace(reg.Email)
		reg.Username = strings.TrimSpace(reg.Username)

		if fields := validateRegistration(reg); fields != nil {
			return binderr.Invalid(fields)
		}

		hash, err := auth.HashPassword(reg.Password)
		if err != nil {
			return binderr.InternalServerError(err)
		}

		u, err := dbu.Register(c.Request().Context(), kdb.UserSpec{
			Email: reg.Email, Username: reg.Username, PasswordHash: hash,
		})
		if conflict := new(kdb.ConflictError); errors.As(err, &conflict) {
			return binderr.Invalid(map[string][]string{
				conflict.Field: {fmt.Sprintf("user with this %s already exists.", conflict.Field)},
			}, binderr.WithError(err))
		} else if err != nil {
			return binderr.InternalServerError(err)
		}

		c.Logger().Infoj(log.JSON{"message": "user is registered", "user_id": u.Id})
		return c.JSON(http.StatusCreated, bindusers.ComposeDetail(u))
	}
}

func ListUsersHandler(dbu kdb.UserInterface) echo.HandlerFunc {
	return func(c echo.Context) error {
		us, err := dbu.Find(c.Request().Context())
		if err != nil {
			return binderr.InternalServerError(err)
		}
		resp := make([]apiusers.Detail, 0, len(us))
		for _, u := range us {
			resp = append(resp, bindusers.ComposeDetail(u))
		}
		return c.JSON(http.StatusOK, resp)
	}
}
