// Package auth issues and verifies bearer tokens, and hashes passwords.
package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	apitokens "github.com/opst/landmarks/pkg/api/types/tokens"
)

var ErrInvalidToken = errors.New("invalid token")

// TokenType tells what the token is for.
type TokenType string

const (
	Access  TokenType = "access"
	Refresh TokenType = "refresh"
)

const (
	DefaultAccessLifetime  = 5 * time.Minute
	DefaultRefreshLifetime = 24 * time.Hour
)

// Claims of tokens issued by Issuer.
type Claims struct {
	jwt.RegisteredClaims

	// private claims
	Type TokenType `json:"typ"`
}

// Verifier verifies tokens.
type Verifier interface {
	// Verify the token and returns the user id in it.
	//
	// # Returns
	//
	// - int64: user id
	//
	// - error: ErrInvalidToken if the token is malformed, expired, not signed by us,
	// or not for the type.
	Verify(token string, typ TokenType) (int64, error)
}

// Issuer issues and verifies HS256 tokens.
type Issuer struct {
	secret          []byte
	accessLifetime  time.Duration
	refreshLifetime time.Duration
	now             func() time.Time
}

var _ Verifier = &Issuer{}

type IssuerOption func(*Issuer) *Issuer

func WithLifetime(access, refresh time.Duration) IssuerOption {
	return func(i *Issuer) *Issuer {
		if 0 < access {
			i.accessLifetime = access
		}
		if 0 < refresh {
			i.refreshLifetime = refresh
		}
		return i
	}
}

// WithClock replaces the clock. For testing.
func WithClock(now func() time.Time) IssuerOption {
	return func(i *Issuer) *Issuer {
		i.now = now
		return i
	}
}

func NewIssuer(secret []byte, options ...IssuerOption) *Issuer {
	i := &Issuer{
		secret:          secret,
		accessLifetime:  DefaultAccessLifetime,
		refreshLifetime: DefaultRefreshLifetime,
		now:             time.Now,
	}
	for _, opt := range options {
		i = opt(i)
	}
	return i
}

func (i *Issuer) sign(userId int64, typ TokenType, lifetime time.Duration) (string, error) {
	now := i.now()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			// jti
			ID: uuid.NewString(),

			// sub
			Subject:   strconv.FormatInt(userId, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(lifetime)),
		},
		Type: typ,
	})
	return tok.SignedString(i.secret)
}

// Issue a pair of access and refresh tokens for the user.
func (i *Issuer) Issue(userId int64) (apitokens.Pair, error) {
	access, err := i.sign(userId, Access, i.accessLifetime)
	if err != nil {
		return apitokens.Pair{}, err
	}
	refresh, err := i.sign(userId, Refresh, i.refreshLifetime)
	if err != nil {
		return apitokens.Pair{}, err
	}
	return apitokens.Pair{Access: access, Refresh: refresh}, nil
}

func (i *Issuer) Verify(token string, typ TokenType) (int64, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(
		token, claims,
		func(t *jwt.Token) (any, error) { return i.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}),
		jwt.WithTimeFunc(i.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return 0, errors.Join(ErrInvalidToken, err)
	}
	if claims.Type != typ {
		return 0, fmt.Errorf("%w: token is for %q, not %q", ErrInvalidToken, claims.Type, typ)
	}
	id, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: subject is not a user id: %q", ErrInvalidToken, claims.Subject)
	}
	return id, nil
}
