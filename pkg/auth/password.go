package auth

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

var ErrBadCredential = errors.New("bad credential")

// MinPasswordLength is the minimum length of passwords, in characters.
const MinPasswordLength = 8

func HashPassword(password string) (string, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(h), nil
}

// CheckPassword returns ErrBadCredential if password does not match with hash.
func CheckPassword(hash string, password string) error {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return ErrBadCredential
	}
	return err
}
