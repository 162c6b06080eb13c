package db

import (
	"context"
	"time"
)

type User struct {
	Id int64

	// login identifier. unique, case-insensitively.
	Email string

	// unique, but not used for login.
	Username string

	PasswordHash string
	DateJoined   time.Time
}

type UserSpec struct {
	Email        string
	Username     string
	PasswordHash string
}

type UserInterface interface {
	// Register a new user.
	//
	// # Returns
	//
	// - User: registered user.
	//
	// - error: *ConflictError (it is ErrConflict) when email or username is already used.
	Register(ctx context.Context, spec UserSpec) (User, error)

	// Find all users, ordered by id.
	Find(ctx context.Context) ([]User, error)

	// Get the user.
	//
	// # Returns
	//
	// - error: ErrMissing when the user is not found.
	Get(ctx context.Context, id int64) (User, error)

	// GetByEmail gets the user having the email (case-insensitive).
	//
	// # Returns
	//
	// - error: ErrMissing when the user is not found.
	GetByEmail(ctx context.Context, email string) (User, error)
}
