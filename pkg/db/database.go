package db

import (
	"context"
	"errors"
	"fmt"
)

type LandmarksDatabase interface {
	Landmarks() LandmarkInterface
	Users() UserInterface
	Schema() SchemaInterface
	Close() error
}

// SchemaInterface represents a database schema.
type SchemaInterface interface {
	// Upgrade upgrades the schema to the latest version.
	Upgrade(ctx context.Context) error

	// Version returns the current version of the schema.
	Version(ctx context.Context) (int, error)

	// Context returns a context which is closed when the schema in database is not latest.
	//
	// # Returns
	//
	// - context.Context: The context which will be closed when schema in database is older than reqirement.
	//
	// - context.CancelFunc: The function to cancel the context.
	Context(ctx context.Context) (context.Context, context.CancelFunc)
}

var (
	// requested record is not found.
	ErrMissing = errors.New("missing")

	// requested change conflicts with other records.
	ErrConflict = errors.New("conflict")
)

// ConflictError tells which field conflicts with other record.
type ConflictError struct {
	Table string
	Field string
	Value string
}

var _ error = &ConflictError{}

func (c *ConflictError) Error() string {
	return fmt.Sprintf("%s: %s = %s is already used", c.Table, c.Field, c.Value)
}

func (c *ConflictError) Unwrap() error {
	return ErrConflict
}
