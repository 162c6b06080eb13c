package errors

import (
	"errors"
	"fmt"

	"github.com/jackc/pgconn"
	"github.com/jackc/pgerrcode"
	kdb "github.com/opst/landmarks/pkg/db"
)

// requested record is missing.
type Missing struct {
	Table    string
	Identity string
}

var _ error = Missing{}

func (m Missing) Error() string {
	return fmt.Sprintf("%s is not found in %s", m.Identity, m.Table)
}

func (m Missing) Unwrap() error {
	return kdb.ErrMissing
}

// AsConflict converts unique violation into *kdb.ConflictError.
//
// # Args
//
// - err: error returned from postgres.
//
// - table: name of the table.
//
// - fields: mapping from constraint (or index) name to the field name and its value.
//
// # Returns
//
// - error: *kdb.ConflictError if err is unique violation on one of constraints in fields.
// Otherwise, err itself.
func AsConflict(err error, table string, fields map[string][2]string) error {
	pgerr := new(pgconn.PgError)
	if !errors.As(err, &pgerr) || pgerr.Code != pgerrcode.UniqueViolation {
		return err
	}
	f, ok := fields[pgerr.ConstraintName]
	if !ok {
		return err
	}
	return &kdb.ConflictError{Table: table, Field: f[0], Value: f[1]}
}
