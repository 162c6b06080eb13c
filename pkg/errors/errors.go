// Package errors wraps errors with the location where they are wrapped.
//
// Messages of wrapped errors read like
//
//	@ pkg.Func "path/to/file.go" l42 <- cause
//
// so a chain of Wrap gives a rough stack of where the error went through.
package errors

import (
	"errors"
	"fmt"
	"runtime"
)

// Located is an error with the location where it is wrapped.
type Located struct {
	Func string
	File string
	Line int

	// additional message. optional.
	Note string

	err error
}

func (e *Located) Error() string {
	if e.Note == "" {
		return fmt.Sprintf(`@ %s "%s" l%d <- %s`, e.Func, e.File, e.Line, e.err)
	}
	return fmt.Sprintf(`@ %s "%s" l%d (%s) <- %s`, e.Func, e.File, e.Line, e.Note, e.err)
}

func (e *Located) Unwrap() error {
	return e.err
}

// New creates an error located at the caller.
func New(text string) error {
	return locate("", errors.New(text), 2)
}

// Wrap err with the location of the caller.
//
// nil is kept nil.
func Wrap(err error) error {
	if err == nil {
		return nil
	}
	return locate("", err, 2)
}

// WrapWithNote is Wrap with a message.
func WrapWithNote(note string, err error) error {
	if err == nil {
		return nil
	}
	return locate(note, err, 2)
}

func locate(note string, err error, skip int) error {
	loc := &Located{Func: "(unknown func)", File: "?", Line: -1, Note: note, err: err}
	pc, file, line, ok := runtime.Caller(skip)
	if !ok {
		return loc
	}
	loc.File, loc.Line = file, line
	if fn := runtime.FuncForPC(pc); fn != nil {
		loc.Func = fn.Name()
	}
	return loc
}

// Cause returns the error wrapped by the innermost Located in the chain of err,
// so that the message tells what happened without where.
//
// If err has no Located, err itself is returned.
func Cause(err error) error {
	cause := err
	for e := err; e != nil; e = errors.Unwrap(e) {
		if loc, ok := e.(*Located); ok {
			cause = loc.err
		}
	}
	return cause
}
