// Package try holds a pair of (value, error) to be handled later.
//
// Mainly for tests:
//
//	conf := try.To(server.Load(path)).OrFatal(t)
package try

// Fataler is something like *testing.T or *log.Logger.
type Fataler interface {
	Fatal(...any)
}

// Either is a value or an error.
type Either[T any] interface {
	// Get returns (value, nil) or (zero value, error).
	Get() (T, error)

	// OrFatal returns the value, or calls Fatal with the error.
	//
	// If the Fataler has Helper() (like *testing.T), it is called before Fatal.
	OrFatal(Fataler) T

	// OrDefault returns the value, or the default when it has an error.
	OrDefault(T) T
}

func To[T any](value T, err error) Either[T] {
	return either[T]{value: value, err: err}
}

// Map converts the value if it has no error.
func Map[T, R any](e Either[T], f func(T) R) Either[R] {
	v, err := e.Get()
	if err != nil {
		return either[R]{err: err}
	}
	return either[R]{value: f(v)}
}

type either[T any] struct {
	value T
	err   error
}

func (e either[T]) Get() (T, error) {
	if e.err != nil {
		return *new(T), e.err
	}
	return e.value, nil
}

func (e either[T]) OrFatal(ftl Fataler) T {
	if e.err == nil {
		return e.value
	}
	if h, ok := ftl.(interface{ Helper() }); ok {
		h.Helper()
	}
	ftl.Fatal(e.err)
	return *new(T)
}

func (e either[T]) OrDefault(d T) T {
	if e.err != nil {
		return d
	}
	return e.value
}
