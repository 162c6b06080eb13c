package retry

import (
	"context"
	"errors"
	"fmt"
	"time"
)

var (
	// f returns this (or an error wrapping this) to be retried.
	ErrRetry = errors.New("retry")

	// backoff gives up.
	ErrExhausted = errors.New("retry exhausted")
)

// Backoff is a (blocking) function returns when to retry.
//
// # Args
//
// - context: context. If context is canceled, Backoff should return ctx.Err().
//
// # Returns
//
// - error: nil if retry, non-nil if not.
type Backoff func(context.Context) error

// StaticBackoff returns a Backoff function that waits for a fixed interval.
func StaticBackoff(interval time.Duration) Backoff {
	return ExponentialBackoff(interval, 1)
}

// ExponentialBackoff returns a Backoff function that waits with exponential backoff.
//
// For N-th call, it waits for `initialInterval * r^N` or context to be done.
func ExponentialBackoff(initialInterval time.Duration, r float64) Backoff {
	interval := initialInterval
	return func(ctx context.Context) error {
		timer := time.NewTimer(interval)
		defer timer.Stop()

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
			interval = time.Duration(float64(interval) * r)
			return nil
		}
	}
}

// Limit restricts total attempts.
//
// The returned Backoff allows attempts-1 retries, and after that, it returns ErrExhausted.
func Limit(attempts int, b Backoff) Backoff {
	retries := 0
	return func(ctx context.Context) error {
		retries += 1
		if attempts <= retries {
			return ErrExhausted
		}
		return b(ctx)
	}
}

// Blocking calls f until it returns nil or non-retry error.
//
// f is called at once, and retried after backoff.
//
// # Args
//
// - ctx: context
//
// - b: backoff function
//
// - f: function to be called. If f returns ErrRetry, Blocking calls f again after backoff.
//
// # Returns
//
// - T: last return value of f
//
// - error: error returned by f. When backoff gives up, the error from backoff
// is joined with the last error of f.
func Blocking[T any](ctx context.Context, b Backoff, f func(context.Context) (T, error)) (T, error) {
	for {
		last, err := f(ctx)
		if err == nil {
			return last, nil
		}
		if !errors.Is(err, ErrRetry) {
			return last, err
		}
		if berr := b(ctx); berr != nil {
			return last, errors.Join(berr, err)
		}
	}
}

type Result[T any] struct {
	Value T
	Err   error
}

// Go retries function f in background goroutine.
//
// Panics in f are delivered as error.
func Go[T any](ctx context.Context, b Backoff, f func(context.Context) (T, error)) <-chan Result[T] {
	ch := make(chan Result[T], 1)

	go func() {
		defer close(ch)
		defer func() {
			r := recover()
			var err error
			switch rr := r.(type) {
			case nil:
				return
			case error:
				err = rr
			default:
				err = fmt.Errorf("%+v", rr)
			}
			ch <- Result[T]{Err: err}
		}()

		ret, err := Blocking(ctx, b, f)
		ch <- Result[T]{Value: ret, Err: err}
	}()

	return ch
}
