package retry_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/opst/landmarks/pkg/utils/retry"
)

func TestBlocking(t *testing.T) {
	t.Run("when f succeeds at once, it does not wait", func(t *testing.T) {
		waited := 0
		b := func(context.Context) error { waited += 1; return nil }

		got, err := retry.Blocking(context.Background(), b, func(context.Context) (int, error) {
			return 42, nil
		})
		if err != nil || got != 42 {
			t.Errorf("got (%d, %v)", got, err)
		}
		if waited != 0 {
			t.Errorf("waited %d times", waited)
		}
	})

	t.Run("when f asks retry, it is called until success", func(t *testing.T) {
		calls := 0
		got, err := retry.Blocking(
			context.Background(), retry.StaticBackoff(time.Millisecond),
			func(context.Context) (string, error) {
				calls += 1
				if calls < 3 {
					return "", fmt.Errorf("%w: not yet", retry.ErrRetry)
				}
				return "done", nil
			},
		)
		if err != nil || got != "done" || calls != 3 {
			t.Errorf("got (%s, %v) in %d calls", got, err, calls)
		}
	})

	t.Run("when f fails without retry, it stops", func(t *testing.T) {
		expected := errors.New("fatal")
		calls := 0
		_, err := retry.Blocking(
			context.Background(), retry.StaticBackoff(time.Millisecond),
			func(context.Context) (int, error) { calls += 1; return 0, expected },
		)
		if !errors.Is(err, expected) || calls != 1 {
			t.Errorf("err = %v, calls = %d", err, calls)
		}
	})

	t.Run("when attempts are limited, it gives up", func(t *testing.T) {
		calls := 0
		_, err := retry.Blocking(
			context.Background(), retry.Limit(3, retry.StaticBackoff(time.Millisecond)),
			func(context.Context) (int, error) { calls += 1; return 0, retry.ErrRetry },
		)
		if !errors.Is(err, retry.ErrExhausted) || !errors.Is(err, retry.ErrRetry) {
			t.Errorf("unexpected error: %v", err)
		}
		if calls != 3 {
			t.Errorf("calls = %d", calls)
		}
	})

	t.Run("when context is canceled, it stops waiting", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := retry.Blocking(
			ctx, retry.StaticBackoff(time.Hour),
			func(context.Context) (int, error) { return 0, retry.ErrRetry },
		)
		if !errors.Is(err, context.Canceled) {
			t.Errorf("unexpected error: %v", err)
		}
	})
}

func TestGo(t *testing.T) {
	t.Run("panic in f is delivered as error", func(t *testing.T) {
		r := <-retry.Go(
			context.Background(), retry.StaticBackoff(time.Millisecond),
			func(context.Context) (int, error) { panic("boom") },
		)
		if r.Err == nil {
			t.Error("no error")
		}
	})
}
