package populate

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/opst/landmarks/pkg/utils/retry"
)

// Downloader fetches content of url.
type Downloader func(ctx context.Context, url string) ([]byte, error)

// limit of image size to be downloaded.
const maxImageSize = 20 << 20

// HTTPDownloader downloads with GET request.
//
// Each attempt times out after timeout.
// Network errors and 5xx responses are retried up to attempts in total, waiting interval between them.
func HTTPDownloader(client *http.Client, timeout time.Duration, attempts int, interval time.Duration) Downloader {
	return func(ctx context.Context, url string) ([]byte, error) {
		return retry.Blocking(
			ctx, retry.Limit(attempts, retry.StaticBackoff(interval)),
			func(ctx context.Context) ([]byte, error) {
				ctx, cancel := context.WithTimeout(ctx, timeout)
				defer cancel()
				return get(ctx, client, url)
			},
		)
	}
}

func get(ctx context.Context, client *http.Client, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := client.Do(req)
	if err != nil {
		if errors.Is(ctx.Err(), context.Canceled) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %w", retry.ErrRetry, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode/100 == 5:
		return nil, fmt.Errorf("%w: %s responds %s", retry.ErrRetry, url, resp.Status)
	case resp.StatusCode/100 != 2:
		return nil, fmt.Errorf("%s responds %s", url, resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxImageSize+1))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", retry.ErrRetry, err)
	}
	if len(body) > maxImageSize {
		return nil, fmt.Errorf("%s is too large", url)
	}
	return body, nil
}
