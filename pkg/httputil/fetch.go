package httputil

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/matzehuels/kintree/pkg/observability"
)

// ErrStatus is wrapped by errors for unexpected HTTP status codes.
var ErrStatus = errors.New("unexpected status")

// MaxBodySize bounds the size of a fetched document.
const MaxBodySize = 32 << 20

// FetchOptions controls [Fetch].
type FetchOptions struct {
	Client   *http.Client
	Attempts int
	Delay    time.Duration
	Accept   string
}

// Fetch GETs url and returns the body.
func Fetch(ctx context.Context, url string, opts FetchOptions) ([]byte, error) {
	if opts.Client == nil {
		opts.Client = http.DefaultClient
	}
	if opts.Attempts <= 0 {
		opts.Attempts = 3
	}
	if opts.Delay <= 0 {
		opts.Delay = time.Second
	}

	var body []byte
	err := Retry(ctx, opts.Attempts, opts.Delay, func() error {
		var err error
		body, err = fetchOnce(ctx, url, opts)
		return err
	})
	return body, err
}

func fetchOnce(ctx context.Context, url string, opts FetchOptions) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	if opts.Accept != "" {
		req.Header.Set("Accept", opts.Accept)
	}

	hooks := observability.HTTP()
	host, path := req.URL.Host, req.URL.Path
	hooks.OnRequest(ctx, req.Method, host, path)

	start := time.Now()
	resp, err := opts.Client.Do(req)
	if err != nil {
		hooks.OnError(ctx, req.Method, host, path, err)
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, &RetryableError{Err: err}
	}
	defer resp.Body.Close()
	hooks.OnResponse(ctx, req.Method, host, path, resp.StatusCode, time.Since(start))

	if resp.StatusCode != http.StatusOK {
		err := fmt.Errorf("%w: %s", ErrStatus, resp.Status)
		if resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests {
			return nil, &RetryableError{Err: err}
		}
		return nil, err
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, MaxBodySize))
	if err != nil {
		return nil, &RetryableError{Err: err}
	}
	return data, nil
}
