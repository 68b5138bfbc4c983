// Package fetch reads the raw bytes of a remote dataset.
package fetch

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"resty.dev/v3"
)

// Fetcher is the byte-fetching boundary. Every failure is a *NetworkError.
type Fetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// NetworkError reports a transport failure or a non-2xx response. StatusCode is
// zero for transport failures.
type NetworkError struct {
	URL        string
	StatusCode int
	Status     string
	Err        error
}

func (e *NetworkError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("network error: %s: %s", e.URL, e.Err)
	}
	return fmt.Sprintf("network error: %s: %s", e.URL, e.Status)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

type Options struct {
	Timeout   time.Duration
	UserAgent string
}

type HTTPFetcher struct {
	client *resty.Client
}

func New(opts Options) *HTTPFetcher {
	client := resty.New()
	if opts.Timeout > 0 {
		client.SetTimeout(opts.Timeout)
	}
	if opts.UserAgent != "" {
		client.SetHeader("User-Agent", opts.UserAgent)
	}
	client.SetHeader("Cache-Control", "no-cache")

	return &HTTPFetcher{client: client}
}

// Fetch downloads url without caching.
func (f *HTTPFetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	log.Debugf("Fetching %s", url)

	resp, err := f.client.R().SetContext(ctx).Get(url)
	if err != nil {
		return nil, &NetworkError{URL: url, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode() < 200 || resp.StatusCode() > 299 {
		return nil, &NetworkError{URL: url, StatusCode: resp.StatusCode(), Status: resp.Status()}
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &NetworkError{URL: url, StatusCode: resp.StatusCode(), Err: err}
	}

	return data, nil
}

func (f *HTTPFetcher) Close() error {
	return f.client.Close()
}
